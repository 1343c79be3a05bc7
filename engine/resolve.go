package engine

import (
	"github.com/bcvictoria/tournament-system/models"
)

// GameEntry is one per-game score pair as entered by the admin. Both scores
// are nullable until the game has been played.
type GameEntry struct {
	ScoreA *int `json:"score_a"`
	ScoreB *int `json:"score_b"`
}

// Resolution is the interpreted result of a knockout match: the validated
// completed games, the aggregate score (raw points for best-of-1, games won
// for best-of-3) and the winner, which stays nil while the match is still
// undecided.
type Resolution struct {
	Games      []models.GameScore
	AggregateA int
	AggregateB int
	WinnerID   *int
}

func (r *Resolution) Decided() bool {
	return r.WinnerID != nil
}

// ResolveMatch validates the entered games against the match format and
// derives the winner. Games must be contiguous from game 1, each game needs
// both scores or neither, and a game can never be tied. A bye match resolves
// to its only opponent and accepts no score at all.
func ResolveMatch(match *models.KnockoutMatch, entries []GameEntry) (*Resolution, error) {
	if match.IsBye() {
		for _, e := range entries {
			if e.ScoreA != nil || e.ScoreB != nil {
				return nil, ErrByeHasScore
			}
		}
		winner := match.SlotAID
		if winner == nil {
			winner = match.SlotBID
		}
		return &Resolution{WinnerID: copyIntPtr(winner)}, nil
	}
	if !match.SlotsComplete() {
		return nil, ErrSlotsIncomplete
	}
	if len(entries) > match.Format.MaxGames() {
		return nil, ErrTooManyGames
	}

	games, err := completedGames(entries)
	if err != nil {
		return nil, err
	}

	switch match.Format {
	case models.FormatBestOfThree:
		return resolveBestOfThree(match, games)
	default:
		return resolveBestOfOne(match, games)
	}
}

// completedGames checks the contiguity, both-or-neither and no-tie rules and
// returns the fully entered games in order.
func completedGames(entries []GameEntry) ([]models.GameScore, error) {
	games := make([]models.GameScore, 0, len(entries))
	blankSeen := false
	for _, e := range entries {
		if (e.ScoreA != nil) != (e.ScoreB != nil) {
			return nil, ErrHalfGame
		}
		if e.ScoreA == nil {
			blankSeen = true
			continue
		}
		if blankSeen {
			return nil, ErrGameGap
		}
		if *e.ScoreA < 0 || *e.ScoreB < 0 {
			return nil, ErrNegativeScore
		}
		if *e.ScoreA == *e.ScoreB {
			return nil, ErrTiedGame
		}
		games = append(games, models.GameScore{A: *e.ScoreA, B: *e.ScoreB})
	}
	return games, nil
}

func resolveBestOfOne(match *models.KnockoutMatch, games []models.GameScore) (*Resolution, error) {
	res := &Resolution{Games: games}
	if len(games) == 0 {
		return res, nil
	}
	game := games[0]
	res.AggregateA = game.A
	res.AggregateB = game.B
	if game.A > game.B {
		res.WinnerID = copyIntPtr(match.SlotAID)
	} else {
		res.WinnerID = copyIntPtr(match.SlotBID)
	}
	return res, nil
}

func resolveBestOfThree(match *models.KnockoutMatch, games []models.GameScore) (*Resolution, error) {
	res := &Resolution{Games: games}
	winsA, winsB := 0, 0
	for _, game := range games {
		if winsA == 2 || winsB == 2 {
			return nil, ErrUnneededGame
		}
		if game.A > game.B {
			winsA++
		} else {
			winsB++
		}
	}
	res.AggregateA = winsA
	res.AggregateB = winsB
	if winsA == 2 {
		res.WinnerID = copyIntPtr(match.SlotAID)
	} else if winsB == 2 {
		res.WinnerID = copyIntPtr(match.SlotBID)
	}
	return res, nil
}
