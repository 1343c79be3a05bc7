package engine

import (
	"sort"
	"strings"

	"github.com/bcvictoria/tournament-system/models"
)

// PlayerKey identifies an individual player across both events. Pairs are
// event-local, players are not: the same person may play doubles and mixed,
// so the busy check has to work on normalized player names.
type PlayerKey string

func NewPlayerKey(name string) PlayerKey {
	return PlayerKey(strings.ToLower(strings.TrimSpace(name)))
}

// BusyPlayers collects the player keys of every in-progress fixture. The
// caller feeds it the fixtures of the WHOLE tournament, not one event, in a
// single consistent read.
func BusyPlayers(matches []*models.PoolMatch, entrants []*models.Entrant) map[PlayerKey]struct{} {
	byID := make(map[int]*models.Entrant, len(entrants))
	for _, e := range entrants {
		byID[e.ID] = e
	}
	busy := make(map[PlayerKey]struct{})
	for _, m := range matches {
		if !m.InProgress {
			continue
		}
		for _, id := range []int{m.EntrantAID, m.EntrantBID} {
			if e, ok := byID[id]; ok {
				busy[NewPlayerKey(e.Player1)] = struct{}{}
				busy[NewPlayerKey(e.Player2)] = struct{}{}
			}
		}
	}
	return busy
}

// candidateScore is the lexicographic fairness tuple of one playable
// fixture, most deserving first.
type candidateScore struct {
	match      *models.PoolMatch
	pairDebt   int // both pairs' games behind the busiest pair, higher first
	playerDebt int // all four players' games behind the busiest player, higher first
	backlog    int // unplayed fixtures still involving any of the four players, higher first
	balance    int // |games played A - games played B|, lower first
	remaining  int // unplayed fixtures of the two pairs, higher first
}

func (c *candidateScore) less(o *candidateScore) bool {
	if c.pairDebt != o.pairDebt {
		return c.pairDebt > o.pairDebt
	}
	if c.playerDebt != o.playerDebt {
		return c.playerDebt > o.playerDebt
	}
	if c.backlog != o.backlog {
		return c.backlog > o.backlog
	}
	if c.balance != o.balance {
		return c.balance < o.balance
	}
	if c.remaining != o.remaining {
		return c.remaining > o.remaining
	}
	if c.match.PoolNumber != o.match.PoolNumber {
		return c.match.PoolNumber < o.match.PoolNumber
	}
	return c.match.OrderInPool < o.match.OrderInPool
}

// RecommendNextMatch picks the fairest fixture of one event to send on
// court: unscored, not already playing, and none of its four players busy
// anywhere in the tournament. Pure ranking over the snapshot; recomputed
// from scratch on every call and never mutating anything. Returns nil when
// nothing is playable.
func RecommendNextMatch(matches []*models.PoolMatch, entrants []*models.Entrant, busy map[PlayerKey]struct{}) *models.PoolMatch {
	byID := make(map[int]*models.Entrant, len(entrants))
	for _, e := range entrants {
		byID[e.ID] = e
	}

	pairPlayed := make(map[int]int)
	pairUnplayed := make(map[int]int)
	playerPlayed := make(map[PlayerKey]int)
	unplayedByFixture := make([][]PlayerKey, 0)
	for _, m := range matches {
		var fixtureKeys []PlayerKey
		for _, id := range []int{m.EntrantAID, m.EntrantBID} {
			e, ok := byID[id]
			if !ok {
				continue
			}
			if m.Scored() {
				pairPlayed[id]++
				playerPlayed[NewPlayerKey(e.Player1)]++
				playerPlayed[NewPlayerKey(e.Player2)]++
			} else {
				pairUnplayed[id]++
				fixtureKeys = append(fixtureKeys,
					NewPlayerKey(e.Player1), NewPlayerKey(e.Player2))
			}
		}
		if len(fixtureKeys) > 0 {
			unplayedByFixture = append(unplayedByFixture, fixtureKeys)
		}
	}
	maxPairPlayed := 0
	for _, n := range pairPlayed {
		if n > maxPairPlayed {
			maxPairPlayed = n
		}
	}
	maxPlayerPlayed := 0
	for _, n := range playerPlayed {
		if n > maxPlayerPlayed {
			maxPlayerPlayed = n
		}
	}

	candidates := make([]*candidateScore, 0)
	for _, m := range matches {
		if m.Scored() || m.InProgress {
			continue
		}
		a, okA := byID[m.EntrantAID]
		b, okB := byID[m.EntrantBID]
		if !okA || !okB {
			continue
		}
		keys := []PlayerKey{
			NewPlayerKey(a.Player1), NewPlayerKey(a.Player2),
			NewPlayerKey(b.Player1), NewPlayerKey(b.Player2),
		}
		if anyBusy(keys, busy) {
			continue
		}

		score := &candidateScore{match: m}
		score.pairDebt = (maxPairPlayed - pairPlayed[m.EntrantAID]) +
			(maxPairPlayed - pairPlayed[m.EntrantBID])
		keySet := make(map[PlayerKey]struct{}, len(keys))
		for _, k := range keys {
			score.playerDebt += maxPlayerPlayed - playerPlayed[k]
			keySet[k] = struct{}{}
		}
		// Each unplayed fixture counts once, however many of the four
		// players it touches.
		for _, fixtureKeys := range unplayedByFixture {
			for _, k := range fixtureKeys {
				if _, ok := keySet[k]; ok {
					score.backlog++
					break
				}
			}
		}
		score.balance = pairPlayed[m.EntrantAID] - pairPlayed[m.EntrantBID]
		if score.balance < 0 {
			score.balance = -score.balance
		}
		score.remaining = pairUnplayed[m.EntrantAID] + pairUnplayed[m.EntrantBID]
		candidates = append(candidates, score)
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].less(candidates[j])
	})
	return candidates[0].match
}

func anyBusy(keys []PlayerKey, busy map[PlayerKey]struct{}) bool {
	for _, k := range keys {
		if _, ok := busy[k]; ok {
			return true
		}
	}
	return false
}
