package engine

import (
	"sort"

	"github.com/bcvictoria/tournament-system/models"
)

// stageIndex groups one event's knockout matches by stage, each stage sorted
// by order. Stage numbers index the bracket from the first round (1) to the
// final.
func stageIndex(all []*models.KnockoutMatch) (map[int][]*models.KnockoutMatch, int) {
	stages := make(map[int][]*models.KnockoutMatch)
	last := 0
	for _, m := range all {
		stages[m.Stage] = append(stages[m.Stage], m)
		if m.Stage > last {
			last = m.Stage
		}
	}
	for _, matches := range stages {
		sort.Slice(matches, func(i, j int) bool {
			return matches[i].OrderInStage < matches[j].OrderInStage
		})
	}
	return stages, last
}

func stageDecided(matches []*models.KnockoutMatch) bool {
	for _, m := range matches {
		if !m.Decided() {
			return false
		}
	}
	return true
}

// Propagate advances decided winners into the next stage's slots, stage by
// stage from the first round. A stage only feeds forward once every one of
// its matches is decided; the walk stops at the first undecided stage and
// never touches anything beyond it. Matches whose incoming slots change get
// their stale games and scores cleared and are unlocked; a match left with a
// single opponent is decided as a bye on the spot.
//
// Propagation is idempotent: only matches it actually changed are returned,
// and a second call with the same input returns nothing.
func Propagate(all []*models.KnockoutMatch) []*models.KnockoutMatch {
	stages, last := stageIndex(all)

	var changed []*models.KnockoutMatch
	for s := 1; s < last; s++ {
		if !stageDecided(stages[s]) {
			break
		}
		source := stages[s]
		for i, match := range stages[s+1] {
			var wantA, wantB *int
			if 2*i < len(source) {
				wantA = source[2*i].WinnerID
			}
			if 2*i+1 < len(source) {
				wantB = source[2*i+1].WinnerID
			}
			if feedMatch(match, wantA, wantB) {
				changed = append(changed, match)
			}
		}
	}
	return changed
}

// feedMatch applies incoming slot values to a match and reports whether it
// mutated anything. Unchanged slots leave an already-entered result alone.
func feedMatch(match *models.KnockoutMatch, wantA, wantB *int) bool {
	mutated := false
	if !intPtrEqual(match.SlotAID, wantA) || !intPtrEqual(match.SlotBID, wantB) {
		match.SlotAID = copyIntPtr(wantA)
		match.SlotBID = copyIntPtr(wantB)
		match.Games = nil
		match.ScoreA = nil
		match.ScoreB = nil
		match.WinnerID = nil
		mutated = true
	}
	if !match.Unlocked {
		match.Unlocked = true
		mutated = true
	}
	if match.IsBye() && !match.Decided() {
		winner := match.SlotAID
		if winner == nil {
			winner = match.SlotBID
		}
		match.WinnerID = copyIntPtr(winner)
		mutated = true
	}
	return mutated
}

// InvalidateDownstream resets every match in stages strictly after fromStage
// to locked and empty. Called whenever an already-decided result changes, so
// the bracket never shows a pairing derived from a result that no longer
// stands. Returns the matches it reset.
func InvalidateDownstream(all []*models.KnockoutMatch, fromStage int) []*models.KnockoutMatch {
	var changed []*models.KnockoutMatch
	for _, m := range all {
		if m.Stage <= fromStage {
			continue
		}
		if m.SlotAID == nil && m.SlotBID == nil && !m.HasScore() &&
			m.ScoreA == nil && m.ScoreB == nil && !m.Decided() && !m.Unlocked {
			continue
		}
		m.SlotAID = nil
		m.SlotBID = nil
		m.Games = nil
		m.ScoreA = nil
		m.ScoreB = nil
		m.WinnerID = nil
		m.Unlocked = false
		changed = append(changed, m)
	}
	return changed
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func copyIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
