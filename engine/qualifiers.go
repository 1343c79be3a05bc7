package engine

import (
	"sort"

	"github.com/bcvictoria/tournament-system/models"
)

// QualifierSelection is the outcome of picking which standings advance to
// the knockout stage.
type QualifierSelection struct {
	// Qualifiers in bracket seeding order (global comparator over the full
	// selected set).
	Qualifiers []*models.Standing
	// Eliminated, sorted by (pool, in-pool rank). Display only.
	Eliminated []*models.Standing
}

// SelectQualifiers picks advanceCount standings: an equal base quota from
// the top of every pool, then wildcards from the remaining standings across
// all pools ranked by the global comparator. advanceCount is clamped to
// [0, total entrants].
func SelectQualifiers(standings *PoolStandings, advanceCount int) *QualifierSelection {
	total := standings.TotalEntrants()
	if advanceCount < 0 {
		advanceCount = 0
	}
	if advanceCount > total {
		advanceCount = total
	}

	selection := &QualifierSelection{
		Qualifiers: make([]*models.Standing, 0, advanceCount),
		Eliminated: make([]*models.Standing, 0, total-advanceCount),
	}
	poolNumbers := standings.PoolNumbers()
	if len(poolNumbers) == 0 {
		return selection
	}

	quota := advanceCount / len(poolNumbers)
	selected := make(map[*models.Standing]bool, advanceCount)
	for _, n := range poolNumbers {
		pool := standings.ByPool[n]
		take := quota
		if take > len(pool) {
			take = len(pool)
		}
		for _, s := range pool[:take] {
			selected[s] = true
			selection.Qualifiers = append(selection.Qualifiers, s)
		}
	}

	// Wildcard fill: the leftover slots go to the best of the rest,
	// regardless of pool.
	if remaining := advanceCount - len(selection.Qualifiers); remaining > 0 {
		candidates := make([]*models.Standing, 0, total-len(selection.Qualifiers))
		for _, n := range poolNumbers {
			for _, s := range standings.ByPool[n] {
				if !selected[s] {
					candidates = append(candidates, s)
				}
			}
		}
		SortGlobal(candidates)
		for _, s := range candidates[:remaining] {
			selected[s] = true
			selection.Qualifiers = append(selection.Qualifiers, s)
		}
	}

	SortGlobal(selection.Qualifiers)

	for _, n := range poolNumbers {
		for _, s := range standings.ByPool[n] {
			if !selected[s] {
				selection.Eliminated = append(selection.Eliminated, s)
			}
		}
	}
	sort.SliceStable(selection.Eliminated, func(i, j int) bool {
		a, b := selection.Eliminated[i], selection.Eliminated[j]
		if a.PoolNumber != b.PoolNumber {
			return a.PoolNumber < b.PoolNumber
		}
		return a.Rank < b.Rank
	})

	return selection
}
