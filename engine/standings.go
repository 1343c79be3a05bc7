package engine

import (
	"fmt"
	"sort"

	"github.com/bcvictoria/tournament-system/models"
)

// PoolStandings is the recomputed-on-demand ranking of every pool of one
// event, plus progress counters for the pool phase as a whole.
type PoolStandings struct {
	ByPool          map[int][]*models.Standing `json:"by_pool"`
	ScoredMatches   int                        `json:"scored_matches"`
	ExpectedMatches int                        `json:"expected_matches"`
}

// PoolNumbers returns the pool numbers in ascending order.
func (ps *PoolStandings) PoolNumbers() []int {
	numbers := make([]int, 0, len(ps.ByPool))
	for n := range ps.ByPool {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}

// TotalEntrants counts the standings across all pools.
func (ps *PoolStandings) TotalEntrants() int {
	total := 0
	for _, pool := range ps.ByPool {
		total += len(pool)
	}
	return total
}

// pairKey addresses an unordered entrant pair for head-to-head lookups.
type pairKey struct {
	lo, hi int
}

func makePairKey(a, b int) pairKey {
	if a < b {
		return pairKey{a, b}
	}
	return pairKey{b, a}
}

// ComputeStandings aggregates the scored fixtures of one event into ranked
// per-pool standings. A tied score is rejected: ties are not a valid result
// and must be caught before they are stored.
func ComputeStandings(entrants []*models.Entrant, matches []*models.PoolMatch) (*PoolStandings, error) {
	byID := make(map[int]*models.Entrant, len(entrants))
	for _, e := range entrants {
		byID[e.ID] = e
	}

	standings := make(map[int]*models.Standing)
	headToHead := make(map[pairKey]int)
	result := &PoolStandings{ByPool: make(map[int][]*models.Standing)}

	standingFor := func(entrantID, poolNumber int) (*models.Standing, error) {
		if s, ok := standings[entrantID]; ok {
			return s, nil
		}
		entrant, ok := byID[entrantID]
		if !ok {
			return nil, fmt.Errorf("%w: entrant %d", ErrUnknownEntrant, entrantID)
		}
		s := &models.Standing{Entrant: entrant, PoolNumber: poolNumber}
		standings[entrantID] = s
		result.ByPool[poolNumber] = append(result.ByPool[poolNumber], s)
		return s, nil
	}

	for _, m := range matches {
		result.ExpectedMatches++

		a, err := standingFor(m.EntrantAID, m.PoolNumber)
		if err != nil {
			return nil, err
		}
		b, err := standingFor(m.EntrantBID, m.PoolNumber)
		if err != nil {
			return nil, err
		}
		if !m.Scored() {
			continue
		}
		if *m.ScoreA == *m.ScoreB {
			return nil, fmt.Errorf("%w: match %d", ErrTiedPoolScore, m.ID)
		}

		result.ScoredMatches++
		a.Played++
		b.Played++
		a.PointsFor += *m.ScoreA
		a.PointsAgainst += *m.ScoreB
		b.PointsFor += *m.ScoreB
		b.PointsAgainst += *m.ScoreA
		if *m.ScoreA > *m.ScoreB {
			a.Wins++
			b.Losses++
			headToHead[makePairKey(m.EntrantAID, m.EntrantBID)] = m.EntrantAID
		} else {
			b.Wins++
			a.Losses++
			headToHead[makePairKey(m.EntrantAID, m.EntrantBID)] = m.EntrantBID
		}
		a.Diff = a.PointsFor - a.PointsAgainst
		b.Diff = b.PointsFor - b.PointsAgainst
	}

	for _, pool := range result.ByPool {
		rankPool(pool, headToHead)
	}
	return result, nil
}

// standingCmp compares two standings; negative means a ranks before b.
type standingCmp func(a, b *models.Standing) int

// compareChain folds an ordered comparator list left to right, the
// tagged-comparator-chain pattern: the first non-zero key decides.
func compareChain(a, b *models.Standing, chain []standingCmp) int {
	for _, cmp := range chain {
		if c := cmp(a, b); c != 0 {
			return c
		}
	}
	return 0
}

func winsDesc(a, b *models.Standing) int      { return b.Wins - a.Wins }
func diffDesc(a, b *models.Standing) int      { return b.Diff - a.Diff }
func pointsForDesc(a, b *models.Standing) int { return b.PointsFor - a.PointsFor }
func poolRankAsc(a, b *models.Standing) int   { return a.Rank - b.Rank }
func entrantIDAsc(a, b *models.Standing) int  { return a.Entrant.ID - b.Entrant.ID }
func strengthAsc(a, b *models.Standing) int   { return a.Entrant.Strength() - b.Entrant.Strength() }

func seedAsc(a, b *models.Standing) int {
	return a.Entrant.SeedOrLast() - b.Entrant.SeedOrLast()
}

// headToHeadCmp breaks a tie in favor of the side that beat the other, when
// the two actually met and one of them won.
func headToHeadCmp(h2h map[pairKey]int) standingCmp {
	return func(a, b *models.Standing) int {
		winner, ok := h2h[makePairKey(a.Entrant.ID, b.Entrant.ID)]
		if !ok {
			return 0
		}
		if winner == a.Entrant.ID {
			return -1
		}
		return 1
	}
}

// poolChain is the within-pool ranking order. The chain terminates in the
// entrant id so the order is total: two standings never truly tie.
func poolChain(h2h map[pairKey]int) []standingCmp {
	return []standingCmp{
		winsDesc,
		diffDesc,
		pointsForDesc,
		headToHeadCmp(h2h),
		seedAsc,
		strengthAsc,
		entrantIDAsc,
	}
}

// globalChain ranks standings across pools for wildcard fill and bracket
// seeding. Head-to-head is deliberately absent here; the in-pool rank takes
// its place.
func globalChain() []standingCmp {
	return []standingCmp{
		winsDesc,
		diffDesc,
		pointsForDesc,
		poolRankAsc,
		seedAsc,
		strengthAsc,
		entrantIDAsc,
	}
}

func rankPool(pool []*models.Standing, h2h map[pairKey]int) {
	chain := poolChain(h2h)
	sort.SliceStable(pool, func(i, j int) bool {
		return compareChain(pool[i], pool[j], chain) < 0
	})
	for i, s := range pool {
		s.Rank = i + 1
	}
}

// SortGlobal orders standings by the cross-pool comparator, in place.
func SortGlobal(standings []*models.Standing) {
	chain := globalChain()
	sort.SliceStable(standings, func(i, j int) bool {
		return compareChain(standings[i], standings[j], chain) < 0
	})
}
