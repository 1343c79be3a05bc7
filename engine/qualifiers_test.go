package engine

import (
	"testing"

	"github.com/bcvictoria/tournament-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// threePoolStandings builds ten ranked standings over pools of 4, 3 and 3,
// with wins arranged so that ranking inside each pool is unambiguous.
func threePoolStandings(t *testing.T) *PoolStandings {
	t.Helper()

	entrants := seededEntrants(10)
	pools, err := AssignPools(entrants, 3)
	require.NoError(t, err)

	matches := make([]*models.PoolMatch, 0)
	id := 0
	for poolIdx, members := range pools {
		order := 0
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				id++
				order++
				// The earlier member always wins, with a margin that shrinks
				// with its position so the differentials stay distinct.
				matches = append(matches, scoredMatch(
					id, poolIdx+1, order,
					members[i].ID, members[j].ID,
					21, 10+i,
				))
			}
		}
	}

	standings, err := ComputeStandings(entrants, matches)
	require.NoError(t, err)
	return standings
}

func TestSelectQualifiersQuotaAndWildcards(t *testing.T) {
	standings := threePoolStandings(t)

	selection := SelectQualifiers(standings, 8)

	require.Len(t, selection.Qualifiers, 8)
	require.Len(t, selection.Eliminated, 2)

	seen := make(map[int]bool)
	for _, s := range selection.Qualifiers {
		assert.False(t, seen[s.Entrant.ID], "entrant selected twice")
		seen[s.Entrant.ID] = true
	}

	// Base quota floor(8/3)=2: the top two of every pool always advance.
	for _, n := range standings.PoolNumbers() {
		pool := standings.ByPool[n]
		for _, s := range pool[:2] {
			assert.True(t, seen[s.Entrant.ID], "pool %d rank %d must advance", n, s.Rank)
		}
	}

	// Eliminated come back sorted by (pool, rank) for display.
	for i := 1; i < len(selection.Eliminated); i++ {
		prev, cur := selection.Eliminated[i-1], selection.Eliminated[i]
		assert.True(t, prev.PoolNumber < cur.PoolNumber ||
			(prev.PoolNumber == cur.PoolNumber && prev.Rank < cur.Rank))
	}
}

func TestSelectQualifiersClamping(t *testing.T) {
	standings := threePoolStandings(t)

	tests := []struct {
		name    string
		advance int
		want    int
	}{
		{"negative clamps to zero", -5, 0},
		{"zero advances nobody", 0, 0},
		{"above total clamps to total", 99, 10},
		{"exact total", 10, 10},
		{"odd count", 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selection := SelectQualifiers(standings, tt.advance)
			assert.Len(t, selection.Qualifiers, tt.want)
			assert.Len(t, selection.Eliminated, 10-tt.want)
		})
	}
}

func TestSelectQualifiersGlobalOrder(t *testing.T) {
	standings := threePoolStandings(t)
	selection := SelectQualifiers(standings, 6)

	chain := globalChain()
	for i := 1; i < len(selection.Qualifiers); i++ {
		c := compareChain(selection.Qualifiers[i-1], selection.Qualifiers[i], chain)
		assert.Negative(t, c, "qualifiers must come out in global comparator order")
	}
}

func TestSelectQualifiersEmpty(t *testing.T) {
	selection := SelectQualifiers(&PoolStandings{ByPool: map[int][]*models.Standing{}}, 4)
	assert.Empty(t, selection.Qualifiers)
	assert.Empty(t, selection.Eliminated)
}
