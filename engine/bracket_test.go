package engine

import (
	"testing"

	"github.com/bcvictoria/tournament-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBracketSize(t *testing.T) {
	tests := []struct{ n, want int }{
		{0, 1}, {1, 1}, {2, 2}, {3, 4}, {4, 4}, {5, 8}, {8, 8}, {9, 16}, {16, 16},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BracketSize(tt.n), "n=%d", tt.n)
	}
}

func TestSeedOrder(t *testing.T) {
	assert.Equal(t, []int{1}, SeedOrder(1))
	assert.Equal(t, []int{1, 2}, SeedOrder(2))
	assert.Equal(t, []int{1, 4, 2, 3}, SeedOrder(4))
	assert.Equal(t, []int{1, 8, 4, 5, 2, 7, 3, 6}, SeedOrder(8))

	// Each consecutive slot pair sums to size+1: the classic property that
	// keeps top seeds apart until the final.
	order := SeedOrder(16)
	for i := 0; i < len(order); i += 2 {
		assert.Equal(t, 17, order[i]+order[i+1])
	}
}

func TestBuildBracketFull(t *testing.T) {
	qualifiers := seededEntrants(8)
	plan := BuildBracket(models.EventDoubles, qualifiers, models.FormatBestOfThree)

	assert.Equal(t, 8, plan.Size)
	assert.Equal(t, 3, plan.Rounds)
	require.Len(t, plan.Matches, 7)

	byStage := make(map[int][]*models.KnockoutMatch)
	for _, m := range plan.Matches {
		byStage[m.Stage] = append(byStage[m.Stage], m)
	}
	require.Len(t, byStage[1], 4)
	require.Len(t, byStage[2], 2)
	require.Len(t, byStage[3], 1)

	for _, m := range byStage[1] {
		assert.True(t, m.Unlocked)
		assert.True(t, m.SlotsComplete(), "full bracket has no byes")
		assert.False(t, m.Decided())
		assert.Equal(t, models.FormatBestOfThree, m.Format)
	}
	// Seed 1 opens against seed 8.
	assert.Equal(t, qualifiers[0].ID, *byStage[1][0].SlotAID)
	assert.Equal(t, qualifiers[7].ID, *byStage[1][0].SlotBID)

	for _, stage := range []int{2, 3} {
		for _, m := range byStage[stage] {
			assert.False(t, m.Unlocked, "later stages start locked")
			assert.Nil(t, m.SlotAID)
			assert.Nil(t, m.SlotBID)
			assert.Nil(t, m.WinnerID)
		}
	}
}

func TestBuildBracketByes(t *testing.T) {
	qualifiers := seededEntrants(6)
	plan := BuildBracket(models.EventDoubles, qualifiers, models.FormatBestOfOne)

	assert.Equal(t, 8, plan.Size)
	assert.Equal(t, 3, plan.Rounds)

	byes := 0
	for _, m := range plan.Matches {
		if m.Stage != 1 {
			continue
		}
		if m.IsBye() {
			byes++
			require.True(t, m.Decided(), "a bye decides immediately")
			assert.False(t, m.HasScore())
			winner := m.SlotAID
			if winner == nil {
				winner = m.SlotBID
			}
			assert.Equal(t, *winner, *m.WinnerID)
		}
	}
	assert.Equal(t, 2, byes)

	// Byes belong to the numerically lowest seeds: 1 and 2 sit opposite the
	// missing seeds 8 and 7.
	byeWinners := map[int]bool{}
	for _, m := range plan.Matches {
		if m.Stage == 1 && m.IsBye() {
			byeWinners[*m.WinnerID] = true
		}
	}
	assert.True(t, byeWinners[qualifiers[0].ID])
	assert.True(t, byeWinners[qualifiers[1].ID])
}

func TestBuildBracketDegenerate(t *testing.T) {
	plan := BuildBracket(models.EventDoubles, nil, models.FormatBestOfOne)
	assert.Equal(t, 1, plan.Size)
	assert.Equal(t, 0, plan.Rounds)
	assert.Empty(t, plan.Matches)

	plan = BuildBracket(models.EventDoubles, seededEntrants(1), models.FormatBestOfOne)
	assert.Equal(t, 1, plan.Size)
	assert.Empty(t, plan.Matches, "a single qualifier needs no bracket")
}
