package engine

import (
	"testing"

	"github.com/bcvictoria/tournament-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFullProgression walks ten seeded pairs from pool assignment through a
// decided final: the complete path an event takes on a club evening.
func TestFullProgression(t *testing.T) {
	entrants := seededEntrants(10)

	pools, err := AssignPools(entrants, 3)
	require.NoError(t, err)
	require.Len(t, pools, 3)
	assert.Len(t, pools[0], 4)
	assert.Len(t, pools[1], 3)
	assert.Len(t, pools[2], 3)

	fixtures := RoundRobinFixtures(pools)
	require.Len(t, fixtures, 6+3+3)

	// Play out every pool: the better seed always wins, 21 to 21 minus the
	// loser's seed so every differential is distinct.
	matches := make([]*models.PoolMatch, len(fixtures))
	for i, f := range fixtures {
		winner, loser := f.A, f.B
		if *loser.SeedRank < *winner.SeedRank {
			winner, loser = loser, winner
		}
		m := &models.PoolMatch{
			ID:          i + 1,
			Event:       models.EventDoubles,
			PoolNumber:  f.PoolNumber,
			OrderInPool: f.OrderInPool,
			EntrantAID:  f.A.ID,
			EntrantBID:  f.B.ID,
		}
		scoreWinner, scoreLoser := 21, 21-*loser.SeedRank
		if winner == f.A {
			m.ScoreA, m.ScoreB = &scoreWinner, &scoreLoser
		} else {
			m.ScoreA, m.ScoreB = &scoreLoser, &scoreWinner
		}
		matches[i] = m
	}

	standings, err := ComputeStandings(entrants, matches)
	require.NoError(t, err)
	assert.Equal(t, 12, standings.ScoredMatches)
	assert.Equal(t, 12, standings.ExpectedMatches)

	selection := SelectQualifiers(standings, 8)
	require.Len(t, selection.Qualifiers, 8)
	require.Len(t, selection.Eliminated, 2)

	qualifierEntrants := make([]*models.Entrant, len(selection.Qualifiers))
	for i, s := range selection.Qualifiers {
		qualifierEntrants[i] = s.Entrant
	}

	plan := BuildBracket(models.EventDoubles, qualifierEntrants, models.FormatBestOfThree)
	assert.Equal(t, 8, plan.Size)
	assert.Equal(t, 3, plan.Rounds)
	for _, m := range plan.Matches {
		if m.Stage == 1 {
			assert.True(t, m.SlotsComplete(), "eight qualifiers leave no byes")
		}
	}

	// Decide every stage in slot A's favor and propagate to the end.
	all := plan.Matches
	for stage := 1; stage <= plan.Rounds; stage++ {
		for _, m := range stageMatches(all, stage) {
			res, err := ResolveMatch(m, []GameEntry{
				game(21, 15), game(21, 18),
			})
			require.NoError(t, err)
			require.True(t, res.Decided())
			m.Games = res.Games
			m.ScoreA = &res.AggregateA
			m.ScoreB = &res.AggregateB
			m.WinnerID = res.WinnerID
		}
		Propagate(all)
	}

	final := stageMatches(all, plan.Rounds)[0]
	require.True(t, final.Decided(), "a decided final determines the event winner")

	// The top seed won every match it played.
	assert.Equal(t, qualifierEntrants[0].ID, *final.WinnerID)
}
