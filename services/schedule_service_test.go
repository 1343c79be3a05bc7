package services

import (
	"context"
	"testing"

	"github.com/bcvictoria/tournament-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// crossEventFixture sets up one doubles fixture and one mixed fixture that
// share a player, the situation the busy set exists for.
func crossEventFixture(t *testing.T) (*fakeEntrantRepo, *fakePoolRepo, *models.PoolMatch, *models.PoolMatch) {
	t.Helper()
	ctx := context.Background()
	entrantRepo := newFakeEntrantRepo()
	poolRepo := newFakePoolRepo()

	pairs := []*models.Entrant{
		{Event: models.EventDoubles, Player1: "Alice", Player2: "Bob", Level1: 2, Level2: 3},
		{Event: models.EventDoubles, Player1: "Carol", Player2: "Dave", Level1: 3, Level2: 3},
		{Event: models.EventMixed, Player1: "Alice", Player2: "Erin", Level1: 2, Level2: 4},
		{Event: models.EventMixed, Player1: "Frank", Player2: "Grace", Level1: 4, Level2: 4},
	}
	for _, e := range pairs {
		require.NoError(t, entrantRepo.Create(ctx, nil, e))
	}

	doublesMatch := &models.PoolMatch{
		Event: models.EventDoubles, PoolNumber: 1, OrderInPool: 1,
		EntrantAID: pairs[0].ID, EntrantBID: pairs[1].ID,
	}
	mixedMatch := &models.PoolMatch{
		Event: models.EventMixed, PoolNumber: 1, OrderInPool: 1,
		EntrantAID: pairs[2].ID, EntrantBID: pairs[3].ID,
	}
	require.NoError(t, poolRepo.CreateMatch(ctx, nil, doublesMatch))
	require.NoError(t, poolRepo.CreateMatch(ctx, nil, mixedMatch))
	return entrantRepo, poolRepo, doublesMatch, mixedMatch
}

func TestSetMatchPlayingBlocksCrossEventConflicts(t *testing.T) {
	ctx := context.Background()
	entrantRepo, poolRepo, doublesMatch, mixedMatch := crossEventFixture(t)
	svc := NewScheduleService(entrantRepo, poolRepo, &fakeBroadcaster{}, testLogger())

	require.NoError(t, svc.SetMatchPlaying(ctx, doublesMatch.ID, true))

	// Alice is on court in doubles; her mixed fixture cannot start.
	err := svc.SetMatchPlaying(ctx, mixedMatch.ID, true)
	assert.ErrorIs(t, err, ErrPlayersBusy)

	require.NoError(t, svc.SetMatchPlaying(ctx, doublesMatch.ID, false))
	require.NoError(t, svc.SetMatchPlaying(ctx, mixedMatch.ID, true))
}

func TestRecommendNextHonorsCrossEventBusySet(t *testing.T) {
	ctx := context.Background()
	entrantRepo, poolRepo, doublesMatch, mixedMatch := crossEventFixture(t)
	svc := NewScheduleService(entrantRepo, poolRepo, &fakeBroadcaster{}, testLogger())

	pick, err := svc.RecommendNext(ctx, models.EventMixed)
	require.NoError(t, err)
	require.NotNil(t, pick)
	assert.Equal(t, mixedMatch.ID, pick.ID)

	require.NoError(t, svc.SetMatchPlaying(ctx, doublesMatch.ID, true))
	pick, err = svc.RecommendNext(ctx, models.EventMixed)
	require.NoError(t, err)
	assert.Nil(t, pick, "the only mixed fixture shares a player with the live doubles match")
}

func TestSetMatchPlayingRejectsScoredFixture(t *testing.T) {
	ctx := context.Background()
	entrantRepo, poolRepo, doublesMatch, _ := crossEventFixture(t)
	svc := NewScheduleService(entrantRepo, poolRepo, &fakeBroadcaster{}, testLogger())

	a, b := 21, 15
	require.NoError(t, poolRepo.UpdateMatchScore(ctx, nil, doublesMatch.ID, &a, &b))

	err := svc.SetMatchPlaying(ctx, doublesMatch.ID, true)
	assert.ErrorIs(t, err, ErrFixtureScored)
}
