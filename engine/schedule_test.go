package engine

import (
	"testing"

	"github.com/bcvictoria/tournament-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scheduleFixture builds two pools of three entrants with their full round
// robins, all unscored.
func scheduleFixture() ([]*models.Entrant, []*models.PoolMatch) {
	entrants := seededEntrants(6)
	pools := [][]*models.Entrant{entrants[:3], entrants[3:]}
	fixtures := RoundRobinFixtures(pools)
	matches := make([]*models.PoolMatch, len(fixtures))
	for i, f := range fixtures {
		matches[i] = &models.PoolMatch{
			ID:          i + 1,
			Event:       models.EventDoubles,
			PoolNumber:  f.PoolNumber,
			OrderInPool: f.OrderInPool,
			EntrantAID:  f.A.ID,
			EntrantBID:  f.B.ID,
		}
	}
	return entrants, matches
}

func TestBusyPlayers(t *testing.T) {
	entrants, matches := scheduleFixture()

	busy := BusyPlayers(matches, entrants)
	assert.Empty(t, busy)

	matches[0].InProgress = true
	busy = BusyPlayers(matches, entrants)
	assert.Len(t, busy, 4, "both pairs of the live fixture are busy")
	assert.Contains(t, busy, NewPlayerKey(entrants[0].Player1))
}

func TestRecommendSkipsBusyPlayers(t *testing.T) {
	entrants, matches := scheduleFixture()

	// Pool 1's first fixture is on court: every other pool 1 fixture shares
	// a player with it, so only pool 2 is playable.
	matches[0].InProgress = true
	busy := BusyPlayers(matches, entrants)

	pick := RecommendNextMatch(matches, entrants, busy)
	require.NotNil(t, pick)
	assert.Equal(t, 2, pick.PoolNumber)
	assert.False(t, pick.InProgress)
}

func TestRecommendNothingPlayable(t *testing.T) {
	entrants, matches := scheduleFixture()
	for _, m := range matches {
		m.ScoreA = intPtr(21)
		m.ScoreB = intPtr(15)
	}
	assert.Nil(t, RecommendNextMatch(matches, entrants, nil))
}

func TestRecommendPrefersUnderplayedPairs(t *testing.T) {
	entrants, matches := scheduleFixture()

	// Score pool 1's first fixture: entrants 1 and 2 have played once,
	// entrant 3 not at all. Pool 2 is entirely unplayed. The fixtures that
	// involve the least-played pairs must come first; the fully unplayed
	// pool 2 pairs carry more debt than pool 1's once-played pairs.
	matches[0].ScoreA = intPtr(21)
	matches[0].ScoreB = intPtr(12)

	pick := RecommendNextMatch(matches, entrants, nil)
	require.NotNil(t, pick)
	assert.Equal(t, 2, pick.PoolNumber, "the idle pool goes on court first")
}

func TestRecommendDeterministicFallback(t *testing.T) {
	entrants, matches := scheduleFixture()

	// Everything equal: the tuple falls through to (pool, order).
	first := RecommendNextMatch(matches, entrants, nil)
	second := RecommendNextMatch(matches, entrants, nil)
	require.NotNil(t, first)
	assert.Equal(t, first.ID, second.ID, "pure ranking, stable across calls")
	assert.Equal(t, 1, first.PoolNumber)
	assert.Equal(t, 1, first.OrderInPool)
}

func TestRecommendBacklogCountsDistinctFixtures(t *testing.T) {
	pair := func(id int, p1, p2 string) *models.Entrant {
		return &models.Entrant{
			ID: id, Event: models.EventDoubles,
			Player1: p1, Player2: p2, Level1: 3, Level2: 4,
		}
	}
	entrants := []*models.Entrant{
		pair(1, "Alice", "Bob"), pair(2, "Carol", "Dave"),
		pair(3, "Erin", "Frank"), pair(4, "Grace", "Heidi"),
		pair(5, "Alice", "Pat"), pair(6, "Noah", "Omar"),
		pair(7, "Bob", "Quinn"), pair(8, "Rita", "Sven"),
		pair(9, "Carol", "Tess"), pair(10, "Uma", "Vik"),
		pair(11, "Ivy", "Jack"), pair(12, "Kim", "Liam"),
	}
	fixture := func(id, pool, order, a, b int) *models.PoolMatch {
		return &models.PoolMatch{
			ID: id, Event: models.EventDoubles,
			PoolNumber: pool, OrderInPool: order,
			EntrantAID: a, EntrantBID: b,
		}
	}
	// Nothing is scored, so every fairness key before the backlog is level.
	// The 1v2 fixture touches three outside fixtures through a single shared
	// player each; 3v4 touches only two, but pair-against-pair. Counted as
	// distinct fixtures the backlog is 4 vs 3 and 1v2 wins; a per-player sum
	// would weight the pair-level neighbours double and pick 3v4.
	matches := []*models.PoolMatch{
		fixture(1, 1, 1, 1, 2),
		fixture(2, 2, 1, 3, 4),
		fixture(3, 3, 1, 5, 6),
		fixture(4, 3, 2, 7, 8),
		fixture(5, 3, 3, 9, 10),
		fixture(6, 2, 2, 3, 11),
		fixture(7, 2, 3, 4, 12),
	}

	pick := RecommendNextMatch(matches, entrants, nil)
	require.NotNil(t, pick)
	assert.Equal(t, 1, pick.ID)
}

func TestRecommendCrossEventBusySet(t *testing.T) {
	entrants, matches := scheduleFixture()

	// A player from entrant 1 is on court in the OTHER event: every fixture
	// involving that pair is excluded even though nothing in this event is
	// in progress.
	busy := map[PlayerKey]struct{}{
		NewPlayerKey(entrants[0].Player1): {},
	}
	pick := RecommendNextMatch(matches, entrants, busy)
	require.NotNil(t, pick)
	assert.False(t, pick.Involves(entrants[0].ID))
}
