package services

import (
	"context"
	"database/sql"
	"log/slog"
	"sort"

	"github.com/bcvictoria/tournament-system/engine"
	"github.com/bcvictoria/tournament-system/models"
	"github.com/bcvictoria/tournament-system/repositories"
)

// PoolOverview is the admin view of one event's pool phase.
type PoolOverview struct {
	Pools   []*models.Pool      `json:"pools"`
	Matches []*models.PoolMatch `json:"matches"`
}

type PoolService interface {
	GeneratePools(ctx context.Context, event models.EventCategory, targetSize int) error
	GetPools(ctx context.Context, event models.EventCategory) (*PoolOverview, error)
	SavePoolScore(ctx context.Context, matchID int, scoreA, scoreB *int) error
}

type poolService struct {
	db           *sql.DB
	entrantRepo  repositories.EntrantRepository
	poolRepo     repositories.PoolRepository
	knockoutRepo repositories.KnockoutRepository
	broadcaster  Broadcaster
	logger       *slog.Logger
}

func NewPoolService(
	db *sql.DB,
	entrantRepo repositories.EntrantRepository,
	poolRepo repositories.PoolRepository,
	knockoutRepo repositories.KnockoutRepository,
	broadcaster Broadcaster,
	logger *slog.Logger,
) PoolService {
	return &poolService{
		db:           db,
		entrantRepo:  entrantRepo,
		poolRepo:     poolRepo,
		knockoutRepo: knockoutRepo,
		broadcaster:  broadcaster,
		logger:       logger,
	}
}

// GeneratePools snake-drafts the seeded entrants into pools and writes the
// full round robin. Regeneration is destructive for the whole event: the old
// pools, their results AND any knockout bracket built on them go away in the
// same transaction, so a pool edit can never leave a bracket derived from
// standings that no longer exist.
func (s *poolService) GeneratePools(ctx context.Context, event models.EventCategory, targetSize int) error {
	if !event.Valid() {
		return ErrInvalidEvent
	}
	entrants, err := s.entrantRepo.ListByEvent(ctx, event)
	if err != nil {
		return err
	}
	for _, e := range entrants {
		if !e.Seeded() {
			return ErrSeedingIncomplete
		}
	}
	sort.SliceStable(entrants, func(i, j int) bool {
		return entrants[i].SeedOrLast() < entrants[j].SeedOrLast()
	})

	pools, err := engine.AssignPools(entrants, targetSize)
	if err != nil {
		return err
	}
	fixtures := engine.RoundRobinFixtures(pools)

	err = withTransaction(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.knockoutRepo.DeleteByEvent(ctx, tx, event); err != nil {
			return err
		}
		if err := s.poolRepo.DeleteByEvent(ctx, tx, event); err != nil {
			return err
		}
		poolIDs := make(map[int]int, len(pools))
		for i := range pools {
			pool := &models.Pool{Event: event, Number: i + 1}
			if err := s.poolRepo.CreatePool(ctx, tx, pool); err != nil {
				return err
			}
			poolIDs[pool.Number] = pool.ID
		}
		for _, f := range fixtures {
			match := &models.PoolMatch{
				Event:       event,
				PoolID:      poolIDs[f.PoolNumber],
				PoolNumber:  f.PoolNumber,
				OrderInPool: f.OrderInPool,
				EntrantAID:  f.A.ID,
				EntrantBID:  f.B.ID,
			}
			if err := s.poolRepo.CreateMatch(ctx, tx, match); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("pools generated",
		"event", event, "pools", len(pools), "fixtures", len(fixtures))
	s.broadcaster.BroadcastToEvent(event, MsgPoolsGenerated, nil)
	return nil
}

func (s *poolService) GetPools(ctx context.Context, event models.EventCategory) (*PoolOverview, error) {
	if !event.Valid() {
		return nil, ErrInvalidEvent
	}
	pools, err := s.poolRepo.ListPoolsByEvent(ctx, event)
	if err != nil {
		return nil, err
	}
	matches, err := s.poolRepo.ListMatchesByEvent(ctx, event)
	if err != nil {
		return nil, err
	}
	return &PoolOverview{Pools: pools, Matches: matches}, nil
}

// SavePoolScore stores a pool result, or re-opens the fixture when both
// scores are nil. A stored result is immutable: correcting it takes an
// explicit re-open first. Ties never enter the store.
func (s *poolService) SavePoolScore(ctx context.Context, matchID int, scoreA, scoreB *int) error {
	if (scoreA != nil) != (scoreB != nil) {
		return ErrHalfScore
	}
	if scoreA != nil {
		if *scoreA < 0 || *scoreB < 0 {
			return engine.ErrNegativeScore
		}
		if *scoreA == *scoreB {
			return engine.ErrTiedPoolScore
		}
	}

	match, err := s.poolRepo.GetMatchByID(ctx, matchID)
	if err != nil {
		return err
	}
	if scoreA != nil && match.Scored() {
		return ErrResultStored
	}
	if err := s.poolRepo.UpdateMatchScore(ctx, nil, matchID, scoreA, scoreB); err != nil {
		return err
	}

	s.logger.Info("pool score saved",
		"event", match.Event, "match_id", matchID, "cleared", scoreA == nil)
	s.broadcaster.BroadcastToEvent(match.Event, MsgStandingsChanged, nil)
	return nil
}
