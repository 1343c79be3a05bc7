package services

import (
	"context"

	"github.com/bcvictoria/tournament-system/engine"
	"github.com/bcvictoria/tournament-system/models"
	"github.com/bcvictoria/tournament-system/repositories"
	"golang.org/x/sync/errgroup"
)

type StandingService interface {
	GetStandings(ctx context.Context, event models.EventCategory) (*engine.PoolStandings, error)
}

type standingService struct {
	entrantRepo repositories.EntrantRepository
	poolRepo    repositories.PoolRepository
}

func NewStandingService(entrantRepo repositories.EntrantRepository, poolRepo repositories.PoolRepository) StandingService {
	return &standingService{entrantRepo: entrantRepo, poolRepo: poolRepo}
}

// GetStandings derives the current pool standings from the stored fixtures.
// Standings are never persisted; every read recomputes from scratch.
func (s *standingService) GetStandings(ctx context.Context, event models.EventCategory) (*engine.PoolStandings, error) {
	if !event.Valid() {
		return nil, ErrInvalidEvent
	}

	var (
		entrants []*models.Entrant
		matches  []*models.PoolMatch
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entrants, err = s.entrantRepo.ListByEvent(gctx, event)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.poolRepo.ListMatchesByEvent(gctx, event)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return engine.ComputeStandings(entrants, matches)
}
