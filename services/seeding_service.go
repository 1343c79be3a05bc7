package services

import (
	"context"
	"database/sql"
	"log/slog"
	"sort"

	"github.com/bcvictoria/tournament-system/models"
	"github.com/bcvictoria/tournament-system/repositories"
)

type CreateEntrantInput struct {
	Event   models.EventCategory `json:"event"`
	Player1 string               `json:"player1"`
	Player2 string               `json:"player2"`
	Level1  int                  `json:"level1"`
	Level2  int                  `json:"level2"`
}

type SeedingService interface {
	CreateEntrant(ctx context.Context, input CreateEntrantInput) (*models.Entrant, error)
	ListEntrants(ctx context.Context, event models.EventCategory) ([]*models.Entrant, error)
	UpdateLevels(ctx context.Context, id, level1, level2 int) error
	DeleteEntrant(ctx context.Context, id int) error
	SuggestSeeding(ctx context.Context, event models.EventCategory) ([]*models.Entrant, error)
	SetSeeding(ctx context.Context, event models.EventCategory, orderedEntrantIDs []int) error
}

type seedingService struct {
	db          *sql.DB
	entrantRepo repositories.EntrantRepository
	logger      *slog.Logger
}

func NewSeedingService(db *sql.DB, entrantRepo repositories.EntrantRepository, logger *slog.Logger) SeedingService {
	return &seedingService{db: db, entrantRepo: entrantRepo, logger: logger}
}

func (s *seedingService) CreateEntrant(ctx context.Context, input CreateEntrantInput) (*models.Entrant, error) {
	if !input.Event.Valid() {
		return nil, ErrInvalidEvent
	}
	if !models.ValidLevel(input.Level1) || !models.ValidLevel(input.Level2) {
		return nil, ErrInvalidLevel
	}
	entrant := &models.Entrant{
		Event:   input.Event,
		Player1: input.Player1,
		Player2: input.Player2,
		Level1:  input.Level1,
		Level2:  input.Level2,
	}
	if err := s.entrantRepo.Create(ctx, nil, entrant); err != nil {
		return nil, err
	}
	s.logger.Info("entrant created", "event", entrant.Event, "entrant_id", entrant.ID)
	return entrant, nil
}

func (s *seedingService) ListEntrants(ctx context.Context, event models.EventCategory) ([]*models.Entrant, error) {
	if !event.Valid() {
		return nil, ErrInvalidEvent
	}
	return s.entrantRepo.ListByEvent(ctx, event)
}

func (s *seedingService) UpdateLevels(ctx context.Context, id, level1, level2 int) error {
	if !models.ValidLevel(level1) || !models.ValidLevel(level2) {
		return ErrInvalidLevel
	}
	return s.entrantRepo.UpdateLevels(ctx, id, level1, level2)
}

func (s *seedingService) DeleteEntrant(ctx context.Context, id int) error {
	return s.entrantRepo.Delete(ctx, id)
}

// SuggestSeeding returns the event's entrants in derived-strength order, the
// starting point the seeding editor shows before manual reordering. Nothing
// is persisted.
func (s *seedingService) SuggestSeeding(ctx context.Context, event models.EventCategory) ([]*models.Entrant, error) {
	if !event.Valid() {
		return nil, ErrInvalidEvent
	}
	entrants, err := s.entrantRepo.ListByEvent(ctx, event)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entrants, func(i, j int) bool {
		if entrants[i].Strength() != entrants[j].Strength() {
			return entrants[i].Strength() < entrants[j].Strength()
		}
		return entrants[i].ID < entrants[j].ID
	})
	return entrants, nil
}

// SetSeeding stores the finalized order as seed ranks 1..n. The order must be
// a permutation of the event's entrants; a stale editor working from an old
// entrant list gets a mismatch error instead of a partial write.
func (s *seedingService) SetSeeding(ctx context.Context, event models.EventCategory, orderedEntrantIDs []int) error {
	if !event.Valid() {
		return ErrInvalidEvent
	}
	entrants, err := s.entrantRepo.ListByEvent(ctx, event)
	if err != nil {
		return err
	}
	if len(orderedEntrantIDs) != len(entrants) {
		return ErrSeedingMismatch
	}
	known := make(map[int]bool, len(entrants))
	for _, e := range entrants {
		known[e.ID] = false
	}
	for _, id := range orderedEntrantIDs {
		seen, ok := known[id]
		if !ok || seen {
			return ErrSeedingMismatch
		}
		known[id] = true
	}

	err = withTransaction(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.entrantRepo.ClearSeedRanks(ctx, tx, event); err != nil {
			return err
		}
		for i, id := range orderedEntrantIDs {
			rank := i + 1
			if err := s.entrantRepo.SetSeedRank(ctx, tx, id, &rank); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("seeding finalized", "event", event, "entrants", len(orderedEntrantIDs))
	return nil
}
