package services

import (
	"context"
	"log/slog"

	"github.com/bcvictoria/tournament-system/engine"
	"github.com/bcvictoria/tournament-system/models"
	"github.com/bcvictoria/tournament-system/repositories"
	"golang.org/x/sync/errgroup"
)

type ScheduleService interface {
	RecommendNext(ctx context.Context, event models.EventCategory) (*models.PoolMatch, error)
	SetMatchPlaying(ctx context.Context, matchID int, playing bool) error
}

type scheduleService struct {
	entrantRepo repositories.EntrantRepository
	poolRepo    repositories.PoolRepository
	broadcaster Broadcaster
	logger      *slog.Logger
}

func NewScheduleService(
	entrantRepo repositories.EntrantRepository,
	poolRepo repositories.PoolRepository,
	broadcaster Broadcaster,
	logger *slog.Logger,
) ScheduleService {
	return &scheduleService{
		entrantRepo: entrantRepo,
		poolRepo:    poolRepo,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// snapshot reads every fixture and entrant of BOTH events in parallel. The
// busy-player set has to span the whole tournament: the same person can play
// doubles and mixed, and a court assignment in one event blocks them in the
// other.
func (s *scheduleService) snapshot(ctx context.Context) ([]*models.PoolMatch, []*models.Entrant, error) {
	var (
		matches  []*models.PoolMatch
		entrants []*models.Entrant
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = s.poolRepo.ListAllMatches(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		entrants, err = s.entrantRepo.ListAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return matches, entrants, nil
}

// RecommendNext returns the fairest playable fixture of the event, or nil
// when nothing can go on court right now.
func (s *scheduleService) RecommendNext(ctx context.Context, event models.EventCategory) (*models.PoolMatch, error) {
	if !event.Valid() {
		return nil, ErrInvalidEvent
	}
	allMatches, allEntrants, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	busy := engine.BusyPlayers(allMatches, allEntrants)

	eventMatches := make([]*models.PoolMatch, 0, len(allMatches))
	for _, m := range allMatches {
		if m.Event == event {
			eventMatches = append(eventMatches, m)
		}
	}
	eventEntrants := make([]*models.Entrant, 0, len(allEntrants))
	for _, e := range allEntrants {
		if e.Event == event {
			eventEntrants = append(eventEntrants, e)
		}
	}
	return engine.RecommendNextMatch(eventMatches, eventEntrants, busy), nil
}

// SetMatchPlaying puts a fixture on court or takes it off. Starting re-checks
// the cross-event busy set at decision time: a recommendation is advisory and
// may have gone stale while the admin hesitated.
func (s *scheduleService) SetMatchPlaying(ctx context.Context, matchID int, playing bool) error {
	match, err := s.poolRepo.GetMatchByID(ctx, matchID)
	if err != nil {
		return err
	}
	if playing {
		if match.Scored() {
			return ErrFixtureScored
		}
		allMatches, allEntrants, err := s.snapshot(ctx)
		if err != nil {
			return err
		}
		busy := engine.BusyPlayers(allMatches, allEntrants)
		for _, e := range allEntrants {
			if !match.Involves(e.ID) {
				continue
			}
			for _, key := range []engine.PlayerKey{engine.NewPlayerKey(e.Player1), engine.NewPlayerKey(e.Player2)} {
				if _, ok := busy[key]; ok {
					return ErrPlayersBusy
				}
			}
		}
	}

	if err := s.poolRepo.SetMatchInProgress(ctx, matchID, playing); err != nil {
		return err
	}
	s.logger.Info("fixture court state changed",
		"event", match.Event, "match_id", matchID, "playing", playing)
	s.broadcaster.BroadcastToEvent(match.Event, MsgScheduleChanged, nil)
	return nil
}
