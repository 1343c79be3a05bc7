package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/bcvictoria/tournament-system/engine"
	"github.com/bcvictoria/tournament-system/models"
	"github.com/bcvictoria/tournament-system/repositories"
	"github.com/bcvictoria/tournament-system/storage"
)

// StageScoreEntry is one match's entered games within a stage-wide save.
type StageScoreEntry struct {
	MatchID int                `json:"match_id"`
	Games   []engine.GameEntry `json:"games"`
}

type KnockoutService interface {
	GenerateKnockout(ctx context.Context, event models.EventCategory, advanceCount int) error
	GetBracket(ctx context.Context, event models.EventCategory) ([]*models.KnockoutMatch, error)
	SaveStageScores(ctx context.Context, event models.EventCategory, stage int, entries []StageScoreEntry) error
	SetStageFormat(ctx context.Context, event models.EventCategory, stage int, format models.KnockoutFormat) error
}

type knockoutService struct {
	db           *sql.DB
	entrantRepo  repositories.EntrantRepository
	poolRepo     repositories.PoolRepository
	knockoutRepo repositories.KnockoutRepository
	uploader     storage.FileUploader
	broadcaster  Broadcaster
	logger       *slog.Logger
}

func NewKnockoutService(
	db *sql.DB,
	entrantRepo repositories.EntrantRepository,
	poolRepo repositories.PoolRepository,
	knockoutRepo repositories.KnockoutRepository,
	uploader storage.FileUploader,
	broadcaster Broadcaster,
	logger *slog.Logger,
) KnockoutService {
	return &knockoutService{
		db:           db,
		entrantRepo:  entrantRepo,
		poolRepo:     poolRepo,
		knockoutRepo: knockoutRepo,
		uploader:     uploader,
		broadcaster:  broadcaster,
		logger:       logger,
	}
}

// GenerateKnockout turns the finished pool phase into a seeded bracket:
// standings, qualifier selection, bracket layout, then one propagation run so
// that stage-1 byes already feed the second round. Replaces any existing
// bracket for the event.
func (s *knockoutService) GenerateKnockout(ctx context.Context, event models.EventCategory, advanceCount int) error {
	if !event.Valid() {
		return ErrInvalidEvent
	}
	entrants, err := s.entrantRepo.ListByEvent(ctx, event)
	if err != nil {
		return err
	}
	matches, err := s.poolRepo.ListMatchesByEvent(ctx, event)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return ErrPoolsNotGenerated
	}

	standings, err := engine.ComputeStandings(entrants, matches)
	if err != nil {
		return err
	}
	if standings.ScoredMatches != standings.ExpectedMatches {
		return ErrPoolsIncomplete
	}

	selection := engine.SelectQualifiers(standings, advanceCount)
	qualifiers := make([]*models.Entrant, len(selection.Qualifiers))
	for i, st := range selection.Qualifiers {
		qualifiers[i] = st.Entrant
	}

	plan := engine.BuildBracket(event, qualifiers, models.FormatBestOfThree)
	engine.Propagate(plan.Matches)

	err = withTransaction(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.knockoutRepo.DeleteByEvent(ctx, tx, event); err != nil {
			return err
		}
		for _, m := range plan.Matches {
			if err := s.knockoutRepo.Create(ctx, tx, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("knockout generated",
		"event", event, "qualifiers", len(qualifiers),
		"bracket_size", plan.Size, "rounds", plan.Rounds)
	s.broadcaster.BroadcastToEvent(event, MsgBracketChanged, nil)
	return nil
}

func (s *knockoutService) GetBracket(ctx context.Context, event models.EventCategory) ([]*models.KnockoutMatch, error) {
	if !event.Valid() {
		return nil, ErrInvalidEvent
	}
	return s.knockoutRepo.ListByEvent(ctx, event)
}

// SaveStageScores enters results for one stage as a unit. Every entry must
// validate against the resolver before anything is written; a single bad game
// rejects the whole batch. When a previously decided result changes, every
// later stage is reset before winners propagate again, so the bracket never
// keeps a pairing built on a result that no longer stands.
func (s *knockoutService) SaveStageScores(ctx context.Context, event models.EventCategory, stage int, entries []StageScoreEntry) error {
	if !event.Valid() {
		return ErrInvalidEvent
	}
	all, err := s.knockoutRepo.ListByEvent(ctx, event)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return ErrNoBracket
	}

	byID := make(map[int]*models.KnockoutMatch, len(all))
	stageExists := false
	for _, m := range all {
		byID[m.ID] = m
		if m.Stage == stage {
			stageExists = true
		}
	}
	if !stageExists {
		return ErrStageNotFound
	}

	// Validate everything first. Nothing below may fail for a reason the
	// admin could have been told about up front.
	type pending struct {
		match      *models.KnockoutMatch
		resolution *engine.Resolution
	}
	resolved := make([]pending, 0, len(entries))
	for _, entry := range entries {
		match, ok := byID[entry.MatchID]
		if !ok {
			return repositories.ErrKnockoutMatchNotFound
		}
		if match.Stage != stage {
			return ErrMatchNotInStage
		}
		if !match.Unlocked {
			return engine.ErrStageLocked
		}
		res, err := engine.ResolveMatch(match, entry.Games)
		if err != nil {
			return fmt.Errorf("match %d: %w", match.ID, err)
		}
		resolved = append(resolved, pending{match: match, resolution: res})
	}

	// Apply, invalidating downstream when a decided result changed. Any
	// edit to a decided match counts, not just a winner flip: later stages
	// were built on the old result.
	changed := make(map[int]*models.KnockoutMatch)
	decidedChanged := false
	for _, p := range resolved {
		m, res := p.match, p.resolution
		if m.Decided() && resultDiffers(m, res) {
			decidedChanged = true
		}
		m.Games = res.Games
		if len(res.Games) == 0 {
			m.ScoreA = nil
			m.ScoreB = nil
		} else {
			a, b := res.AggregateA, res.AggregateB
			m.ScoreA = &a
			m.ScoreB = &b
		}
		m.WinnerID = res.WinnerID
		changed[m.ID] = m
	}
	if decidedChanged {
		for _, m := range engine.InvalidateDownstream(all, stage) {
			changed[m.ID] = m
		}
	}
	for _, m := range engine.Propagate(all) {
		changed[m.ID] = m
	}

	err = withTransaction(ctx, s.db, func(tx *sql.Tx) error {
		for _, m := range changed {
			if err := s.knockoutRepo.Update(ctx, tx, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("stage scores saved",
		"event", event, "stage", stage,
		"entries", len(entries), "updated", len(changed),
		"invalidated_downstream", decidedChanged)

	if final := finalMatch(all); final != nil && final.Decided() {
		s.archiveResults(ctx, event, all, final)
	}
	s.broadcaster.BroadcastToEvent(event, MsgBracketChanged, nil)
	return nil
}

// SetStageFormat switches a stage between best-of-1 and best-of-3. Only
// possible while the stage is still clean: a recorded result was interpreted
// under the old format and would silently change meaning.
func (s *knockoutService) SetStageFormat(ctx context.Context, event models.EventCategory, stage int, format models.KnockoutFormat) error {
	if !event.Valid() {
		return ErrInvalidEvent
	}
	if !format.Valid() {
		return ErrInvalidFormat
	}
	all, err := s.knockoutRepo.ListByEvent(ctx, event)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return ErrNoBracket
	}
	stageExists := false
	for _, m := range all {
		if m.Stage != stage {
			continue
		}
		stageExists = true
		if !m.IsBye() && m.HasScore() {
			return ErrStageHasScores
		}
	}
	if !stageExists {
		return ErrStageNotFound
	}

	if err := s.knockoutRepo.UpdateFormatForStage(ctx, nil, event, stage, format); err != nil {
		return err
	}
	s.logger.Info("stage format changed", "event", event, "stage", stage, "format", format)
	s.broadcaster.BroadcastToEvent(event, MsgBracketChanged, nil)
	return nil
}

// resultDiffers reports whether the resolution changes anything about the
// stored result: the winner or any game. Aggregates derive from the games, so
// comparing games covers them.
func resultDiffers(m *models.KnockoutMatch, res *engine.Resolution) bool {
	if !ptrEqual(m.WinnerID, res.WinnerID) {
		return true
	}
	if len(m.Games) != len(res.Games) {
		return true
	}
	for i, g := range m.Games {
		if g != res.Games[i] {
			return true
		}
	}
	return false
}

func finalMatch(all []*models.KnockoutMatch) *models.KnockoutMatch {
	var final *models.KnockoutMatch
	for _, m := range all {
		if final == nil || m.Stage > final.Stage {
			final = m
		}
	}
	return final
}

type resultsArchive struct {
	Event      models.EventCategory  `json:"event"`
	Winner     *models.Entrant       `json:"winner"`
	RunnerUp   *models.Entrant       `json:"runner_up,omitempty"`
	Final      *models.KnockoutMatch `json:"final"`
	ArchivedAt time.Time             `json:"archived_at"`
}

// archiveResults uploads the decided event's summary to object storage. A
// failed upload is logged and retried on the next save; the score write
// itself already committed.
func (s *knockoutService) archiveResults(ctx context.Context, event models.EventCategory, all []*models.KnockoutMatch, final *models.KnockoutMatch) {
	winner, err := s.entrantRepo.GetByID(ctx, *final.WinnerID)
	if err != nil {
		s.logger.Error("failed to load winner for results archive", "event", event, "error", err)
		return
	}
	archive := resultsArchive{
		Event:      event,
		Winner:     winner,
		Final:      final,
		ArchivedAt: time.Now().UTC(),
	}
	if runnerUpID := loserOf(final); runnerUpID != nil {
		if runnerUp, err := s.entrantRepo.GetByID(ctx, *runnerUpID); err == nil {
			archive.RunnerUp = runnerUp
		}
	}

	payload, err := json.Marshal(archive)
	if err != nil {
		s.logger.Error("failed to marshal results archive", "event", event, "error", err)
		return
	}
	key := fmt.Sprintf("results/%s/%s.json", event, time.Now().UTC().Format("2006-01-02"))
	result, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(payload))
	if err != nil {
		s.logger.Error("failed to archive event results", "event", event, "error", err)
		return
	}
	s.logger.Info("event results archived", "event", event, "key", result.Key, "url", result.Location)
}

func loserOf(final *models.KnockoutMatch) *int {
	if final.WinnerID == nil || !final.SlotsComplete() {
		return nil
	}
	if *final.WinnerID == *final.SlotAID {
		return final.SlotBID
	}
	return final.SlotAID
}
