package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bcvictoria/tournament-system/models"
)

var ErrKnockoutMatchNotFound = errors.New("knockout match not found")

type KnockoutRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.KnockoutMatch) error
	ListByEvent(ctx context.Context, event models.EventCategory) ([]*models.KnockoutMatch, error)
	GetByID(ctx context.Context, id int) (*models.KnockoutMatch, error)
	Update(ctx context.Context, exec SQLExecutor, match *models.KnockoutMatch) error
	UpdateFormatForStage(ctx context.Context, exec SQLExecutor, event models.EventCategory, stage int, format models.KnockoutFormat) error
	DeleteByEvent(ctx context.Context, exec SQLExecutor, event models.EventCategory) error
}

type postgresKnockoutRepository struct {
	db *sql.DB
}

func NewPostgresKnockoutRepository(db *sql.DB) KnockoutRepository {
	return &postgresKnockoutRepository{db: db}
}

func (r *postgresKnockoutRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// Games are stored as a JSON array in a text column; an empty slice round
// trips as "[]" so scans never see NULL.
func marshalGames(games []models.GameScore) (string, error) {
	if games == nil {
		games = []models.GameScore{}
	}
	raw, err := json.Marshal(games)
	if err != nil {
		return "", fmt.Errorf("failed to marshal games: %w", err)
	}
	return string(raw), nil
}

const knockoutColumns = `id, event, stage, order_in_stage, slot_a_id, slot_b_id, format, games, score_a, score_b, winner_id, unlocked`

func scanKnockoutMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.KnockoutMatch, error) {
	var m models.KnockoutMatch
	var rawGames string
	err := rowScanner.Scan(
		&m.ID, &m.Event, &m.Stage, &m.OrderInStage,
		&m.SlotAID, &m.SlotBID, &m.Format, &rawGames,
		&m.ScoreA, &m.ScoreB, &m.WinnerID, &m.Unlocked,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKnockoutMatchNotFound
		}
		return nil, err
	}
	if err = json.Unmarshal([]byte(rawGames), &m.Games); err != nil {
		return nil, fmt.Errorf("failed to unmarshal games for match %d: %w", m.ID, err)
	}
	return &m, nil
}

func (r *postgresKnockoutRepository) Create(ctx context.Context, exec SQLExecutor, match *models.KnockoutMatch) error {
	executor := r.getExecutor(exec)
	rawGames, err := marshalGames(match.Games)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO knockout_matches (event, stage, order_in_stage, slot_a_id, slot_b_id, format, games, score_a, score_b, winner_id, unlocked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	return executor.QueryRowContext(ctx, query,
		match.Event, match.Stage, match.OrderInStage,
		match.SlotAID, match.SlotBID, match.Format, rawGames,
		match.ScoreA, match.ScoreB, match.WinnerID, match.Unlocked,
	).Scan(&match.ID)
}

func (r *postgresKnockoutRepository) ListByEvent(ctx context.Context, event models.EventCategory) ([]*models.KnockoutMatch, error) {
	query := `
		SELECT ` + knockoutColumns + `
		FROM knockout_matches
		WHERE event = $1
		ORDER BY stage, order_in_stage`
	rows, err := r.db.QueryContext(ctx, query, event)
	if err != nil {
		return nil, fmt.Errorf("failed to query knockout matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.KnockoutMatch, 0)
	for rows.Next() {
		m, scanErr := scanKnockoutMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresKnockoutRepository) GetByID(ctx context.Context, id int) (*models.KnockoutMatch, error) {
	query := `SELECT ` + knockoutColumns + ` FROM knockout_matches WHERE id = $1`
	return scanKnockoutMatch(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresKnockoutRepository) Update(ctx context.Context, exec SQLExecutor, match *models.KnockoutMatch) error {
	executor := r.getExecutor(exec)
	rawGames, err := marshalGames(match.Games)
	if err != nil {
		return err
	}
	query := `
		UPDATE knockout_matches
		SET slot_a_id = $1, slot_b_id = $2, format = $3, games = $4,
		    score_a = $5, score_b = $6, winner_id = $7, unlocked = $8
		WHERE id = $9`
	result, err := executor.ExecContext(ctx, query,
		match.SlotAID, match.SlotBID, match.Format, rawGames,
		match.ScoreA, match.ScoreB, match.WinnerID, match.Unlocked,
		match.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrKnockoutMatchNotFound)
}

func (r *postgresKnockoutRepository) UpdateFormatForStage(ctx context.Context, exec SQLExecutor, event models.EventCategory, stage int, format models.KnockoutFormat) error {
	executor := r.getExecutor(exec)
	query := `UPDATE knockout_matches SET format = $1 WHERE event = $2 AND stage = $3`
	result, err := executor.ExecContext(ctx, query, format, event, stage)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrKnockoutMatchNotFound)
}

func (r *postgresKnockoutRepository) DeleteByEvent(ctx context.Context, exec SQLExecutor, event models.EventCategory) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM knockout_matches WHERE event = $1`, event)
	return err
}
