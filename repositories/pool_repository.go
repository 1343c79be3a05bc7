package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bcvictoria/tournament-system/models"
	"github.com/lib/pq"
)

var (
	ErrPoolMatchNotFound  = errors.New("pool match not found")
	ErrDuplicatePoolMatch = errors.New("pool match already exists for this pair")
)

type PoolRepository interface {
	CreatePool(ctx context.Context, exec SQLExecutor, pool *models.Pool) error
	CreateMatch(ctx context.Context, exec SQLExecutor, match *models.PoolMatch) error
	ListPoolsByEvent(ctx context.Context, event models.EventCategory) ([]*models.Pool, error)
	ListMatchesByEvent(ctx context.Context, event models.EventCategory) ([]*models.PoolMatch, error)
	ListAllMatches(ctx context.Context) ([]*models.PoolMatch, error)
	GetMatchByID(ctx context.Context, id int) (*models.PoolMatch, error)
	UpdateMatchScore(ctx context.Context, exec SQLExecutor, id int, scoreA, scoreB *int) error
	SetMatchInProgress(ctx context.Context, id int, inProgress bool) error
	DeleteByEvent(ctx context.Context, exec SQLExecutor, event models.EventCategory) error
}

type postgresPoolRepository struct {
	db *sql.DB
}

func NewPostgresPoolRepository(db *sql.DB) PoolRepository {
	return &postgresPoolRepository{db: db}
}

func (r *postgresPoolRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPoolRepository) CreatePool(ctx context.Context, exec SQLExecutor, pool *models.Pool) error {
	executor := r.getExecutor(exec)
	query := `INSERT INTO pools (event, number) VALUES ($1, $2) RETURNING id`
	return executor.QueryRowContext(ctx, query, pool.Event, pool.Number).Scan(&pool.ID)
}

func (r *postgresPoolRepository) CreateMatch(ctx context.Context, exec SQLExecutor, match *models.PoolMatch) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO pool_matches (event, pool_id, pool_number, order_in_pool, entrant_a_id, entrant_b_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := executor.QueryRowContext(ctx, query,
		match.Event, match.PoolID, match.PoolNumber, match.OrderInPool,
		match.EntrantAID, match.EntrantBID,
	).Scan(&match.ID)
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Constraint == "pool_matches_event_pair_key" {
			return ErrDuplicatePoolMatch
		}
	}
	return err
}

func (r *postgresPoolRepository) ListPoolsByEvent(ctx context.Context, event models.EventCategory) ([]*models.Pool, error) {
	query := `SELECT id, event, number FROM pools WHERE event = $1 ORDER BY number`
	rows, err := r.db.QueryContext(ctx, query, event)
	if err != nil {
		return nil, fmt.Errorf("failed to query pools: %w", err)
	}
	defer rows.Close()

	pools := make([]*models.Pool, 0)
	for rows.Next() {
		var p models.Pool
		if err = rows.Scan(&p.ID, &p.Event, &p.Number); err != nil {
			return nil, err
		}
		pools = append(pools, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return pools, nil
}

const poolMatchColumns = `id, event, pool_id, pool_number, order_in_pool, entrant_a_id, entrant_b_id, score_a, score_b, in_progress`

func scanPoolMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.PoolMatch, error) {
	var m models.PoolMatch
	err := rowScanner.Scan(
		&m.ID, &m.Event, &m.PoolID, &m.PoolNumber, &m.OrderInPool,
		&m.EntrantAID, &m.EntrantBID, &m.ScoreA, &m.ScoreB, &m.InProgress,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPoolMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresPoolRepository) ListMatchesByEvent(ctx context.Context, event models.EventCategory) ([]*models.PoolMatch, error) {
	query := `
		SELECT ` + poolMatchColumns + `
		FROM pool_matches
		WHERE event = $1
		ORDER BY pool_number, order_in_pool`
	return r.listMatches(ctx, query, event)
}

func (r *postgresPoolRepository) ListAllMatches(ctx context.Context) ([]*models.PoolMatch, error) {
	query := `SELECT ` + poolMatchColumns + ` FROM pool_matches ORDER BY event, pool_number, order_in_pool`
	return r.listMatches(ctx, query)
}

func (r *postgresPoolRepository) listMatches(ctx context.Context, query string, args ...interface{}) ([]*models.PoolMatch, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pool matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.PoolMatch, 0)
	for rows.Next() {
		m, scanErr := scanPoolMatch(rows)
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

func (r *postgresPoolRepository) GetMatchByID(ctx context.Context, id int) (*models.PoolMatch, error) {
	query := `SELECT ` + poolMatchColumns + ` FROM pool_matches WHERE id = $1`
	return scanPoolMatch(r.db.QueryRowContext(ctx, query, id))
}

// UpdateMatchScore also clears the on-court flag: a fixture with a stored
// result is no longer in progress.
func (r *postgresPoolRepository) UpdateMatchScore(ctx context.Context, exec SQLExecutor, id int, scoreA, scoreB *int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE pool_matches SET score_a = $1, score_b = $2, in_progress = FALSE WHERE id = $3`
	result, err := executor.ExecContext(ctx, query, scoreA, scoreB, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPoolMatchNotFound)
}

func (r *postgresPoolRepository) SetMatchInProgress(ctx context.Context, id int, inProgress bool) error {
	query := `UPDATE pool_matches SET in_progress = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, inProgress, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPoolMatchNotFound)
}

func (r *postgresPoolRepository) DeleteByEvent(ctx context.Context, exec SQLExecutor, event models.EventCategory) error {
	executor := r.getExecutor(exec)
	if _, err := executor.ExecContext(ctx, `DELETE FROM pool_matches WHERE event = $1`, event); err != nil {
		return err
	}
	_, err := executor.ExecContext(ctx, `DELETE FROM pools WHERE event = $1`, event)
	return err
}
