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
	ErrEntrantNotFound     = errors.New("entrant not found")
	ErrEntrantSeedConflict = errors.New("seed rank already taken within the event")
)

type EntrantRepository interface {
	Create(ctx context.Context, exec SQLExecutor, entrant *models.Entrant) error
	GetByID(ctx context.Context, id int) (*models.Entrant, error)
	ListByEvent(ctx context.Context, event models.EventCategory) ([]*models.Entrant, error)
	ListAll(ctx context.Context) ([]*models.Entrant, error)
	UpdateLevels(ctx context.Context, id, level1, level2 int) error
	SetSeedRank(ctx context.Context, exec SQLExecutor, id int, rank *int) error
	ClearSeedRanks(ctx context.Context, exec SQLExecutor, event models.EventCategory) error
	Delete(ctx context.Context, id int) error
}

type postgresEntrantRepository struct {
	db *sql.DB
}

func NewPostgresEntrantRepository(db *sql.DB) EntrantRepository {
	return &postgresEntrantRepository{db: db}
}

func (r *postgresEntrantRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const entrantColumns = `id, event, player1, player2, level1, level2, seed_rank, created_at`

func (r *postgresEntrantRepository) scanEntrant(rowScanner interface{ Scan(...interface{}) error }) (*models.Entrant, error) {
	var e models.Entrant
	err := rowScanner.Scan(
		&e.ID, &e.Event, &e.Player1, &e.Player2,
		&e.Level1, &e.Level2, &e.SeedRank, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntrantNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *postgresEntrantRepository) Create(ctx context.Context, exec SQLExecutor, entrant *models.Entrant) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO entrants (event, player1, player2, level1, level2, seed_rank)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := executor.QueryRowContext(ctx, query,
		entrant.Event, entrant.Player1, entrant.Player2,
		entrant.Level1, entrant.Level2, entrant.SeedRank,
	).Scan(&entrant.ID, &entrant.CreatedAt)
	return r.handleEntrantError(err)
}

func (r *postgresEntrantRepository) GetByID(ctx context.Context, id int) (*models.Entrant, error) {
	query := `SELECT ` + entrantColumns + ` FROM entrants WHERE id = $1`
	return r.scanEntrant(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresEntrantRepository) ListByEvent(ctx context.Context, event models.EventCategory) ([]*models.Entrant, error) {
	query := `
		SELECT ` + entrantColumns + `
		FROM entrants
		WHERE event = $1
		ORDER BY seed_rank ASC NULLS LAST, id ASC`
	return r.list(ctx, query, event)
}

func (r *postgresEntrantRepository) ListAll(ctx context.Context) ([]*models.Entrant, error) {
	query := `SELECT ` + entrantColumns + ` FROM entrants ORDER BY event, id`
	return r.list(ctx, query)
}

func (r *postgresEntrantRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Entrant, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entrants: %w", err)
	}
	defer rows.Close()

	entrants := make([]*models.Entrant, 0)
	for rows.Next() {
		e, scanErr := r.scanEntrant(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		entrants = append(entrants, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entrants, nil
}

func (r *postgresEntrantRepository) UpdateLevels(ctx context.Context, id, level1, level2 int) error {
	query := `UPDATE entrants SET level1 = $1, level2 = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, level1, level2, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrEntrantNotFound)
}

func (r *postgresEntrantRepository) SetSeedRank(ctx context.Context, exec SQLExecutor, id int, rank *int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE entrants SET seed_rank = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, rank, id)
	if err != nil {
		return r.handleEntrantError(err)
	}
	return checkAffectedRows(result, ErrEntrantNotFound)
}

func (r *postgresEntrantRepository) ClearSeedRanks(ctx context.Context, exec SQLExecutor, event models.EventCategory) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `UPDATE entrants SET seed_rank = NULL WHERE event = $1`, event)
	return err
}

func (r *postgresEntrantRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM entrants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrEntrantNotFound)
}

func (r *postgresEntrantRepository) handleEntrantError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		// "23505": unique_violation on (event, seed_rank)
		if pqErr.Constraint == "entrants_event_seed_rank_key" {
			return ErrEntrantSeedConflict
		}
	}
	return err
}
