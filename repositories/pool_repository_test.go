package repositories

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/bcvictoria/tournament-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPoolRepo(t *testing.T) (PoolRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresPoolRepository(db), mock
}

func TestListMatchesByEvent(t *testing.T) {
	repo, mock := newPoolRepo(t)

	scoreA, scoreB := 21, 17
	rows := sqlmock.NewRows([]string{
		"id", "event", "pool_id", "pool_number", "order_in_pool",
		"entrant_a_id", "entrant_b_id", "score_a", "score_b", "in_progress",
	}).
		AddRow(1, "doubles", 10, 1, 1, 100, 101, scoreA, scoreB, false).
		AddRow(2, "doubles", 10, 1, 2, 100, 102, nil, nil, true)

	mock.ExpectQuery(`SELECT .+ FROM pool_matches WHERE event = \$1`).
		WithArgs(models.EventDoubles).
		WillReturnRows(rows)

	matches, err := repo.ListMatchesByEvent(context.Background(), models.EventDoubles)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.True(t, matches[0].Scored())
	assert.Equal(t, 100, matches[0].WinnerID())
	assert.False(t, matches[1].Scored())
	assert.True(t, matches[1].InProgress)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMatchScoreClearsInProgress(t *testing.T) {
	repo, mock := newPoolRepo(t)

	scoreA, scoreB := 21, 15
	mock.ExpectExec(`UPDATE pool_matches SET score_a = \$1, score_b = \$2, in_progress = FALSE`).
		WithArgs(scoreA, scoreB, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateMatchScore(context.Background(), nil, 7, &scoreA, &scoreB)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMatchScoreNotFound(t *testing.T) {
	repo, mock := newPoolRepo(t)

	scoreA, scoreB := 21, 15
	mock.ExpectExec(`UPDATE pool_matches`).
		WithArgs(scoreA, scoreB, 999).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateMatchScore(context.Background(), nil, 999, &scoreA, &scoreB)
	assert.ErrorIs(t, err, ErrPoolMatchNotFound)
}

func TestDeleteByEventRemovesMatchesThenPools(t *testing.T) {
	repo, mock := newPoolRepo(t)

	mock.ExpectExec(`DELETE FROM pool_matches WHERE event = \$1`).
		WithArgs(models.EventMixed).
		WillReturnResult(sqlmock.NewResult(0, 6))
	mock.ExpectExec(`DELETE FROM pools WHERE event = \$1`).
		WithArgs(models.EventMixed).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.DeleteByEvent(context.Background(), nil, models.EventMixed)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
