package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bcvictoria/tournament-system/models"
)

// Broadcaster pushes a state-change notification to every live subscriber of
// an event category. Implemented by the websocket hub; services call it after
// a successful commit, never inside the transaction.
type Broadcaster interface {
	BroadcastToEvent(event models.EventCategory, messageType string, payload interface{})
}

// Message types sent over the live channel.
const (
	MsgPoolsGenerated   = "pools_generated"
	MsgStandingsChanged = "standings_changed"
	MsgBracketChanged   = "bracket_changed"
	MsgScheduleChanged  = "schedule_changed"
)

// withTransaction runs fn inside a transaction, rolling back on error or
// panic.
func withTransaction(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func ptrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
