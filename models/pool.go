package models

// Pool is an ordered round-robin group of 3-4 entrants, numbered from 1
// within its event.
type Pool struct {
	ID     int           `json:"id" db:"id"`
	Event  EventCategory `json:"event" db:"event"`
	Number int           `json:"number" db:"number"`
}

// PoolMatch is one fixture of a pool's round robin: an unordered pair of
// entrants from the same pool. Scores are nullable until entered; once both
// are present the result stands until explicitly re-opened. InProgress is a
// transient on-court flag used by the scheduler.
type PoolMatch struct {
	ID          int           `json:"id" db:"id"`
	Event       EventCategory `json:"event" db:"event"`
	PoolID      int           `json:"pool_id" db:"pool_id"`
	PoolNumber  int           `json:"pool_number" db:"pool_number"`
	OrderInPool int           `json:"order_in_pool" db:"order_in_pool"`
	EntrantAID  int           `json:"entrant_a_id" db:"entrant_a_id"`
	EntrantBID  int           `json:"entrant_b_id" db:"entrant_b_id"`
	ScoreA      *int          `json:"score_a,omitempty" db:"score_a"`
	ScoreB      *int          `json:"score_b,omitempty" db:"score_b"`
	InProgress  bool          `json:"in_progress" db:"in_progress"`
}

// Scored reports whether both scores have been entered.
func (m *PoolMatch) Scored() bool {
	return m.ScoreA != nil && m.ScoreB != nil
}

// Involves reports whether the entrant plays in this fixture.
func (m *PoolMatch) Involves(entrantID int) bool {
	return m.EntrantAID == entrantID || m.EntrantBID == entrantID
}

// WinnerID returns the entrant with the higher score, or 0 when unscored.
// Equal scores never occur in stored fixtures; they are rejected on entry.
func (m *PoolMatch) WinnerID() int {
	if !m.Scored() {
		return 0
	}
	if *m.ScoreA > *m.ScoreB {
		return m.EntrantAID
	}
	return m.EntrantBID
}
