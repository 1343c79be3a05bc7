package models

import "time"

// Player skill levels run from 1 (strongest) to 6; LevelRecreational marks a
// player without a competitive ranking.
const (
	LevelMin          = 1
	LevelMax          = 6
	LevelRecreational = 7
)

// Bonus added to the strength of mixed pairs so that both categories seed on
// a comparable scale.
const MixedStrengthBonus = 3

// Entrant is a pair competing in one event. Identity is immutable; the seed
// rank is assigned by the seeding editor and is unique within the event once
// seeding is finalized.
type Entrant struct {
	ID        int           `json:"id" db:"id"`
	Event     EventCategory `json:"event" db:"event"`
	Player1   string        `json:"player1" db:"player1"`
	Player2   string        `json:"player2" db:"player2"`
	Level1    int           `json:"level1" db:"level1"`
	Level2    int           `json:"level2" db:"level2"`
	SeedRank  *int          `json:"seed_rank,omitempty" db:"seed_rank"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}

// Strength is always derived from the current levels, never persisted, so a
// later change to the bonus rule cannot leave stale values behind.
func (e *Entrant) Strength() int {
	s := e.Level1 + e.Level2
	if e.Event == EventMixed {
		s += MixedStrengthBonus
	}
	return s
}

func (e *Entrant) Seeded() bool {
	return e.SeedRank != nil
}

// SeedOrLast returns the seed rank, or a sentinel past any real seed for
// unseeded entrants so they sort last.
func (e *Entrant) SeedOrLast() int {
	if e.SeedRank == nil {
		return int(^uint(0) >> 1)
	}
	return *e.SeedRank
}

func ValidLevel(level int) bool {
	return (level >= LevelMin && level <= LevelMax) || level == LevelRecreational
}
