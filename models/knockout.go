package models

// KnockoutFormat is the best-of setting of a knockout stage.
type KnockoutFormat string

const (
	FormatBestOfOne   KnockoutFormat = "best_of_1"
	FormatBestOfThree KnockoutFormat = "best_of_3"
)

func (f KnockoutFormat) Valid() bool {
	return f == FormatBestOfOne || f == FormatBestOfThree
}

// MaxGames returns the maximum number of games the format allows.
func (f KnockoutFormat) MaxGames() int {
	if f == FormatBestOfThree {
		return 3
	}
	return 1
}

// GameScore is one completed game of a knockout match.
type GameScore struct {
	A int `json:"a"`
	B int `json:"b"`
}

// KnockoutMatch is identified by (event, stage, order). Stage 1 is the first
// knockout round; the highest stage is the final. Slots hold entrant ids once
// known. ScoreA/ScoreB is the derived aggregate (raw points for best-of-1,
// games won for best-of-3). The locked/pending/decided state is computed from
// the fields rather than stored, so representation cannot drift.
type KnockoutMatch struct {
	ID           int            `json:"id" db:"id"`
	Event        EventCategory  `json:"event" db:"event"`
	Stage        int            `json:"stage" db:"stage"`
	OrderInStage int            `json:"order_in_stage" db:"order_in_stage"`
	SlotAID      *int           `json:"slot_a_id,omitempty" db:"slot_a_id"`
	SlotBID      *int           `json:"slot_b_id,omitempty" db:"slot_b_id"`
	Format       KnockoutFormat `json:"format" db:"format"`
	Games        []GameScore    `json:"games" db:"games"`
	ScoreA       *int           `json:"score_a,omitempty" db:"score_a"`
	ScoreB       *int           `json:"score_b,omitempty" db:"score_b"`
	WinnerID     *int           `json:"winner_id,omitempty" db:"winner_id"`
	Unlocked     bool           `json:"unlocked" db:"unlocked"`
}

// IsBye reports whether exactly one slot is populated. A bye is decided on
// creation and never accepts scores.
func (m *KnockoutMatch) IsBye() bool {
	return (m.SlotAID != nil) != (m.SlotBID != nil)
}

// Decided reports whether the winner is known.
func (m *KnockoutMatch) Decided() bool {
	return m.WinnerID != nil
}

// HasScore reports whether any game has been recorded.
func (m *KnockoutMatch) HasScore() bool {
	return len(m.Games) > 0
}

// SlotsComplete reports whether both opponents are known.
func (m *KnockoutMatch) SlotsComplete() bool {
	return m.SlotAID != nil && m.SlotBID != nil
}
