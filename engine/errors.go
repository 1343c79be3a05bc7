package engine

import "errors"

// Validation errors: the input itself is malformed. Rejected before any
// mutation and surfaced verbatim to the caller.
var (
	ErrPoolSizeInvalid = errors.New("target pool size must be 3 or 4")
	ErrTiedPoolScore   = errors.New("pool match score cannot be a tie")
	ErrTiedGame        = errors.New("game score cannot be a tie")
	ErrHalfGame        = errors.New("game needs both scores or neither")
	ErrGameGap         = errors.New("games must be entered in order without gaps")
	ErrNegativeScore   = errors.New("game score cannot be negative")
	ErrTooManyGames    = errors.New("more games than the format allows")
	ErrUnneededGame    = errors.New("game entered after the match was already decided")
	ErrByeHasScore     = errors.New("a bye match does not take a score")
)

// State errors: the operation is not valid in the current stage of the
// tournament.
var (
	ErrStageLocked     = errors.New("stage is locked until the previous stage is decided")
	ErrSlotsIncomplete = errors.New("match is still missing an opponent")
)

// Consistency errors: the snapshot references an entity that does not exist.
// Fatal for the request, never silently ignored.
var (
	ErrUnknownEntrant = errors.New("fixture references an unknown entrant")
)
