package services

import "errors"

// Validation errors map to 400/422 at the transport layer.
var (
	ErrInvalidEvent      = errors.New("unknown event category")
	ErrInvalidLevel      = errors.New("player level must be 1-6 or 7 for recreational")
	ErrInvalidFormat     = errors.New("unknown knockout format")
	ErrHalfScore         = errors.New("a pool score needs both values or neither")
	ErrSeedingMismatch   = errors.New("seeding order must list every entrant of the event exactly once")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrInvalidRole       = errors.New("unknown user role")
)

// State errors map to 409: the request is well formed but the tournament is
// not in a stage that allows it.
var (
	ErrSeedingIncomplete = errors.New("every entrant needs a seed rank before pools can be generated")
	ErrPoolsNotGenerated = errors.New("pools have not been generated for this event")
	ErrPoolsIncomplete   = errors.New("every pool match needs a result before the knockout can be generated")
	ErrNoBracket         = errors.New("knockout bracket has not been generated")
	ErrStageNotFound     = errors.New("no such knockout stage")
	ErrMatchNotInStage   = errors.New("match does not belong to the requested stage")
	ErrStageHasScores    = errors.New("stage format cannot change once a result is entered")
	ErrResultStored      = errors.New("fixture already has a result; re-open it before entering a new one")
	ErrFixtureScored     = errors.New("a scored fixture cannot go back on court")
	ErrPlayersBusy       = errors.New("a player of this fixture is already on court")
)
