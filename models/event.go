package models

// EventCategory identifies one of the two club events that run in parallel.
// Every entity belongs to exactly one event; nothing is shared across them.
type EventCategory string

const (
	EventDoubles EventCategory = "doubles"
	EventMixed   EventCategory = "mixed"
)

// AllEvents lists the fixed categories in display order.
var AllEvents = []EventCategory{EventDoubles, EventMixed}

func (e EventCategory) Valid() bool {
	return e == EventDoubles || e == EventMixed
}
