package events

import (
	"fmt"

	uuid "github.com/satori/go.uuid"
)

type EventKind string

const (
	Change EventKind = "change"
	Tap    EventKind = "tap"
)

var knownKinds = []EventKind{Change, Tap}

// Kinds returns every declared event kind.
func Kinds() []EventKind {
	kinds := make([]EventKind, len(knownKinds))
	copy(kinds, knownKinds)
	return kinds
}

func ParseEventKind(s string) (EventKind, error) {
	for _, kind := range knownKinds {
		if string(kind) == s {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown event kind: %q", s)
}

type Handler func(event *Event)

// HandlerID identifies one registration of a Handler. Two registrations of
// the same function get different ids.
type HandlerID = uuid.UUID

// NilHandlerID is returned when nothing was registered.
var NilHandlerID = uuid.Nil

type Event struct {
	Kind   EventKind
	Source Dispatcher
}

func NewEvent(kind EventKind, source Dispatcher) *Event {
	return &Event{kind, source}
}

type EventListener struct {
	ID      HandlerID
	Handler Handler
}

func NewEventListener(handler Handler) *EventListener {
	return &EventListener{
		ID:      uuid.Must(uuid.NewV4()),
		Handler: handler,
	}
}
