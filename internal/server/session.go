package server

import (
	"github.com/google/uuid"

	"limitpoker/internal/event"
)

// Session is one connected client. Until login succeeds it has no username
// and may only issue the login command. The session doubles as the table
// observer for every table the user has opened.
type Session struct {
	ID       string
	Username string

	sink   func(e event.Event)
	tables map[uint64]bool
}

// NewSession wraps a transport's outbound event sink. The sink is invoked on
// the server loop and must not block.
func NewSession(sink func(e event.Event)) *Session {
	return &Session{
		ID:     uuid.NewString(),
		sink:   sink,
		tables: map[uint64]bool{},
	}
}

// Notify implements table.Observer.
func (s *Session) Notify(e event.Event) {
	if s.sink != nil {
		s.sink(e)
	}
}

// Tables lists the ids of the tables the session has opened.
func (s *Session) Tables() []uint64 {
	ids := make([]uint64, 0, len(s.tables))
	for id := range s.tables {
		ids = append(ids, id)
	}
	return ids
}
