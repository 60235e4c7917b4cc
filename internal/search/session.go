package search

import (
	"github.com/google/uuid"
)

// Session tags one "go"..."bestmove" search with a stable correlation ID,
// threaded into diagnostic logging so concurrent analyses (e.g. a GUI
// running several engine instances, or overlapping ponder/actual searches)
// can be told apart in shared log output. Grounded on the spec's note that
// the engine may be driven by tooling that pipelines multiple searches;
// nothing in the UCI protocol itself carries an identifier, so one is
// synthesized here the way request-scoped correlation IDs are synthesized
// in service code.
type Session struct {
	ID    uuid.UUID
	Depth int
	Nodes uint64
}

// NewSession starts a session with a fresh random ID.
func NewSession() *Session {
	return &Session{ID: uuid.New()}
}

// String renders the session's short form for log lines and info strings.
func (s *Session) String() string {
	return s.ID.String()[:8]
}
