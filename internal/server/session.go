package server

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "langsearch_session"

// sessions tracks which browser sessions have a search in flight.
type sessions struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func newSessions() *sessions {
	return &sessions{inFlight: make(map[string]struct{})}
}

// acquire marks id busy. It returns false when id already has a run in
// flight; otherwise the returned func must be called when the run ends.
func (s *sessions) acquire(id string) (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inFlight[id]; busy {
		return nil, false
	}
	s.inFlight[id] = struct{}{}
	return func() {
		s.mu.Lock()
		delete(s.inFlight, id)
		s.mu.Unlock()
	}, true
}

// sessionID returns the caller's session id, issuing a new cookie when the
// request carries none (or a malformed one).
func sessionID(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
	return id
}
