package routing

import (
	"fmt"
	"sync"

	"github.com/LanternOps/breeze-viewer/internal/infrastructure/logging"
	"go.uber.org/zap"
)

// PrimaryLabel is the reserved label of the always-present default
// window. It is never produced by the label counter.
const PrimaryLabel = "main"

// recoverStore keeps a store usable if an operation panics while its
// lock is held: the panic is logged and the map keeps whatever
// contents it had. A stale entry at worst misroutes a focus; losing
// the store would drop every future link.
func recoverStore(log *logging.Logger, store, op string) {
	if r := recover(); r != nil {
		log.Warn("Recovered panicked store operation",
			zap.String("store", store),
			zap.String("op", op),
			zap.Any("panic", r),
		)
	}
}

// pendingLinks maps window label to the most recent unconsumed
// activation URL for that window. Reads do not consume; an explicit
// Clear removes the entry once the frontend has applied it.
type pendingLinks struct {
	mu    sync.RWMutex
	links map[string]string
	log   *logging.Logger
}

func newPendingLinks(log *logging.Logger) *pendingLinks {
	return &pendingLinks{
		links: make(map[string]string),
		log:   log,
	}
}

// Set stores the URL for a label. Latest write wins.
func (p *pendingLinks) Set(label, url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer recoverStore(p.log, "pending_links", "set")

	p.links[label] = url
}

// Get returns the stored URL without consuming it, so repeated polls
// during slow webview startup are safe.
func (p *pendingLinks) Get(label string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	defer recoverStore(p.log, "pending_links", "get")

	url, ok := p.links[label]
	return url, ok
}

// Clear removes the entry for a label.
func (p *pendingLinks) Clear(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer recoverStore(p.log, "pending_links", "clear")

	delete(p.links, label)
}

// Len returns the number of stored links.
func (p *pendingLinks) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.links)
}

// sessionOwners maps session identifier to owning window label. A
// session is active in at most one window; registration of an already
// known identifier overwrites.
type sessionOwners struct {
	mu     sync.RWMutex
	owners map[string]string
	log    *logging.Logger
}

func newSessionOwners(log *logging.Logger) *sessionOwners {
	return &sessionOwners{
		owners: make(map[string]string),
		log:    log,
	}
}

// Register binds a session identifier to a window label.
func (s *sessionOwners) Register(sessionID, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer recoverStore(s.log, "session_owners", "register")

	s.owners[sessionID] = label
}

// UnregisterLabel removes every session owned by the given label.
// Cleanup is by label, not identifier, so callers need not know which
// session a window was showing. Returns the number of removed entries.
func (s *sessionOwners) UnregisterLabel(label string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer recoverStore(s.log, "session_owners", "unregister_label")

	removed := 0
	for id, owner := range s.owners {
		if owner == label {
			delete(s.owners, id)
			removed++
		}
	}
	return removed
}

// Owner returns the label currently showing the given session.
func (s *sessionOwners) Owner(sessionID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	defer recoverStore(s.log, "session_owners", "owner")

	label, ok := s.owners[sessionID]
	return label, ok
}

// Owns reports whether the given label is showing any session.
func (s *sessionOwners) Owns(label string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	defer recoverStore(s.log, "session_owners", "owns")

	for _, owner := range s.owners {
		if owner == label {
			return true
		}
	}
	return false
}

// Len returns the number of active sessions.
func (s *sessionOwners) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.owners)
}

// labelCounter produces unique window labels for the process lifetime.
// Values are never reused, even after the window is destroyed.
type labelCounter struct {
	mu sync.Mutex
	n  uint64
}

// Next allocates the next session window label.
func (c *labelCounter) Next() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.n++
	return fmt.Sprintf("session-%d", c.n)
}
