package tags

import "sync"

// Registry tracks the open edit sessions, keyed by order id. One session per
// order at a time: opening again replaces the previous session (same
// operator re-opening the dialog).
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Open creates (or replaces) the session for an order from its persisted
// wire-form tags and returns it.
func (r *Registry) Open(orderID, tagsWire string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	session := NewSession(orderID, tagsWire)
	r.sessions[orderID] = session
	return session
}

// Get returns the open session for an order, or nil.
func (r *Registry) Get(orderID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[orderID]
}

// Close discards the session for an order. Closing an absent session is a
// no-op, so cancel is idempotent.
func (r *Registry) Close(orderID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, orderID)
}

// ApplyPersisted delivers a save response to the session for orderID. A late
// response for a session that has since closed is dropped; the return value
// reports whether a session consumed it.
func (r *Registry) ApplyPersisted(orderID string, persisted []string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[orderID]
	if !ok {
		return false
	}
	session.CompleteSave(persisted)
	return true
}
