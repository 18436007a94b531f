package tags

import (
	"sync"

	pkgerrors "github.com/tagdeck/backend/pkg/errors"
)

// Session is the ephemeral baseline/working pair scoped to one open order
// tag editor. Baseline holds the tags as last persisted; Working holds the
// in-progress selection. Sessions guard their own state: concurrent handler
// goroutines may hold the same pointer.
type Session struct {
	OrderID  string   `json:"order_id"`
	Baseline []string `json:"baseline"`
	Working  []string `json:"working"`
	Query    string   `json:"query"`

	mu     sync.Mutex
	saving bool
}

// NewSession opens an edit session from an order's persisted wire-form tags.
func NewSession(orderID, tagsWire string) *Session {
	return &Session{
		OrderID:  orderID,
		Baseline: Split(tagsWire),
		Working:  Split(tagsWire),
	}
}

// Saving reports whether a save round trip is outstanding.
func (s *Session) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

// Toggle flips one tag in the working selection.
func (s *Session) Toggle(tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Working = Toggle(s.Working, tag)
}

// Option is one candidate row for the search listbox.
type Option struct {
	Value     string    `json:"value"`
	Selected  bool      `json:"selected"`
	Highlight Highlight `json:"highlight"`
}

// OptionList is the derived view for the current query: the filtered
// candidate pool plus whether a "create new tag" action should be offered.
type OptionList struct {
	Options   []Option `json:"options"`
	CanCreate bool     `json:"can_create"`
	Query     string   `json:"query"`
}

// OptionsFor computes the candidate list for a query. The pool is the sorted
// union of baseline and working, so deselected tags remain offered.
func (s *Session) OptionsFor(query string) OptionList {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Query = query
	pool := UnionSorted(s.Baseline, s.Working)
	filtered := FilterByQuery(pool, query)

	options := make([]Option, 0, len(filtered))
	for _, tag := range filtered {
		options = append(options, Option{
			Value:     tag,
			Selected:  contains(s.Working, tag),
			Highlight: HighlightMatch(tag, query),
		})
	}

	return OptionList{
		Options:   options,
		CanCreate: query != "" && !HasExactMatch(pool, query),
		Query:     query,
	}
}

// BeginSave marks the session as saving and returns the wire form to send to
// the remote platform. The test-and-set happens under the session lock, so of
// two concurrent saves exactly one proceeds; the other is rejected rather
// than queued, and two in-flight saves can never race the baseline.
func (s *Session) BeginSave() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return "", pkgerrors.New(pkgerrors.CodeConflict, "a save is already in flight for this order")
	}
	s.saving = true
	return Join(s.Working), nil
}

// CompleteSave applies the server-confirmed tags: baseline and working both
// become the persisted result.
func (s *Session) CompleteSave(persisted []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	s.Baseline = append([]string(nil), persisted...)
	s.Working = append([]string(nil), persisted...)
}

// FailSave returns the session to editing with the working selection intact.
func (s *Session) FailSave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
}

func contains(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
