// Package visited tracks the fingerprints of expanded states for loop suppression.
package visited

// Tracker is a set of state fingerprints. It is owned by a single search run
// and is not safe for concurrent use.
type Tracker struct {
	seen map[string]struct{}
}

// NewTracker creates an empty tracker. sizeHint pre-sizes the set and may be zero.
func NewTracker(sizeHint int) *Tracker {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Tracker{seen: make(map[string]struct{}, sizeHint)}
}

// Contains reports whether fingerprint has been marked.
func (t *Tracker) Contains(fingerprint string) bool {
	_, ok := t.seen[fingerprint]
	return ok
}

// Mark records fingerprint. It returns false if it was already present.
func (t *Tracker) Mark(fingerprint string) bool {
	if _, ok := t.seen[fingerprint]; ok {
		return false
	}
	t.seen[fingerprint] = struct{}{}
	return true
}

// Len is the number of distinct fingerprints marked so far.
func (t *Tracker) Len() int { return len(t.seen) }
