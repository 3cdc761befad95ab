package model

// TransitionPolicy is the status transition table for books.
// A missing entry for a source status means every target is allowed.
type TransitionPolicy struct {
	allowed map[BookStatus]map[BookStatus]bool
}

// AllowAllTransitions lets an owner move a book between any two statuses.
func AllowAllTransitions() TransitionPolicy {
	return TransitionPolicy{}
}

// NewTransitionPolicy builds a policy where every status in terminal
// can be entered but never left.
func NewTransitionPolicy(terminal ...BookStatus) TransitionPolicy {
	p := TransitionPolicy{allowed: make(map[BookStatus]map[BookStatus]bool)}
	for _, from := range terminal {
		p.allowed[from] = map[BookStatus]bool{}
	}
	return p
}

// Allows reports whether a book in status from may move to status to.
// Re-applying the current status is always allowed.
func (p TransitionPolicy) Allows(from, to BookStatus) bool {
	if !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	targets, ok := p.allowed[from]
	if !ok {
		return true
	}
	return targets[to]
}

// Terminal reports whether no other status can follow s.
func (p TransitionPolicy) Terminal(s BookStatus) bool {
	for _, to := range AllStatuses {
		if to != s && p.Allows(s, to) {
			return false
		}
	}
	return true
}
