package app

import "time"

// scheduler owns the single "next repaint time". The zero value has no
// deadline.
type scheduler struct {
	next time.Time // zero = nothing scheduled
}

// RepaintAt merges a requested deadline: the earlier of the existing and the
// new deadline wins, so an already-scheduled earlier repaint is never
// delayed.
func (s *scheduler) RepaintAt(t time.Time) {
	if s.next.IsZero() || t.Before(s.next) {
		s.next = t
	}
}

// Next returns the pending deadline, if any.
func (s *scheduler) Next() (time.Time, bool) {
	return s.next, !s.next.IsZero()
}

// Due reports whether the deadline has arrived.
func (s *scheduler) Due(now time.Time) bool {
	return !s.next.IsZero() && !now.Before(s.next)
}

// Clear consumes the deadline.
func (s *scheduler) Clear() { s.next = time.Time{} }

// passFresh is the logical-clock staleness check for asynchronous repaint
// requests: a request is honored only if the context's pass counter still
// matches the snapshot, or is exactly one ahead of it (the request's own
// pass may have just completed). Anything further behind was issued by a
// superseded pass.
func passFresh(current, requested uint64) bool {
	return current == requested || current == requested+1
}
