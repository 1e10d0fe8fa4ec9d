package app

import "sync"

// repaintQueueCap bounds buffered repaint requests; requests coalesce, so
// dropping under pressure is harmless.
const repaintQueueCap = 64

// RepaintQueue is the thread-safe side channel between the UI context's
// repaint callback (any goroutine) and the event loop (main thread). The
// only operation performed under its lock is submitting one message, so
// contention is never held across UI work.
type RepaintQueue struct {
	mu   sync.Mutex
	reqs []RepaintRequest
	wake func()
}

// NewRepaintQueue builds an empty queue with no wake hook.
func NewRepaintQueue() *RepaintQueue {
	return &RepaintQueue{reqs: make([]RepaintRequest, 0, repaintQueueCap)}
}

// SetWake installs the function that interrupts the event loop's wait; bound
// once the window exists.
func (q *RepaintQueue) SetWake(wake func()) {
	q.mu.Lock()
	q.wake = wake
	q.mu.Unlock()
}

// Post submits one request and wakes the loop. Never blocks; safe from any
// goroutine.
func (q *RepaintQueue) Post(req RepaintRequest) {
	q.mu.Lock()
	if len(q.reqs) < repaintQueueCap {
		q.reqs = append(q.reqs, req)
	}
	wake := q.wake
	q.mu.Unlock()
	if wake != nil {
		wake()
	}
}

// Drain takes all pending requests. Called only from the loop thread.
func (q *RepaintQueue) Drain() []RepaintRequest {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.reqs) == 0 {
		return nil
	}
	out := q.reqs
	q.reqs = make([]RepaintRequest, 0, repaintQueueCap)
	return out
}
