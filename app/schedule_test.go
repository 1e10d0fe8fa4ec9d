package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerEarliestWins(t *testing.T) {
	base := time.Now()
	t1 := base.Add(10 * time.Millisecond)
	t2 := base.Add(50 * time.Millisecond)

	var s scheduler
	s.RepaintAt(t1)
	s.RepaintAt(t2)
	next, ok := s.Next()
	assert.True(t, ok)
	assert.Equal(t, t1, next, "a later request must not delay an earlier deadline")

	s.Clear()
	s.RepaintAt(t2)
	s.RepaintAt(t1)
	next, _ = s.Next()
	assert.Equal(t, t1, next, "an earlier request must override a later deadline")
}

func TestSchedulerDueAndClear(t *testing.T) {
	base := time.Now()

	var s scheduler
	assert.False(t, s.Due(base), "empty scheduler is never due")

	s.RepaintAt(base)
	assert.True(t, s.Due(base), "deadline is due at exactly its time")
	assert.True(t, s.Due(base.Add(time.Second)))
	assert.False(t, s.Due(base.Add(-time.Second)))

	s.Clear()
	_, ok := s.Next()
	assert.False(t, ok)
	assert.False(t, s.Due(base.Add(time.Hour)))
}

func TestPassFresh(t *testing.T) {
	cases := []struct {
		current, requested uint64
		want               bool
	}{
		{5, 5, true},  // same pass
		{6, 5, true},  // the requesting pass just completed
		{7, 5, false}, // superseded twice over
		{5, 6, false}, // from the future: never issued by this context
		{0, 0, true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, passFresh(c.current, c.requested),
			"current=%d requested=%d", c.current, c.requested)
	}
}
