package app

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRepaintQueuePostDrain(t *testing.T) {
	q := NewRepaintQueue()
	now := time.Now()

	q.Post(RepaintRequest{When: now, PassNr: 1})
	q.Post(RepaintRequest{When: now.Add(time.Millisecond), PassNr: 2})

	got := q.Drain()
	assert.Len(t, got, 2)
	assert.Equal(t, uint64(1), got[0].PassNr)
	assert.Equal(t, uint64(2), got[1].PassNr)

	assert.Nil(t, q.Drain(), "drained queue is empty")
}

func TestRepaintQueueWake(t *testing.T) {
	q := NewRepaintQueue()
	woken := 0
	q.SetWake(func() { woken++ })

	q.Post(RepaintRequest{When: time.Now()})
	q.Post(RepaintRequest{When: time.Now()})
	assert.Equal(t, 2, woken, "every post wakes the loop")
}

func TestRepaintQueueDropsWhenFull(t *testing.T) {
	q := NewRepaintQueue()
	for i := 0; i < repaintQueueCap*2; i++ {
		q.Post(RepaintRequest{PassNr: uint64(i)})
	}
	assert.Len(t, q.Drain(), repaintQueueCap, "excess requests coalesce away")
}

func TestRepaintQueueConcurrentPost(t *testing.T) {
	q := NewRepaintQueue()
	q.SetWake(func() {})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 4; j++ {
				q.Post(RepaintRequest{When: time.Now()})
			}
		}()
	}
	wg.Wait()
	assert.Len(t, q.Drain(), 32)
}
