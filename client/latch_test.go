package client

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatchFiresOnce(t *testing.T) {
	var l Latch
	assert.True(t, l.TryAcquire())
	assert.False(t, l.TryAcquire())

	l.Reset()
	assert.True(t, l.TryAcquire())
}

func TestLatchSingleWinnerUnderContention(t *testing.T) {
	var l Latch
	var wins atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.TryAcquire() {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), wins.Load())
}
