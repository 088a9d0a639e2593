package performance

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolRunsSubmittedTasks(t *testing.T) {
	pool := NewWorkerPool(3)
	pool.Start()
	defer pool.Stop()

	var done atomic.Int64
	for i := 0; i < 50; i++ {
		ok := pool.Submit(func() { done.Add(1) })
		require.True(t, ok)
	}

	require.Eventually(t, func() bool { return done.Load() == 50 },
		2*time.Second, 10*time.Millisecond)

	stats := pool.Stats()
	assert.Equal(t, uint64(50), stats.TasksTotal)
	assert.Equal(t, uint64(50), stats.TasksDone)
	assert.True(t, stats.Running)
}

func TestWorkerPoolStopDrainsQueue(t *testing.T) {
	pool := NewWorkerPool(1)
	pool.Start()

	var done atomic.Int64
	for i := 0; i < 20; i++ {
		pool.Submit(func() {
			time.Sleep(time.Millisecond)
			done.Add(1)
		})
	}

	pool.Stop()
	assert.Equal(t, int64(20), done.Load())
}

func TestWorkerPoolRejectsAfterStop(t *testing.T) {
	pool := NewWorkerPool(1)
	pool.Start()
	pool.Stop()

	assert.False(t, pool.Submit(func() {}))
}

func TestSubmitWaitBlocksUntilDone(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()
	defer pool.Stop()

	var ran bool
	ok := pool.SubmitWait(func() { ran = true })
	require.True(t, ok)
	assert.True(t, ran)
}
