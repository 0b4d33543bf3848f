package collector

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchPool_BoundsConcurrency(t *testing.T) {
	const workers = 3
	pool := NewFetchPool(workers, 32)
	defer pool.Close()

	var inFlight, peak int64
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := pool.Do(context.Background(), func(ctx context.Context) (RawPayload, error) {
				n := atomic.AddInt64(&inFlight, 1)
				for {
					p := atomic.LoadInt64(&peak)
					if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				atomic.AddInt64(&inFlight, -1)
				return RawPayload{"ok": true}, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(workers))
	assert.Greater(t, atomic.LoadInt64(&peak), int64(0))
}

func TestFetchPool_ReturnsResult(t *testing.T) {
	pool := NewFetchPool(1, 0)
	defer pool.Close()

	payload, err := pool.Do(context.Background(), func(ctx context.Context) (RawPayload, error) {
		return RawPayload{fieldTitle: "hello"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", payload[fieldTitle])
}

func TestFetchPool_CancelledWhileQueued(t *testing.T) {
	pool := NewFetchPool(1, 8)
	defer pool.Close()

	// Occupy the single worker.
	release := make(chan struct{})
	go pool.Do(context.Background(), func(ctx context.Context) (RawPayload, error) {
		<-release
		return nil, nil
	})
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pool.Do(ctx, func(ctx context.Context) (RawPayload, error) {
		return RawPayload{}, nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
}

func TestFetchPool_CancelledWhileQueueFull(t *testing.T) {
	pool := NewFetchPool(1, 1)
	defer pool.Close()

	// Occupy the single worker, then fill the one-slot queue so the next
	// caller has to wait for queue space.
	release := make(chan struct{})
	go pool.Do(context.Background(), func(ctx context.Context) (RawPayload, error) {
		<-release
		return nil, nil
	})
	time.Sleep(20 * time.Millisecond)
	go pool.Do(context.Background(), func(ctx context.Context) (RawPayload, error) {
		return nil, nil
	})
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := pool.Do(ctx, func(ctx context.Context) (RawPayload, error) {
		return RawPayload{}, nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)

	close(release)
}

func TestFetchPool_ClosedRejectsWork(t *testing.T) {
	pool := NewFetchPool(2, 0)
	pool.Close()

	_, err := pool.Do(context.Background(), func(ctx context.Context) (RawPayload, error) {
		return RawPayload{}, nil
	})
	assert.ErrorIs(t, err, ErrPoolClosed)
}
