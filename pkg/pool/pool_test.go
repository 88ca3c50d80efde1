package pool_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dimplex-community/dimctl/pkg/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ProcessesAllItems(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	var count atomic.Int64

	errs := pool.Run(context.Background(), items, 3, func(ctx context.Context, item int) error {
		count.Add(1)
		return nil
	})

	assert.Empty(t, errs)
	assert.Equal(t, int64(len(items)), count.Load())
}

func TestRun_CollectsErrors(t *testing.T) {
	items := []int{1, 2, 3, 4}
	failure := errors.New("worker failed")

	errs := pool.Run(context.Background(), items, 2, func(ctx context.Context, item int) error {
		if item%2 == 0 {
			return failure
		}
		return nil
	})

	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], failure)
}

func TestRun_EmptyItems(t *testing.T) {
	errs := pool.Run(context.Background(), nil, 4, func(ctx context.Context, item string) error {
		t.Error("worker should not be called")
		return nil
	})
	assert.Empty(t, errs)
}

func TestRun_InvalidWorkerCountStillRuns(t *testing.T) {
	var count atomic.Int64
	errs := pool.Run(context.Background(), []int{1, 2, 3}, 0, func(ctx context.Context, item int) error {
		count.Add(1)
		return nil
	})
	assert.Empty(t, errs)
	assert.Equal(t, int64(3), count.Load())
}

func TestRun_ContextCancellationStopsFeeding(t *testing.T) {
	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}

	ctx, cancel := context.WithCancel(context.Background())
	var count atomic.Int64

	pool.Run(ctx, items, 2, func(ctx context.Context, item int) error {
		if count.Add(1) == 3 {
			cancel()
		}
		time.Sleep(time.Millisecond)
		return nil
	})

	assert.Less(t, count.Load(), int64(len(items)))
}
