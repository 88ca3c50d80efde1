package pool

import (
	"context"
	"sync"
)

// WorkerFunc processes a single item and may return an error.
type WorkerFunc[T any] func(ctx context.Context, item T) error

// Run processes a slice of items concurrently with the given number of
// workers. It stops feeding new items once the context is cancelled and
// returns the errors collected from the workers.
func Run[T any](ctx context.Context, items []T, numWorkers int, workerFunc WorkerFunc[T]) []error {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if numWorkers > len(items) && len(items) > 0 {
		numWorkers = len(items)
	}

	taskChan := make(chan T)
	errChan := make(chan error, len(items))

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer wg.Done()
			for item := range taskChan {
				if ctx.Err() != nil {
					return
				}
				if err := workerFunc(ctx, item); err != nil {
					errChan <- err
				}
			}
		}()
	}

feed:
	for _, item := range items {
		select {
		case taskChan <- item:
		case <-ctx.Done():
			break feed
		}
	}
	close(taskChan)

	wg.Wait()
	close(errChan)

	var allErrors []error
	for err := range errChan {
		allErrors = append(allErrors, err)
	}
	return allErrors
}
