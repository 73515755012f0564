package verify

import (
	"context"
	"sync"
)

// ValidateBatch resolves a set of DOIs in parallel using a bounded pool
// of workers. The returned slice is index-aligned with the input, so
// callers can correlate verdicts back to their records. Duplicate DOIs
// hit the validator's cache rather than the network.
func (v *Validator) ValidateBatch(ctx context.Context, dois []string, workers int) []Verdict {
	if workers <= 0 {
		workers = 4
	}

	if workers > len(dois) {
		workers = len(dois)
	}

	verdicts := make([]Verdict, len(dois))

	type task struct {
		index int
		doi   string
	}

	tasks := make(chan task, workers*2)

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for t := range tasks {
				verdicts[t.index] = v.Validate(ctx, t.doi)
			}
		}()
	}

	for i, doi := range dois {
		select {
		case <-ctx.Done():
			// Mark the rest as unresolved and stop feeding workers.
			for j := i; j < len(dois); j++ {
				verdicts[j] = Verdict{DOI: dois[j], Category: CategoryUnknown, Message: "canceled"}
			}

			close(tasks)
			wg.Wait()

			return verdicts
		case tasks <- task{index: i, doi: doi}:
		}
	}

	close(tasks)
	wg.Wait()

	return verdicts
}
