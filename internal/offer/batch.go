package offer

import (
	"context"
	"log"
	"sync"
)

// Result is the outcome of one document of a batch.
type Result struct {
	Index  int
	Path   string
	Record Record
	Err    error
}

// ExtractAll extracts paths with up to workers documents in flight. Results
// come back in input order; a failed document does not affect the others.
func (e *Extractor) ExtractAll(ctx context.Context, paths []string, workers int) []Result {
	if workers < 1 {
		workers = 1
	}
	results := make([]Result, len(paths))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, path := range paths {
		results[i] = Result{Index: i, Path: path}
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		select {
		case <-ctx.Done():
			results[i].Err = ctx.Err()
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()

			rec, err := e.ExtractFile(path)
			if err != nil {
				log.Printf("batch: %s: %v", path, err)
				results[i].Err = err
				return
			}
			results[i].Record = rec
		}(i, path)
	}

	wg.Wait()
	return results
}
