// Package parallel runs independent index ranges on a small pool of goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig uses one worker per CPU.
func DefaultConfig() Config {
	return WithWorkers(0)
}

// WithWorkers returns a Config with n workers. n <= 0 means one per CPU and
// n == 1 runs everything on the calling goroutine.
func WithWorkers(n int) Config {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 8,
	}
}

// For calls f(i) for every i in [0, n).
//
// Inputs smaller than MinChunkSize run sequentially. Otherwise contiguous
// chunks run concurrently, so f must be safe to call from several goroutines
// for distinct i. A panic in any chunk is re-raised on the calling goroutine
// once every chunk has finished.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || cfg.NumWorkers < 2 || n < cfg.MinChunkSize {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var (
		wg        sync.WaitGroup
		once      sync.Once
		recovered any
	)
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					once.Do(func() { recovered = r })
				}
			}()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()

	if recovered != nil {
		panic(recovered)
	}
}
