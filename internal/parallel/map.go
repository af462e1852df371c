package parallel

// Map calls fn(i) for every i in [0, n) on the pool and returns the results
// indexed by i. Result order never depends on scheduling.
//
// A nil pool runs fn sequentially on the calling goroutine.
func Map[T any](p *WorkerPool, n int, fn func(i int) T) []T {
	out := make([]T, n)
	if p == nil {
		for i := range n {
			out[i] = fn(i)
		}
		return out
	}

	work := make([]func(), n)
	for i := range n {
		work[i] = func() {
			out[i] = fn(i)
		}
	}
	p.ExecuteAll(work)
	return out
}
