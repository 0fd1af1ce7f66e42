package generate

import "time"

// keepBestResult is what one retryKeepBest invocation produced.
type keepBestResult[T any] struct {
	Best     *T
	Score    float64
	Attempts int
	Stopped  bool
	LastErr  error
}

// retryKeepBest runs fn up to maxAttempts times, retaining the
// highest-scoring value seen. fn reports the value's score and whether
// the loop should stop early; an error consumes the attempt without a
// candidate. A stopping value becomes Best outright, even when an
// earlier attempt scored higher: stopping means the value is accepted
// as-is. pause is called between attempts with the 0-based index of
// the attempt that just finished and whether it errored.
func retryKeepBest[T any](
	maxAttempts int,
	fn func(attempt int) (val *T, score float64, stop bool, err error),
	pause func(attempt int, failed bool),
) keepBestResult[T] {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var out keepBestResult[T]
	for i := 0; i < maxAttempts; i++ {
		out.Attempts = i + 1
		val, sc, stop, err := fn(i)
		if err != nil {
			out.LastErr = err
		} else if val != nil && stop {
			out.Best = val
			out.Score = sc
			out.Stopped = true
			break
		} else if val != nil && (out.Best == nil || sc > out.Score) {
			out.Best = val
			out.Score = sc
		}
		if i < maxAttempts-1 && pause != nil {
			pause(i, err != nil)
		}
	}
	return out
}

// backoffAfterError grows with the attempt index: 2s, 4s, 6s...
func backoffAfterError(attempt int) time.Duration {
	return time.Duration(attempt+1) * 2 * time.Second
}

// retryPause is the fixed wait after a quality rejection.
const retryPause = time.Second
