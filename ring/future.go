package ring

import "context"

type completion[T any] struct {
	val T
	err error
}

// Future is the pending result of one submission. It is owned by the
// submitting caller and is not safe for concurrent Await calls.
type Future[T any] struct {
	id   uint64
	op   Opcode
	done chan completion[T]

	// set when the request never reached the queue
	err error

	result   *completion[T]
	received bool
}

// Await suspends until the completion arrives or ctx is done. After the
// completion has been received, Await keeps returning the same result.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	var zero T
	if f.err != nil {
		return zero, f.err
	}
	if f.received {
		return f.result.val, f.result.err
	}

	select {
	case c := <-f.done:
		f.result = &c
		f.received = true
		return c.val, c.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
