// Package ring provides a completion-based I/O facility.
//
// Operations are submitted to a bounded queue and executed by a fixed pool of
// workers; every submission returns a Future whose Await suspends the caller
// until the completion for that request has been delivered. Abandoning an
// Await does not cancel the request: the completion is still produced and
// dropped.
package ring

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/mwantia/asyncfs/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

var ErrRingClosed = errors.New("ring: closed")

const (
	DefaultWorkers    = 4
	DefaultQueueDepth = 64
)

type Options struct {
	// Workers is the number of goroutines executing submissions.
	Workers int
	// QueueDepth bounds the number of in-flight submissions. Submitting beyond
	// it suspends the caller until a slot frees up.
	QueueDepth int64
	// IOLimitBytesPerSec throttles ReadAt/WriteAt submissions. 0 means unlimited.
	IOLimitBytesPerSec int64

	Logger *log.Logger
}

type Option func(*Options)

func WithWorkers(workers int) Option {
	return func(o *Options) {
		o.Workers = workers
	}
}

func WithQueueDepth(depth int64) Option {
	return func(o *Options) {
		o.QueueDepth = depth
	}
}

func WithIOLimit(bytesPerSec int64) Option {
	return func(o *Options) {
		o.IOLimitBytesPerSec = bytesPerSec
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

type Ring struct {
	mu     sync.RWMutex
	closed bool

	log     *log.Logger
	sq      chan *request
	slots   *semaphore.Weighted
	limiter *rate.Limiter
	workers errgroup.Group
	seq     atomic.Uint64
}

type request struct {
	id   uint64
	op   Opcode
	exec func()
}

// New starts the worker pool. Shutdown must be called to stop it.
func New(opts ...Option) *Ring {
	options := &Options{
		Workers:    DefaultWorkers,
		QueueDepth: DefaultQueueDepth,
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.Workers <= 0 {
		options.Workers = DefaultWorkers
	}
	if options.QueueDepth <= 0 {
		options.QueueDepth = DefaultQueueDepth
	}
	if options.Logger == nil {
		options.Logger = log.Discard()
	}

	r := &Ring{
		log:   options.Logger,
		sq:    make(chan *request, options.QueueDepth),
		slots: semaphore.NewWeighted(options.QueueDepth),
	}

	if options.IOLimitBytesPerSec > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(options.IOLimitBytesPerSec), int(options.IOLimitBytesPerSec))
	}

	for range options.Workers {
		r.workers.Go(r.work)
	}

	r.log.Debug("started with %d workers, queue depth %d", options.Workers, options.QueueDepth)
	return r
}

func (r *Ring) work() error {
	for req := range r.sq {
		req.exec()
		r.slots.Release(1)
	}
	return nil
}

// Shutdown rejects further submissions, lets queued requests complete and
// waits for the workers to exit.
func (r *Ring) Shutdown() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRingClosed
	}
	r.closed = true
	close(r.sq)
	r.mu.Unlock()

	err := r.workers.Wait()
	r.log.Debug("stopped")
	return err
}

func (r *Ring) enqueue(ctx context.Context, req *request) error {
	if err := r.slots.Acquire(ctx, 1); err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.slots.Release(1)
		return ErrRingClosed
	}

	// never blocks: the channel holds QueueDepth entries and a slot is held
	r.sq <- req
	return nil
}

// throttle waits for n bytes worth of tokens, in chunks no larger than the burst.
func (r *Ring) throttle(ctx context.Context, n int) error {
	if r.limiter == nil || n <= 0 {
		return nil
	}

	burst := r.limiter.Burst()
	for n > 0 {
		chunk := min(n, burst)
		if err := r.limiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

func submit[T any](ctx context.Context, r *Ring, op Opcode, target string, fn func() (T, error)) *Future[T] {
	f := &Future[T]{
		id:   r.seq.Add(1),
		op:   op,
		done: make(chan completion[T], 1),
	}

	req := &request{
		id: f.id,
		op: op,
		exec: func() {
			val, err := fn()
			if err != nil {
				r.log.Debug("#%d %s %s failed: %v", f.id, op, target, err)
			}
			// buffered; an abandoned future never blocks the worker
			f.done <- completion[T]{val: val, err: err}
		},
	}

	if err := r.enqueue(ctx, req); err != nil {
		f.err = err
		return f
	}

	r.log.Debug("#%d %s %s submitted", f.id, op, target)
	return f
}

func failed[T any](r *Ring, op Opcode, err error) *Future[T] {
	return &Future[T]{
		id:  r.seq.Add(1),
		op:  op,
		err: err,
	}
}
