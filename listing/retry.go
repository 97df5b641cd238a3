package listing

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	DefaultMaxRetries = 3
)

var _ Lister[int] = (*Retry[int])(nil)

// Retry wraps a Lister, retrying failed List calls with exponential
// backoff. ErrNotFound is an answer, not a failure, and is never retried.
type Retry[K comparable] struct {
	next       Lister[K]
	maxRetries uint64
	newBackOff func() backoff.BackOff
	logger     *zap.Logger
}

type RetryOption func(*retryOptions)

type retryOptions struct {
	initial time.Duration
	max     time.Duration
	logger  *zap.Logger
}

// WithInterval sets the first and the largest wait between attempts.
func WithInterval(initial, max time.Duration) RetryOption {
	return func(o *retryOptions) {
		o.initial = initial
		o.max = max
	}
}

// WithRetryLogger logs each failed attempt at warn level.
func WithRetryLogger(l *zap.Logger) RetryOption {
	return func(o *retryOptions) {
		o.logger = l
	}
}

// NewRetry wraps next. If maxRetries is 0, DefaultMaxRetries is used.
func NewRetry[K comparable](next Lister[K], maxRetries uint64, opts ...RetryOption) *Retry[K] {
	if maxRetries == 0 {
		maxRetries = DefaultMaxRetries
	}

	o := retryOptions{
		initial: backoff.DefaultInitialInterval,
		max:     backoff.DefaultMaxInterval,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Retry[K]{
		next:       next,
		maxRetries: maxRetries,
		logger:     o.logger,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = o.initial
			b.MaxInterval = o.max
			// bounded by maxRetries and the context instead
			b.MaxElapsedTime = 0
			return b
		},
	}
}

func (r *Retry[K]) List(ctx context.Context, id K) ([]Entry[K], error) {
	op := func() ([]Entry[K], error) {
		ch, err := r.next.List(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return nil, backoff.Permanent(err)
		}
		return ch, err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), r.maxRetries), ctx)
	return backoff.RetryNotifyWithData(op, b, func(err error, wait time.Duration) {
		r.logger.Warn("list failed, retrying",
			zap.Any("id", id), zap.Duration("wait", wait), zap.Error(err))
	})
}
