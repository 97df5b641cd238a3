package listing

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

var _ Lister[int] = Logged[int]{}

// Logged wraps a Lister and logs every List call.
type Logged[K comparable] struct {
	Next   Lister[K]
	Logger *zap.Logger
}

func (l Logged[K]) List(ctx context.Context, id K) ([]Entry[K], error) {
	start := time.Now()
	ch, err := l.Next.List(ctx, id)
	took := time.Since(start)

	logger := l.Logger
	if logger == nil {
		return ch, err
	}

	switch {
	case errors.Is(err, ErrNotFound):
		logger.Debug("list: not found", zap.Any("id", id), zap.Duration("took", took))
	case err != nil:
		logger.Warn("list failed", zap.Any("id", id), zap.Duration("took", took), zap.Error(err))
	default:
		logger.Debug("list", zap.Any("id", id), zap.Int("children", len(ch)), zap.Duration("took", took))
	}
	return ch, err
}
