// Package walk runs one depth-first listing traversal per root and
// renders the results. Roots are walked concurrently, but each
// traversal has its own iterator, driven by one goroutine.
package walk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/creasty/defaults"
	"go.lepak.sg/frontier/dfs"
	"go.lepak.sg/frontier/listing"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

type Config struct {
	// Limit is the largest number of entries to pull per root.
	// Zero walks the whole tree.
	Limit int `default:"0"`
	// ListedOrder reverses the output of each root, so that siblings
	// are in the order the lister returned them and a Branch comes
	// before everything below it.
	ListedOrder bool `default:"false"`
	// Retries is how many times a failed List call is retried.
	// Zero means the default; set a negative number to disable
	// retrying.
	Retries int `default:"3"`
	// Concurrency is the number of roots walked at once.
	Concurrency int    `default:"4"`
	Format      string `default:"text"`
}

// NewConfig returns a Config with every field at its default.
func NewConfig() Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		panic(err)
	}
	return c
}

func (c *Config) validate() error {
	if err := defaults.Set(c); err != nil {
		return err
	}
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("walk: unknown format %q", c.Format)
	}
	if c.Limit < 0 {
		return fmt.Errorf("walk: negative limit %d", c.Limit)
	}
	return nil
}

// Result is the outcome of walking one root.
type Result[K comparable] struct {
	Root    K
	Entries []listing.Entry[K]
}

// Walk walks every root and returns the results in the order of
// roots. The first failure cancels the walks still running.
// logger may be nil.
func Walk[K comparable](
	ctx context.Context, cfg Config, logger *zap.Logger, lister listing.Lister[K], roots []K,
) ([]Result[K], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.Retries > 0 {
		lister = listing.NewRetry(lister, uint64(cfg.Retries),
			listing.WithRetryLogger(logger))
	}
	lister = listing.Logged[K]{Next: lister, Logger: logger}

	results := make([]Result[K], len(roots))

	eg, ctx := errgroup.WithContext(ctx)
	if cfg.Concurrency > 0 {
		eg.SetLimit(cfg.Concurrency)
	}

	for n, root := range roots {
		eg.Go(func() error {
			i, err := dfs.New(ctx, lister, root)
			if err != nil {
				return err
			}

			entries, err := dfs.Collect(i, cfg.Limit)
			if err != nil {
				return fmt.Errorf("walk %v: %w", root, err)
			}
			if cfg.ListedOrder {
				entries = dfs.Listed(entries)
			}

			logger.Info("walked",
				zap.Any("root", root), zap.Int("entries", len(entries)))
			results[n] = Result[K]{Root: root, Entries: entries}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

type jsonLine[K comparable] struct {
	Root K            `json:"root"`
	Kind listing.Kind `json:"kind"`
	ID   K            `json:"id"`
}

// Render writes results to w in the configured format.
func Render[K comparable](w io.Writer, format string, results []Result[K]) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		for _, r := range results {
			for _, e := range r.Entries {
				if err := enc.Encode(jsonLine[K]{Root: r.Root, Kind: e.Kind, ID: e.ID}); err != nil {
					return err
				}
			}
		}
	case FormatText, "":
		for _, r := range results {
			if _, err := fmt.Fprintf(w, "# %v\n", r.Root); err != nil {
				return err
			}
			for _, e := range r.Entries {
				tag := "L"
				if e.IsBranch() {
					tag = "B"
				}
				if _, err := fmt.Fprintf(w, "%s %v\n", tag, e.ID); err != nil {
					return err
				}
			}
		}
	default:
		return fmt.Errorf("walk: unknown format %q", format)
	}
	return nil
}

// Run walks roots and renders the results to w.
func Run[K comparable](
	ctx context.Context, cfg Config, logger *zap.Logger, lister listing.Lister[K], roots []K, w io.Writer,
) error {
	results, err := Walk(ctx, cfg, logger, lister, roots)
	if err != nil {
		return err
	}
	return Render(w, cfg.Format, results)
}
