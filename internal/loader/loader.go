// Package loader reconciles scraped movie records against the store:
// readiness probe, uniqueness constraint, then idempotent upsert-by-url.
package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/Remy-AbdoulMazidou/CineFinder---Projet-Data-Engineering/internal/metrics"
	"github.com/Remy-AbdoulMazidou/CineFinder---Projet-Data-Engineering/internal/movie"
	"github.com/Remy-AbdoulMazidou/CineFinder---Projet-Data-Engineering/internal/store"
)

// Fatal load errors. Anything record-local is counted instead.
var (
	// ErrPreconditionFailed means the input sequence was empty. Loading
	// nothing is refused outright: downstream treats the store as "latest
	// data", and an accidental empty run must not masquerade as one.
	ErrPreconditionFailed = errors.New("loader: no records to load")

	// ErrStoreUnavailable means the readiness probe never succeeded within
	// the configured window. The load aborts with nothing written.
	ErrStoreUnavailable = errors.New("loader: store unavailable")
)

// Config bounds the readiness wait.
type Config struct {
	ReadyTimeout      time.Duration
	ReadyInitialDelay time.Duration
}

// Summary is the observable outcome of a load. Rejected > 0 with a nil error
// is success-with-errors: the run finished but individual records were
// refused by the store.
type Summary struct {
	Inserted   int         `json:"inserted"`
	Updated    int         `json:"updated"`
	Rejected   int         `json:"rejected"`
	Total      int         `json:"total"`
	Rejections []Rejection `json:"rejections,omitempty"`
}

// Rejection records one record the store refused, with the reason.
type Rejection struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// Loader performs batch loads against an injected store handle.
type Loader struct {
	provider store.Provider
	cfg      Config
	logger   *zap.Logger
}

// New constructs a Loader.
func New(provider store.Provider, cfg Config, logger *zap.Logger) *Loader {
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = 60 * time.Second
	}
	if cfg.ReadyInitialDelay <= 0 {
		cfg.ReadyInitialDelay = 500 * time.Millisecond
	}
	return &Loader{provider: provider, cfg: cfg, logger: logger}
}

// Load upserts records in input order. Preconditions: the sequence is
// non-empty and the store answers the readiness probe within the bounded
// backoff window. Each upsert is keyed by url with full-document replace
// semantics, so loading the same sequence twice leaves one document per
// distinct url, carrying the fields of the second load.
func (l *Loader) Load(ctx context.Context, records []movie.Record) (Summary, error) {
	summary := Summary{Total: len(records)}
	if len(records) == 0 {
		return summary, ErrPreconditionFailed
	}

	if err := l.waitReady(ctx); err != nil {
		return summary, err
	}

	if err := l.provider.EnsureURLIndex(ctx); err != nil {
		return summary, fmt.Errorf("ensure url index: %w", err)
	}

	scrapedAt := time.Now().Unix()
	for _, rec := range records {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		if !rec.Valid() {
			summary.Rejected++
			summary.Rejections = append(summary.Rejections, Rejection{
				URL:    rec.URL,
				Reason: "missing url or title",
			})
			metrics.ObserveUpsert("rejected")
			continue
		}
		rec.ScrapedAt = scrapedAt

		res, err := l.provider.Upsert(ctx, rec)
		if err != nil {
			// A single refused record does not abort the run.
			l.logger.Warn("record rejected by store", zap.String("url", rec.URL), zap.Error(err))
			summary.Rejected++
			summary.Rejections = append(summary.Rejections, Rejection{URL: rec.URL, Reason: err.Error()})
			metrics.ObserveUpsert("rejected")
			continue
		}
		if res.Inserted {
			summary.Inserted++
			metrics.ObserveUpsert("inserted")
		} else {
			summary.Updated++
			metrics.ObserveUpsert("updated")
		}
	}

	l.logger.Info("load finished",
		zap.Int("total", summary.Total),
		zap.Int("inserted", summary.Inserted),
		zap.Int("updated", summary.Updated),
		zap.Int("rejected", summary.Rejected),
	)
	return summary, nil
}

// waitReady polls the readiness probe with exponential backoff until it
// answers or the window closes.
func (l *Loader) waitReady(ctx context.Context) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = l.cfg.ReadyInitialDelay
	policy.MaxElapsedTime = l.cfg.ReadyTimeout

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		if err := l.provider.Ping(ctx); err != nil {
			l.logger.Debug("store not ready", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		return nil
	}, backoff.WithContext(policy, ctx))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
