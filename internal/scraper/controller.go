package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Remy-AbdoulMazidou/CineFinder---Projet-Data-Engineering/internal/metrics"
	"github.com/Remy-AbdoulMazidou/CineFinder---Projet-Data-Engineering/internal/movie"
)

// EntryStatus is the lifecycle state of one frontier entry.
type EntryStatus string

// Frontier entry states. Every entry starts Pending and ends in one of the
// three terminal states, unless the run is aborted first.
const (
	StatusPending   EntryStatus = "pending"
	StatusFetching  EntryStatus = "fetching"
	StatusExtracted EntryStatus = "extracted"
	StatusSkipped   EntryStatus = "skipped"
	StatusFailed    EntryStatus = "failed"
)

// Failure records one URL that permanently failed, with its reason.
type Failure struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// Summary is the observable outcome of a run. Aborted distinguishes "zero
// results because nothing matched" from "zero results because the run was
// cut short"; the two must never be conflated.
type Summary struct {
	RunID        string        `json:"run_id"`
	FrontierSize int           `json:"frontier_size"`
	Extracted    int           `json:"extracted"`
	Skipped      int           `json:"skipped"`
	Failed       int           `json:"failed"`
	Pending      int           `json:"pending"`
	Failures     []Failure     `json:"failures,omitempty"`
	Aborted      bool          `json:"aborted"`
	Elapsed      time.Duration `json:"elapsed"`
}

// Controller drives the two-phase crawl: listing seeds first, then detail
// pages through a bounded worker pool. Output order is frontier order, never
// fetch-completion order.
type Controller struct {
	cfg     Config
	fetcher Fetcher
	retry   RetryPolicy
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewController wires a Controller. The politeness limiter is a shared token
// bucket derived from cfg.Delay, so the per-request delay holds across all
// workers, not per worker.
func NewController(cfg Config, fetcher Fetcher, retry RetryPolicy, logger *zap.Logger) *Controller {
	limit := rate.Inf
	if cfg.Delay > 0 {
		limit = rate.Every(cfg.Delay)
	}
	return &Controller{
		cfg:     cfg,
		fetcher: fetcher,
		retry:   retry,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// outcome is one worker's result for one frontier entry, kept per-index so
// workers never contend on shared output state.
type outcome struct {
	status EntryStatus
	record movie.Record
	reason string
}

// Run executes the crawl and returns the extracted records in frontier order
// plus the run summary. Cancellation mid-run yields a valid partial summary
// with Aborted set; it is not an error.
func (c *Controller) Run(ctx context.Context) ([]movie.Record, Summary, error) {
	start := time.Now()
	summary := Summary{RunID: uuid.NewString()}

	seeds, seedFailures := c.fetchSeeds(ctx)
	summary.Failures = append(summary.Failures, seedFailures...)
	summary.Failed += len(seedFailures)

	frontier, err := BuildFrontier(seeds, c.cfg.BaseURL, c.cfg.DetailPathPrefix, c.cfg.MaxItems)
	if err != nil {
		return nil, summary, fmt.Errorf("build frontier: %w", err)
	}
	summary.FrontierSize = len(frontier)
	c.logger.Info("frontier built",
		zap.String("run_id", summary.RunID),
		zap.Int("seeds", len(seeds)),
		zap.Int("urls", len(frontier)),
	)

	outcomes := c.crawlDetails(ctx, frontier)

	records := make([]movie.Record, 0, len(frontier))
	for i, out := range outcomes {
		switch out.status {
		case StatusExtracted:
			summary.Extracted++
			records = append(records, out.record)
		case StatusSkipped:
			summary.Skipped++
		case StatusFailed:
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{URL: frontier[i], Reason: out.reason})
		default:
			summary.Pending++
		}
	}

	summary.Aborted = ctx.Err() != nil
	summary.Elapsed = time.Since(start)
	c.logger.Info("crawl finished",
		zap.String("run_id", summary.RunID),
		zap.Int("extracted", summary.Extracted),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Int("pending", summary.Pending),
		zap.Bool("aborted", summary.Aborted),
	)
	return records, summary, nil
}

// fetchSeeds retrieves and parses the listing pages sequentially. The
// frontier must be complete before any detail fetch starts, so this phase is
// an explicit barrier.
func (c *Controller) fetchSeeds(ctx context.Context) ([]*Document, []Failure) {
	var docs []*Document
	var failures []Failure
	for _, seedURL := range c.cfg.Seeds {
		if ctx.Err() != nil {
			break
		}
		page, err := c.fetchWithRetry(ctx, seedURL)
		if err != nil {
			c.logger.Warn("seed fetch failed", zap.String("url", seedURL), zap.Error(err))
			failures = append(failures, Failure{URL: seedURL, Reason: err.Error()})
			continue
		}
		doc, err := ParseDocument(page.Body)
		if err != nil {
			failures = append(failures, Failure{URL: seedURL, Reason: err.Error()})
			continue
		}
		docs = append(docs, doc)
	}
	return docs, failures
}

// crawlDetails fans the frontier out to the worker pool. Each worker writes
// only its own indexes of the outcome slice, which resequences results into
// frontier order without a mutex on the output.
func (c *Controller) crawlDetails(ctx context.Context, frontier []string) []outcome {
	outcomes := make([]outcome, len(frontier))
	for i := range outcomes {
		outcomes[i].status = StatusPending
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < c.cfg.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = c.processDetail(ctx, frontier[i])
			}
		}()
	}

feed:
	for i := range frontier {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return outcomes
}

// processDetail runs one frontier entry through fetch → parse → extract.
func (c *Controller) processDetail(ctx context.Context, url string) outcome {
	if ctx.Err() != nil {
		return outcome{status: StatusPending}
	}

	page, err := c.fetchWithRetry(ctx, url)
	if err != nil {
		metrics.ObservePage("failed")
		return outcome{status: StatusFailed, reason: err.Error()}
	}

	doc, err := ParseDocument(page.Body)
	if err != nil {
		metrics.ObservePage("failed")
		return outcome{status: StatusFailed, reason: err.Error()}
	}

	rec, err := Extract(doc, url)
	if err != nil {
		if reason, ok := AsSkip(err); ok {
			c.logger.Debug("page skipped", zap.String("url", url), zap.String("reason", string(reason)))
			metrics.ObservePage("skipped")
			return outcome{status: StatusSkipped, reason: string(reason)}
		}
		metrics.ObservePage("failed")
		return outcome{status: StatusFailed, reason: err.Error()}
	}

	metrics.ObservePage("extracted")
	return outcome{status: StatusExtracted, record: rec}
}

// fetchWithRetry is the bounded retry loop around one fetch: politeness wait,
// attempt, then backoff and retry while the policy allows it.
func (c *Controller) fetchWithRetry(ctx context.Context, url string) (Page, error) {
	var lastErr error
	for attempt := 1; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return Page{}, err
		}

		page, err := c.fetcher.Fetch(ctx, url)
		if err == nil {
			return page, nil
		}
		lastErr = err

		if !c.retry.ShouldRetry(err, attempt) {
			return Page{}, lastErr
		}
		metrics.ObserveRetry()
		c.logger.Debug("retrying fetch",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		timer := time.NewTimer(c.retry.Backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return Page{}, ctx.Err()
		case <-timer.C:
		}
	}
}
