package ui

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/lakshman12791/receipt-console/internal/receipt"
)

// searchDelay is how long a query must sit unchanged before a refetch fires.
const searchDelay = 300 * time.Millisecond

// Searcher turns a stream of query edits into at most one list fetch per
// settled query. Each edit cancels the previously scheduled timer and aborts
// the previous in-flight request; a generation counter gates delivery so
// only the latest-issued request may apply its result, even if a superseded
// one slips past its cancellation.
type Searcher struct {
	base  context.Context
	delay time.Duration
	fetch func(ctx context.Context, query string) ([]receipt.Receipt, error)
	begin func()
	apply func(query string, receipts []receipt.Receipt)

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
	gen    uint64
}

// NewSearcher creates a Searcher. begin runs when a fetch actually starts;
// apply runs with the result of the latest-issued fetch only.
func NewSearcher(
	base context.Context,
	delay time.Duration,
	fetch func(ctx context.Context, query string) ([]receipt.Receipt, error),
	begin func(),
	apply func(query string, receipts []receipt.Receipt),
) *Searcher {
	return &Searcher{
		base:  base,
		delay: delay,
		fetch: fetch,
		begin: begin,
		apply: apply,
	}
}

// Query records a new query value and (re)schedules the debounced fetch.
func (s *Searcher) Query(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	if s.cancel != nil {
		s.cancel()
	}

	s.gen++
	gen := s.gen
	ctx, cancel := context.WithCancel(s.base)
	s.cancel = cancel
	s.timer = time.AfterFunc(s.delay, func() {
		s.run(ctx, gen, query)
	})
}

// Stop cancels any scheduled or in-flight fetch.
func (s *Searcher) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Searcher) run(ctx context.Context, gen uint64, query string) {
	if s.begin != nil {
		s.begin()
	}

	receipts, err := s.fetch(ctx, query)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Superseded or shut down; never an error surface.
			return
		}
		slog.Error("Search fetch failed", "query", query, "error", err)
		receipts = []receipt.Receipt{}
	}

	s.mu.Lock()
	stale := gen != s.gen
	s.mu.Unlock()
	if stale {
		return
	}
	s.apply(query, receipts)
}
