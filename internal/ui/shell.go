package ui

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/lakshman12791/receipt-console/internal/api"
	"github.com/lakshman12791/receipt-console/internal/receipt"
)

// Client defines the backend surface the UI drives, implemented by
// *api.Client.
type Client interface {
	// ListReceipts fetches the receipt list, optionally filtered by query
	ListReceipts(ctx context.Context, query string) ([]receipt.Receipt, error)

	// UploadReceipt uploads a receipt file and returns the created record
	UploadReceipt(ctx context.Context, filename string, data []byte) (receipt.Receipt, error)

	// ValidateReceipt submits a receipt file for validation
	ValidateReceipt(ctx context.Context, filename string, data []byte) (api.ValidationResult, error)

	// ProcessReceipt submits a receipt file for processing
	ProcessReceipt(ctx context.Context, filename string, data []byte) (api.ProcessingResult, error)

	// GetReceipt fetches one receipt with its line items
	GetReceipt(ctx context.Context, id string) (receipt.Receipt, error)

	// DeleteReceipt removes a receipt
	DeleteReceipt(ctx context.Context, id string) error

	// FileURL returns the direct link to a receipt's original file
	FileURL(id string) string
}

// Shell owns the canonical receipts list and every piece of cross-panel UI
// state. It is the single writer: all mutations happen in its methods under
// one mutex, always by whole-value replacement or prepend, so a render
// always observes a consistent snapshot. The notify callback fires after
// every visible change.
type Shell struct {
	client   Client
	notify   func()
	searcher *Searcher

	mu         sync.Mutex
	receipts   []receipt.Receipt
	query      string
	loading    bool
	viewingID  string
	rowMessage string
	detail     *receipt.Receipt
	detailOpen bool
}

// Snapshot is a consistent copy of the shell state for rendering. Filtered
// is derived from Receipts and Query at snapshot time.
type Snapshot struct {
	Receipts   []receipt.Receipt
	Filtered   []receipt.Receipt
	Query      string
	Loading    bool
	ViewingID  string
	RowMessage string
	Detail     *receipt.Receipt
	DetailOpen bool
}

// NewShell creates a Shell with the default search debounce delay.
func NewShell(ctx context.Context, client Client, notify func()) *Shell {
	return NewShellWithDelay(ctx, client, notify, searchDelay)
}

// NewShellWithDelay creates a Shell with a custom debounce delay for testing.
func NewShellWithDelay(ctx context.Context, client Client, notify func(), delay time.Duration) *Shell {
	s := &Shell{
		client: client,
		notify: notify,
	}
	s.searcher = NewSearcher(ctx, delay, client.ListReceipts, s.beginSearch, s.applySearch)
	return s
}

// update applies a mutation under the lock and fires the notify callback.
func (s *Shell) update(fn func()) {
	s.mu.Lock()
	fn()
	s.mu.Unlock()
	if s.notify != nil {
		s.notify()
	}
}

// Snapshot returns a copy of the current state.
func (s *Shell) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Receipts:   s.receipts,
		Filtered:   FilterReceipts(s.receipts, s.query),
		Query:      s.query,
		Loading:    s.loading,
		ViewingID:  s.viewingID,
		RowMessage: s.rowMessage,
		Detail:     s.detail,
		DetailOpen: s.detailOpen,
	}
}

// Load fetches the full list once at startup. A failure leaves an empty
// list and is only logged; a cancelled fetch (teardown) drops the update
// entirely.
func (s *Shell) Load(ctx context.Context) {
	s.update(func() { s.loading = true })

	receipts, err := s.client.ListReceipts(ctx, "")
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		slog.Error("Initial receipt fetch failed", "error", err)
		receipts = []receipt.Receipt{}
	}

	s.update(func() {
		s.receipts = receipts
		s.loading = false
	})
}

// Refresh replaces the list with a fresh fetch for the current query. Used
// after validate/process, whose effect on records is only known
// authoritatively by the server.
func (s *Shell) Refresh(ctx context.Context) {
	s.mu.Lock()
	query := s.query
	s.loading = true
	s.mu.Unlock()
	if s.notify != nil {
		s.notify()
	}

	receipts, err := s.client.ListReceipts(ctx, query)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		slog.Error("Receipt list refresh failed", "error", err)
		receipts = []receipt.Receipt{}
	}

	s.update(func() {
		s.receipts = receipts
		s.loading = false
	})
}

// SetQuery records a new search query and schedules the debounced refetch.
// The filtered view narrows immediately; the server-side refetch follows
// once the query settles.
func (s *Shell) SetQuery(query string) {
	s.update(func() { s.query = query })
	s.searcher.Query(query)
}

func (s *Shell) beginSearch() {
	s.update(func() { s.loading = true })
}

func (s *Shell) applySearch(query string, receipts []receipt.Receipt) {
	s.update(func() {
		s.receipts = receipts
		s.loading = false
	})
}

// ApplyUploaded prepends the record the server returned for a fresh upload.
// Optimistic: no re-fetch, the server already handed back the canonical row.
func (s *Shell) ApplyUploaded(r receipt.Receipt) {
	s.update(func() {
		s.receipts = append([]receipt.Receipt{r}, s.receipts...)
	})
}

// ViewDetail fetches one record and opens the detail modal on success. Only
// the requested row shows a loading affordance while the fetch is in
// flight; a failure surfaces inline and leaves the modal closed.
func (s *Shell) ViewDetail(ctx context.Context, id string) {
	s.update(func() {
		s.viewingID = id
		s.rowMessage = ""
	})

	rec, err := s.client.GetReceipt(ctx, id)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		slog.Error("Receipt detail fetch failed", "id", id, "error", err)
		s.update(func() {
			s.viewingID = ""
			s.rowMessage = err.Error()
		})
		return
	}

	s.update(func() {
		s.viewingID = ""
		s.detail = &rec
		s.detailOpen = true
	})
}

// CloseDetail dismisses the detail modal.
func (s *Shell) CloseDetail() {
	s.update(func() {
		s.detail = nil
		s.detailOpen = false
	})
}

// Delete removes a receipt server-side first; the row disappears from local
// state only after the backend confirms. Callers are expected to have
// confirmed with the user already.
func (s *Shell) Delete(ctx context.Context, id string) {
	err := s.client.DeleteReceipt(ctx, id)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		slog.Error("Receipt delete failed", "id", id, "error", err)
		s.update(func() { s.rowMessage = err.Error() })
		return
	}

	s.update(func() {
		kept := make([]receipt.Receipt, 0, len(s.receipts))
		for _, r := range s.receipts {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		s.receipts = kept
		s.rowMessage = ""
	})
}

// Close stops the shell's background work.
func (s *Shell) Close() {
	s.searcher.Stop()
}
