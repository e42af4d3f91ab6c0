package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lakshman12791/receipt-console/internal/api"
	"github.com/lakshman12791/receipt-console/internal/receipt"
)

// Operation identifies which panel is active.
type Operation int

const (
	OpUpload Operation = iota
	OpValidate
	OpProcess
)

// String returns the panel's display name.
func (o Operation) String() string {
	switch o {
	case OpUpload:
		return "Upload"
	case OpValidate:
		return "Validate"
	case OpProcess:
		return "Process"
	}
	return "Unknown"
}

// Operations lists the selectable panels in display order.
var Operations = []Operation{OpUpload, OpValidate, OpProcess}

// Field is one extracted key/value pair shown after a successful process.
type Field struct {
	Label string
	Value string
}

// Feedback is the classified outcome a panel shows after a submit. Success
// selects the styling: true renders in success colors, false in error
// colors, regardless of message text.
type Feedback struct {
	Success bool
	Message string
	Fields  []Field
}

// PanelState is a copy of a panel's state for rendering.
type PanelState struct {
	FilePath string
	Busy     bool
	Feedback *Feedback
}

// fileReader reads the selected file; injected so tests control the
// filesystem.
type fileReader func(path string) ([]byte, error)

// Panel drives one operation form. All three operations share the same
// machine: idle → busy → (success | error) → idle. A file must be chosen
// before anything touches the network, and the busy flag always clears no
// matter how the submit ends.
type Panel struct {
	op       Operation
	client   Client
	shell    *Shell
	notify   func()
	readFile fileReader

	mu       sync.Mutex
	filePath string
	busy     bool
	feedback *Feedback
}

// NewPanel creates a Panel reading files from the local filesystem.
func NewPanel(op Operation, client Client, shell *Shell, notify func()) *Panel {
	return NewPanelWithReader(op, client, shell, notify, os.ReadFile)
}

// NewPanelWithReader creates a Panel with a custom file reader for testing.
func NewPanelWithReader(op Operation, client Client, shell *Shell, notify func(), readFile fileReader) *Panel {
	return &Panel{
		op:       op,
		client:   client,
		shell:    shell,
		notify:   notify,
		readFile: readFile,
	}
}

// Op returns which operation this panel performs.
func (p *Panel) Op() Operation {
	return p.op
}

// SetFile records the selected file path.
func (p *Panel) SetFile(path string) {
	p.mu.Lock()
	p.filePath = strings.TrimSpace(path)
	p.mu.Unlock()
}

// State returns a copy of the panel's state.
func (p *Panel) State() PanelState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PanelState{
		FilePath: p.filePath,
		Busy:     p.busy,
		Feedback: p.feedback,
	}
}

// Submit runs the panel's operation against the selected file. It blocks
// until the call settles, so callers run it off the UI goroutine. Submits
// while busy are ignored.
func (p *Panel) Submit(ctx context.Context) {
	p.mu.Lock()
	if p.busy {
		p.mu.Unlock()
		return
	}
	path := p.filePath
	p.feedback = nil

	// Client-side guards; no network call happens for these.
	if path == "" {
		p.feedback = &Feedback{Message: "Choose a PDF receipt"}
		p.mu.Unlock()
		p.redraw()
		return
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		p.feedback = &Feedback{Message: "Only PDF receipts are supported"}
		p.mu.Unlock()
		p.redraw()
		return
	}

	p.busy = true
	p.mu.Unlock()
	p.redraw()

	feedback, uploaded, refresh, cancelled := p.perform(ctx, path)

	p.mu.Lock()
	p.busy = false
	if !cancelled {
		p.feedback = &feedback
		if uploaded != nil {
			// Clear the selection so the same file can be resubmitted.
			p.filePath = ""
		}
	}
	p.mu.Unlock()
	p.redraw()

	if cancelled {
		return
	}
	if uploaded != nil {
		p.shell.ApplyUploaded(*uploaded)
	}
	if refresh {
		p.shell.Refresh(ctx)
	}
}

// perform issues the operation's API call and classifies the outcome.
func (p *Panel) perform(ctx context.Context, path string) (feedback Feedback, uploaded *receipt.Receipt, refresh bool, cancelled bool) {
	data, err := p.readFile(path)
	if err != nil {
		return Feedback{Message: err.Error()}, nil, false, false
	}
	filename := filepath.Base(path)

	switch p.op {
	case OpUpload:
		rec, err := p.client.UploadReceipt(ctx, filename, data)
		if err != nil {
			return classifyError(err)
		}
		return Feedback{Success: true, Message: "Uploaded " + filename}, &rec, false, false

	case OpValidate:
		result, err := p.client.ValidateReceipt(ctx, filename, data)
		if err != nil {
			return classifyError(err)
		}
		// The verdict picks the styling; the list is refreshed either way
		// because only the server knows the record's new state.
		return Feedback{Success: result.IsValid, Message: result.Message}, nil, true, false

	case OpProcess:
		result, err := p.client.ProcessReceipt(ctx, filename, data)
		if err != nil {
			return classifyError(err)
		}
		fb := Feedback{Success: result.IsProcessed, Message: result.Message}
		if result.IsProcessed && result.Result != nil {
			fb.Fields = extractedFields(result.Result)
		}
		return fb, nil, true, false
	}

	return Feedback{Message: "unknown operation"}, nil, false, false
}

func classifyError(err error) (Feedback, *receipt.Receipt, bool, bool) {
	if errors.Is(err, context.Canceled) {
		return Feedback{}, nil, false, true
	}
	return Feedback{Message: err.Error()}, nil, false, false
}

func extractedFields(fields *api.ExtractedFields) []Field {
	return []Field{
		{Label: "Merchant", Value: receipt.TextOrDash(fields.MerchantName)},
		{Label: "Date", Value: receipt.TextOrDash(fields.ReceiptDate)},
		{Label: "Amount", Value: receipt.FormatCurrency(fields.Amount, "")},
	}
}

func (p *Panel) redraw() {
	if p.notify != nil {
		p.notify()
	}
}
