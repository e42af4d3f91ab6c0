package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lakshman12791/receipt-console/internal/receipt"
)

const (
	pageMain    = "main"
	pageDetail  = "detail"
	pageConfirm = "confirm"
)

// App wires the shell and panels to tview primitives. State flows one way:
// shell/panel state → render; events → handlers → API calls → state
// updates → redraw. Async completions re-enter the UI goroutine through
// QueueUpdateDraw.
type App struct {
	ctx    context.Context
	client Client
	shell  *Shell
	panels map[Operation]*Panel

	app       *tview.Application
	pages     *tview.Pages
	form      *tview.Form
	fileInput *tview.InputField
	searchBox *tview.InputField
	table     *tview.Table
	status    *tview.TextView
	detail    *tview.TextView

	active        Operation
	rows          []receipt.Receipt
	detailVisible bool
}

// NewApp creates the application around a configured backend client.
func NewApp(ctx context.Context, client Client) *App {
	a := &App{
		ctx:    ctx,
		client: client,
		app:    tview.NewApplication(),
		panels: make(map[Operation]*Panel),
	}
	a.shell = NewShell(ctx, client, a.redraw)
	for _, op := range Operations {
		a.panels[op] = NewPanel(op, client, a.shell, a.redraw)
	}
	a.build()
	return a
}

// Run starts the initial list load and the UI event loop, blocking until
// the application exits.
func (a *App) Run() error {
	go a.shell.Load(a.ctx)
	return a.app.Run()
}

// Stop tears the UI down.
func (a *App) Stop() {
	a.shell.Close()
	a.app.Stop()
}

// redraw schedules a render on the UI goroutine. Always dispatched from a
// fresh goroutine because QueueUpdateDraw blocks when called from an event
// handler.
func (a *App) redraw() {
	go a.app.QueueUpdateDraw(a.render)
}

func (a *App) build() {
	a.fileInput = tview.NewInputField().
		SetLabel("File ").
		SetFieldWidth(48).
		SetChangedFunc(func(text string) {
			a.panels[a.active].SetFile(text)
		})

	names := make([]string, len(Operations))
	for i, op := range Operations {
		names[i] = op.String()
	}
	dropdown := tview.NewDropDown().
		SetLabel("Operation ").
		SetOptions(names, func(text string, index int) {
			if index < 0 || index >= len(Operations) {
				return
			}
			a.active = Operations[index]
			a.fileInput.SetText(a.panels[a.active].State().FilePath)
			if a.pages != nil {
				a.render()
			}
		})
	dropdown.SetCurrentOption(0)

	a.form = tview.NewForm().
		AddFormItem(dropdown).
		AddFormItem(a.fileInput).
		AddButton("Submit", func() {
			panel := a.panels[a.active]
			go panel.Submit(a.ctx)
		})
	a.form.SetBorder(true)
	a.form.SetTitle(" Receipt Console ")

	a.searchBox = tview.NewInputField().
		SetLabel("Search ").
		SetFieldWidth(0).
		SetChangedFunc(func(text string) {
			a.shell.SetQuery(text)
		})
	a.searchBox.SetDoneFunc(func(key tcell.Key) {
		a.app.SetFocus(a.table)
	})

	a.table = tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0)
	a.table.SetSelectedFunc(func(row, col int) {
		a.viewRow(row)
	})
	a.table.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Rune() == 'd' {
			row, _ := a.table.GetSelection()
			if row >= 1 && row <= len(a.rows) {
				a.confirmDelete(a.rows[row-1])
			}
			return nil
		}
		return event
	})

	a.status = tview.NewTextView().SetDynamicColors(true)

	a.detail = tview.NewTextView().SetDynamicColors(true)
	a.detail.SetBorder(true)
	a.detail.SetTitle(" Receipt Detail ")
	a.detail.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			a.shell.CloseDetail()
			return nil
		}
		return event
	})

	detailPage := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(a.detail, 0, 4, true).
			AddItem(nil, 0, 1, false), 0, 3, true).
		AddItem(nil, 0, 1, false)

	main := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.form, 9, 0, true).
		AddItem(a.searchBox, 1, 0, false).
		AddItem(a.status, 4, 0, false).
		AddItem(a.table, 0, 1, false)

	a.pages = tview.NewPages().
		AddPage(pageMain, main, true, true).
		AddPage(pageDetail, detailPage, true, false)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF2:
			a.app.SetFocus(a.form)
			return nil
		case tcell.KeyF3:
			a.app.SetFocus(a.searchBox)
			return nil
		case tcell.KeyF4:
			a.app.SetFocus(a.table)
			return nil
		}
		return event
	})

	a.app.SetRoot(a.pages, true)
	a.render()
}

// render redraws everything from a fresh state snapshot. Must run on the UI
// goroutine.
func (a *App) render() {
	snap := a.shell.Snapshot()
	state := a.panels[a.active].State()

	if a.fileInput.GetText() != state.FilePath {
		a.fileInput.SetText(state.FilePath)
	}

	a.renderTable(snap)
	a.renderStatus(snap, state)
	a.renderDetail(snap)
}

func (a *App) renderTable(snap Snapshot) {
	a.rows = snap.Filtered
	a.table.Clear()

	headers := []string{"#", "ID", "Merchant", "Date", "Total", "Status", "Uploaded", ""}
	for col, h := range headers {
		a.table.SetCell(0, col, tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetExpansion(1))
	}

	for i, r := range snap.Filtered {
		row := i + 1
		hint := "enter: view  d: delete"
		if snap.ViewingID != "" && snap.ViewingID == r.ID {
			hint = "loading..."
		}
		cells := []string{
			strconv.Itoa(row),
			receipt.TextOrDash(r.ID),
			receipt.TextOrDash(r.Merchant),
			receipt.TextOrDash(r.Date),
			receipt.FormatCurrency(r.TotalAmount, r.Currency),
			receipt.TextOrDash(r.Status),
			receipt.FormatTimestamp(r.UploadedAt),
			hint,
		}
		for col, text := range cells {
			a.table.SetCell(row, col, tview.NewTableCell(text).SetExpansion(1))
		}
	}
}

func (a *App) renderStatus(snap Snapshot, state PanelState) {
	var lines []string

	summary := fmt.Sprintf("%d receipts", len(snap.Filtered))
	if snap.Loading {
		summary += "  [yellow]Loading...[-]"
	}
	if state.Busy {
		summary += fmt.Sprintf("  [yellow]%s in progress...[-]", a.active)
	}
	lines = append(lines, summary)

	if fb := state.Feedback; fb != nil {
		color := "red"
		if fb.Success {
			color = "green"
		}
		lines = append(lines, fmt.Sprintf("[%s]%s[-]", color, tview.Escape(fb.Message)))
		if len(fb.Fields) > 0 {
			parts := make([]string, len(fb.Fields))
			for i, f := range fb.Fields {
				parts[i] = f.Label + ": " + f.Value
			}
			lines = append(lines, strings.Join(parts, "  "))
		}
	}

	if snap.RowMessage != "" {
		lines = append(lines, fmt.Sprintf("[red]%s[-]", tview.Escape(snap.RowMessage)))
	}

	a.status.SetText(strings.Join(lines, "\n"))
}

func (a *App) renderDetail(snap Snapshot) {
	if snap.DetailOpen && snap.Detail != nil {
		a.detail.SetText(detailText(*snap.Detail, a.client.FileURL(snap.Detail.ID)))
		a.pages.ShowPage(pageDetail)
		if !a.detailVisible {
			a.app.SetFocus(a.detail)
			a.detailVisible = true
		}
		return
	}
	if a.detailVisible {
		a.pages.HidePage(pageDetail)
		a.app.SetFocus(a.table)
		a.detailVisible = false
	}
}

// detailText renders the detail modal body: the record's fields, its line
// items, and the direct link to the original file.
func detailText(r receipt.Receipt, fileURL string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[yellow]Receipt %s[-]\n\n", receipt.TextOrDash(r.ID))
	fmt.Fprintf(&b, "Merchant: %s\n", receipt.TextOrDash(r.Merchant))
	fmt.Fprintf(&b, "Date:     %s\n", receipt.TextOrDash(r.Date))
	fmt.Fprintf(&b, "Total:    %s\n", receipt.FormatCurrency(r.TotalAmount, r.Currency))
	fmt.Fprintf(&b, "Status:   %s\n", receipt.TextOrDash(r.Status))
	fmt.Fprintf(&b, "File:     %s\n", receipt.TextOrDash(r.Filename))
	fmt.Fprintf(&b, "Uploaded: %s\n", receipt.FormatTimestamp(r.UploadedAt))
	fmt.Fprintf(&b, "Link:     %s\n", fileURL)

	if len(r.Items) > 0 {
		b.WriteString("\n[yellow]Items[-]\n")
		for i, item := range r.Items {
			fmt.Fprintf(&b, "%d | %s | %s | %s | %s\n",
				i+1,
				receipt.TextOrDash(item.Description),
				quantityText(item.Quantity),
				receipt.FormatCurrency(item.UnitPrice, r.Currency),
				receipt.FormatCurrency(item.Amount, r.Currency),
			)
		}
	}

	b.WriteString("\n(esc to close)")
	return b.String()
}

func quantityText(quantity *float64) string {
	if quantity == nil {
		return "-"
	}
	return strconv.FormatFloat(*quantity, 'f', -1, 64)
}

// viewRow fetches detail for the selected table row. The fetch is ignored
// while that row already has one in flight.
func (a *App) viewRow(row int) {
	if row < 1 || row > len(a.rows) {
		return
	}
	r := a.rows[row-1]
	if r.ID == "" || a.shell.Snapshot().ViewingID == r.ID {
		return
	}
	go a.shell.ViewDetail(a.ctx, r.ID)
}

// confirmDelete asks before anything leaves the client; the row only
// disappears after the backend confirms.
func (a *App) confirmDelete(r receipt.Receipt) {
	modal := tview.NewModal().
		SetText(fmt.Sprintf("Delete receipt %s?", receipt.TextOrDash(r.ID))).
		AddButtons([]string{"Delete", "Cancel"}).
		SetDoneFunc(func(index int, label string) {
			a.pages.RemovePage(pageConfirm)
			a.app.SetFocus(a.table)
			if label == "Delete" {
				go a.shell.Delete(a.ctx, r.ID)
			}
		})
	a.pages.AddPage(pageConfirm, modal, true, true)
	a.app.SetFocus(modal)
}
