// Package tui is the terminal front end of the receivables dashboard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"ardash/internal/dashboard"
	"ardash/internal/logger"
	"ardash/pkg/models"
)

type focusArea int

const (
	focusTable focusArea = iota
	focusCustomer
	focusStart
	focusEnd
	focusSearch
	focusCount
)

const (
	dialogAmount = iota
	dialogDate
)

const (
	defaultWidth   = 100
	reservedHeight = 22
	minTableRows   = 5
)

// loadedMsg reports the outcome of the initial load.
type loadedMsg struct{ err error }

// refreshedMsg reports the outcome of a refresh triggered by apply or reset.
type refreshedMsg struct{ err error }

// paymentSavedMsg reports the outcome of a save from the payment dialog.
type paymentSavedMsg struct{ err error }

// Model is the bubbletea model of the dashboard.
type Model struct {
	ctx    context.Context
	ctrl   *dashboard.Controller
	screen *Screen
	keys   KeyMap
	styles Styles
	help   help.Model
	log    zerolog.Logger

	focus       focusArea
	customerIdx int // 0 means all customers
	startInput  textinput.Model
	endInput    textinput.Model
	searchInput textinput.Model

	amountInput textinput.Model
	dateInput   textinput.Model
	dialogField int

	cursor  int
	width   int
	height  int
	pending int
	saving  bool // a payment save is in flight
	status  string
	err     string
}

// NewModel creates the dashboard model. ctx bounds every backend call it issues.
func NewModel(ctx context.Context, ctrl *dashboard.Controller, screen *Screen) *Model {
	newInput := func(placeholder string, limit int) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = limit
		ti.Width = max(limit, len(placeholder))
		ti.Prompt = ""
		return ti
	}

	return &Model{
		ctx:         ctx,
		ctrl:        ctrl,
		screen:      screen,
		keys:        DefaultKeyMap,
		styles:      screen.styles,
		help:        help.New(),
		log:         logger.WithComponent("tui"),
		startInput:  newInput("YYYY-MM-DD", 10),
		endInput:    newInput("YYYY-MM-DD", 10),
		searchInput: newInput("invoice # or customer", 40),
		amountInput: newInput("0.00", 16),
		dateInput:   newInput("YYYY-MM-DD", 10),
		width:       defaultWidth,
		pending:     1,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.run(func(ctx context.Context) error {
		return m.ctrl.Init(ctx)
	}, func(err error) tea.Msg { return loadedMsg{err: err} })
}

// run executes op off the event loop and wraps its result with wrap.
func (m *Model) run(op func(context.Context) error, wrap func(error) tea.Msg) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return wrap(op(ctx))
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case loadedMsg:
		m.pending--
		m.handleRefreshResult(msg.err, "Loaded")
		return m, nil

	case refreshedMsg:
		m.pending--
		m.handleRefreshResult(msg.err, "Refreshed")
		return m, nil

	case paymentSavedMsg:
		m.pending--
		m.saving = false
		m.handlePaymentResult(msg.err)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.screen.Dialog().Open {
			return m.updateDialog(msg)
		}
		return m.updateDashboard(msg)
	}

	return m, m.forwardToInput(msg)
}

func (m *Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextFocus):
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil
	case key.Matches(msg, m.keys.PrevFocus):
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil
	case key.Matches(msg, m.keys.Apply):
		return m, m.apply()
	case key.Matches(msg, m.keys.Reset):
		return m, m.reset()
	}

	switch m.focus {
	case focusTable:
		return m.updateTable(msg)
	case focusCustomer:
		switch {
		case key.Matches(msg, m.keys.Left):
			m.cycleCustomer(-1)
		case key.Matches(msg, m.keys.Right):
			m.cycleCustomer(1)
		}
		return m, nil
	}

	cmd := m.forwardToInput(msg)
	m.syncFilterInputs()
	return m, cmd
}

func (m *Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.screen.Table().Rows

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Sort):
		idx, _ := strconv.Atoi(msg.String())
		if idx >= 1 && idx <= len(models.InvoiceFields) {
			if err := m.ctrl.SortBy(models.InvoiceFields[idx-1]); err != nil {
				m.setError(err)
			}
		}
	case key.Matches(msg, m.keys.Pay):
		if len(rows) == 0 {
			return m, nil
		}
		m.openPayment(rows[min(m.cursor, len(rows)-1)].InvoiceID)
	}
	return m, nil
}

func (m *Model) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.CancelPayment()
		m.status = "Payment cancelled"
		return m, nil
	case key.Matches(msg, m.keys.NextFocus), key.Matches(msg, m.keys.PrevFocus):
		m.setDialogField(1 - m.dialogField)
		return m, nil
	case key.Matches(msg, m.keys.Apply):
		if m.saving {
			return m, nil
		}
		m.saving = true
		m.pending++
		m.err = ""
		return m, m.run(m.ctrl.SavePayment, func(err error) tea.Msg { return paymentSavedMsg{err: err} })
	}

	var cmd tea.Cmd
	if m.dialogField == dialogAmount {
		m.amountInput, cmd = m.amountInput.Update(msg)
		m.ctrl.SetPaymentAmount(m.amountInput.Value())
	} else {
		m.dateInput, cmd = m.dateInput.Update(msg)
		m.ctrl.SetPaymentDate(m.dateInput.Value())
	}
	return m, cmd
}

func (m *Model) apply() tea.Cmd {
	m.syncFilterInputs()
	m.pending++
	m.err = ""
	return m.run(m.ctrl.ApplyFilters, func(err error) tea.Msg { return refreshedMsg{err: err} })
}

func (m *Model) reset() tea.Cmd {
	m.customerIdx = 0
	m.startInput.SetValue("")
	m.endInput.SetValue("")
	m.searchInput.SetValue("")
	m.cursor = 0
	m.pending++
	m.err = ""
	return m.run(m.ctrl.ResetFilters, func(err error) tea.Msg { return refreshedMsg{err: err} })
}

func (m *Model) openPayment(invoiceID int64) {
	if err := m.ctrl.OpenPayment(invoiceID); err != nil {
		m.setError(err)
		return
	}
	dialog := m.ctrl.PaymentDialog()
	m.amountInput.SetValue(dialog.Amount)
	m.dateInput.SetValue(dialog.Date)
	m.setDialogField(dialogAmount)
	m.status = ""
	m.err = ""
}

// syncFilterInputs pushes the text inputs into the controller and re-runs the
// local search.
func (m *Model) syncFilterInputs() {
	m.ctrl.SetStartDate(m.startInput.Value())
	m.ctrl.SetEndDate(m.endInput.Value())
	if m.ctrl.Filters().Search != m.searchInput.Value() {
		if err := m.ctrl.Search(m.searchInput.Value()); err != nil {
			m.setError(err)
		}
		m.cursor = 0
	}
}

func (m *Model) cycleCustomer(delta int) {
	customers := m.screen.Customers()
	n := len(customers) + 1
	m.customerIdx = ((m.customerIdx+delta)%n + n) % n

	id := ""
	if m.customerIdx > 0 {
		id = strconv.FormatInt(customers[m.customerIdx-1].CustomerID, 10)
	}
	m.ctrl.SetCustomerFilter(id)
}

func (m *Model) customerLabel() string {
	customers := m.screen.Customers()
	if m.customerIdx == 0 || m.customerIdx > len(customers) {
		return "All customers"
	}
	return customers[m.customerIdx-1].Name
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	for area, input := range map[focusArea]*textinput.Model{
		focusStart:  &m.startInput,
		focusEnd:    &m.endInput,
		focusSearch: &m.searchInput,
	} {
		if area == f {
			input.Focus()
		} else {
			input.Blur()
		}
	}
}

func (m *Model) setDialogField(field int) {
	m.dialogField = field
	if field == dialogAmount {
		m.amountInput.Focus()
		m.dateInput.Blur()
	} else {
		m.dateInput.Focus()
		m.amountInput.Blur()
	}
}

// forwardToInput hands msg to the focused text input, if any.
func (m *Model) forwardToInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.screen.Dialog().Open {
		if m.dialogField == dialogAmount {
			m.amountInput, cmd = m.amountInput.Update(msg)
		} else {
			m.dateInput, cmd = m.dateInput.Update(msg)
		}
		return cmd
	}

	switch m.focus {
	case focusStart:
		m.startInput, cmd = m.startInput.Update(msg)
	case focusEnd:
		m.endInput, cmd = m.endInput.Update(msg)
	case focusSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	}
	return cmd
}

func (m *Model) handleRefreshResult(err error, done string) {
	switch {
	case err == nil:
		m.status = done
		m.clampCursor()
	case errors.Is(err, dashboard.ErrStaleRefresh):
		// a newer refresh owns the screen
	case errors.Is(err, dashboard.ErrInvalidFilter):
		m.status = ""
		m.err = m.screen.Notice()
	default:
		m.log.Error().Err(err).Msg("Refresh failed")
		m.setError(err)
	}
}

func (m *Model) handlePaymentResult(err error) {
	switch {
	case err == nil, errors.Is(err, dashboard.ErrStaleRefresh):
		m.status = "Payment recorded"
		m.err = ""
		m.clampCursor()
	case errors.Is(err, dashboard.ErrInvalidPayment):
		m.err = m.screen.Notice()
	case errors.Is(err, dashboard.ErrDialogClosed), errors.Is(err, dashboard.ErrPaymentInFlight):
	default:
		if notice := m.screen.Notice(); notice != "" {
			m.err = notice
		} else {
			m.setError(err)
		}
	}
}

func (m *Model) setError(err error) {
	m.status = ""
	m.err = err.Error()
}

func (m *Model) clampCursor() {
	rows := len(m.screen.Table().Rows)
	if m.cursor >= rows {
		m.cursor = max(rows-1, 0)
	}
}

func (m *Model) View() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	limit := 0
	if m.height > 0 {
		limit = max(m.height-reservedHeight, minTableRows)
	}

	sections := []string{
		m.styles.Title.Render("Accounts Receivable"),
		m.filtersView(),
		m.screen.RenderSummary(),
		m.screen.RenderTable(m.tableCursor(), limit),
		m.screen.RenderChart(width),
	}
	if dialog := m.screen.Dialog(); dialog.Open {
		sections = append(sections, m.dialogView(dialog))
	}
	sections = append(sections, m.statusView(), m.helpView())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) tableCursor() int {
	if m.focus != focusTable && !m.screen.Dialog().Open {
		return -1
	}
	return m.cursor
}

func (m *Model) filtersView() string {
	field := func(area focusArea, label, value string) string {
		style := m.styles.Blurred
		if m.focus == area {
			style = m.styles.Focused
		}
		return style.Render(label+":") + " " + value
	}

	customer := m.customerLabel()
	if m.focus == focusCustomer {
		customer = "‹ " + customer + " ›"
	}

	return strings.Join([]string{
		field(focusCustomer, "Customer", customer),
		field(focusStart, "From", m.startInput.View()),
		field(focusEnd, "To", m.endInput.View()),
		field(focusSearch, "Search", m.searchInput.View()),
	}, "   ")
}

func (m *Model) dialogView(dialog dashboard.PaymentDialogState) string {
	label := func(field int, text string) string {
		if m.dialogField == field {
			return m.styles.Focused.Render(text)
		}
		return m.styles.Blurred.Render(text)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render(fmt.Sprintf("Record payment for invoice %d", dialog.InvoiceID)),
		"",
		label(dialogAmount, "Amount: ")+m.amountInput.View(),
		label(dialogDate, "Date:   ")+m.dateInput.View(),
	)
	if dialog.Submitting {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", m.styles.Muted.Render("Saving..."))
	}
	return m.styles.Modal.Render(body)
}

func (m *Model) statusView() string {
	switch {
	case m.err != "":
		return m.styles.Error.Render(m.err)
	case m.pending > 0:
		return m.styles.Muted.Render("Loading...")
	case m.status != "":
		return m.styles.Status.Render(m.status)
	}
	return ""
}

func (m *Model) helpView() string {
	if m.screen.Dialog().Open {
		return m.help.View(dialogKeys{m.keys})
	}
	return m.help.View(m.keys)
}

// Run starts the dashboard program and blocks until the user quits.
func Run(ctx context.Context, ctrl *dashboard.Controller, screen *Screen, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(NewModel(ctx, ctrl, screen), opts...)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
