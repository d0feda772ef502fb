package view

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pawnbook/internal/transaction"
)

type ledgerState int

const (
	ledgerStateTimeframe ledgerState = iota
	ledgerStateList
	ledgerStateConfirmDelete
)

// ledgerFilters is the order the type filter cycles through. Zero means every type.
var ledgerFilters = []transaction.Type{
	0,
	transaction.TypeLoanIssuance,
	transaction.TypeInstallmentPayment,
	transaction.TypeInterestPayment,
	transaction.TypeLateFeePayment,
	transaction.TypeLoanClosure,
}

// txItem wraps a transaction to implement list.Item.
type txItem struct {
	tx *transaction.Transaction
}

func (i txItem) Title() string {
	kind := faintStyle.Render(fmt.Sprintf("[%s]", i.tx.Type))

	return fmt.Sprintf("%s  %s  %s  %s", FormatDate(i.tx.CreatedAt), FormatAmount(i.tx.TotalAmount), kind, i.tx.InvoiceNumber)
}

func (i txItem) Description() string {
	return fmt.Sprintf("Customer %s | subtotal %s | interest %s",
		i.tx.CustomerNIC, FormatAmount(i.tx.SubTotal), FormatAmount(i.tx.InterestAmount))
}

func (i txItem) FilterValue() string {
	return i.tx.InvoiceNumber + " " + i.tx.CustomerNIC
}

// LedgerModel browses the transaction ledger.
type LedgerModel struct {
	CommonModel
	txService *transaction.Service

	state           ledgerState
	timeframePicker TimeframePicker
	list            list.Model
	form            *huh.Form
	txs             []*transaction.Transaction
	selectedTx      *transaction.Transaction

	from      time.Time
	to        time.Time
	filterIdx int
	loading   bool
	status    string

	confirm *bool
}

func NewLedgerModel(txSvc *transaction.Service) LedgerModel {
	l := list.New([]list.Item{}, txItemDelegate{}, 0, 0)
	l.Title = "Ledger"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return LedgerModel{
		txService:       txSvc,
		timeframePicker: NewTimeframePicker(TimeframeToday),
		list:            l,
		confirm:         new(false),
	}
}

func (m LedgerModel) Title() string { return "Ledger" }

func (m LedgerModel) ShortHelp() string {
	switch m.state {
	case ledgerStateTimeframe:
		return "Esc: back | Enter: select"
	case ledgerStateList:
		return "Esc: back | t: type filter | x: delete | /: search"
	case ledgerStateConfirmDelete:
		return "Esc: cancel"
	}

	return ""
}

func (m LedgerModel) Init() tea.Cmd {
	return nil
}

func (m LedgerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.from, m.to = msg.From, msg.To
		m.loading = true
		m.state = ledgerStateList
		m.list.Title = "Ledger: " + msg.Label()

		return m, m.loadTxsCmd()

	case loadTxsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.txs = msg.txs
		m.refreshListItems()

		m.status = ""
		if len(msg.txs) == 0 {
			m.status = "No transactions found."
		}

		return m, nil

	case deleteTxResultMsg:
		m.state = ledgerStateList

		if msg.err != nil {
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
			return m, nil
		}

		m.status = "Deleted."

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.resize(msg)
		m.list.SetSize(m.Width-4, m.Height-8)

		return m, nil
	}

	switch m.state {
	case ledgerStateTimeframe:
		return m.updateTimeframe(msg)
	case ledgerStateList:
		return m.updateList(msg)
	case ledgerStateConfirmDelete:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m LedgerModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m LedgerModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			m.state = ledgerStateTimeframe
			m.timeframePicker.Reset()

			return m, nil
		case "t":
			m.filterIdx = (m.filterIdx + 1) % len(ledgerFilters)
			m.loading = true

			return m, m.loadTxsCmd()
		case "x":
			return m.startDelete()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m LedgerModel) startDelete() (tea.Model, tea.Cmd) {
	selected, ok := m.list.SelectedItem().(txItem)
	if !ok {
		return m, nil
	}

	m.selectedTx = selected.tx
	*m.confirm = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title("Delete this ledger entry?").
				Description("The invoice stays; only the transaction is removed.").
				Value(m.confirm),
		),
	).WithWidth(60).WithShowHelp(false)

	m.state = ledgerStateConfirmDelete

	return m, m.form.Init()
}

func (m LedgerModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = ledgerStateList
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !*m.confirm {
		m.state = ledgerStateList
		return m, nil
	}

	return m, m.deleteTxCmd(m.selectedTx)
}

func (m LedgerModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case ledgerStateTimeframe:
		return style.Render(m.timeframePicker.View())

	case ledgerStateList:
		if m.loading {
			return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
		}

		header := faintStyle.Render("Type: " + m.filterLabel())
		if m.status != "" {
			header += "  " + faintStyle.Render(m.status)
		}

		return style.Render(header + "\n" + m.list.View())

	case ledgerStateConfirmDelete:
		return style.Render(m.txInfoView() + "\n" + m.form.View())
	}

	return ""
}

func (m LedgerModel) filterLabel() string {
	if t := ledgerFilters[m.filterIdx]; t != 0 {
		return t.String()
	}

	return "all"
}

func (m LedgerModel) txInfoView() string {
	if m.selectedTx == nil {
		return ""
	}

	return panelStyle.Render(fmt.Sprintf(
		"Date: %s  |  Type: %s  |  Invoice: %s\nCustomer: %s  |  Total: %s",
		FormatDate(m.selectedTx.CreatedAt),
		m.selectedTx.Type,
		m.selectedTx.InvoiceNumber,
		m.selectedTx.CustomerNIC,
		FormatAmount(m.selectedTx.TotalAmount),
	))
}

func (m *LedgerModel) refreshListItems() {
	items := make([]list.Item, len(m.txs))
	for i, tx := range m.txs {
		items[i] = txItem{tx: tx}
	}

	m.list.SetItems(items)
}

// Messages

type loadTxsMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m LedgerModel) loadTxsCmd() tea.Cmd {
	var filter transaction.ListFilter

	if !m.from.IsZero() {
		from := m.from
		filter.From = &from
	}

	if !m.to.IsZero() {
		to := m.to
		filter.To = &to
	}

	if t := ledgerFilters[m.filterIdx]; t != 0 {
		filter.Types = []transaction.Type{t}
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, filter)

		return loadTxsMsg{txs: txs, err: err}
	}
}

type deleteTxResultMsg struct {
	err error
}

func (m LedgerModel) deleteTxCmd(tx *transaction.Transaction) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return deleteTxResultMsg{err: m.txService.Delete(ctx, tx.ID)}
	}
}

// txItemDelegate renders items in the list.
type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = activeStyle("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", faintStyle.Render(i.Description()))
}
