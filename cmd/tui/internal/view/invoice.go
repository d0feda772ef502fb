package view

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pawnbook/internal/customer"
	"github.com/MrJamesThe3rd/pawnbook/internal/invoice"
	"github.com/MrJamesThe3rd/pawnbook/internal/item"
	"github.com/MrJamesThe3rd/pawnbook/internal/loan"
	"github.com/MrJamesThe3rd/pawnbook/internal/lookup"
)

const originLookupKey = "origin"

type invoiceState int

const (
	invoiceStateStart invoiceState = iota
	invoiceStateLoading
	invoiceStateIssuance
	invoiceStateOrigin
	invoiceStateSubmitting
	invoiceStateDone
)

// InvoiceModel is the one invoice form for all three invoice types. Issuance drafts pick
// items and terms; installment and settlement drafts pick an originating issuance invoice.
type InvoiceModel struct {
	CommonModel
	customerService *customer.Service
	itemService     *item.Service
	invoiceService  *invoice.Service
	mode            loan.SettlementMode

	state invoiceState
	form  *huh.Form

	customer *customer.Customer
	items    []*item.Item
	origins  []*invoice.Invoice

	originTable  table.Model
	originCursor int
	tracker      *lookup.Tracker
	timeout      time.Duration
	repayment    *loan.RepaymentForm
	loanState    *invoice.LoanState
	lookupErr    error
	lookupActive bool

	created *invoice.Invoice
	err     error

	input *invoiceInput
}

// invoiceInput holds the huh bindings. It lives behind a pointer so the form keeps writing
// to the same values while the model is passed around by value.
type invoiceInput struct {
	Type     loan.InvoiceType
	NIC      string
	Items    []uuid.UUID
	Rate     string
	Period   string
	Override string
}

func NewInvoiceModel(customerSvc *customer.Service, itemSvc *item.Service, invoiceSvc *invoice.Service, mode loan.SettlementMode, lookupTimeout time.Duration) InvoiceModel {
	m := InvoiceModel{
		customerService: customerSvc,
		itemService:     itemSvc,
		invoiceService:  invoiceSvc,
		mode:            mode,
		tracker:         &lookup.Tracker{},
		timeout:         lookupTimeout,
		input:           &invoiceInput{Type: loan.InvoiceIssuance},
	}
	m.form = m.buildStartForm()

	return m
}

func (m InvoiceModel) Title() string { return "New Invoice" }

func (m InvoiceModel) ShortHelp() string {
	switch m.state {
	case invoiceStateOrigin:
		return "Up/Down: select loan | Enter: record | Esc: back"
	case invoiceStateDone:
		return "Enter: new invoice | Esc: back to menu"
	}

	return "Esc: back | Enter: confirm"
}

func (m InvoiceModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m InvoiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case invoiceCustomerMsg:
		return m.customerLoaded(msg)

	case originLookupMsg:
		if !msg.current || !m.tracker.Current(msg.ticket) {
			return m, nil
		}

		m.lookupActive = false
		m.applyLoanState(msg.state, msg.err)

		return m, nil

	case invoiceCreatedMsg:
		m.state = invoiceStateDone
		m.created = msg.inv
		m.err = msg.err

		return m, nil
	}

	switch m.state {
	case invoiceStateStart, invoiceStateIssuance:
		return m.updateForm(msg)
	case invoiceStateOrigin:
		return m.updateOrigin(msg)
	case invoiceStateDone:
		return m.updateDone(msg)
	}

	return m, nil
}

func (m InvoiceModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		if m.state == invoiceStateIssuance {
			return m.restart()
		}

		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == invoiceStateStart {
		m.state = invoiceStateLoading
		return m, m.loadCustomerCmd(m.input.Type, m.input.NIC)
	}

	draft, err := m.issuanceDraft()
	if err != nil {
		m.state = invoiceStateDone
		m.err = err

		return m, nil
	}

	m.state = invoiceStateSubmitting

	return m, m.createCmd(draft)
}

func (m InvoiceModel) updateOrigin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.tracker.Invalidate(originLookupKey)
			return m.restart()
		case tea.KeyEnter:
			if m.lookupActive || m.loanState == nil {
				return m, nil
			}

			if err := m.repayment.Validate(); err != nil {
				m.lookupErr = err
				return m, nil
			}

			m.state = invoiceStateSubmitting

			return m, m.createCmd(invoice.Draft{
				Type:              m.input.Type,
				CustomerID:        m.customer.ID,
				OriginID:          &m.loanState.OriginID,
				InstallmentNumber: m.repayment.InstallmentNumber(),
			})
		}
	}

	var cmd tea.Cmd
	m.originTable, cmd = m.originTable.Update(msg)

	if m.originTable.Cursor() != m.originCursor {
		m.originCursor = m.originTable.Cursor()
		lookupCmd := m.selectOrigin()

		return m, tea.Batch(cmd, lookupCmd)
	}

	return m, cmd
}

func (m InvoiceModel) updateDone(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyEnter:
			return m.restart()
		}
	}

	return m, nil
}

func (m InvoiceModel) restart() (tea.Model, tea.Cmd) {
	fresh := NewInvoiceModel(m.customerService, m.itemService, m.invoiceService, m.mode, m.timeout)
	fresh.tracker = m.tracker
	fresh.input = &invoiceInput{Type: m.input.Type, NIC: m.input.NIC}
	fresh.form = fresh.buildStartForm()

	return fresh, fresh.Init()
}

func (m InvoiceModel) customerLoaded(msg invoiceCustomerMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.state = invoiceStateDone
		m.err = msg.err

		return m, nil
	}

	m.customer = msg.customer

	if m.input.Type == loan.InvoiceIssuance {
		m.items = msg.items
		if len(m.items) == 0 {
			m.state = invoiceStateDone
			m.err = fmt.Errorf("%s has no items available to pledge", m.customer.Name)

			return m, nil
		}

		m.form = m.buildIssuanceForm()
		m.state = invoiceStateIssuance

		return m, m.form.Init()
	}

	m.origins = msg.origins
	if len(m.origins) == 0 {
		m.state = invoiceStateDone
		m.err = fmt.Errorf("%s has no loans", m.customer.Name)

		return m, nil
	}

	m.repayment = loan.NewRepaymentForm(m.input.Type, m.mode)
	m.originTable = newOriginTable(m.origins)
	m.originCursor = 0
	m.state = invoiceStateOrigin
	lookupCmd := m.selectOrigin()

	return m, lookupCmd
}

// selectOrigin clears the computed repayment and looks up the loan under the cursor.
// Results for an earlier cursor position are dropped when they arrive.
func (m *InvoiceModel) selectOrigin() tea.Cmd {
	m.repayment.Clear()
	m.loanState = nil
	m.lookupErr = nil

	if m.originCursor < 0 || m.originCursor >= len(m.origins) {
		return nil
	}

	m.lookupActive = true
	ticket := m.tracker.Begin(originLookupKey)
	originID := m.origins[m.originCursor].ID
	svc := m.invoiceService
	tracker := m.tracker
	timeout := m.timeout

	return func() tea.Msg {
		state, current, err := lookup.Run(context.Background(), tracker, ticket, timeout,
			func(ctx context.Context) (*invoice.LoanState, error) {
				return svc.LoanInfo(ctx, originID)
			})

		return originLookupMsg{ticket: ticket, state: state, current: current, err: err}
	}
}

func (m *InvoiceModel) applyLoanState(state *invoice.LoanState, err error) {
	if err != nil {
		m.lookupErr = err
		return
	}

	if err := m.repayment.Select(state.Origin); err != nil {
		m.lookupErr = err
		return
	}

	if state.Origin.InstallmentsPaid >= state.Origin.LoanPeriod {
		m.repayment.Clear()
		m.lookupErr = loan.ErrInstallmentsExhausted

		return
	}

	m.loanState = state
}

func (m InvoiceModel) buildStartForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[loan.InvoiceType]().
				Key("type").
				Title("Invoice Type").
				Options(
					huh.NewOption("Loan issuance", loan.InvoiceIssuance),
					huh.NewOption("Installment payment", loan.InvoiceInstallment),
					huh.NewOption("Loan settlement", loan.InvoiceSettlement),
				).
				Value(&m.input.Type),

			huh.NewInput().
				Key("nic").
				Title("Customer NIC").
				Value(&m.input.NIC).
				Validate(required("NIC")),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m InvoiceModel) buildIssuanceForm() *huh.Form {
	options := make([]huh.Option[uuid.UUID], len(m.items))
	for i, it := range m.items {
		label := fmt.Sprintf("%s  %dK  %sg  %s", it.Description, it.Caratage, it.GoldWeight.String(), FormatAmount(it.Value))
		options[i] = huh.NewOption(label, it.ID)
	}

	m.input.Items = nil
	m.input.Rate = "0"
	m.input.Period = ""
	m.input.Override = ""

	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[uuid.UUID]().
				Key("items").
				Title("Items").
				Options(options...).
				Value(&m.input.Items).
				Validate(func(ids []uuid.UUID) error {
					if len(ids) == 0 {
						return loan.ErrNoItems
					}
					return nil
				}),

			huh.NewInput().
				Key("rate").
				Title("Interest Rate (%)").
				Value(&m.input.Rate).
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil || d.IsNegative() {
						return loan.ErrNegativeInterestRate
					}
					return nil
				}),

			huh.NewInput().
				Key("period").
				Title("Loan Period (months)").
				Value(&m.input.Period).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n <= 0 {
						return loan.ErrInvalidLoanPeriod
					}
					return nil
				}),

			huh.NewInput().
				Key("override").
				Title("Total Amount").
				Description("Leave empty to use subtotal plus interest").
				Value(&m.input.Override).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil || d.IsNegative() {
						return loan.ErrNegativeTotal
					}
					return nil
				}),
		),
	).WithWidth(70).WithShowHelp(false)
}

// issuanceForm rebuilds the calculator from the current bindings. Unparseable inputs count
// as empty.
func (m InvoiceModel) issuanceForm() *loan.IssuanceForm {
	rate, _ := decimal.NewFromString(strings.TrimSpace(m.input.Rate))
	form := loan.NewIssuanceForm(rate)

	selected := make(map[uuid.UUID]bool, len(m.input.Items))
	for _, id := range m.input.Items {
		selected[id] = true
	}

	for _, it := range m.items {
		if selected[it.ID] {
			form.AddLine(loan.Line{Ref: it.ID.String(), Value: it.Value})
		}
	}

	if total, err := decimal.NewFromString(strings.TrimSpace(m.input.Override)); err == nil {
		_ = form.OverrideTotal(total)
	}

	return form
}

func (m InvoiceModel) issuanceDraft() (invoice.Draft, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(m.input.Rate))
	if err != nil {
		return invoice.Draft{}, fmt.Errorf("invalid interest rate: %w", err)
	}

	period, err := strconv.Atoi(strings.TrimSpace(m.input.Period))
	if err != nil {
		return invoice.Draft{}, fmt.Errorf("invalid loan period: %w", err)
	}

	d := invoice.Draft{
		Type:         loan.InvoiceIssuance,
		CustomerID:   m.customer.ID,
		ItemIDs:      m.input.Items,
		InterestRate: rate,
		LoanPeriod:   period,
	}

	if s := strings.TrimSpace(m.input.Override); s != "" {
		total, err := decimal.NewFromString(s)
		if err != nil {
			return invoice.Draft{}, fmt.Errorf("invalid total amount: %w", err)
		}

		d.TotalOverride = &total
	}

	return d, nil
}

func newOriginTable(origins []*invoice.Invoice) table.Model {
	rows := make([]table.Row, len(origins))
	for i, inv := range origins {
		rows[i] = table.Row{
			inv.Number,
			FormatDate(inv.DateGenerated),
			FormatAmount(inv.TotalAmount),
			strconv.Itoa(inv.LoanPeriod),
			string(inv.PaymentStatus),
		}
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Invoice", Width: 12},
			{Title: "Date", Width: 12},
			{Title: "Total", Width: 12},
			{Title: "Months", Width: 7},
			{Title: "Status", Width: 8},
		}),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows)+1, 12)),
	)

	s := table.DefaultStyles()
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m InvoiceModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case invoiceStateStart:
		return style.Render(m.form.View())

	case invoiceStateLoading:
		return style.Render(fmt.Sprintf("Looking up %s...", m.input.NIC))

	case invoiceStateIssuance:
		return style.Render(lipgloss.JoinHorizontal(lipgloss.Top,
			m.form.View(),
			panelStyle.Width(36).Render(m.issuancePreview()),
		))

	case invoiceStateOrigin:
		return style.Render(lipgloss.JoinVertical(lipgloss.Left,
			fmt.Sprintf("%s for %s (%s)", m.input.Type, m.customer.Name, m.customer.NIC),
			"",
			lipgloss.JoinHorizontal(lipgloss.Top,
				m.originTable.View(),
				panelStyle.Width(40).Render(m.repaymentPreview()),
			),
			faintStyle.Render(m.ShortHelp()),
		))

	case invoiceStateSubmitting:
		return style.Render("Recording invoice...")

	case invoiceStateDone:
		return style.Render(m.viewDone())
	}

	return ""
}

func (m InvoiceModel) issuancePreview() string {
	form := m.issuanceForm()

	return fmt.Sprintf(
		"Customer: %s\n\nItems:     %d\nSubtotal:  %s\nRate:      %s%%\nTotal:     %s\n\n%s",
		m.customer.Name,
		len(form.Lines()),
		FormatAmount(form.SubTotal()),
		form.InterestRate().String(),
		FormatAmount(form.Total()),
		faintStyle.Render("Total is "+form.Mode().String()),
	)
}

func (m InvoiceModel) repaymentPreview() string {
	if m.lookupActive {
		return "Loading loan..."
	}

	if m.lookupErr != nil {
		return errorStyle.Render(m.lookupErr.Error())
	}

	if m.loanState == nil {
		return faintStyle.Render("Select a loan")
	}

	o := m.loanState.Origin

	return fmt.Sprintf(
		"Loan:        %s\nTotal:       %s\nPaid:        %d of %d\n\nInstallment: #%d\nAmount:      %s",
		m.loanState.Number,
		FormatAmount(o.TotalAmount),
		o.InstallmentsPaid, o.LoanPeriod,
		m.repayment.InstallmentNumber(),
		activeStyle(FormatAmount(m.repayment.Amount().Round(2))),
	)
}

func (m InvoiceModel) viewDone() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + faintStyle.Render(m.ShortHelp())
	}

	inv := m.created

	lines := []string{
		okStyle.Bold(true).Render(fmt.Sprintf("Recorded %s", inv.Number)),
		"",
		fmt.Sprintf("Type:     %s", inv.Type),
		fmt.Sprintf("Customer: %s", m.customer.NIC),
		fmt.Sprintf("Total:    %s", FormatAmount(inv.TotalAmount)),
	}

	if inv.InstallmentNumber > 0 {
		lines = append(lines, fmt.Sprintf("Installment: #%d of %d", inv.InstallmentNumber, inv.LoanPeriod))
	}

	return strings.Join(lines, "\n") + "\n\n" + faintStyle.Render(m.ShortHelp())
}

// Messages

type invoiceCustomerMsg struct {
	customer *customer.Customer
	items    []*item.Item
	origins  []*invoice.Invoice
	err      error
}

type originLookupMsg struct {
	ticket  lookup.Ticket
	state   *invoice.LoanState
	current bool
	err     error
}

type invoiceCreatedMsg struct {
	inv *invoice.Invoice
	err error
}

func (m InvoiceModel) loadCustomerCmd(kind loan.InvoiceType, nic string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		c, err := m.customerService.GetByNIC(ctx, nic)
		if err != nil {
			return invoiceCustomerMsg{err: err}
		}

		msg := invoiceCustomerMsg{customer: c}

		if kind == loan.InvoiceIssuance {
			msg.items, msg.err = m.itemService.ListByCustomer(ctx, c.ID, true)
			return msg
		}

		issuance := loan.InvoiceIssuance
		msg.origins, _, msg.err = m.invoiceService.List(ctx, invoice.ListFilter{
			Type:       &issuance,
			CustomerID: &c.ID,
		})

		return msg
	}
}

func (m InvoiceModel) createCmd(d invoice.Draft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		inv, err := m.invoiceService.Create(ctx, d)

		return invoiceCreatedMsg{inv: inv, err: err}
	}
}
