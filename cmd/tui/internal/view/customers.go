package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pawnbook/internal/customer"
	"github.com/MrJamesThe3rd/pawnbook/internal/item"
	"github.com/MrJamesThe3rd/pawnbook/internal/pagination"
)

type customersState int

const (
	customersStateBrowse customersState = iota
	customersStateSearch
	customersStateCustomerForm
	customersStateItemForm
)

type CustomersModel struct {
	CommonModel
	customerService *customer.Service
	itemService     *item.Service

	state     customersState
	table     table.Model
	search    textinput.Model
	customers []*customer.Customer
	page      pagination.Page
	query     string
	form      *huh.Form

	loading bool
	err     error
	status  string

	input *customerInput
}

// customerInput holds the huh bindings behind a pointer so they survive model copies.
type customerInput struct {
	NIC      string
	Name     string
	Address  string
	Phone    string
	Desc     string
	Caratage string
	Weight   string
	Value    string
}

func NewCustomersModel(customerSvc *customer.Service, itemSvc *item.Service) CustomersModel {
	columns := []table.Column{
		{Title: "NIC", Width: 14},
		{Title: "Name", Width: 28},
		{Title: "Phone", Width: 14},
		{Title: "Address", Width: 36},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(pagination.DefaultPageSize+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	si := textinput.New()
	si.Placeholder = "NIC or name"
	si.Prompt = "Search: "
	si.Width = 30

	return CustomersModel{
		customerService: customerSvc,
		itemService:     itemSvc,
		table:           t,
		search:          si,
		page:            pagination.Page{Number: 1, Size: pagination.DefaultPageSize},
		loading:         true,
		input:           &customerInput{},
	}
}

func (m CustomersModel) Title() string { return "Customers" }

func (m CustomersModel) ShortHelp() string {
	switch m.state {
	case customersStateSearch:
		return "Enter: search | Esc: cancel"
	case customersStateCustomerForm, customersStateItemForm:
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n/p: page | /: search | a: add customer | i: add item | r: refresh"
}

func (m CustomersModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m CustomersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadCustomersMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.customers = msg.customers
		m.page = msg.page
		m.refreshTable()

		return m, nil

	case customerSaveMsg:
		m.state = customersStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.status = msg.status

		return m, m.loadCmd()
	}

	switch m.state {
	case customersStateBrowse:
		return m.updateBrowse(msg)
	case customersStateSearch:
		return m.updateSearch(msg)
	case customersStateCustomerForm, customersStateItemForm:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m CustomersModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "n", "right":
			if m.page.HasNext() {
				m.page.Number++
				m.loading = true

				return m, m.loadCmd()
			}

			return m, nil
		case "p", "left":
			if m.page.HasPrev() {
				m.page.Number--
				m.loading = true

				return m, m.loadCmd()
			}

			return m, nil
		case "/":
			m.state = customersStateSearch
			m.table.Blur()
			m.search.SetValue(m.query)

			return m, m.search.Focus()
		case "a":
			return m.enterCustomerForm()
		case "i":
			return m.enterItemForm()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m CustomersModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.state = customersStateBrowse
			m.search.Blur()
			m.table.Focus()

			return m, nil
		case tea.KeyEnter:
			m.query = strings.TrimSpace(m.search.Value())
			m.page.Number = 1
			m.state = customersStateBrowse
			m.loading = true
			m.search.Blur()
			m.table.Focus()

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	return m, cmd
}

func (m CustomersModel) enterCustomerForm() (tea.Model, tea.Cmd) {
	m.input.NIC, m.input.Name, m.input.Address, m.input.Phone = "", "", "", ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("nic").Title("NIC").Value(&m.input.NIC).Validate(required("NIC")),
			huh.NewInput().Key("name").Title("Name").Value(&m.input.Name).Validate(required("name")),
			huh.NewInput().Key("address").Title("Address").Value(&m.input.Address),
			huh.NewInput().Key("phone").Title("Phone").Value(&m.input.Phone),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = customersStateCustomerForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m CustomersModel) enterItemForm() (tea.Model, tea.Cmd) {
	if m.selected() == nil {
		return m, nil
	}

	m.input.Desc, m.input.Caratage, m.input.Weight, m.input.Value = "", "22", "", ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("description").Title("Description").Value(&m.input.Desc).Validate(required("description")),
			huh.NewInput().Key("caratage").Title("Caratage").Value(&m.input.Caratage).Validate(func(s string) error {
				n, err := strconv.Atoi(strings.TrimSpace(s))
				if err != nil || n < 1 || n > 24 {
					return fmt.Errorf("caratage must be between 1 and 24")
				}
				return nil
			}),
			huh.NewInput().Key("weight").Title("Gold Weight (g)").Value(&m.input.Weight).Validate(positiveDecimal("gold weight")),
			huh.NewInput().Key("value").Title("Value").Value(&m.input.Value).Validate(positiveDecimal("value")),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = customersStateItemForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m CustomersModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = customersStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == customersStateItemForm {
		return m, m.saveItemCmd()
	}

	return m, m.saveCustomerCmd()
}

func (m CustomersModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading customers...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	query := "none"
	if m.query != "" {
		query = m.query
	}

	header := fmt.Sprintf("[/] Search: %s | %s", activeStyle(query), m.page.Label())
	if m.state == customersStateSearch {
		header = m.search.View()
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		faintStyle.Render(m.ShortHelp()),
	)

	if m.form != nil {
		title := "New Customer"
		if m.state == customersStateItemForm {
			title = fmt.Sprintf("New Item for %s", m.selected().Name)
		}

		panel := panelStyle.Width(48).Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m CustomersModel) selected() *customer.Customer {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.customers) {
		return nil
	}

	return m.customers[idx]
}

func (m *CustomersModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.customers))
	for _, c := range m.customers {
		rows = append(rows, table.Row{c.NIC, c.Name, c.Phone, c.Address})
	}

	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

func positiveDecimal(field string) func(string) error {
	return func(s string) error {
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil || !d.IsPositive() {
			return fmt.Errorf("%s must be a positive number", field)
		}
		return nil
	}
}

// Messages

type loadCustomersMsg struct {
	customers []*customer.Customer
	page      pagination.Page
	err       error
}

func (m CustomersModel) loadCmd() tea.Cmd {
	page := m.page
	query := m.query

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		customers, total, err := m.customerService.List(ctx, customer.ListFilter{
			Query:  query,
			Limit:  page.Size,
			Offset: page.Offset(),
		})
		if err != nil {
			return loadCustomersMsg{err: err}
		}

		page.Total = total

		return loadCustomersMsg{customers: customers, page: page}
	}
}

type customerSaveMsg struct {
	status string
	err    error
}

func (m CustomersModel) saveCustomerCmd() tea.Cmd {
	params := customer.CreateParams{
		NIC:     m.input.NIC,
		Name:    m.input.Name,
		Address: m.input.Address,
		Phone:   m.input.Phone,
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		c, err := m.customerService.Create(ctx, params)
		if err != nil {
			return customerSaveMsg{err: err}
		}

		return customerSaveMsg{status: fmt.Sprintf("Added %s (%s).", c.Name, c.NIC)}
	}
}

func (m CustomersModel) saveItemCmd() tea.Cmd {
	c := m.selected()
	if c == nil {
		return nil
	}

	caratage, _ := strconv.Atoi(strings.TrimSpace(m.input.Caratage))
	weight, _ := decimal.NewFromString(strings.TrimSpace(m.input.Weight))
	value, _ := decimal.NewFromString(strings.TrimSpace(m.input.Value))

	params := item.CreateParams{
		CustomerID:  c.ID,
		Description: m.input.Desc,
		Caratage:    caratage,
		GoldWeight:  weight,
		Value:       value,
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		it, err := m.itemService.Create(ctx, params)
		if err != nil {
			return customerSaveMsg{err: err}
		}

		return customerSaveMsg{status: fmt.Sprintf("Added %s worth %s for %s.", it.Description, FormatAmount(it.Value), c.Name)}
	}
}
