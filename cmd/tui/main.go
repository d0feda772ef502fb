package main

import (
	"errors"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/pawnbook/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/pawnbook/internal/config"
	"github.com/MrJamesThe3rd/pawnbook/internal/customer"
	customerStore "github.com/MrJamesThe3rd/pawnbook/internal/customer/store"
	"github.com/MrJamesThe3rd/pawnbook/internal/database"
	"github.com/MrJamesThe3rd/pawnbook/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/pawnbook/internal/invoice/store"
	"github.com/MrJamesThe3rd/pawnbook/internal/item"
	itemStore "github.com/MrJamesThe3rd/pawnbook/internal/item/store"
	"github.com/MrJamesThe3rd/pawnbook/internal/loan"
	"github.com/MrJamesThe3rd/pawnbook/internal/pricing"
	pricingStore "github.com/MrJamesThe3rd/pawnbook/internal/pricing/store"
	"github.com/MrJamesThe3rd/pawnbook/internal/report"
	"github.com/MrJamesThe3rd/pawnbook/internal/transaction"
	txStore "github.com/MrJamesThe3rd/pawnbook/internal/transaction/store"
)

type services struct {
	customers    *customer.Service
	items        *item.Service
	invoices     *invoice.Service
	transactions *transaction.Service
	reports      *report.Service
	pricing      *pricing.Service
	cfg          *config.Config
}

type model struct {
	svc services

	currentView View
	size        tea.WindowSizeMsg

	customersView view.CustomersModel
	invoiceView   view.InvoiceModel
	ledgerView    view.LedgerModel
	reportView    view.ReportModel
	pricingView   view.PricingModel
}

type View int

const (
	ViewMenu      View = 0
	ViewCustomers View = 1
	ViewInvoice   View = 2
	ViewLedger    View = 3
	ViewReport    View = 4
	ViewPricing   View = 5
)

func initialModel() model {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	itemSvc := item.NewService(itemStore.New(db))
	txSvc := transaction.NewService(txStore.New(db))

	return model{
		svc: services{
			customers:    customer.NewService(customerStore.New(db)),
			items:        itemSvc,
			invoices:     invoice.NewService(invoiceStore.New(db), itemSvc, loan.SettlementMode(cfg.Loan.SettlementMode)),
			transactions: txSvc,
			reports:      report.NewService(txSvc),
			pricing:      pricing.NewService(pricingStore.New(db)),
			cfg:          cfg,
		},
		currentView: ViewMenu,
	}
}

func (m model) newInvoiceView() view.InvoiceModel {
	return view.NewInvoiceModel(m.svc.customers, m.svc.items, m.svc.invoices,
		loan.SettlementMode(m.svc.cfg.Loan.SettlementMode), m.svc.cfg.Lookup.Timeout)
}

// replaySize hands the last known terminal size to a view that was just opened.
func (m model) replaySize() tea.Cmd {
	size := m.size
	if size.Width == 0 {
		return nil
	}

	return func() tea.Msg { return size }
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewCustomers
				m.customersView = view.NewCustomersModel(m.svc.customers, m.svc.items)

				return m, tea.Batch(m.customersView.Init(), m.replaySize())
			case "2":
				m.currentView = ViewInvoice
				m.invoiceView = m.newInvoiceView()

				return m, tea.Batch(m.invoiceView.Init(), m.replaySize())
			case "3":
				m.currentView = ViewLedger
				m.ledgerView = view.NewLedgerModel(m.svc.transactions)

				return m, tea.Batch(m.ledgerView.Init(), m.replaySize())
			case "4":
				m.currentView = ViewReport
				m.reportView = view.NewReportModel(m.svc.reports)

				return m, tea.Batch(m.reportView.Init(), m.replaySize())
			case "5":
				m.currentView = ViewPricing
				m.pricingView = view.NewPricingModel(m.svc.pricing)

				return m, tea.Batch(m.pricingView.Init(), m.replaySize())
			}
		}
	case tea.WindowSizeMsg:
		m.size = msg
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewCustomers:
		var newModel tea.Model
		newModel, cmd = m.customersView.Update(msg)
		m.customersView = newModel.(view.CustomersModel)
	case ViewInvoice:
		var newModel tea.Model
		newModel, cmd = m.invoiceView.Update(msg)
		m.invoiceView = newModel.(view.InvoiceModel)
	case ViewLedger:
		var newModel tea.Model
		newModel, cmd = m.ledgerView.Update(msg)
		m.ledgerView = newModel.(view.LedgerModel)
	case ViewReport:
		var newModel tea.Model
		newModel, cmd = m.reportView.Update(msg)
		m.reportView = newModel.(view.ReportModel)
	case ViewPricing:
		var newModel tea.Model
		newModel, cmd = m.pricingView.Update(msg)
		m.pricingView = newModel.(view.PricingModel)
	}

	return m, cmd
}

func (m model) current() view.Screen {
	switch m.currentView {
	case ViewCustomers:
		return m.customersView
	case ViewInvoice:
		return m.invoiceView
	case ViewLedger:
		return m.ledgerView
	case ViewReport:
		return m.reportView
	case ViewPricing:
		return m.pricingView
	}

	return nil
}

func (m model) View() string {
	if s := m.current(); s != nil {
		return view.Frame(s)
	}

	return lipgloss.NewStyle().Padding(2).Render(
		m.svc.cfg.App.Name + "\n\n" +
			"1. Customers & Items\n" +
			"2. New Invoice\n" +
			"3. Ledger\n" +
			"4. Transaction Report\n" +
			"5. Pricing\n\n" +
			"q. Quit",
	)
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
