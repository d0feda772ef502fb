package view

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pawnbook/internal/pricing"
)

const importTimeout = 2 * time.Minute

type pricingState int

const (
	pricingStateBrowse pricingState = iota
	pricingStateFilePick
	pricingStateImporting
)

// PricingModel lists the pricing table and imports pricing sheets into it.
type PricingModel struct {
	CommonModel
	pricingService *pricing.Service

	state      pricingState
	table      table.Model
	filePicker filepicker.Model

	status string
	err    error
}

func NewPricingModel(svc *pricing.Service) PricingModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Karat", Width: 10},
			{Title: "Months", Width: 8},
			{Title: "Price / g", Width: 14},
			{Title: "Updated", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return PricingModel{
		pricingService: svc,
		table:          t,
		filePicker:     fp,
	}
}

func (m PricingModel) Title() string { return "Pricing" }

func (m PricingModel) ShortHelp() string {
	switch m.state {
	case pricingStateFilePick:
		return "Esc: cancel | Enter: import file"
	case pricingStateImporting:
		return "Importing..."
	}

	return "Esc: back | i: import sheet | r: refresh"
}

func (m PricingModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m PricingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadPricingMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.table.SetRows(pricingRows(msg.prices))

		return m, nil

	case importResultMsg:
		m.state = pricingStateBrowse
		m.err = msg.err

		if msg.err != nil {
			m.status = ""
			return m, nil
		}

		m.status = fmt.Sprintf("Imported %s sheet (%s): %d created, %d updated.",
			msg.result.Profile, msg.result.Charset, msg.result.Created, msg.result.Updated)

		return m, m.loadCmd()

	case tea.KeyMsg:
		switch m.state {
		case pricingStateBrowse:
			return m.updateBrowse(msg)
		case pricingStateFilePick:
			if msg.Type == tea.KeyEsc {
				m.state = pricingStateBrowse
				return m, nil
			}
		case pricingStateImporting:
			return m, nil
		}
	}

	if m.state != pricingStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = pricingStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m PricingModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, Back
	case "i":
		m.state = pricingStateFilePick
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	case "r":
		m.err = nil
		return m, m.loadCmd()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m PricingModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case pricingStateFilePick:
		return style.Render("Select a pricing sheet:\n\n" + m.filePicker.View())
	case pricingStateImporting:
		return style.Render(m.status)
	}

	footer := faintStyle.Render(m.ShortHelp())

	switch {
	case m.err != nil:
		footer = errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n" + footer
	case m.status != "":
		footer = okStyle.Render(m.status) + "\n" + footer
	}

	return style.Render(m.table.View() + "\n\n" + footer)
}

func pricingRows(prices []*pricing.Pricing) []table.Row {
	rows := make([]table.Row, len(prices))
	for i, p := range prices {
		rows[i] = table.Row{
			p.KaratName,
			strconv.Itoa(p.Months),
			FormatAmount(p.Price),
			FormatDate(p.UpdatedAt),
		}
	}

	return rows
}

// Messages

type loadPricingMsg struct {
	prices []*pricing.Pricing
	err    error
}

type importResultMsg struct {
	result *pricing.ImportResult
	err    error
}

func (m PricingModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		prices, err := m.pricingService.List(ctx)

		return loadPricingMsg{prices: prices, err: err}
	}
}

func (m PricingModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.pricingService.Import(ctx, f)

		return importResultMsg{result: result, err: err}
	}
}
