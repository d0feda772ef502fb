package view

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pawnbook/internal/export"
	"github.com/MrJamesThe3rd/pawnbook/internal/report"
)

type reportState int

const (
	reportStateTimeframe reportState = iota
	reportStateLoading
	reportStateSummary
	reportStateExportForm
	reportStateExporting
	reportStateResult
)

// ReportModel shows the transaction report for a timeframe and writes it to disk.
type ReportModel struct {
	CommonModel
	reportService *report.Service

	state           reportState
	err             error
	timeframePicker TimeframePicker
	selected        TimeframeSelectedMsg
	summary         report.Classification

	form    *huh.Form
	input   *reportInput
	spinner spinner.Model
	written string
}

type reportInput struct {
	Format export.Format
	Dir    string
}

func NewReportModel(svc *report.Service) ReportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ReportModel{
		reportService:   svc,
		state:           reportStateTimeframe,
		timeframePicker: NewTimeframePicker(TimeframeToday),
		input:           &reportInput{Format: export.FormatXLSX, Dir: "./reports"},
		spinner:         s,
	}
}

func (m ReportModel) Title() string { return "Transaction Report" }

func (m ReportModel) ShortHelp() string {
	switch m.state {
	case reportStateSummary:
		return "e: export | Esc: change timeframe"
	case reportStateResult:
		return "Esc: back to report"
	case reportStateExporting, reportStateLoading:
		return "Working..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ReportModel) Init() tea.Cmd {
	return nil
}

func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.selected = msg
		m.state = reportStateLoading
		m.err = nil

		return m, tea.Batch(m.spinner.Tick, m.summarizeCmd(msg.From, msg.To))

	case reportSummaryMsg:
		m.state = reportStateSummary
		m.summary = msg.summary
		m.err = msg.err

		return m, nil

	case reportWrittenMsg:
		m.state = reportStateResult
		m.written = msg.path
		m.err = msg.err

		return m, nil
	}

	switch m.state {
	case reportStateTimeframe:
		return m.updateTimeframe(msg)
	case reportStateLoading, reportStateExporting:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case reportStateSummary:
		return m.updateSummary(msg)
	case reportStateExportForm:
		return m.updateExportForm(msg)
	case reportStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			m.state = reportStateSummary
			m.err = nil
		}
	}

	return m, nil
}

func (m ReportModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m ReportModel) updateSummary(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		m.state = reportStateTimeframe
		m.timeframePicker.Reset()
	case "e":
		if m.err != nil {
			return m, nil
		}

		m.form = m.buildExportForm()
		m.state = reportStateExportForm

		return m, m.form.Init()
	}

	return m, nil
}

func (m ReportModel) updateExportForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = reportStateSummary
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = reportStateExporting

	return m, tea.Batch(m.spinner.Tick, m.writeCmd(m.summary, m.input.Format, m.input.Dir))
}

func (m ReportModel) buildExportForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[export.Format]().
				Key("format").
				Title("Format").
				Options(
					huh.NewOption("Excel (.xlsx)", export.FormatXLSX),
					huh.NewOption("PDF", export.FormatPDF),
					huh.NewOption("Plain text", export.FormatText),
				).
				Value(&m.input.Format),

			huh.NewInput().
				Key("dir").
				Title("Output Directory").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./reports").
				Value(&m.input.Dir).
				Validate(required("output directory")),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ReportModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case reportStateTimeframe:
		return style.Render(m.timeframePicker.View())

	case reportStateLoading:
		return style.Render(fmt.Sprintf("%s Loading transactions...", m.spinner.View()))

	case reportStateSummary:
		return style.Render(m.viewSummary())

	case reportStateExportForm:
		return style.Render(m.form.View())

	case reportStateExporting:
		return style.Render(fmt.Sprintf("%s Writing report...", m.spinner.View()))

	case reportStateResult:
		if m.err != nil {
			return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		}

		return style.Render(okStyle.Bold(true).Render("Report written") + "\n\n" + m.written)
	}

	return ""
}

func (m ReportModel) viewSummary() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	c := m.summary

	bucket := func(title string, b report.Bucket) string {
		return panelStyle.Width(30).Render(fmt.Sprintf(
			"%s\n\nTransactions: %d\n%-13s %s",
			accentStyle.Render(title), len(b.Rows), b.Basis.Label()+":", FormatAmount(b.Total),
		))
	}

	lines := []string{
		fmt.Sprintf("Timeframe: %s", m.selected.Label()),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top,
			bucket("Loan issuance", c.Issuance),
			bucket("Installment payments", c.Installment),
		),
		"",
		fmt.Sprintf("All transactions: %d", len(c.All)),
	}

	const recent = 10

	for i, row := range c.All {
		if i == recent {
			lines = append(lines, faintStyle.Render(fmt.Sprintf("... and %d more", len(c.All)-recent)))
			break
		}

		lines = append(lines, fmt.Sprintf("  %s  %-12s %-14s %-22s %12s",
			FormatDate(row.Date), row.InvoiceNumber, row.CustomerNIC, row.Type.String(), FormatAmount(row.TotalAmount)))
	}

	lines = append(lines, "", faintStyle.Render(m.ShortHelp()))

	return strings.Join(lines, "\n")
}

type reportSummaryMsg struct {
	summary report.Classification
	err     error
}

type reportWrittenMsg struct {
	path string
	err  error
}

const reportTimeout = 2 * time.Minute

func (m ReportModel) summarizeCmd(from, to time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()

		c, err := m.reportService.Summarize(ctx, from, to)

		return reportSummaryMsg{summary: c, err: err}
	}
}

func (m ReportModel) writeCmd(c report.Classification, format export.Format, dir string) tea.Cmd {
	return func() tea.Msg {
		var buf bytes.Buffer
		if err := export.Write(&buf, format, c); err != nil {
			return reportWrittenMsg{err: err}
		}

		dir = strings.TrimSpace(dir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return reportWrittenMsg{err: fmt.Errorf("creating %s: %w", dir, err)}
		}

		path := filepath.Join(dir, export.Filename(format, c.From, c.To))
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return reportWrittenMsg{err: fmt.Errorf("writing %s: %w", path, err)}
		}

		return reportWrittenMsg{path: path}
	}
}
