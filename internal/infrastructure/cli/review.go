package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Pvilangaiah/RequirementsBot/internal/domain/requirements"
)

var reviewCmd = &cobra.Command{
	Use:   "review <bundle.json>",
	Short: "Review a generated bundle in an interactive TUI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("REQBOT_SKIP_REVIEW_RUN") == "true" {
			return nil
		}
		p := tea.NewProgram(initialReviewModel(args[0]))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("review run failed: %w", err)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(reviewCmd)
}

// Styles
var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	PaddingLeft(1).
	PaddingRight(1)

var statusOK = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
var statusWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
var statusBad = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

type reviewModel struct {
	table     table.Model
	path      string
	stories   int
	scenarios int
	tests     int
	entities  int
	conflicts int
	findings  []string
	err       error
}

func initialReviewModel(path string) reviewModel {
	data, err := os.ReadFile(path)
	if err != nil {
		return reviewModel{err: err}
	}

	bundle, err := requirements.ParseBundle(data)
	if err != nil {
		return reviewModel{err: err}
	}

	return newReviewModel(path, bundle)
}

func newReviewModel(path string, bundle *requirements.Bundle) reviewModel {
	columns := []table.Column{
		{Title: "ID", Width: 8},
		{Title: "As a", Width: 16},
		{Title: "I want", Width: 40},
		{Title: "Criteria", Width: 8},
	}

	rows := []table.Row{}
	for _, story := range bundle.UserStories {
		rows = append(rows, table.Row{
			story.ID,
			story.AsA,
			story.IWant,
			fmt.Sprintf("%d", len(story.AcceptanceCriteria)),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))

	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229"))

	t.SetStyles(s)

	findings := []string{}
	for _, c := range bundle.ValidationReport.Conflicts {
		findings = append(findings, fmt.Sprintf("[conflict] %s", c))
	}
	for _, a := range bundle.ValidationReport.Ambiguities {
		findings = append(findings, fmt.Sprintf("[ambiguity] %s", a))
	}
	for _, m := range bundle.ValidationReport.Missing {
		findings = append(findings, fmt.Sprintf("[missing] %s", m))
	}

	scenarios := 0
	for _, ds := range bundle.DeclarativeStories {
		scenarios += len(ds.Scenarios)
	}

	return reviewModel{
		table:     t,
		path:      path,
		stories:   len(bundle.UserStories),
		scenarios: scenarios,
		tests:     len(bundle.ImperativeTests),
		entities:  len(bundle.UIDataModel.Entities),
		conflicts: len(bundle.ValidationReport.Conflicts),
		findings:  findings,
	}
}

func (m reviewModel) Init() tea.Cmd { return nil }

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m reviewModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error loading bundle: %v\nPress q to quit.", m.err)
	}

	header := headerStyle.Render(fmt.Sprintf("Bundle %s", m.path))

	summary := fmt.Sprintf("%d stories, %d scenarios, %d tests, %d entities",
		m.stories, m.scenarios, m.tests, m.entities)

	findingsView := ""
	if len(m.findings) > 0 {
		style := statusWarn
		if m.conflicts > 0 {
			style = statusBad
		}
		findingsView = style.Render("\nVALIDATION FINDINGS:\n")
		for _, f := range m.findings {
			findingsView += fmt.Sprintf("- %s\n", f)
		}
	} else {
		findingsView = statusOK.Render("\nValidation: no findings")
	}

	return baseStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			summary,
			"\nUser Stories:",
			m.table.View(),
			findingsView,
			"\n[q] Quit  [Up/Down] Navigate",
		),
	) + "\n"
}
