package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/klauern/cusubmit/internal/export"
	"github.com/klauern/cusubmit/internal/model"
)

// ReviewResult contains the outcome of a changelog review.
type ReviewResult struct {
	// Confirmed is true when the user accepted the operation.
	Confirmed bool
}

// reviewKeyMap defines the key bindings for the review screen.
type reviewKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultReviewKeyMap() reviewKeyMap {
	return reviewKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "o"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ReviewModel shows a changelog and asks whether to apply it.
type ReviewModel struct {
	viewport  viewport.Model
	changelog *model.Changelog
	operation string
	target    string
	keys      reviewKeyMap
	result    ReviewResult
	showHelp  bool
	width     int
	height    int
	quitting  bool
	ready     bool
}

var reviewStyles = struct {
	Title    lipgloss.Style
	Help     lipgloss.Style
	Status   lipgloss.Style
	Added    lipgloss.Style
	Removed  lipgloss.Style
	Modified lipgloss.Style
	Dim      lipgloss.Style
	Info     lipgloss.Style
}{
	Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1),
	Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1),
	Added:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	Removed:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	Modified: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	Info:     lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Italic(true),
}

// NewReviewModel creates a review screen for applying cl to target.
// operation names what will happen ("transfer", "submit").
func NewReviewModel(cl *model.Changelog, operation, target string) ReviewModel {
	return ReviewModel{
		changelog: cl,
		operation: operation,
		target:    target,
		keys:      defaultReviewKeyMap(),
	}
}

// Init implements tea.Model.
func (m ReviewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4 // Title + target
		footerHeight := 3 // Status + help
		viewportHeight := max(msg.Height-headerHeight-footerHeight, 5)

		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, viewportHeight)
			m.viewport.SetContent(m.buildContent())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = viewportHeight
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Cancel):
			m.result = ReviewResult{Confirmed: false}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.Confirm):
			m.result = ReviewResult{Confirmed: true}
			m.quitting = true
			return m, tea.Quit
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m ReviewModel) buildContent() string {
	if m.changelog.IsEmpty() {
		return reviewStyles.Info.Render("  No differences found")
	}

	lines := strings.Split(strings.TrimRight(export.Text(m.changelog), "\n"), "\n")
	for i, line := range lines {
		lines[i] = styleLine(line)
	}
	return strings.Join(lines, "\n")
}

func styleLine(line string) string {
	switch {
	case strings.HasPrefix(line, "+ "):
		return reviewStyles.Added.Render(line)
	case strings.HasPrefix(line, "- "):
		return reviewStyles.Removed.Render(line)
	case strings.HasPrefix(line, "* "):
		return reviewStyles.Modified.Render(line)
	case strings.HasPrefix(line, export.Separator), strings.HasPrefix(line, "\t|"):
		return reviewStyles.Dim.Render(line)
	default:
		return line
	}
}

// View implements tea.Model.
func (m ReviewModel) View() string {
	if m.quitting {
		return ""
	}

	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder

	title := cases.Title(language.English).String(fmt.Sprintf("review %s", m.operation))
	b.WriteString(reviewStyles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(formatDetail("  Target: ", m.target, m.width))
	b.WriteString("\n\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	scrollPercent := int(m.viewport.ScrollPercent() * 100)
	status := fmt.Sprintf("Scroll: %d%% • %d entries", scrollPercent, m.changelog.Count())
	b.WriteString(reviewStyles.Status.Render(truncateText(status, max(m.width-2, 0))))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(m.renderFullHelp())
	} else {
		b.WriteString(m.renderShortHelp())
	}

	return b.String()
}

func (m ReviewModel) renderShortHelp() string {
	keys := []string{
		"↑/↓ scroll",
		"y confirm",
		"n cancel",
		"? help",
	}
	return reviewStyles.Help.Render(strings.Join(keys, " • "))
}

func (m ReviewModel) renderFullHelp() string {
	help := fmt.Sprintf(`Navigation:
  ↑/k      Scroll up
  ↓/j      Scroll down
  PgUp     Page up
  PgDown   Page down

Actions:
  y        Confirm %s
  n/Esc    Cancel

General:
  ?        Toggle full help
  q        Quit without changes`, m.operation)
	return reviewStyles.Help.Render(help)
}

// Result returns the result of the user interaction.
func (m ReviewModel) Result() ReviewResult {
	return m.result
}

// RunReview shows the review screen and returns the user's decision.
func RunReview(cl *model.Changelog, operation, target string) (ReviewResult, error) {
	finalModel, err := Run(NewReviewModel(cl, operation, target))
	if err != nil {
		return ReviewResult{}, err
	}

	if m, ok := finalModel.(ReviewModel); ok {
		return m.Result(), nil
	}

	return ReviewResult{}, nil
}
