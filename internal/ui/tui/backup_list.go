package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/klauern/cusubmit/internal/backup"
)

// BackupAction is what the user chose to do with a backup.
type BackupAction int

const (
	// BackupNone means the user quit without choosing.
	BackupNone BackupAction = iota
	// BackupRestore restores the backup over its source file.
	BackupRestore
	// BackupDelete deletes the backup.
	BackupDelete
	// BackupVerify checks the backup hash.
	BackupVerify
)

// BackupListResult is the outcome of the backup browser.
type BackupListResult struct {
	Action BackupAction
	Backup backup.Metadata
}

type backupListKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Restore  key.Binding
	Delete   key.Binding
	Verify   key.Binding
	Filter   key.Binding
	ClearFlt key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultBackupListKeyMap() backupListKeyMap {
	return backupListKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Restore:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restore")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Verify:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "verify")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		ClearFlt: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear filter")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// BackupListModel is a table of record file backups. Restore and delete ask
// for a y/n confirmation before the program exits with the choice.
type BackupListModel struct {
	table       table.Model
	backups     []backup.Metadata
	filtered    []backup.Metadata
	keys        backupListKeyMap
	result      BackupListResult
	pending     BackupListResult
	filter      string
	filtering   bool
	showHelp    bool
	confirmMode bool
	quitting    bool
}

var backupListStyles = struct {
	Title       lipgloss.Style
	Help        lipgloss.Style
	Filter      lipgloss.Style
	FilterInput lipgloss.Style
	Confirm     lipgloss.Style
	Status      lipgloss.Style
}{
	Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1),
	Help:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	Filter:      lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	FilterInput: lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
	Confirm:     lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true).Padding(1, 2),
	Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1),
}

// NewBackupListModel creates a browser over backups, which are expected newest first.
func NewBackupListModel(backups []backup.Metadata) BackupListModel {
	columns := []table.Column{
		{Title: "ID", Width: 24},
		{Title: "File", Width: 12},
		{Title: "Snapshot", Width: 36},
		{Title: "Created", Width: 16},
		{Title: "Size", Width: 9},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(backupsToRows(backups)),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return BackupListModel{
		table:    t,
		backups:  backups,
		filtered: backups,
		keys:     defaultBackupListKeyMap(),
	}
}

func backupsToRows(backups []backup.Metadata) []table.Row {
	rows := make([]table.Row, len(backups))
	for i, b := range backups {
		rows[i] = table.Row{
			b.ID,
			filepath.Base(b.SourcePath),
			truncateText(b.Snapshot, 36),
			b.CreatedAt.Format("2006-01-02 15:04"),
			humanize.IBytes(uint64(max(b.Size, 0))),
		}
	}
	return rows
}

// Init implements tea.Model.
func (m BackupListModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m BackupListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-8, 5))

	case tea.KeyMsg:
		if m.confirmMode {
			switch msg.String() {
			case "y", "Y":
				m.result = m.pending
				m.quitting = true
				return m, tea.Quit
			case "n", "N", "esc":
				m.confirmMode = false
				m.pending = BackupListResult{}
			}
			return m, nil
		}

		if m.filtering {
			return m.updateFilter(msg), nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, m.keys.Filter):
			m.filtering = true
			return m, nil
		case key.Matches(msg, m.keys.ClearFlt):
			m.filter = ""
			m.applyFilter()
			return m, nil
		case key.Matches(msg, m.keys.Restore):
			return m.ask(BackupRestore), nil
		case key.Matches(msg, m.keys.Delete):
			return m.ask(BackupDelete), nil
		case key.Matches(msg, m.keys.Verify):
			if len(m.filtered) > 0 {
				m.result = BackupListResult{Action: BackupVerify, Backup: m.selected()}
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m BackupListModel) ask(action BackupAction) BackupListModel {
	if len(m.filtered) == 0 {
		return m
	}
	m.pending = BackupListResult{Action: action, Backup: m.selected()}
	m.confirmMode = true
	return m
}

func (m BackupListModel) updateFilter(msg tea.KeyMsg) BackupListModel {
	switch msg.String() {
	case "enter":
		m.filtering = false
	case "esc":
		m.filter = ""
		m.filtering = false
		m.applyFilter()
	case "backspace":
		if len(m.filter) > 0 {
			m.filter = m.filter[:len(m.filter)-1]
			m.applyFilter()
		}
	default:
		if len(msg.String()) == 1 {
			m.filter += msg.String()
			m.applyFilter()
		}
	}
	return m
}

func (m *BackupListModel) applyFilter() {
	if m.filter == "" {
		m.filtered = m.backups
	} else {
		needle := strings.ToLower(m.filter)
		var filtered []backup.Metadata
		for _, b := range m.backups {
			if strings.Contains(strings.ToLower(b.ID), needle) ||
				strings.Contains(strings.ToLower(b.SourcePath), needle) {
				filtered = append(filtered, b)
			}
		}
		m.filtered = filtered
	}
	m.table.SetRows(backupsToRows(m.filtered))
}

func (m BackupListModel) selected() backup.Metadata {
	cursor := m.table.Cursor()
	if cursor >= 0 && cursor < len(m.filtered) {
		return m.filtered[cursor]
	}
	return backup.Metadata{}
}

// View implements tea.Model.
func (m BackupListModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(backupListStyles.Title.Render("Record Backups"))
	b.WriteString("\n\n")

	if m.filter != "" || m.filtering {
		val := backupListStyles.FilterInput.Render(m.filter)
		if m.filtering {
			val += "█"
		}
		b.WriteString(backupListStyles.Filter.Render("Filter: ") + val + "\n\n")
	}

	b.WriteString(m.table.View())
	if m.confirmMode {
		verb := "Restore"
		if m.pending.Action == BackupDelete {
			verb = "Delete"
		}
		b.WriteString("\n\n")
		b.WriteString(backupListStyles.Confirm.Render(fmt.Sprintf("%s backup %s? (y/n)", verb, m.pending.Backup.ID)))
		return b.String()
	}
	b.WriteString("\n")

	status := fmt.Sprintf("%d backup(s)", len(m.filtered))
	if m.filter != "" {
		status = fmt.Sprintf("%d of %d backup(s) (filtered)", len(m.filtered), len(m.backups))
	}
	b.WriteString(backupListStyles.Status.Render(status))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(backupListStyles.Help.Render(`Actions:
  r        Restore the selected backup over its file
  d        Delete the selected backup
  v        Verify the selected backup

Filter:
  /        Filter by id or path
  Esc      Clear filter

General:
  ?        Toggle full help
  q        Quit`))
	} else {
		b.WriteString(backupListStyles.Help.Render("↑/↓ navigate • r restore • d delete • v verify • / filter • ? help • q quit"))
	}

	return b.String()
}

// Result returns the choice made by the user.
func (m BackupListModel) Result() BackupListResult {
	return m.result
}

// RunBackupList runs the backup browser.
func RunBackupList(backups []backup.Metadata) (BackupListResult, error) {
	if len(backups) == 0 {
		return BackupListResult{}, nil
	}

	finalModel, err := Run(NewBackupListModel(backups))
	if err != nil {
		return BackupListResult{}, err
	}
	if m, ok := finalModel.(BackupListModel); ok {
		return m.Result(), nil
	}
	return BackupListResult{}, nil
}
