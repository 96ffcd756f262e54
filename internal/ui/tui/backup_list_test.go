package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/klauern/cusubmit/internal/backup"
)

func testBackups() []backup.Metadata {
	return []backup.Metadata{
		{
			ID:         "20240517-120000-abc12345",
			SourcePath: "/game/master/RPG_RT.ldb",
			Snapshot:   "/game/master",
			CreatedAt:  time.Date(2024, time.May, 17, 12, 0, 0, 0, time.UTC),
			Size:       2048,
		},
		{
			ID:         "20240517-120000-def67890",
			SourcePath: "/game/master/RPG_RT.lmt",
			Snapshot:   "/game/master",
			CreatedAt:  time.Date(2024, time.May, 17, 12, 0, 0, 0, time.UTC),
			Size:       512,
		},
	}
}

func TestNewBackupListModel(t *testing.T) {
	m := NewBackupListModel(testBackups())

	if len(m.filtered) != 2 {
		t.Fatalf("expected 2 backups, got %d", len(m.filtered))
	}
	rows := backupsToRows(m.backups)
	if rows[0][1] != "RPG_RT.ldb" {
		t.Errorf("file column = %q, want RPG_RT.ldb", rows[0][1])
	}
	if rows[0][4] != "2.0 KiB" {
		t.Errorf("size column = %q, want 2.0 KiB", rows[0][4])
	}
}

func TestBackupListModel_Filter(t *testing.T) {
	m := NewBackupListModel(testBackups())

	for _, r := range "/lmt" {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(BackupListModel)
	}
	if len(m.filtered) != 1 || m.filtered[0].ID != "20240517-120000-def67890" {
		t.Fatalf("expected only the map-tree backup, got %v", m.filtered)
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(BackupListModel)
	if m.filter != "" || len(m.filtered) != 2 {
		t.Errorf("esc should clear the filter, got %q with %d backups", m.filter, len(m.filtered))
	}
}

func TestBackupListModel_RestoreConfirmation(t *testing.T) {
	m := NewBackupListModel(testBackups())

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = updated.(BackupListModel)
	if !m.confirmMode {
		t.Fatal("expected confirmation after r")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = updated.(BackupListModel)
	if m.confirmMode || m.Result().Action != BackupNone {
		t.Fatal("declining should return to the list without a result")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = updated.(BackupListModel)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	m = updated.(BackupListModel)

	if cmd == nil {
		t.Error("expected quit command after confirming")
	}
	got := m.Result()
	if got.Action != BackupRestore || got.Backup.ID != "20240517-120000-abc12345" {
		t.Errorf("unexpected result %+v", got)
	}
	if m.View() != "" {
		t.Error("view should be empty once quitting")
	}
}

func TestBackupListModel_VerifyQuitsImmediately(t *testing.T) {
	m := NewBackupListModel(testBackups())

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(BackupListModel)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'v'}})
	m = updated.(BackupListModel)

	if cmd == nil {
		t.Error("expected quit command")
	}
	if got := m.Result(); got.Action != BackupVerify || got.Backup.ID != "20240517-120000-def67890" {
		t.Errorf("unexpected result %+v", got)
	}
}

func TestBackupListModel_View(t *testing.T) {
	m := NewBackupListModel(testBackups())
	view := m.View()

	for _, want := range []string{"Record Backups", "2 backup(s)", "r restore"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestRunBackupList_Empty(t *testing.T) {
	result, err := RunBackupList(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Action != BackupNone {
		t.Errorf("expected no action, got %v", result.Action)
	}
}
