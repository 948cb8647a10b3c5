package upload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/reelhire/domain"
)

func typeText(f Form, s string) Form {
	for _, r := range s {
		f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return f
}

func TestForm_SubmitBuildsDraft(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intro.mp4")
	if err := os.WriteFile(path, []byte("video"), 0o600); err != nil {
		t.Fatal(err)
	}
	f := NewForm(nil, domain.Owner{ID: "me"}).WithFile(path)
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyTab})
	f = typeText(f, "Go developer")
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	f = typeText(f, "#Go remote")

	f, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected submit, got error %v", f.err)
	}
	msg, ok := cmd().(SubmitMsg)
	if !ok {
		t.Fatalf("expected SubmitMsg")
	}
	d := msg.Draft
	if d.FilePath != path || d.Title != "Go developer" || strings.Join(d.Hashtags, ",") != "go,remote" || d.Owner.ID != "me" {
		t.Fatalf("unexpected draft: %+v", d)
	}
}

func TestForm_RejectsMissingTitleAndFile(t *testing.T) {
	f := NewForm(nil, domain.Owner{})
	f, cmd := f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil || !errors.Is(f.err, domain.ErrNoMedia) {
		t.Fatalf("expected missing media error, got %v", f.err)
	}

	f = f.WithFile(filepath.Join(t.TempDir(), "missing.mp4"))
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyTab})
	f = typeText(f, "Title")
	f, cmd = f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil || f.err == nil || !strings.Contains(f.View(), "no such file") {
		t.Fatalf("expected missing file error, got %v", f.err)
	}
}

func TestForm_EscCancels(t *testing.T) {
	f := NewForm(nil, domain.Owner{})
	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(CancelMsg); !ok {
		t.Fatalf("expected CancelMsg")
	}
}

func TestList_RetryOnlyForFailed(t *testing.T) {
	l := NewList().SetRecords([]domain.VideoRecord{
		{ID: "tmp-1", Title: "A", Status: domain.StatusUploading, Progress: 40, IsLocal: true},
		{ID: "srv-2", Title: "B", Status: domain.StatusFailed, ErrorMessage: "Upload failed: timeout", IsLocal: true},
	})
	l.SetSize(120, 40)

	_, cmd := l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if cmd != nil {
		t.Fatalf("uploading record cannot be retried")
	}
	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	_, cmd = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if msg, ok := cmd().(RetryMsg); !ok || msg.ID != "srv-2" {
		t.Fatalf("expected retry for srv-2")
	}

	view := l.View()
	if !strings.Contains(view, "Uploading 40%") || !strings.Contains(view, "Upload failed: timeout") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestList_SelectionFollowsRecord(t *testing.T) {
	l := NewList().SetRecords([]domain.VideoRecord{{ID: "a"}, {ID: "b"}})
	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyDown})
	l = l.SetRecords([]domain.VideoRecord{{ID: "new"}, {ID: "a"}, {ID: "b"}})
	if l.cursor != 2 {
		t.Fatalf("expected cursor to follow b, got %d", l.cursor)
	}
	_, cmd := l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if msg, ok := cmd().(RemoveMsg); !ok || msg.ID != "b" {
		t.Fatalf("expected remove for b")
	}
}

func TestList_ScrollsToKeepSelectionVisible(t *testing.T) {
	records := make([]domain.VideoRecord, 10)
	for i := range records {
		records[i] = domain.VideoRecord{ID: fmt.Sprintf("srv-%d", i), Title: fmt.Sprintf("Title %d", i), Status: domain.StatusProcessing}
	}
	records[1].Status = domain.StatusFailed
	records[1].ErrorMessage = "transcode failed"
	l := NewList().SetRecords(records)
	l.SetSize(80, 10)

	view := l.View()
	if !strings.Contains(view, "Title 0") || !strings.Contains(view, "transcode failed") || strings.Contains(view, "Title 4") {
		t.Fatalf("unexpected first page:\n%s", view)
	}

	for range 5 {
		l, _ = l.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	view = l.View()
	for _, want := range []string{"Title 3", "Title 4", "Title 5"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q on screen:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Title 0") || strings.Contains(view, "Title 6") {
		t.Fatalf("rows outside the viewport must not render:\n%s", view)
	}

	for range 5 {
		l, _ = l.Update(tea.KeyMsg{Type: tea.KeyUp})
	}
	if view = l.View(); !strings.Contains(view, "Title 0") {
		t.Fatalf("expected to scroll back to the top:\n%s", view)
	}
}
