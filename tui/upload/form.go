// Package upload holds the upload form and the list of tracked uploads.
package upload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/reelhire/domain"
	"github.com/CrestNiraj12/reelhire/infra/editor"
	"github.com/CrestNiraj12/reelhire/tui/common"
)

const (
	fieldFile = iota
	fieldTitle
	fieldTags
	fieldCount
)

// --- Messages ---

// SubmitMsg is sent when the form holds a valid draft.
type SubmitMsg struct {
	Draft domain.UploadDraft
}

// CancelMsg is sent when the user leaves the form.
type CancelMsg struct{}

// editorFinishedMsg is sent after the external editor exits.
type editorFinishedMsg struct {
	tmpPath string
	err     error
}

// --- Model ---

// Form collects the media path, title and hashtags of a new upload.
type Form struct {
	inputs []textinput.Model
	focus  int
	editor *editor.EnvEditor
	owner  domain.Owner
	err    error
	width  int
	stat   func(string) (os.FileInfo, error)
}

// NewForm creates an empty form. ed may be nil to disable editing in $EDITOR.
func NewForm(ed *editor.EnvEditor, owner domain.Owner) Form {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 256
		inputs[i] = ti
	}
	inputs[fieldFile].Prompt = "File:  "
	inputs[fieldFile].Placeholder = "~/videos/intro.mp4"
	inputs[fieldTitle].Prompt = "Title: "
	inputs[fieldTitle].Placeholder = "Backend engineer, 6 years Go"
	inputs[fieldTitle].CharLimit = 120
	inputs[fieldTags].Prompt = "Tags:  "
	inputs[fieldTags].Placeholder = "#go #remote #berlin"
	inputs[fieldFile].Focus()

	return Form{inputs: inputs, editor: ed, owner: owner, stat: os.Stat}
}

// WithFile prefills the media path.
func (f Form) WithFile(path string) Form {
	f.inputs[fieldFile].SetValue(path)
	return f
}

// SetWidth sizes the inputs.
func (f *Form) SetWidth(width int) {
	f.width = width
	for i := range f.inputs {
		f.inputs[i].Width = max(width-12, 20)
	}
}

// Init starts the cursor blink.
func (f Form) Init() tea.Cmd {
	return textinput.Blink
}

// Draft builds the upload draft from the current input.
func (f Form) Draft() domain.UploadDraft {
	return domain.UploadDraft{
		FilePath: expandHome(strings.TrimSpace(f.inputs[fieldFile].Value())),
		Title:    strings.TrimSpace(f.inputs[fieldTitle].Value()),
		Hashtags: domain.ParseHashtags(f.inputs[fieldTags].Value()),
		Owner:    f.owner,
	}
}

// Update handles messages for the form.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	switch msg := msg.(type) {
	case editorFinishedMsg:
		if msg.err != nil {
			f.err = fmt.Errorf("editor: %w", msg.err)
			return f, nil
		}
		d, err := f.editor.ReadDetails(msg.tmpPath)
		if err != nil {
			f.err = err
			return f, nil
		}
		if d.Title != "" {
			f.inputs[fieldTitle].SetValue(d.Title)
			f.inputs[fieldTags].SetValue(d.Hashtags)
		}
		return f, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return f, func() tea.Msg { return CancelMsg{} }
		case "tab", "down":
			return f.focusField((f.focus + 1) % fieldCount)
		case "shift+tab", "up":
			return f.focusField((f.focus + fieldCount - 1) % fieldCount)
		case "ctrl+e":
			if f.editor != nil {
				return f, f.launchEditor()
			}
			return f, nil
		case "enter":
			if f.focus < fieldTags {
				return f.focusField(f.focus + 1)
			}
			return f.submit()
		case "ctrl+s":
			return f.submit()
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f Form) focusField(i int) (Form, tea.Cmd) {
	f.inputs[f.focus].Blur()
	f.focus = i
	cmd := f.inputs[f.focus].Focus()
	return f, cmd
}

func (f Form) submit() (Form, tea.Cmd) {
	d := f.Draft()
	if err := d.Validate(); err != nil {
		f.err = err
		return f, nil
	}
	info, err := f.stat(d.FilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		f.err = fmt.Errorf("no such file: %s", d.FilePath)
		return f, nil
	case err != nil:
		f.err = err
		return f, nil
	case info.IsDir():
		f.err = fmt.Errorf("%s is a directory", d.FilePath)
		return f, nil
	}
	f.err = nil
	return f, func() tea.Msg { return SubmitMsg{Draft: d} }
}

// launchEditor opens $EDITOR on the title and tags via tea.ExecProcess so
// Bubble Tea releases the terminal while it runs.
func (f Form) launchEditor() tea.Cmd {
	cmd, tmpPath, err := f.editor.Cmd(editor.Details{
		Title:    f.inputs[fieldTitle].Value(),
		Hashtags: f.inputs[fieldTags].Value(),
	})
	if err != nil {
		return func() tea.Msg { return editorFinishedMsg{err: err} }
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{tmpPath: tmpPath, err: err}
	})
}

// View renders the form.
func (f Form) View() string {
	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("▶ reelhire"))
	b.WriteString("  New upload\n\n")
	for _, in := range f.inputs {
		b.WriteString("  " + in.View() + "\n")
	}
	b.WriteString("\n")

	d := f.Draft()
	if d.FilePath != "" {
		if info, err := f.stat(d.FilePath); err == nil && !info.IsDir() {
			b.WriteString("  " + common.MetadataStyle.Render(filepath.Base(d.FilePath)+" · "+common.Bytes(info.Size())) + "\n")
		}
	}
	if len(d.Hashtags) > 0 {
		b.WriteString("  " + common.HashtagStyle.Render(common.Hashtags(d.Hashtags)) + "\n")
	}
	if f.err != nil {
		b.WriteString("\n  " + common.ErrorStyle.Render(f.err.Error()) + "\n")
	}

	help := "tab next field · enter/ctrl+s upload · esc cancel"
	if f.editor != nil {
		help += " · ctrl+e edit in $EDITOR"
	}
	b.WriteString("\n" + common.StatusBarStyle.Render("  "+help))
	return b.String()
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
