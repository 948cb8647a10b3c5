package editor

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Details are the upload fields edited in the external editor.
type Details struct {
	Title    string
	Hashtags string
}

// EnvEditor prepares an external editor command using $EDITOR (fallback: "vi").
// It does NOT run the editor itself; callers use tea.ExecProcess with the
// returned *exec.Cmd so Bubble Tea properly suspends raw terminal mode.
type EnvEditor struct{}

// NewEnvEditor creates an EnvEditor.
func NewEnvEditor() *EnvEditor {
	return &EnvEditor{}
}

const instructionComment = `# reelhire: describe your video resume.
#
# Keep the "title:" and "tags:" prefixes. Lines starting with # are ignored.
# Save and exit to apply. Leaving the title empty keeps the form unchanged.

`

// Cmd prepares an *exec.Cmd for the editor and a temp file holding d.
func (e *EnvEditor) Cmd(d Details) (*exec.Cmd, string, error) {
	editorCmd := os.Getenv("EDITOR")
	if editorCmd == "" {
		editorCmd = "vi"
	}

	tmpFile, err := os.CreateTemp("", "reelhire-*.txt")
	if err != nil {
		return nil, "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer tmpFile.Close()

	body := instructionComment + "title: " + d.Title + "\ntags: " + d.Hashtags + "\n"
	if _, err := tmpFile.WriteString(body); err != nil {
		os.Remove(tmpPath)
		return nil, "", fmt.Errorf("writing to temp file: %w", err)
	}

	fields := strings.Fields(editorCmd)
	cmd := exec.Command(fields[0], append(fields[1:], tmpPath)...)
	return cmd, tmpPath, nil
}

// ReadDetails parses the temp file and removes it.
func (e *EnvEditor) ReadDetails(path string) (Details, error) {
	defer os.Remove(path)

	f, err := os.Open(path)
	if err != nil {
		return Details{}, fmt.Errorf("reading temp file: %w", err)
	}
	defer f.Close()

	var d Details
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "title":
			d.Title = strings.TrimSpace(value)
		case "tags":
			d.Hashtags = strings.TrimSpace(value)
		}
	}
	if err := sc.Err(); err != nil {
		return Details{}, fmt.Errorf("reading temp file: %w", err)
	}
	return d, nil
}
