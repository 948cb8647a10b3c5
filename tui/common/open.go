package common

import (
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

var startCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// OpenURL opens an http(s) URL with the OS opener. Other schemes are ignored.
func OpenURL(rawURL string) tea.Cmd {
	return func() tea.Msg {
		if !IsSafeExternalURL(rawURL) {
			return nil
		}
		name, args := opener()
		_ = startCommand(name, append(args, rawURL)...)
		return nil
	}
}

func opener() (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		return "open", nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler"}
	default:
		return "xdg-open", nil
	}
}

func IsSafeExternalURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Host == "" {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return true
	default:
		return false
	}
}
