// Package share implements app.Sharer for the terminal: a user-configured
// share command stands in for a native share sheet, and the clipboard is the
// copy-link fallback.
package share

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/CrestNiraj12/reelhire/app"
)

// ErrNoURL is returned when a video has nothing to share.
var ErrNoURL = errors.New("video has no shareable link")

// CommandSharer runs a command with the link as its last argument.
type CommandSharer struct {
	argv []string
	run  func(ctx context.Context, name string, args ...string) error
}

// NewCommandSharer parses a command line such as "wl-share --title". An empty
// command yields a sharer that reports itself unavailable.
func NewCommandSharer(command string) *CommandSharer {
	return &CommandSharer{
		argv: strings.Fields(command),
		run: func(ctx context.Context, name string, args ...string) error {
			out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
			if err != nil && len(out) > 0 {
				return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
			}
			return err
		},
	}
}

func (s *CommandSharer) Available() bool { return len(s.argv) > 0 }

func (s *CommandSharer) Channel() string { return "native" }

func (s *CommandSharer) Share(ctx context.Context, req app.ShareRequest) error {
	if !s.Available() {
		return errors.New("no share command configured")
	}
	if req.URL == "" {
		return ErrNoURL
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	args := append(append([]string{}, s.argv[1:]...), req.URL)
	if err := s.run(ctx, s.argv[0], args...); err != nil {
		return fmt.Errorf("share command: %w", err)
	}
	return nil
}

// ClipboardSharer copies the link to the system clipboard.
type ClipboardSharer struct {
	write       func(string) error
	unsupported bool
}

// NewClipboardSharer uses the system clipboard.
func NewClipboardSharer() *ClipboardSharer {
	return &ClipboardSharer{write: clipboard.WriteAll, unsupported: clipboard.Unsupported}
}

func (s *ClipboardSharer) Available() bool { return !s.unsupported }

func (s *ClipboardSharer) Channel() string { return "link" }

func (s *ClipboardSharer) Share(_ context.Context, req app.ShareRequest) error {
	if req.URL == "" {
		return ErrNoURL
	}
	if err := s.write(req.URL); err != nil {
		return fmt.Errorf("copying link: %w", err)
	}
	return nil
}

// Default returns the sharers in preference order.
func Default(command string) []app.Sharer {
	return []app.Sharer{NewCommandSharer(command), NewClipboardSharer()}
}
