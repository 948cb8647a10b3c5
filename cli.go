package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"github.com/CrestNiraj12/reelhire/domain"
	"github.com/CrestNiraj12/reelhire/infra/config"
	"github.com/CrestNiraj12/reelhire/infra/editor"
	"github.com/CrestNiraj12/reelhire/tui"
	"github.com/CrestNiraj12/reelhire/tui/common"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp() *cli.App {
	v, c, d := resolvedRuntimeVersionInfo(version, commit, date)
	cli.VersionPrinter = func(ctx *cli.Context) {
		fmt.Fprintf(ctx.App.Writer, "reelhire %s\ncommit: %s\nbuilt: %s\n", v, c, d)
	}

	app := &cli.App{
		Name:    "reelhire",
		Usage:   "Browse and upload video resumes from the terminal",
		Version: v,
		Flags:   browseFlags(),
		Action:  browseAction,
		Commands: []*cli.Command{
			browseCmd(),
			uploadCmd(),
			uploadsCmd(),
			retryCmd(),
		},
	}
	// Errors are printed once by main.
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func browseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Start with this search"},
		&cli.BoolFlag{Name: "saved", Usage: "Only list saved videos"},
	}
}

// browseCmd opens the grid. It is also the default action.
func browseCmd() *cli.Command {
	return &cli.Command{
		Name:   "browse",
		Usage:  "Browse the video feed (default)",
		Flags:  browseFlags(),
		Action: browseAction,
	}
}

func browseAction(c *cli.Context) error {
	if c.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", c.Args().First())
	}
	return runTUI(c.Context, tuiOptions{
		query:     c.String("query"),
		savedOnly: c.Bool("saved"),
	})
}

// uploadCmd uploads a file. Without --title it opens the upload form.
func uploadCmd() *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "Upload a video resume",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Video title; uploads without the TUI"},
			&cli.StringFlag{Name: "tags", Usage: "Hashtags, space or comma separated"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("upload needs exactly one file")
			}
			path, err := filepath.Abs(c.Args().First())
			if err != nil {
				return err
			}
			if c.String("title") == "" {
				return runTUI(c.Context, tuiOptions{uploadFile: path})
			}
			return runUpload(c.Context, c.App.Writer, domain.UploadDraft{
				FilePath: path,
				Title:    c.String("title"),
				Hashtags: domain.ParseHashtags(c.String("tags")),
			})
		},
	}
}

// uploadsCmd lists the uploads tracked on this device.
func uploadsCmd() *cli.Command {
	return &cli.Command{
		Name:  "uploads",
		Usage: "List uploads made from this device",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print JSON"},
			&cli.BoolFlag{Name: "tui", Usage: "Open the uploads list in the TUI"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("tui") {
				return runTUI(c.Context, tuiOptions{showUploads: true})
			}
			rt, err := openRuntime(c.Context)
			if err != nil {
				return err
			}
			defer rt.Close()
			// One poll so the listing is current.
			rt.tracker.PollOnce(c.Context)
			return printUploads(c.App.Writer, rt.tracker.Snapshot(), c.Bool("json"))
		},
	}
}

// retryCmd retries a failed upload.
func retryCmd() *cli.Command {
	return &cli.Command{
		Name:      "retry",
		Usage:     "Retry a failed upload",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("retry needs exactly one upload id")
			}
			rt, err := openRuntime(c.Context)
			if err != nil {
				return err
			}
			defer rt.Close()
			if err := rt.tracker.RetryUpload(c.Context, c.Args().First()); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, "Retry started. Run `reelhire uploads` to follow it.")
			return nil
		},
	}
}

type tuiOptions struct {
	query       string
	savedOnly   bool
	uploadFile  string
	showUploads bool
}

func runTUI(ctx context.Context, opts tuiOptions) error {
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	state, err := config.LoadUIState(rt.cfg.UIStatePath())
	if err != nil {
		rt.logger.Warn(ctx, "ignoring ui state", "error", err)
	}
	if opts.query != "" {
		state.LastSearch = opts.query
	}
	if opts.savedOnly {
		state.SavedOnly = true
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { _ = rt.tracker.Run(ctx) }()

	model := tui.NewApp(tui.Deps{
		Videos:       rt.videos,
		Uploads:      rt.tracker,
		Blobs:        rt.blobs,
		Sharers:      rt.sharers,
		Editor:       editor.NewEnvEditor(),
		Logger:       rt.logger,
		Owner:        rt.owner(),
		CellHeightPx: float64(rt.cfg.CellHeightPx),
		UIState:      state,
		StatePath:    rt.cfg.UIStatePath(),
		UploadFile:   opts.uploadFile,
		ShowUploads:  opts.showUploads,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// runUpload uploads without the TUI, printing state changes as they happen.
func runUpload(ctx context.Context, w io.Writer, draft domain.UploadDraft) error {
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	draft.Owner = rt.owner()
	v, err := rt.tracker.AddLocalVideo(draft)
	if err != nil {
		return err
	}
	updates, unsubscribe := rt.tracker.Subscribe()
	defer unsubscribe()

	done := make(chan error, 1)
	go func() { done <- rt.tracker.Submit(ctx, v.ID) }()

	last := ""
	for {
		select {
		case err := <-done:
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Uploaded %q. Processing continues on the server; run `reelhire uploads` to follow it.\n", v.Title)
			return nil
		case snap := <-updates:
			for _, r := range snap {
				if r.ID != v.ID {
					continue
				}
				if label := common.StatusLabel(r); label != "" && label != last {
					fmt.Fprintln(w, label)
					last = label
				}
			}
		}
	}
}

func printUploads(w io.Writer, records []domain.VideoRecord, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No uploads from this device.")
		return err
	}
	for _, r := range records {
		state := common.StatusLabel(r)
		if state == "" {
			state = "Live"
		}
		line := fmt.Sprintf("%-30s  %-14s  %s", r.ID, state, common.Truncate(r.Title, 40))
		if r.ErrorMessage != "" {
			line += "  (" + r.ErrorMessage + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
