// Package config loads reelhire's settings from the environment and keeps the
// small UI state file that survives restarts.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application-level configuration.
type Config struct {
	APIURL       string        // e.g. "https://api.reelhire.example"
	TokenPath    string        // File containing the bearer token
	Token        string        // Token given directly; wins over TokenPath
	DataDir      string        // State database, staged uploads, UI state
	LogPath      string        // Empty disables logging
	LogLevel     string        // debug, info, warn, error
	PollInterval time.Duration // Upload status poll period
	CellHeightPx int           // Virtual pixels per terminal row
	ShareCommand string        // Optional command that receives the share URL
	DisplayName  string        // Shown as the owner of local uploads
}

// DBPath is the sqlite file holding tracked uploads.
func (c Config) DBPath() string { return filepath.Join(c.DataDir, "state.db") }

// BlobDir is where upload media is staged.
func (c Config) BlobDir() string { return filepath.Join(c.DataDir, "blobs") }

// UIStatePath is the UI state file.
func (c Config) UIStatePath() string { return filepath.Join(c.DataDir, "ui_state.json") }

// LoadDotEnv hydrates the environment from the given .env files, skipping
// missing ones. Variables already set are left alone.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables.
//
//	REELHIRE_API            API base URL (default https://api.reelhire.app)
//	REELHIRE_TOKEN          Path to token file (default <data dir>/token)
//	REELHIRE_ACCESS_TOKEN   Token value, overrides the token file
//	REELHIRE_DATA_DIR       State directory (default ~/.config/reelhire)
//	REELHIRE_LOG            Log file path (default <data dir>/reelhire.log, "off" disables)
//	REELHIRE_LOG_LEVEL      Log level (default info)
//	REELHIRE_POLL_INTERVAL  Upload poll period, Go duration (default 5s)
//	REELHIRE_CELL_PX        Virtual pixels per row (default 16)
//	REELHIRE_SHARE_COMMAND  Command used to share links
//	REELHIRE_NAME           Display name on local uploads (default $USER)
func Load() (Config, error) {
	api := os.Getenv("REELHIRE_API")
	if api == "" {
		api = "https://api.reelhire.app"
	}
	api, err := normalizeAPIURL(api)
	if err != nil {
		return Config{}, err
	}

	dataDir := os.Getenv("REELHIRE_DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("cannot determine home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".config", "reelhire")
	}

	tokenPath := os.Getenv("REELHIRE_TOKEN")
	if tokenPath == "" {
		tokenPath = filepath.Join(dataDir, "token")
	}

	logPath := os.Getenv("REELHIRE_LOG")
	switch strings.ToLower(logPath) {
	case "":
		logPath = filepath.Join(dataDir, "reelhire.log")
	case "off", "none", "-":
		logPath = ""
	}

	poll := 5 * time.Second
	if raw := os.Getenv("REELHIRE_POLL_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 500*time.Millisecond {
			return Config{}, fmt.Errorf("invalid REELHIRE_POLL_INTERVAL: must be a duration of at least 500ms")
		}
		poll = d
	}

	cellPx := 16
	if raw := os.Getenv("REELHIRE_CELL_PX"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 128 {
			return Config{}, fmt.Errorf("invalid REELHIRE_CELL_PX: must be an integer in [1,128]")
		}
		cellPx = n
	}

	name := strings.TrimSpace(os.Getenv("REELHIRE_NAME"))
	if name == "" {
		name = os.Getenv("USER")
	}

	return Config{
		APIURL:       api,
		TokenPath:    tokenPath,
		Token:        strings.TrimSpace(os.Getenv("REELHIRE_ACCESS_TOKEN")),
		DataDir:      dataDir,
		LogPath:      logPath,
		LogLevel:     os.Getenv("REELHIRE_LOG_LEVEL"),
		PollInterval: poll,
		CellHeightPx: cellPx,
		ShareCommand: strings.TrimSpace(os.Getenv("REELHIRE_SHARE_COMMAND")),
		DisplayName:  name,
	}, nil
}

// normalizeAPIURL requires https, except for loopback hosts during development.
func normalizeAPIURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid REELHIRE_API: must be an absolute URL")
	}
	switch parsed.Scheme {
	case "https":
	case "http":
		if !isLoopback(parsed.Hostname()) {
			return "", fmt.Errorf("invalid REELHIRE_API: http is only allowed for localhost")
		}
	default:
		return "", fmt.Errorf("invalid REELHIRE_API: only https is allowed")
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
