package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"REELHIRE_API", "REELHIRE_TOKEN", "REELHIRE_ACCESS_TOKEN", "REELHIRE_DATA_DIR",
		"REELHIRE_LOG", "REELHIRE_LOG_LEVEL", "REELHIRE_POLL_INTERVAL", "REELHIRE_CELL_PX",
		"REELHIRE_SHARE_COMMAND",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_ParsesEnvAndDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("REELHIRE_API", "https://api.example.test/")
	t.Setenv("REELHIRE_DATA_DIR", dir)
	t.Setenv("REELHIRE_POLL_INTERVAL", "2s")
	t.Setenv("REELHIRE_CELL_PX", "20")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.APIURL != "https://api.example.test" {
		t.Fatalf("api url must be normalized: %q", cfg.APIURL)
	}
	if cfg.TokenPath != filepath.Join(dir, "token") || cfg.LogPath != filepath.Join(dir, "reelhire.log") {
		t.Fatalf("unexpected paths: %#v", cfg)
	}
	if cfg.PollInterval != 2*time.Second || cfg.CellHeightPx != 20 {
		t.Fatalf("unexpected config: %#v", cfg)
	}
	if cfg.DBPath() != filepath.Join(dir, "state.db") || cfg.BlobDir() != filepath.Join(dir, "blobs") {
		t.Fatalf("unexpected derived paths: %s %s", cfg.DBPath(), cfg.BlobDir())
	}
}

func TestLoad_LogOff(t *testing.T) {
	clearEnv(t)
	t.Setenv("REELHIRE_DATA_DIR", t.TempDir())
	t.Setenv("REELHIRE_LOG", "off")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.LogPath != "" {
		t.Fatalf("expected logging disabled, got %q", cfg.LogPath)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"non-https":     {"REELHIRE_API", "http://insecure.example"},
		"relative":      {"REELHIRE_API", "/api"},
		"ftp":           {"REELHIRE_API", "ftp://api.example"},
		"poll too fast": {"REELHIRE_POLL_INTERVAL", "10ms"},
		"poll garbage":  {"REELHIRE_POLL_INTERVAL", "soon"},
		"cell zero":     {"REELHIRE_CELL_PX", "0"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("REELHIRE_DATA_DIR", t.TempDir())
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}

func TestLoad_AllowsLoopbackHTTP(t *testing.T) {
	for _, api := range []string{"http://localhost:8080", "http://127.0.0.1:9000/"} {
		clearEnv(t)
		t.Setenv("REELHIRE_DATA_DIR", t.TempDir())
		t.Setenv("REELHIRE_API", api)
		if _, err := Load(); err != nil {
			t.Fatalf("loopback %s rejected: %v", api, err)
		}
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("REELHIRE_CELL_PX=24\nREELHIRE_SHARE_COMMAND=xdg-open\n"), 0o600); err != nil {
		t.Fatalf("write env failed: %v", err)
	}
	os.Unsetenv("REELHIRE_CELL_PX")
	os.Unsetenv("REELHIRE_SHARE_COMMAND")
	t.Setenv("REELHIRE_DATA_DIR", t.TempDir())

	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"), path); err != nil {
		t.Fatalf("load dotenv failed: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("REELHIRE_CELL_PX")
		os.Unsetenv("REELHIRE_SHARE_COMMAND")
	})
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.CellHeightPx != 24 || cfg.ShareCommand != "xdg-open" {
		t.Fatalf("dotenv values not applied: %#v", cfg)
	}
}

func TestUIState_LoadAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ui_state.json")

	st, err := LoadUIState(path)
	if err != nil {
		t.Fatalf("missing state should not error: %v", err)
	}
	if st != (UIState{}) {
		t.Fatalf("expected empty state for missing file")
	}

	want := UIState{Muted: true, LastSearch: "golang"}
	if err := SaveUIState(path, want); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := LoadUIState(path)
	if err != nil {
		t.Fatalf("load after save failed: %v", err)
	}
	if got != want {
		t.Fatalf("unexpected loaded state got=%#v want=%#v", got, want)
	}

	if err := os.WriteFile(path, []byte("not-json"), 0o600); err != nil {
		t.Fatalf("write corrupt state failed: %v", err)
	}
	if _, err := LoadUIState(path); err == nil {
		t.Fatalf("expected parse error for invalid json")
	}
}
