package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadPriority(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LLAMARELAY_HOME", dir)
	t.Chdir(dir) // keep a stray .env out of the test
	for _, key := range []string{"SERVER_PORT", "OLLAMA_URL", "ENABLE_METRICS", "ENABLE_REQUEST_LOG"} {
		t.Setenv(key, "")
	}

	file := `server_port = ":9000"
ollama_url = "file-host:11434"
enable_metrics = false
access_codes = ["hash-a"]
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(file), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Run("file overrides defaults", func(t *testing.T) {
		cfg := Load()
		if cfg.ServerPort != ":9000" {
			t.Errorf("expected port %q, got %q", ":9000", cfg.ServerPort)
		}
		if cfg.OllamaURL != "file-host:11434" {
			t.Errorf("expected ollama url from file, got %q", cfg.OllamaURL)
		}
		if cfg.EnableMetrics {
			t.Error("expected metrics disabled by file")
		}
		if !cfg.EnableRequestLog {
			t.Error("expected request log enabled by default")
		}
		if len(cfg.AccessCodes) != 1 || cfg.AccessCodes[0] != "hash-a" {
			t.Errorf("unexpected access codes %v", cfg.AccessCodes)
		}
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("OLLAMA_URL", "env-host")
		t.Setenv("ENABLE_METRICS", "yes")
		cfg := Load()
		if cfg.OllamaURL != "env-host" {
			t.Errorf("expected env ollama url, got %q", cfg.OllamaURL)
		}
		if !cfg.EnableMetrics {
			t.Error("expected metrics enabled by env")
		}
	})
}

func TestLoadFileMissing(t *testing.T) {
	cfg, err := LoadFileFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerPort != "" {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestPlainAccessCodes(t *testing.T) {
	t.Setenv("ACCESS_CODE", " alpha, ,beta ")
	codes := PlainAccessCodes()
	if len(codes) != 2 || codes[0] != "alpha" || codes[1] != "beta" {
		t.Errorf("expected [alpha beta], got %v", codes)
	}
}

func TestEnsureConfigFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "home")
	t.Setenv("LLAMARELAY_HOME", dir)

	if err := EnsureConfigFile(); err != nil {
		t.Fatalf("EnsureConfigFile failed: %v", err)
	}
	if _, err := LoadFile(); err != nil {
		t.Errorf("default config should parse: %v", err)
	}
}

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`access_codes = ["old"]`), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	w, err := NewWatcher(path, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *FileConfig, 4)
	go func() { _ = w.Watch(ctx, func(cfg *FileConfig) { reloaded <- cfg }) }()

	// give the watcher a moment to start receiving events
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`access_codes = ["new"]`), 0600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if len(cfg.AccessCodes) != 1 || cfg.AccessCodes[0] != "new" {
			t.Errorf("expected reloaded codes [new], got %v", cfg.AccessCodes)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}
