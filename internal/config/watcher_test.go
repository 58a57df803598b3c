package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeWatchedConfig(t *testing.T, path string, threshold float64) {
	t.Helper()
	doc := fmt.Sprintf("human_review_threshold: %v\nmax_parallel_requests: 4\nrequest_timeout: 30\n", threshold)
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeWatchedConfig(t, path, 70)

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, func(cfg *Config) { reloaded <- cfg })
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	writeWatchedConfig(t, path, 85)

	select {
	case cfg := <-reloaded:
		if cfg.HumanReviewThreshold != 85 {
			t.Errorf("reloaded threshold = %v, want 85", cfg.HumanReviewThreshold)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed after config rewrite")
	}
}

func TestWatcherRejectsInvalidReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeWatchedConfig(t, path, 70)

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, func(cfg *Config) { reloaded <- cfg })
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	// An out-of-range threshold must never reach the callback; the next
	// valid write must.
	writeWatchedConfig(t, path, 400)
	writeWatchedConfig(t, path, 60)

	select {
	case cfg := <-reloaded:
		if cfg.HumanReviewThreshold != 60 {
			t.Errorf("callback received threshold %v, want only the valid 60", cfg.HumanReviewThreshold)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("valid rewrite after an invalid one was never delivered")
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeWatchedConfig(t, path, 70)

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, func(cfg *Config) { reloaded <- cfg })
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.yaml"), []byte("x: 1\n"), 0644); err != nil {
		t.Fatalf("writing sibling: %v", err)
	}

	select {
	case cfg := <-reloaded:
		t.Errorf("sibling write triggered a reload: %+v", cfg)
	case <-time.After(300 * time.Millisecond):
	}
}
