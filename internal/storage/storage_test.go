package storage

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/NewTime-Creator/radio-app/internal/config"
)

func TestLocalProviderUpload(t *testing.T) {
	root := t.TempDir()
	p := &LocalProvider{Root: root, BaseURL: "http://localhost:3001/media/"}

	if err := p.Ensure(); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	url, err := p.Upload("songs_test_abc123.mp3", []byte("audio-bytes"), "audio/mpeg")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "http://localhost:3001/media/songs_test_abc123.mp3" {
		t.Fatalf("unexpected url %q", url)
	}

	data, err := os.ReadFile(filepath.Join(root, "songs_test_abc123.mp3"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "audio-bytes" {
		t.Fatalf("content mismatch: %q", data)
	}

	// No temp file left behind.
	entries, _ := os.ReadDir(root)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("leftover temp file %s", e.Name())
		}
	}
}

func TestUploadAssetNaming(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Provider = "local"
	cfg.Storage.Local.Root = t.TempDir()
	cfg.Storage.Local.BaseURL = "http://localhost:3001/media"

	client := New(cfg)
	if err := client.Ensure(); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	url, err := client.UploadAsset("My Song (final).MP3", "songs", []byte("x"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	name := filepath.Base(url)
	pattern := regexp.MustCompile(`^songs_My_Song_final_[0-9a-f]{8}\.mp3$`)
	if !pattern.MatchString(name) {
		t.Fatalf("unexpected asset name %q", name)
	}
}

func TestUploadAssetFallbackName(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Provider = "local"
	cfg.Storage.Local.Root = t.TempDir()
	cfg.Storage.Local.BaseURL = "http://localhost:3001/media"

	client := New(cfg)
	if err := client.Ensure(); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	url, err := client.UploadAsset("???.mp3", "ads", []byte("x"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(url), "ads_upload_") {
		t.Fatalf("expected fallback name, got %q", filepath.Base(url))
	}
}
