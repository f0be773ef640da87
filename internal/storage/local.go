package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalProvider keeps media on disk, served by whatever fronts the
// root directory. Meant for development and tests.
type LocalProvider struct {
	Root    string
	BaseURL string
}

func (l *LocalProvider) Ensure() error {
	return os.MkdirAll(l.Root, 0755)
}

func (l *LocalProvider) Upload(name string, data []byte, contentType string) (string, error) {
	dest := filepath.Join(l.Root, filepath.Base(name))

	// Write via temp + rename so readers never see a partial file.
	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, dest); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s", strings.TrimRight(l.BaseURL, "/"), filepath.Base(name)), nil
}
