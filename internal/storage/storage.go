package storage

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/NewTime-Creator/radio-app/internal/config"
	"github.com/NewTime-Creator/radio-app/internal/utils"
)

// Client wraps the selected asset backend and owns the naming scheme
// for uploaded media.
type Client struct {
	backend Provider
}

func New(cfg *config.Config) *Client {
	var backend Provider

	switch cfg.Storage.Provider {
	case "local":
		backend = &LocalProvider{
			Root:    cfg.Storage.Local.Root,
			BaseURL: cfg.Storage.Local.BaseURL,
		}
	case "s3":
		backend = NewS3Provider(
			cfg.Storage.S3.KeyID,
			cfg.Storage.S3.AppKey,
			cfg.Storage.S3.Endpoint,
			cfg.Storage.S3.Region,
			cfg.Storage.S3.Bucket,
		)
	default:
		backend = NewGitHubProvider(
			cfg.Storage.GitHub.Token,
			cfg.Storage.GitHub.Owner,
			cfg.Storage.GitHub.Repo,
			cfg.Storage.GitHub.ReleaseTag,
		)
	}

	return &Client{backend: backend}
}

// Ensure checks the backend container at startup. Failures are the
// caller's problem to log; uploads surface their own errors later.
func (c *Client) Ensure() error {
	return c.backend.Ensure()
}

// UploadAsset stores an uploaded media file and returns its public URL.
// Names get a uuid suffix so re-uploading the same file never collides:
// songs_My_Song_1a2b3c4d.mp3
func (c *Client) UploadAsset(originalName, folder string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	base := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	name := fmt.Sprintf("%s_%s_%s%s", folder, utils.Sanitize(base, "upload"), uuid.NewString()[:8], ext)

	log.Printf("📤 Uploading %s (%d bytes)", name, len(data))
	url, err := c.backend.Upload(name, data, "audio/mpeg")
	if err != nil {
		return "", err
	}
	log.Printf("✅ Uploaded: %s", url)
	return url, nil
}
