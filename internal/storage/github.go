package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// GitHubProvider hosts media as release assets of a dedicated repo.
// Assets uploaded to a release are served from a stable
// releases/download URL, which is all the radio player needs.
type GitHubProvider struct {
	Token      string
	Owner      string
	Repo       string
	ReleaseTag string

	client *http.Client
}

func NewGitHubProvider(token, owner, repo, tag string) *GitHubProvider {
	return &GitHubProvider{
		Token:      token,
		Owner:      owner,
		Repo:       repo,
		ReleaseTag: tag,
		client:     &http.Client{Timeout: 60 * time.Second},
	}
}

type release struct {
	ID int64 `json:"id"`
}

// Ensure creates the media release when it doesn't exist yet.
func (g *GitHubProvider) Ensure() error {
	_, err := g.releaseByTag()
	if err == nil {
		return nil
	}

	body, _ := json.Marshal(map[string]any{
		"tag_name":   g.ReleaseTag,
		"name":       fmt.Sprintf("Media Files %s", g.ReleaseTag),
		"body":       "Radio media storage",
		"draft":      false,
		"prerelease": false,
	})

	endpoint := fmt.Sprintf("https://api.github.com/repos/%s/%s/releases", g.Owner, g.Repo)
	req, err := http.NewRequest("POST", endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	g.decorate(req, "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("create release status %d", resp.StatusCode)
	}
	return nil
}

// Upload attaches the blob as a release asset and returns its
// releases/download URL.
func (g *GitHubProvider) Upload(name string, data []byte, contentType string) (string, error) {
	rel, err := g.releaseByTag()
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("https://uploads.github.com/repos/%s/%s/releases/%d/assets?name=%s",
		g.Owner, g.Repo, rel.ID, url.QueryEscape(name))
	req, err := http.NewRequest("POST", endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	g.decorate(req, contentType)
	req.ContentLength = int64(len(data))

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusCreated:
		return fmt.Sprintf("https://github.com/%s/%s/releases/download/%s/%s",
			g.Owner, g.Repo, g.ReleaseTag, name), nil
	case http.StatusUnauthorized:
		return "", fmt.Errorf("invalid GitHub token")
	case http.StatusNotFound:
		return "", fmt.Errorf("release %q not found", g.ReleaseTag)
	default:
		return "", fmt.Errorf("upload asset status %d", resp.StatusCode)
	}
}

func (g *GitHubProvider) releaseByTag() (*release, error) {
	endpoint := fmt.Sprintf("https://api.github.com/repos/%s/%s/releases/tags/%s",
		g.Owner, g.Repo, g.ReleaseTag)
	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	g.decorate(req, "")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release %q status %d", g.ReleaseTag, resp.StatusCode)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, err
	}
	return &rel, nil
}

func (g *GitHubProvider) decorate(req *http.Request, contentType string) {
	req.Header.Set("Authorization", "Bearer "+g.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "NewTimeRadio/1.0")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
}
