// Package update asks a release endpoint whether a newer build exists.
// Every failure means "no update"; errors only reach the log.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Release is the subset of the release metadata the checker reads.
type Release struct {
	Tag       string `json:"tag_name"`
	Changelog string `json:"body"`
	URL       string `json:"html_url"`
}

type Checker struct {
	URL       string
	UserAgent string
	Current   string // running version, with or without a leading "v"
	Client    *http.Client
	Logger    *slog.Logger
}

func New(url, userAgent, current string, timeout time.Duration, log *slog.Logger) *Checker {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Checker{
		URL:       url,
		UserAgent: userAgent,
		Current:   current,
		Client:    &http.Client{Timeout: timeout},
		Logger:    log,
	}
}

// CurrentTag is the running version in release tag form.
func (c *Checker) CurrentTag() string {
	if strings.HasPrefix(c.Current, "v") {
		return c.Current
	}
	return "v" + c.Current
}

// Check returns the latest release when its tag differs from the running
// version. ok is false for no update and for every failure.
func (c *Checker) Check(ctx context.Context) (Release, bool) {
	rel, err := c.fetch(ctx)
	if err != nil {
		c.Logger.Warn("update check failed", "url", c.URL, "err", err)
		return Release{}, false
	}
	if rel.Tag == "" || rel.Tag == c.CurrentTag() {
		c.Logger.Debug("no update", "latest", rel.Tag, "current", c.CurrentTag())
		return Release{}, false
	}
	c.Logger.Info("update available", "latest", rel.Tag, "current", c.CurrentTag())
	return rel, true
}

func (c *Checker) fetch(ctx context.Context) (Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return Release{}, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Release{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Release{}, fmt.Errorf("unexpected status %s", resp.Status)
	}
	var rel Release
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&rel); err != nil {
		return Release{}, fmt.Errorf("decode release: %w", err)
	}
	return rel, nil
}

// OpenURL hands url to the platform's default opener without waiting for it.
// MINDTASK_NO_BROWSER suppresses it.
func OpenURL(url string) error {
	if os.Getenv("MINDTASK_NO_BROWSER") != "" {
		return nil
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux", "freebsd", "openbsd":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}
