// Package shots captures dataset thumbnails from published viewer URLs.
// The browser side is deliberately an interface: capture is long-running,
// cancellable work that belongs to an external browser-automation service,
// not to this tool. This package only orchestrates it against the catalog.
package shots

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/karospace/viewerkit/pkg/catalog"
	"github.com/karospace/viewerkit/pkg/layout"
)

// Options controls one capture.
type Options struct {
	Width   int
	Height  int
	Wait    time.Duration
	Timeout time.Duration
	Quality int
}

// DefaultOptions matches the published thumbnail dimensions.
func DefaultOptions() Options {
	return Options{
		Width:   960,
		Height:  540,
		Wait:    2500 * time.Millisecond,
		Timeout: 120 * time.Second,
		Quality: 82,
	}
}

// Capturer renders a page in a headless browser and returns JPEG bytes.
type Capturer interface {
	Capture(ctx context.Context, pageURL string, opts Options) ([]byte, error)
}

// ViewerURL joins the viewer host with an entry's published path.
func ViewerURL(viewerHost, r2Path string) string {
	host := strings.TrimRight(strings.TrimSpace(viewerHost), "/")
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	return host + "/" + strings.TrimLeft(r2Path, "/")
}

// UpdateThumbs captures a thumbnail for every catalog entry (entries that
// already have one are skipped unless overwrite is set), writes it under
// <outDir>/thumbs/<slug>.jpg, and records the path on the entry. Returns
// the number of thumbnails written.
func UpdateThumbs(ctx context.Context, cap Capturer, ix *catalog.Index, outDir, viewerHost string, opts Options, overwrite bool) (int, error) {
	thumbsDir := filepath.Join(outDir, layout.ThumbsDir)
	if err := os.MkdirAll(thumbsDir, 0750); err != nil {
		return 0, fmt.Errorf("failed to create thumbs directory %s: %w", thumbsDir, err)
	}

	written := 0
	for i := range ix.Datasets {
		entry := &ix.Datasets[i]
		if entry.Thumb != "" && !overwrite {
			continue
		}

		captureCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
		data, err := cap.Capture(captureCtx, ViewerURL(viewerHost, entry.R2Path), opts)
		cancel()
		if err != nil {
			return written, fmt.Errorf("failed to capture thumbnail for %s: %w", entry.Slug, err)
		}

		thumbPath := filepath.Join(thumbsDir, entry.Slug+".jpg")
		if err := os.WriteFile(thumbPath, data, 0644); err != nil {
			return written, fmt.Errorf("failed to save thumbnail %s: %w", thumbPath, err)
		}

		entry.Thumb = layout.ThumbsDir + "/" + entry.Slug + ".jpg"
		written++
	}

	return written, nil
}
