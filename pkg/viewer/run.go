// Package viewer turns a self-contained HTML document into a published
// viewer: either a verbatim single-file copy or a directory with the
// embedded payloads externalized into chunk files behind a manifest and a
// client-side loader runtime.
package viewer

import (
	"errors"
	"fmt"
	"os"

	"github.com/karospace/viewerkit/models"
	"github.com/karospace/viewerkit/pkg/layout"
	"github.com/karospace/viewerkit/pkg/scan"
	"github.com/karospace/viewerkit/pkg/storage"
)

// ErrNoCandidates is returned when directory mode is requested but the
// document contains none of the supported embedded-payload shapes.
var ErrNoCandidates = errors.New(
	"could not detect embedded payload patterns in the input HTML; " +
		`supported patterns: <script type="application/json"> blocks and JSON JS assignments`)

// RunResult reports what one run did.
type RunResult struct {
	EffectiveMode     models.Mode
	Candidates        []scan.Candidate
	TotalPayloadBytes int64
	BackupPath        string
	OutputPath        string
	Directory         *DirectoryResult
}

// Run executes one publishing run: validate, back up the input, then copy
// or externalize according to the mode decision. The backup copy happens
// exactly once, before any mode-specific work.
func Run(cfg *models.RunConfig, store *storage.Storage) (*RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	info, err := os.Stat(cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("input file does not exist: %s", cfg.Input)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("input path is not a file: %s", cfg.Input)
	}

	lay := layout.New(cfg.OutDir, cfg.Slug)
	if storage.SamePath(cfg.Input, lay.SinglePath()) {
		return nil, fmt.Errorf("input and output are the same file path: %s", cfg.Input)
	}
	if err := lay.EnsureOutDir(); err != nil {
		return nil, err
	}

	if err := store.CopyFile(cfg.Input, lay.BackupPath()); err != nil {
		return nil, fmt.Errorf("failed to write backup copy: %w", err)
	}

	result := &RunResult{BackupPath: lay.BackupPath()}

	if cfg.Mode == models.ModeSingle {
		if err := store.CopyFile(cfg.Input, lay.SinglePath()); err != nil {
			return nil, err
		}
		result.EffectiveMode = models.ModeSingle
		result.OutputPath = lay.SinglePath()
		return result, nil
	}

	data, err := store.ReadFile(cfg.Input)
	if err != nil {
		return nil, err
	}
	html := string(data)

	candidates := scan.Detect(html)
	result.Candidates = candidates
	result.TotalPayloadBytes = scan.TotalPayloadBytes(candidates)

	if cfg.Mode == models.ModeDirectory && len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	// In auto mode a payload at or under the threshold stays single-file;
	// one byte over tips it into a directory.
	if cfg.Mode == models.ModeAuto && result.TotalPayloadBytes <= cfg.ThresholdBytes() {
		if err := store.CopyFile(cfg.Input, lay.SinglePath()); err != nil {
			return nil, err
		}
		result.EffectiveMode = models.ModeSingle
		result.OutputPath = lay.SinglePath()
		return result, nil
	}

	dir, err := ExternalizeDirectory(html, candidates, lay, store, cfg.Slug, cfg.ChunkMB)
	if err != nil {
		return nil, err
	}
	result.EffectiveMode = models.ModeDirectory
	result.OutputPath = dir.ViewerDir
	result.Directory = dir
	return result, nil
}
