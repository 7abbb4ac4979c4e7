// Package layout computes the on-disk shape of the published output:
// backups, the single-file target, and the viewer directory with its data
// subdirectory.
package layout

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	BackupsDir   = "_backups"
	DataSubdir   = "data"
	IndexFile    = "index.html"
	ManifestFile = "manifest.json"
	CatalogFile  = "datasets.json"
	ThumbsDir    = "thumbs"
)

// Layout resolves every output path for one run rooted at an output
// directory and a slug.
type Layout struct {
	outDir string
	slug   string
}

func New(outDir, slug string) *Layout {
	return &Layout{outDir: outDir, slug: slug}
}

func (l *Layout) OutDir() string { return l.outDir }

// BackupPath is where the untouched input is copied before any mode runs.
func (l *Layout) BackupPath() string {
	return filepath.Join(l.outDir, BackupsDir, l.slug+".original.html")
}

// SinglePath is the single-file publishing target.
func (l *Layout) SinglePath() string {
	return filepath.Join(l.outDir, l.slug+".html")
}

// ViewerDir is the directory-mode output root.
func (l *Layout) ViewerDir() string {
	return filepath.Join(l.outDir, l.slug)
}

func (l *Layout) IndexPath() string {
	return filepath.Join(l.ViewerDir(), IndexFile)
}

func (l *Layout) ManifestPath() string {
	return filepath.Join(l.ViewerDir(), ManifestFile)
}

func (l *Layout) DataDir() string {
	return filepath.Join(l.ViewerDir(), DataSubdir)
}

// CatalogPath is the datasets index shared by every viewer under outDir.
func (l *Layout) CatalogPath() string {
	return filepath.Join(l.outDir, CatalogFile)
}

// ChunkFileName returns the zero-padded chunk file name for an index.
// ext is "json" for array fragments and "txt" for text pieces.
func ChunkFileName(index int, ext string) string {
	return fmt.Sprintf("chunk_%03d.%s", index, ext)
}

// ChunkRelPath is the manifest-relative path of a chunk file.
func ChunkRelPath(index int, ext string) string {
	return DataSubdir + "/" + ChunkFileName(index, ext)
}

// ChunkAbsPath is the filesystem path of a chunk file.
func (l *Layout) ChunkAbsPath(index int, ext string) string {
	return filepath.Join(l.DataDir(), ChunkFileName(index, ext))
}

// EnsureOutDir creates the output root.
func (l *Layout) EnsureOutDir() error {
	if err := os.MkdirAll(l.outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", l.outDir, err)
	}
	return nil
}

// EnsureViewerDirs creates the viewer directory and its data subdirectory.
func (l *Layout) EnsureViewerDirs() error {
	if err := os.MkdirAll(l.DataDir(), 0750); err != nil {
		return fmt.Errorf("failed to create viewer data directory %s: %w", l.DataDir(), err)
	}
	return nil
}
