// Package externalize implements the externalize CLI command: detect
// embedded payloads in an HTML file and publish it as a single copy or as a
// chunked viewer directory.
package externalize

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/karospace/viewerkit/models"
	"github.com/karospace/viewerkit/pkg/catalog"
	"github.com/karospace/viewerkit/pkg/db"
	"github.com/karospace/viewerkit/pkg/layout"
	"github.com/karospace/viewerkit/pkg/scan"
	"github.com/karospace/viewerkit/pkg/storage"
	"github.com/karospace/viewerkit/pkg/viewer"
)

func bytesToMB(n int64) float64 {
	return float64(n) / (1024 * 1024)
}

func Action(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	defaults, err := models.LoadDefaults(c.String("config"))
	if err != nil {
		return err
	}

	mode, err := models.ParseMode(c.String("mode"))
	if err != nil {
		return err
	}

	cfg := &models.RunConfig{
		Input:       c.String("input"),
		OutDir:      c.String("outdir"),
		Slug:        c.String("slug"),
		Mode:        mode,
		ThresholdMB: c.Float64("threshold-mb"),
		ChunkMB:     c.Float64("chunk-mb"),
	}
	if !c.IsSet("outdir") && defaults.OutDir != "" {
		cfg.OutDir = defaults.OutDir
	}
	if !c.IsSet("threshold-mb") && defaults.ThresholdMB > 0 {
		cfg.ThresholdMB = defaults.ThresholdMB
	}
	if !c.IsSet("chunk-mb") && defaults.ChunkMB > 0 {
		cfg.ChunkMB = defaults.ChunkMB
	}

	store := &storage.Storage{}
	result, err := viewer.Run(cfg, store)
	if err != nil {
		return err
	}

	if len(result.Candidates) > 0 {
		fmt.Printf("Detected %d embedded JSON blob(s).\n", len(result.Candidates))
		fmt.Printf("Estimated embedded payload size: %.2f MB (%d bytes)\n",
			bytesToMB(result.TotalPayloadBytes), result.TotalPayloadBytes)
		warnOnIDCollisions(logger, store, cfg.Input, result.Candidates)
	}

	lay := layout.New(cfg.OutDir, cfg.Slug)
	var r2Path string
	if result.EffectiveMode == models.ModeSingle {
		r2Path = "viewers/" + cfg.Slug + ".html"
		fmt.Printf("Mode: %s -> single\n", cfg.Mode)
		fmt.Printf("Input copied to: %s\n", result.OutputPath)
		fmt.Printf("Backup copy: %s\n", result.BackupPath)
		fmt.Printf("Viewer URL path: viewers/%s.html\n", cfg.Slug)
	} else {
		r2Path = "viewers/" + cfg.Slug + "/"
		fmt.Printf("Mode: %s -> directory (threshold %.2f MB, chunk target %.2f MB)\n",
			cfg.Mode, cfg.ThresholdMB, cfg.ChunkMB)
		fmt.Printf("Output directory: %s\n", result.Directory.ViewerDir)
		fmt.Printf("index.html: %s\n", result.Directory.IndexPath)
		fmt.Printf("manifest.json: %s\n", result.Directory.ManifestPath)
		fmt.Printf("Chunk files written: %d\n", result.Directory.ChunksWritten)
		fmt.Printf("Backup copy: %s\n", result.BackupPath)
		fmt.Printf("Viewer URL path: viewers/%s/\n", cfg.Slug)
	}

	if err := updateCatalog(store, lay, cfg, result, r2Path); err != nil {
		// The viewer is already published; a stale catalog is recoverable.
		logger.Warn("failed to update dataset catalog", "error", err)
	}

	recordRun(logger, cfg, result)
	return nil
}

// warnOnIDCollisions surfaces synthesized script ids that clash with
// explicit ids elsewhere in the document. The document is not rewritten to
// avoid the clash; the author owns the fix.
func warnOnIDCollisions(logger *slog.Logger, store *storage.Storage, inputPath string, candidates []scan.Candidate) {
	data, err := store.ReadFile(inputPath)
	if err != nil {
		return
	}
	collisions, err := scan.CollidingIDs(string(data), candidates)
	if err != nil {
		logger.Warn("id collision check failed", "error", err)
		return
	}
	for _, id := range collisions {
		logger.Warn("synthesized script id collides with an existing element id", "id", id)
	}
}

// updateCatalog upserts this viewer into the shared datasets index.
func updateCatalog(store *storage.Storage, lay *layout.Layout, cfg *models.RunConfig, result *viewer.RunResult, r2Path string) error {
	data, err := store.ReadFile(cfg.Input)
	if err != nil {
		return err
	}
	desc := catalog.Describe(string(data))

	ix, err := catalog.Load(lay.CatalogPath())
	if err != nil {
		return err
	}
	ix.Upsert(catalog.Entry{
		Slug:         cfg.Slug,
		Title:        desc.Title,
		Excerpt:      desc.Excerpt,
		Language:     desc.Language,
		R2Path:       r2Path,
		PayloadBytes: result.TotalPayloadBytes,
	})
	return catalog.Save(lay.CatalogPath(), ix)
}

// recordRun stores the run in the local history database. History is
// advisory: failures are logged, never fatal.
func recordRun(logger *slog.Logger, cfg *models.RunConfig, result *viewer.RunResult) {
	database, err := db.Open()
	if err != nil {
		logger.Warn("failed to open run history database", "error", err)
		return
	}
	defer database.Close()

	run := db.Run{
		Slug:          cfg.Slug,
		Mode:          cfg.Mode.String(),
		EffectiveMode: result.EffectiveMode.String(),
		InputPath:     cfg.Input,
		OutputPath:    result.OutputPath,
		PayloadBytes:  result.TotalPayloadBytes,
	}

	var blobs []db.RunBlob
	if result.Directory != nil {
		run.BlobCount = len(result.Directory.Manifest.Blobs)
		run.ChunkCount = result.Directory.ChunksWritten
		for _, b := range result.Directory.Manifest.Blobs {
			blobs = append(blobs, db.RunBlob{
				Key:          b.Key,
				Detector:     b.Detector,
				Strategy:     b.Strategy,
				PayloadBytes: int64(b.PayloadBytes),
				ChunkCount:   len(b.Chunks),
			})
		}
	}

	if _, err := database.RecordRun(run, blobs); err != nil {
		logger.Warn("failed to record run history", "error", err)
	}
}
