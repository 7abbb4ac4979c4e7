// Package runs implements the runs CLI command: inspect the local
// externalization history database.
package runs

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/karospace/viewerkit/pkg/db"
)

func ListAction(c *cli.Context) error {
	database, err := db.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return nil
	}

	// Print table header
	fmt.Printf("%-6s %-20s %-16s %-10s %-12s %-6s %-7s %-30s\n",
		"ID", "Created", "Slug", "Mode", "Payload", "Blobs", "Chunks", "Output")
	fmt.Println(strings.Repeat("-", 112))

	for _, r := range runs {
		fmt.Printf("%-6d %-20s %-16s %-10s %-12s %-6d %-7d %-30s\n",
			r.RunID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Slug,
			r.EffectiveMode,
			fmt.Sprintf("%.2f MB", float64(r.PayloadBytes)/(1024*1024)),
			r.BlobCount,
			r.ChunkCount,
			r.OutputPath,
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'viewerkit runs show <id>' to see per-blob details\n")

	return nil
}

// ShowAction prints one run with its recorded blobs.
func ShowAction(c *cli.Context) error {
	database, err := db.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: viewerkit runs show <run-id>")
	}
	var runID int64
	if _, err := fmt.Sscanf(c.Args().First(), "%d", &runID); err != nil {
		return fmt.Errorf("invalid run id: %s", c.Args().First())
	}

	run, err := database.GetRunByID(runID)
	if err != nil {
		return err
	}

	fmt.Printf("Run %d (%s)\n", run.RunID, run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Slug:    %s\n", run.Slug)
	fmt.Printf("  Mode:    %s (requested %s)\n", run.EffectiveMode, run.Mode)
	fmt.Printf("  Input:   %s\n", run.InputPath)
	fmt.Printf("  Output:  %s\n", run.OutputPath)
	fmt.Printf("  Payload: %d bytes, %d blob(s), %d chunk(s)\n", run.PayloadBytes, run.BlobCount, run.ChunkCount)

	blobs, err := database.GetRunBlobs(runID)
	if err != nil {
		return err
	}
	if len(blobs) > 0 {
		fmt.Println()
		fmt.Printf("%-10s %-15s %-14s %-12s %-7s\n", "Key", "Detector", "Strategy", "Payload", "Chunks")
		fmt.Println(strings.Repeat("-", 62))
		for _, b := range blobs {
			fmt.Printf("%-10s %-15s %-14s %-12d %-7d\n", b.Key, b.Detector, b.Strategy, b.PayloadBytes, b.ChunkCount)
		}
	}

	return nil
}
