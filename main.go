package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/karospace/viewerkit/internal/externalize"
	"github.com/karospace/viewerkit/internal/runs"
	"github.com/karospace/viewerkit/internal/upload"
)

func main() {
	app := &cli.App{
		Name:  "viewerkit",
		Usage: "Externalize embedded KaroSpace data payloads and publish viewer packages",
		Commands: []*cli.Command{
			{
				Name:  "externalize",
				Usage: "Detect embedded JSON payloads in an HTML file and publish it as a viewer",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Usage:    "Input KaroSpace HTML file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "outdir",
						Usage: "Output root directory",
						Value: "./viewers",
					},
					&cli.StringFlag{
						Name:     "slug",
						Usage:    "Viewer slug (e.g. RRMap)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "mode",
						Usage: "auto: threshold-based decision, single: always copy, directory: always externalize",
						Value: "auto",
					},
					&cli.Float64Flag{
						Name:  "threshold-mb",
						Usage: "If auto and embedded payload <= threshold, keep as single HTML",
						Value: 80.0,
					},
					&cli.Float64Flag{
						Name:  "chunk-mb",
						Usage: "Target chunk size for externalized data files",
						Value: 50.0,
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "Optional yaml defaults file",
						Value: "viewerkit.yaml",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "Only log errors",
					},
				},
				Action: externalize.Action,
			},
			{
				Name:  "upload",
				Usage: "Sync the local viewers directory to the S3-compatible bucket",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "viewers-dir",
						Usage: "Local viewers directory to upload",
						Value: "./viewers",
					},
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Object key prefix (defaults to env R2_PREFIX or 'viewers')",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Show planned uploads without sending data",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "Only log errors",
					},
				},
				Action: upload.Action,
			},
			{
				Name:  "runs",
				Usage: "Inspect externalization run history",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to list",
						Value: 20,
					},
				},
				Action: runs.ListAction,
				Subcommands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "Show one run with its recorded blobs",
						Action: runs.ShowAction,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
