// Package upload implements the upload CLI command: sync the local viewers
// directory to the S3-compatible bucket behind the public viewer host.
package upload

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/karospace/viewerkit/pkg/uploader"
)

func Action(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	viewersDir := c.String("viewers-dir")
	if info, err := os.Stat(viewersDir); err != nil || !info.IsDir() {
		return fmt.Errorf("viewers directory does not exist: %s", viewersDir)
	}

	cfg, err := uploader.LoadConfigFromEnv()
	if err != nil {
		return err
	}
	if c.IsSet("prefix") {
		cfg.Prefix = c.String("prefix")
	}

	plans, err := uploader.PlanDir(viewersDir, cfg.Prefix)
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		fmt.Println("Nothing to upload")
		return nil
	}

	if c.Bool("dry-run") {
		for _, plan := range plans {
			fmt.Printf("DRY-RUN %s -> s3://%s/%s (%s, %d bytes)\n",
				plan.LocalPath, cfg.Bucket, plan.Key, plan.ContentType, plan.SizeBytes)
		}
		fmt.Printf("Planned %d upload(s)\n", len(plans))
		return nil
	}

	up, err := uploader.New(cfg)
	if err != nil {
		return err
	}

	var totalBytes int64
	for _, plan := range plans {
		logger.Info("uploading", "key", plan.Key, "bytes", plan.SizeBytes)
		if err := up.Upload(c.Context, plan); err != nil {
			return err
		}
		totalBytes += plan.SizeBytes
	}

	fmt.Printf("Uploaded %d file(s), %d bytes\n", len(plans), totalBytes)
	fmt.Printf("Public base: %s/%s/\n", cfg.PublicHost, cfg.Prefix)
	return nil
}
