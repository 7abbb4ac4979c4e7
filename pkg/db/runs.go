package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Run is one recorded externalization invocation.
type Run struct {
	RunID         int64
	Slug          string
	Mode          string
	EffectiveMode string
	InputPath     string
	OutputPath    string
	PayloadBytes  int64
	BlobCount     int
	ChunkCount    int
	CreatedAt     time.Time
}

// RunBlob mirrors one manifest blob entry for history queries.
type RunBlob struct {
	BlobID       int64
	RunID        int64
	Key          string
	Detector     string
	Strategy     string
	PayloadBytes int64
	ChunkCount   int
}

// InsertRun records a run and returns its id.
func (db *DB) InsertRun(r Run) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO runs (slug, mode, effective_mode, input_path, output_path, payload_bytes, blob_count, chunk_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.Slug, r.Mode, r.EffectiveMode, r.InputPath, r.OutputPath, r.PayloadBytes, r.BlobCount, r.ChunkCount)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return runID, nil
}

// InsertRunBlob records one blob of a run.
func (db *DB) InsertRunBlob(b RunBlob) error {
	_, err := db.Exec(`
		INSERT INTO run_blobs (run_id, key, detector, strategy, payload_bytes, chunk_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`, b.RunID, b.Key, b.Detector, b.Strategy, b.PayloadBytes, b.ChunkCount)
	if err != nil {
		return fmt.Errorf("failed to insert run blob: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT run_id, slug, mode, effective_mode, input_path, output_path,
		       payload_bytes, blob_count, chunk_count, created_at
		FROM runs
		ORDER BY run_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.Slug, &r.Mode, &r.EffectiveMode, &r.InputPath, &r.OutputPath,
			&r.PayloadBytes, &r.BlobCount, &r.ChunkCount, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRunByID returns one run, or an error if it does not exist.
func (db *DB) GetRunByID(runID int64) (*Run, error) {
	var r Run
	err := db.QueryRow(`
		SELECT run_id, slug, mode, effective_mode, input_path, output_path,
		       payload_bytes, blob_count, chunk_count, created_at
		FROM runs WHERE run_id = ?
	`, runID).Scan(&r.RunID, &r.Slug, &r.Mode, &r.EffectiveMode, &r.InputPath, &r.OutputPath,
		&r.PayloadBytes, &r.BlobCount, &r.ChunkCount, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &r, nil
}

// GetRunBlobs returns the blobs recorded for a run, in key order.
func (db *DB) GetRunBlobs(runID int64) ([]RunBlob, error) {
	rows, err := db.Query(`
		SELECT blob_id, run_id, key, detector, strategy, payload_bytes, chunk_count
		FROM run_blobs WHERE run_id = ? ORDER BY key
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list run blobs: %w", err)
	}
	defer rows.Close()

	var blobs []RunBlob
	for rows.Next() {
		var b RunBlob
		if err := rows.Scan(&b.BlobID, &b.RunID, &b.Key, &b.Detector, &b.Strategy, &b.PayloadBytes, &b.ChunkCount); err != nil {
			return nil, fmt.Errorf("failed to scan run blob: %w", err)
		}
		blobs = append(blobs, b)
	}
	return blobs, rows.Err()
}

// RecordRun stores a run plus its blobs in one transaction-free sequence;
// history is advisory, so partial writes are tolerated.
func (db *DB) RecordRun(r Run, blobs []RunBlob) (int64, error) {
	runID, err := db.InsertRun(r)
	if err != nil {
		return 0, err
	}
	for _, b := range blobs {
		b.RunID = runID
		if err := db.InsertRunBlob(b); err != nil {
			return runID, err
		}
	}
	return runID, nil
}
