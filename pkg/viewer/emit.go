package viewer

import (
	"encoding/json"
	"fmt"

	"github.com/karospace/viewerkit/pkg/chunk"
	"github.com/karospace/viewerkit/pkg/jsonspan"
	"github.com/karospace/viewerkit/pkg/layout"
	"github.com/karospace/viewerkit/pkg/manifest"
	"github.com/karospace/viewerkit/pkg/patch"
	"github.com/karospace/viewerkit/pkg/scan"
	"github.com/karospace/viewerkit/pkg/storage"
)

// DirectoryResult reports what directory-mode externalization produced.
type DirectoryResult struct {
	ViewerDir     string
	IndexPath     string
	ManifestPath  string
	ChunksWritten int
	Manifest      *manifest.Manifest
}

// jsString renders a Go string as a JS string literal for injected snippets.
func jsString(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}

// replacementFor computes the text that takes over a candidate's span. The
// replacement preserves the original in-page effect while deferring the data
// load to the runtime.
func replacementFor(c scan.Candidate, blobKey string) (string, error) {
	switch c.Detector {
	case scan.DetectorScriptJSON:
		if c.ScriptID == "" {
			return "", fmt.Errorf("script_json candidate %s has no script id", blobKey)
		}
		attrs := c.ScriptAttrs
		if !c.ScriptHadID {
			attrs = fmt.Sprintf("%s id=%q", attrs, c.ScriptID)
		}
		return fmt.Sprintf("<script%s></script>\n"+
			"<script>\n"+
			"(function () {\n"+
			"  var __kData = window.__KAROSPACE_DATA_LOADER__.getSync(%s);\n"+
			"  var __kNode = document.getElementById(%s);\n"+
			"  if (__kNode) {\n"+
			"    __kNode.textContent = JSON.stringify(__kData);\n"+
			"  }\n"+
			"})();\n"+
			"</script>", attrs, jsString(blobKey), jsString(c.ScriptID)), nil

	case scan.DetectorJSAssignment:
		if c.Style == scan.StyleWindow {
			return fmt.Sprintf("window.%s = window.__KAROSPACE_DATA_LOADER__.getSync(%s);",
				c.VariableName, jsString(blobKey)), nil
		}
		return fmt.Sprintf("%s %s = window.__KAROSPACE_DATA_LOADER__.getSync(%s);",
			c.DeclKind, c.VariableName, jsString(blobKey)), nil
	}
	return "", fmt.Errorf("unsupported candidate detector %q", c.Detector)
}

// writeArrayChunks emits one JSON file per array fragment. The chunk index
// is threaded through so filenames never collide across candidates.
func writeArrayChunks(raw json.RawMessage, lay *layout.Layout, store *storage.Storage, targetBytes, counter int) ([]manifest.ChunkEntry, int, error) {
	fragments, err := chunk.SplitArray(raw, targetBytes)
	if err != nil {
		return nil, counter, err
	}

	var entries []manifest.ChunkEntry
	for _, frag := range fragments {
		if err := store.SaveFile(lay.ChunkAbsPath(counter, "json"), []byte(frag.JSON)); err != nil {
			return nil, counter, err
		}
		entries = append(entries, manifest.ChunkEntry{
			Path:   layout.ChunkRelPath(counter, "json"),
			Bytes:  len(frag.JSON),
			Items:  frag.Items,
			Format: manifest.FormatJSONArray,
		})
		counter++
	}
	return entries, counter, nil
}

// writeTextChunks serializes the value compactly once and emits the
// byte-split pieces as raw text files.
func writeTextChunks(raw json.RawMessage, lay *layout.Layout, store *storage.Storage, targetBytes, counter int) ([]manifest.ChunkEntry, int, error) {
	compact, err := chunk.Compact(raw)
	if err != nil {
		return nil, counter, err
	}
	parts, err := chunk.SplitText(compact, targetBytes)
	if err != nil {
		return nil, counter, err
	}

	var entries []manifest.ChunkEntry
	for _, part := range parts {
		if err := store.SaveFile(lay.ChunkAbsPath(counter, "txt"), []byte(part)); err != nil {
			return nil, counter, err
		}
		entries = append(entries, manifest.ChunkEntry{
			Path:   layout.ChunkRelPath(counter, "txt"),
			Bytes:  len(part),
			Format: manifest.FormatTextPiece,
		})
		counter++
	}
	return entries, counter, nil
}

// ExternalizeDirectory runs the full pipeline for directory mode: chunk
// every candidate, write the data files, rewrite the document, and persist
// index.html plus manifest.json. Candidates must be ordered by ascending
// start offset, as scan.Detect returns them.
func ExternalizeDirectory(html string, candidates []scan.Candidate, lay *layout.Layout, store *storage.Storage, slug string, chunkMB float64) (*DirectoryResult, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	chunkTargetBytes := int(chunkMB * 1024 * 1024)
	if chunkTargetBytes <= 0 {
		return nil, fmt.Errorf("chunk target must be greater than zero, got %.2f MB", chunkMB)
	}

	if err := lay.EnsureViewerDirs(); err != nil {
		return nil, err
	}

	man := manifest.New(slug, chunkMB)
	var spans []patch.Span
	chunkCounter := 0

	for idx, c := range candidates {
		blobKey := fmt.Sprintf("blob_%03d", idx)

		var (
			entries  []manifest.ChunkEntry
			strategy string
			err      error
		)
		if jsonspan.IsArray(c.Raw) {
			entries, chunkCounter, err = writeArrayChunks(c.Raw, lay, store, chunkTargetBytes, chunkCounter)
			strategy = manifest.StrategyArraySlices
		} else {
			entries, chunkCounter, err = writeTextChunks(c.Raw, lay, store, chunkTargetBytes, chunkCounter)
			strategy = manifest.StrategyTextConcat
		}
		if err != nil {
			return nil, fmt.Errorf("failed to write chunks for %s: %w", blobKey, err)
		}

		man.Blobs = append(man.Blobs, manifest.BlobEntry{
			Key:             blobKey,
			Detector:        string(c.Detector),
			PayloadBytes:    c.PayloadBytes,
			Strategy:        strategy,
			Chunks:          entries,
			ScriptID:        c.ScriptID,
			AssignmentStyle: string(c.Style),
			VariableName:    c.VariableName,
			DeclKind:        c.DeclKind,
		})

		repl, err := replacementFor(c, blobKey)
		if err != nil {
			return nil, err
		}
		spans = append(spans, patch.Span{Start: c.Start, End: c.End, Text: repl})
	}

	index, err := patch.Apply(html, spans)
	if err != nil {
		return nil, fmt.Errorf("failed to apply span replacements: %w", err)
	}
	index = EnsureLoaderRuntime(index)

	manifestData, err := man.Marshal()
	if err != nil {
		return nil, err
	}
	if err := store.SaveFile(lay.ManifestPath(), manifestData); err != nil {
		return nil, err
	}
	if err := store.SaveFile(lay.IndexPath(), []byte(index)); err != nil {
		return nil, err
	}

	return &DirectoryResult{
		ViewerDir:     lay.ViewerDir(),
		IndexPath:     lay.IndexPath(),
		ManifestPath:  lay.ManifestPath(),
		ChunksWritten: chunkCounter,
		Manifest:      man,
	}, nil
}
