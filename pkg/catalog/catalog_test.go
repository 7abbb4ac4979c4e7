package catalog

import (
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileYieldsEmptyIndex(t *testing.T) {
	ix, err := Load(filepath.Join(t.TempDir(), "datasets.json"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(ix.Datasets) != 0 {
		t.Errorf("datasets = %d, want 0", len(ix.Datasets))
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datasets.json")

	ix := &Index{}
	ix.Upsert(Entry{
		Slug:         "RRMap",
		Title:        "Reactor map",
		Language:     "sv",
		R2Path:       "viewers/RRMap/index.html",
		PayloadBytes: 1024,
	})
	if err := Save(path, ix); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(loaded.Datasets) != 1 {
		t.Fatalf("datasets = %d, want 1", len(loaded.Datasets))
	}

	got := loaded.Datasets[0]
	if got.Slug != "RRMap" || got.Title != "Reactor map" || got.Language != "sv" {
		t.Errorf("entry = %+v", got)
	}
	if got.UpdatedAt == "" {
		t.Errorf("UpdatedAt was not stamped")
	}
}

func TestUpsert_ReplacesBySlug(t *testing.T) {
	ix := &Index{}
	ix.Upsert(Entry{Slug: "a", Title: "old", R2Path: "viewers/a.html"})
	ix.Upsert(Entry{Slug: "b", Title: "other", R2Path: "viewers/b.html"})
	ix.Upsert(Entry{Slug: "a", Title: "new", R2Path: "viewers/a/index.html"})

	if len(ix.Datasets) != 2 {
		t.Fatalf("datasets = %d, want 2", len(ix.Datasets))
	}
	got := ix.Find("a")
	if got == nil || got.Title != "new" || got.R2Path != "viewers/a/index.html" {
		t.Errorf("entry a = %+v, want updated fields", got)
	}
}

func TestUpsert_KeepsExistingThumb(t *testing.T) {
	ix := &Index{}
	ix.Upsert(Entry{Slug: "a", Thumb: "thumbs/a.jpg", R2Path: "viewers/a.html"})

	// Republishing without a thumbnail must not drop the recorded one.
	ix.Upsert(Entry{Slug: "a", R2Path: "viewers/a/index.html"})
	if got := ix.Find("a"); got.Thumb != "thumbs/a.jpg" {
		t.Errorf("thumb = %q, want thumbs/a.jpg", got.Thumb)
	}

	// An explicit new thumbnail wins.
	ix.Upsert(Entry{Slug: "a", Thumb: "thumbs/a2.jpg", R2Path: "viewers/a/index.html"})
	if got := ix.Find("a"); got.Thumb != "thumbs/a2.jpg" {
		t.Errorf("thumb = %q, want thumbs/a2.jpg", got.Thumb)
	}
}

func TestFind_Missing(t *testing.T) {
	ix := &Index{}
	if got := ix.Find("nope"); got != nil {
		t.Errorf("Find() = %+v, want nil", got)
	}
}
