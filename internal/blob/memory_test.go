package blob

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestMemory_GetAbsentIsNotFound(t *testing.T) {
	store := NewMemory()

	_, err := store.Get(context.Background(), "jobs/missing/tasks.json")
	if !IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemory_PutThenExistsAndGet(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	if err := store.Put(ctx, "jobs/j1/tasks.json", []byte(`[]`), "application/json"); err != nil {
		t.Fatalf("put: %v", err)
	}

	ok, err := store.Exists(ctx, "jobs/j1/tasks.json")
	if err != nil || !ok {
		t.Fatalf("expected object to exist, ok=%v err=%v", ok, err)
	}
	data, err := store.Get(ctx, "jobs/j1/tasks.json")
	if err != nil || string(data) != `[]` {
		t.Fatalf("unexpected get result: %q err=%v", data, err)
	}
}

func TestMemory_UploadReadsLocalFile(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "video.mp4")
	if err := os.WriteFile(path, []byte("media-bytes"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if err := store.Upload(ctx, "jobs/j1/inputs/c/v/v.mp4", path); err != nil {
		t.Fatalf("upload: %v", err)
	}
	data, err := store.Get(ctx, "jobs/j1/inputs/c/v/v.mp4")
	if err != nil || string(data) != "media-bytes" {
		t.Fatalf("unexpected uploaded content: %q err=%v", data, err)
	}
}

func TestMemory_ListPrefixes(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	for _, key := range []string{
		"jobs/job-a/tasks.json",
		"jobs/job-a/results.json",
		"jobs/job-b/tasks.json",
		"other/job-c/tasks.json",
	} {
		if err := store.Put(ctx, key, []byte(`[]`), ""); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}

	children, err := store.ListPrefixes(ctx, "jobs/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(children) != 2 || children[0] != "job-a" || children[1] != "job-b" {
		t.Fatalf("unexpected children: %v", children)
	}
}
