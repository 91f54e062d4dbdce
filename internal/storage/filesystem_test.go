package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreWrite(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	key, err := store.Write(context.Background(), "42/avatar.png", []byte("png bytes"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if key != "42/avatar.png" {
		t.Errorf("key = %q, want %q", key, "42/avatar.png")
	}
	data, err := os.ReadFile(filepath.Join(dir, "42", "avatar.png"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "png bytes" {
		t.Errorf("content = %q", data)
	}
}

func TestFileStoreRejectsEscapingKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	for _, key := range []string{"", "   ", "../outside.png", "a/../../outside.png"} {
		if _, err := store.Write(context.Background(), key, []byte("x")); err == nil {
			t.Errorf("Write(%q) accepted an invalid key", key)
		}
	}
}

func TestFileStoreRequiresBasePath(t *testing.T) {
	if _, err := NewFileStore("  "); err == nil {
		t.Fatal("NewFileStore accepted an empty base path")
	}
}
