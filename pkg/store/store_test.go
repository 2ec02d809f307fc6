package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// backends lists the Store implementations exercisable without external
// services.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	fileStore, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return map[string]Store{
		"Memory": NewMemoryStore(),
		"File":   fileStore,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			// Missing key: found=false, no error.
			if _, found, err := s.Get(ctx, "missing"); err != nil || found {
				t.Fatalf("Get(missing) = found=%v err=%v, want absent", found, err)
			}

			if err := s.Set(ctx, "k", []byte("v1")); err != nil {
				t.Fatalf("Set: %v", err)
			}
			data, found, err := s.Get(ctx, "k")
			if err != nil || !found {
				t.Fatalf("Get = found=%v err=%v", found, err)
			}
			if !bytes.Equal(data, []byte("v1")) {
				t.Errorf("data = %q, want v1", data)
			}

			// Overwrite.
			if err := s.Set(ctx, "k", []byte("v2")); err != nil {
				t.Fatalf("Set: %v", err)
			}
			data, _, _ = s.Get(ctx, "k")
			if !bytes.Equal(data, []byte("v2")) {
				t.Errorf("data = %q, want v2", data)
			}

			// Delete, then delete again (idempotent).
			if err := s.Delete(ctx, "k"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, found, _ := s.Get(ctx, "k"); found {
				t.Error("key still present after delete")
			}
			if err := s.Delete(ctx, "k"); err != nil {
				t.Errorf("second Delete: %v", err)
			}
		})
	}
}

func TestMemoryStoreIsolatesBuffers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	src := []byte("original")
	if err := s.Set(ctx, "k", src); err != nil {
		t.Fatalf("Set: %v", err)
	}
	src[0] = 'X'

	data, _, _ := s.Get(ctx, "k")
	if string(data) != "original" {
		t.Error("store shares the caller's buffer on Set")
	}

	data[0] = 'Y'
	again, _, _ := s.Get(ctx, "k")
	if string(again) != "original" {
		t.Error("store shares its internal buffer on Get")
	}
}

func TestFileStoreKeysNeverEscapeDir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := s.Set(ctx, "../../etc/evil", []byte("x")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if strings.Contains(entries[0].Name(), "..") {
		t.Errorf("blob file %q contains path separators", entries[0].Name())
	}
	if filepath.Ext(entries[0].Name()) != ".json" {
		t.Errorf("blob file %q missing .json suffix", entries[0].Name())
	}
}

func TestFileStoreNoTempFilesLeftBehind(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, _ := NewFileStore(dir)

	for i := 0; i < 5; i++ {
		if err := s.Set(ctx, "k", []byte("payload")); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file %q left behind", e.Name())
		}
	}
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, _ := NewFileStore(dir)
	if err := first.Set(ctx, "k", []byte("durable")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	_ = first.Close()

	second, _ := NewFileStore(dir)
	data, found, err := second.Get(ctx, "k")
	if err != nil || !found {
		t.Fatalf("Get = found=%v err=%v", found, err)
	}
	if string(data) != "durable" {
		t.Errorf("data = %q, want durable", data)
	}
}
