package filestore

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	if _, err := New(dir); err != nil {
		t.Fatalf("New(%q) returned error: %v", dir, err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("upload dir was not created: %v", err)
	}
}

func TestGenerateName(t *testing.T) {
	fs, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	a := fs.GenerateName("photo.jpg")
	b := fs.GenerateName("photo.jpg")

	if !strings.HasSuffix(a, ".jpg") {
		t.Errorf("generated name %q does not keep the extension", a)
	}
	if a == b {
		t.Errorf("generated names are not unique: %q", a)
	}
	if strings.ContainsAny(a, "/\\") {
		t.Errorf("generated name %q contains path separators", a)
	}
}

func TestSaveOpenRemove(t *testing.T) {
	fs, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	data := []byte("jpeg bytes")
	path, err := fs.Save("123-abc.jpg", data)
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if !fs.Exists(path) {
		t.Fatalf("Exists(%q) = false after Save", path)
	}

	f, err := fs.Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	got, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("stored content = %q; want %q", got, data)
	}

	if err := fs.Remove(path); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if fs.Exists(path) {
		t.Errorf("Exists(%q) = true after Remove", path)
	}
}

func TestRemove_MissingFileIsNoOp(t *testing.T) {
	fs, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if err := fs.Remove(filepath.Join(t.TempDir(), "absent.jpg")); err != nil {
		t.Errorf("Remove of a missing file returned error: %v", err)
	}
}

func TestSave_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	fs, err := New(dir)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if _, err := fs.Save("a.jpg", []byte("x")); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file %q left behind", e.Name())
		}
	}
}
