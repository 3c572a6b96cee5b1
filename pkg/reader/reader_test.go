package reader

import (
	"os"
	"path/filepath"
	"testing"
)

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	mustWrite := func(rel, content string) {
		t.Helper()
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	mustWrite("outline.txt", "outline")
	mustWrite("slides/week1.txt", "week 1")
	mustWrite(".DS_Store", "junk")
	mustWrite(".git/config", "junk")

	files, err := ListFiles(dir)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}

	set := FileNameSet(files)
	if len(set) != 2 {
		t.Fatalf("file set = %v, want 2 visible files", set)
	}
	if _, ok := set["outline.txt"]; !ok {
		t.Error("outline.txt missing")
	}
	if _, ok := set["week1.txt"]; !ok {
		t.Error("nested week1.txt missing")
	}
	if _, ok := set[".DS_Store"]; ok {
		t.Error("hidden file leaked into the set")
	}
}

func TestReadText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("course text"), 0644); err != nil {
		t.Fatal(err)
	}

	text, err := ReadText(path)
	if err != nil {
		t.Fatalf("ReadText() error = %v", err)
	}
	if text != "course text" {
		t.Errorf("ReadText() = %q", text)
	}

	if _, err := ReadText(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("ReadText() on a missing file did not error")
	}
}
