package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSortedStringKeys(t *testing.T) {
	t.Parallel()

	got := SortedStringKeys(map[string]int{"talker": 1, "/listener": 2, "bag": 3})
	want := []string{"/listener", "bag", "talker"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestWriteFileWithDirs(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "deeper", "graph.yaml")
	if err := WriteFileWithDirs(path, []byte("nodes: []\n"), 0o644); err != nil {
		t.Fatalf("WriteFileWithDirs: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "nodes: []\n" {
		t.Fatalf("unexpected content %q", data)
	}
}
