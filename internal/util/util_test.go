package util

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSortedStringKeys(t *testing.T) {
	m := map[string]int{"c": 3, "a": 1, "b": 2}
	if got := SortedStringKeys(m); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("SortedStringKeys() = %v", got)
	}
	if got := SortedStringKeys(map[string]bool{}); len(got) != 0 {
		t.Errorf("SortedStringKeys(empty) = %v", got)
	}
}

func TestWriteFileWithDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "out.txt")
	if err := WriteStringWithDirs(path, "content", 0o644); err != nil {
		t.Fatalf("WriteStringWithDirs() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("content = %q", data)
	}
}

func TestLimiterAllow(t *testing.T) {
	l := NewLimiter(1, 2)
	if !l.Allow(1) || !l.Allow(1) {
		t.Error("burst of 2 should be allowed")
	}
	if l.Allow(1) {
		t.Error("third immediate event should be limited")
	}
}
