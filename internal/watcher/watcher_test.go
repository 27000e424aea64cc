package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"classlens/internal/util"
)

func collectChanges(t *testing.T, ch chan []string, timeout time.Duration) []string {
	t.Helper()
	select {
	case paths := <-ch:
		return paths
	case <-time.After(timeout):
		return nil
	}
}

func TestWatcherDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	changed := make(chan []string, 4)
	w, err := NewWatcher(100*time.Millisecond, nil, func(paths []string) {
		changed <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	classFile := filepath.Join(tmpDir, "User.class")
	if err := os.WriteFile(classFile, []byte{0xCA, 0xFE, 0xBA, 0xBE}, 0o644); err != nil {
		t.Fatal(err)
	}

	paths := collectChanges(t, changed, 2*time.Second)
	found := false
	for _, p := range paths {
		if p == classFile {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %s in changed paths %v", classFile, paths)
	}

	// Unrelated file types never trigger.
	if err := os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if paths := collectChanges(t, changed, 400*time.Millisecond); paths != nil {
		t.Errorf("unexpected change for non-class file: %v", paths)
	}
}

func TestWatcherArchiveFile(t *testing.T) {
	tmpDir := t.TempDir()
	jar := filepath.Join(tmpDir, "app.jar")
	if err := os.WriteFile(jar, []byte("initial"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan []string, 4)
	w, err := NewWatcher(100*time.Millisecond, nil, func(paths []string) {
		changed <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{jar}); err != nil {
		t.Fatal(err)
	}

	// Sibling files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(tmpDir, "other.bin"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if paths := collectChanges(t, changed, 400*time.Millisecond); paths != nil {
		t.Errorf("unexpected change for sibling file: %v", paths)
	}

	if err := os.WriteFile(jar, []byte("updated"), 0o644); err != nil {
		t.Fatal(err)
	}
	paths := collectChanges(t, changed, 2*time.Second)
	if len(paths) == 0 {
		t.Fatal("timed out waiting for archive change")
	}
}

func TestWatcherNewDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	changed := make(chan []string, 4)
	w, err := NewWatcher(100*time.Millisecond, nil, func(paths []string) {
		changed <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	subdir := filepath.Join(tmpDir, "com")
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(subdir, "Nested.class")
	if err := os.WriteFile(nested, []byte{0xCA, 0xFE, 0xBA, 0xBE}, 0o644); err != nil {
		t.Fatal(err)
	}

	foundNested := false
	timeout := time.After(2 * time.Second)
	for !foundNested {
		select {
		case paths := <-changed:
			for _, p := range paths {
				if p == nested {
					foundNested = true
				}
			}
		case <-timeout:
			t.Fatal("timed out waiting for nested class file event")
		}
	}
}

func TestWatcherDebounceBatches(t *testing.T) {
	tmpDir := t.TempDir()

	changed := make(chan []string, 4)
	w, err := NewWatcher(200*time.Millisecond, util.NewLimiter(10, 10), func(paths []string) {
		changed <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"A.class", "B.class", "C.class"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte{0xCA, 0xFE, 0xBA, 0xBE}, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	paths := collectChanges(t, changed, 2*time.Second)
	if len(paths) < 3 {
		t.Errorf("expected one batched callback with 3 paths, got %v", paths)
	}
}

func TestWatcherMissingPath(t *testing.T) {
	w, err := NewWatcher(100*time.Millisecond, nil, func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{filepath.Join(t.TempDir(), "absent")}); err == nil {
		t.Error("Watch() on missing path should fail")
	}
}
