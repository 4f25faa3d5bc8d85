package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "declarations.json")
	if err := os.WriteFile(target, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var batches [][]string
	w, err := NewWatcher(100*time.Millisecond, []string{target}, func(paths []string) {
		mu.Lock()
		batches = append(batches, paths)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()
	w.Start()

	// A burst of writes within the debounce window must coalesce.
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(target, []byte("[]"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := len(batches)
		mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("no batch delivered")
		case <-time.After(20 * time.Millisecond):
		}
	}

	time.Sleep(200 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(batches) != 1 {
		t.Errorf("batches = %d, want 1 coalesced batch", len(batches))
	}
	if len(batches[0]) != 1 || filepath.Base(batches[0][0]) != "declarations.json" {
		t.Errorf("batch contents = %v", batches[0])
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "declarations.json")
	other := filepath.Join(dir, "other.txt")
	if err := os.WriteFile(target, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	fired := make(chan struct{}, 1)
	w, err := NewWatcher(50*time.Millisecond, []string{target}, func([]string) {
		fired <- struct{}{}
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()
	w.Start()

	if err := os.WriteFile(other, []byte("noise"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-fired:
		t.Error("callback fired for an unwatched file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "f")
	if err := os.WriteFile(target, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := NewWatcher(time.Millisecond, []string{target}, func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	w.Start()
	if err := w.Close(); err != nil {
		t.Errorf("first Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestWatcherRequiresCallback(t *testing.T) {
	if _, err := NewWatcher(time.Millisecond, nil, nil); err == nil {
		t.Error("nil callback should be rejected")
	}
}
