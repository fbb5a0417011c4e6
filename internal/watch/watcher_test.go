package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/goliatone/go-compgen/pkg/testsupport"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatcher_ReportsDescriptorChanges(t *testing.T) {
	dir := t.TempDir()
	calls := make(chan []string, 16)
	w, err := New([]string{dir}, func(_ context.Context, changed []string) error {
		select {
		case calls <- changed:
		default:
		}
		return nil
	}, WithDebounce(30*time.Millisecond), WithTick(10*time.Millisecond))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := w.Start(testsupport.Context(t)); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer w.Stop()

	testsupport.WriteFiles(t, dir, map[string]string{
		"Note.yaml":  "type: Note\ncategory: Presentation\n",
		"README.md":  "ignored",
		"Other.json": `{"type": "Other", "category": "Action"}`,
	})

	seen := make(map[string]bool)
	deadline := time.After(5 * time.Second)
	for len(seen) < 2 {
		select {
		case changed := <-calls:
			for _, path := range changed {
				seen[path] = true
			}
		case <-deadline:
			t.Fatalf("handler was not called for every descriptor, saw %v", seen)
		}
	}
	want := map[string]bool{filepath.Join(dir, "Note.yaml"): true, filepath.Join(dir, "Other.json"): true}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("changed mismatch (-want +got):\n%s", diff)
	}

	stats := w.Stats()
	if stats.Runs == 0 || stats.Events == 0 || stats.Errors != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestWatcher_PicksUpNewDirectories(t *testing.T) {
	dir := t.TempDir()
	calls := make(chan []string, 16)
	w, err := New([]string{dir}, func(_ context.Context, changed []string) error {
		select {
		case calls <- changed:
		default:
		}
		return nil
	}, WithDebounce(20*time.Millisecond), WithTick(10*time.Millisecond))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := w.Start(testsupport.Context(t)); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer w.Stop()

	nested := filepath.Join(dir, "forms")
	if err := os.Mkdir(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	target := filepath.Join(nested, "Tip.yaml")
	deadline := time.After(5 * time.Second)
	for {
		// the directory is registered asynchronously, so keep touching the file
		if err := os.WriteFile(target, []byte("type: Tip\ncategory: Presentation\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		select {
		case changed := <-calls:
			if len(changed) == 1 && changed[0] == target {
				return
			}
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatalf("nested change was not reported, watching %v", w.WatchList())
		}
	}
}

func TestWatcher_RunStopsWithContext(t *testing.T) {
	dir := t.TempDir()
	w, err := New([]string{dir}, func(context.Context, []string) error { return nil })
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx, cancel := context.WithCancel(testsupport.Context(t))
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not return after cancel")
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(nil, func(context.Context, []string) error { return nil }); err == nil {
		t.Fatalf("expected error without directories")
	}
	if _, err := New([]string{t.TempDir()}, nil); err == nil {
		t.Fatalf("expected error without handler")
	}

	w, err := New([]string{filepath.Join(t.TempDir(), "missing")}, func(context.Context, []string) error { return nil })
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := w.Start(testsupport.Context(t)); err == nil {
		t.Fatalf("expected error for missing directory")
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestWatcher_NoRestartAfterStop(t *testing.T) {
	w, err := New([]string{t.TempDir()}, func(context.Context, []string) error { return nil })
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := w.Start(testsupport.Context(t)); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := w.Start(testsupport.Context(t)); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("second stop: %v", err)
	}
	if err := w.Run(testsupport.Context(t)); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected Run to report ErrStopped, got %v", err)
	}
}
