package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/chazu/partview/pkg/mesh"
)

// slowImporter returns a canned fragment after an optional per-tag
// delay, so tests can force an older load to finish after a newer one.
type slowImporter struct {
	delays map[string]time.Duration
	err    error
}

func (im *slowImporter) Import(ctx context.Context, data []byte, tag string) ([]*mesh.Fragment, error) {
	if d := im.delays[tag]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if im.err != nil {
		return nil, im.err
	}
	return []*mesh.Fragment{
		{Name: tag, Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, Indices: []uint32{0, 1, 2}},
	}, nil
}

// recorder collects callback invocations.
type recorder struct {
	mu      sync.Mutex
	ready   []Result
	failed  []error
	loading []Token
	done    chan struct{}
}

func newRecorder(expect int) *recorder {
	return &recorder{done: make(chan struct{}, expect)}
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnLoading: func(tok Token) {
			r.mu.Lock()
			r.loading = append(r.loading, tok)
			r.mu.Unlock()
		},
		OnReady: func(res Result) {
			r.mu.Lock()
			r.ready = append(r.ready, res)
			r.mu.Unlock()
			r.done <- struct{}{}
		},
		OnError: func(tok Token, err error) {
			r.mu.Lock()
			r.failed = append(r.failed, err)
			r.mu.Unlock()
			r.done <- struct{}{}
		},
	}
}

func (r *recorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for load completion")
	}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDelivers(t *testing.T) {
	l := New(&slowImporter{}, nil)
	rec := newRecorder(1)
	path := writeTemp(t, "part.stl", "payload")

	token := l.Load(context.Background(), path, "stl", rec.callbacks())
	rec.wait(t)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.loading) != 1 || rec.loading[0] != token {
		t.Errorf("loading tokens = %v, want [%v]", rec.loading, token)
	}
	if len(rec.ready) != 1 {
		t.Fatalf("ready count = %d, want 1", len(rec.ready))
	}
	res := rec.ready[0]
	if res.Token != token {
		t.Errorf("result token = %v, want %v", res.Token, token)
	}
	if res.Scene == nil || res.Fragments != 1 {
		t.Errorf("result = %+v", res)
	}
	// Dimensions were measured and attached.
	if res.Dimensions.X <= 0 {
		t.Errorf("dimensions = %+v, want measured extents", res.Dimensions)
	}
}

func TestStaleLoadSuppressed(t *testing.T) {
	// Load A (slow) then load B (fast): B supersedes A, and A's later
	// completion must be silently dropped.
	im := &slowImporter{delays: map[string]time.Duration{"slow": 300 * time.Millisecond}}
	l := New(im, nil)
	rec := newRecorder(2)
	path := writeTemp(t, "part.stl", "payload")

	l.Load(context.Background(), path, "slow", rec.callbacks())
	tokenB := l.Load(context.Background(), path, "fast", rec.callbacks())

	rec.wait(t) // B completes first
	time.Sleep(500 * time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.ready) != 1 {
		t.Fatalf("ready count = %d, want only the superseding load", len(rec.ready))
	}
	if rec.ready[0].Token != tokenB {
		t.Errorf("delivered token = %v, want %v", rec.ready[0].Token, tokenB)
	}
	if got := rec.ready[0].Scene.Fragments[0].Name; got != "fast" {
		t.Errorf("delivered scene = %q, want the newer load", got)
	}
	if len(rec.failed) != 0 {
		t.Errorf("stale load surfaced an error: %v", rec.failed)
	}
}

func TestStaleErrorSuppressed(t *testing.T) {
	im := &slowImporter{
		delays: map[string]time.Duration{"slow": 300 * time.Millisecond},
		err:    errors.New("boom"),
	}
	l := New(im, nil)
	recA := newRecorder(1)
	recB := newRecorder(1)
	path := writeTemp(t, "part.stl", "payload")

	l.Load(context.Background(), path, "slow", recA.callbacks())

	// The second load fails fast; its error is current and must surface.
	l.Load(context.Background(), path, "fast", recB.callbacks())
	recB.wait(t)

	time.Sleep(500 * time.Millisecond)
	recA.mu.Lock()
	defer recA.mu.Unlock()
	if len(recA.failed) != 0 {
		t.Errorf("superseded load surfaced its error: %v", recA.failed)
	}
}

func TestTokensUnique(t *testing.T) {
	l := New(&slowImporter{}, nil)
	path := writeTemp(t, "part.stl", "payload")
	seen := map[Token]bool{}
	for i := 0; i < 5; i++ {
		tok := l.Load(context.Background(), path, "stl", Callbacks{})
		if seen[tok] {
			t.Fatalf("token %v issued twice", tok)
		}
		seen[tok] = true
	}
}

func TestFetchMissingFile(t *testing.T) {
	l := New(&slowImporter{}, nil)
	rec := newRecorder(1)

	l.Load(context.Background(), filepath.Join(t.TempDir(), "absent.stl"), "stl", rec.callbacks())
	rec.wait(t)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.failed) != 1 {
		t.Fatalf("failed count = %d, want 1", len(rec.failed))
	}
	var te *TransportError
	if !errors.As(rec.failed[0], &te) {
		t.Errorf("error = %v (%T), want *TransportError", rec.failed[0], rec.failed[0])
	}
}

func TestFetchHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("remote payload"))
	}))
	defer srv.Close()

	data, err := Fetch(context.Background(), srv.URL+"/part.stl")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != "remote payload" {
		t.Errorf("data = %q", data)
	}
}

func TestFetchHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.URL+"/missing.stl")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v (%T), want *TransportError", err, err)
	}
}
