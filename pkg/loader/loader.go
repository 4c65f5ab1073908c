// Package loader runs the asynchronous load pipeline: fetch bytes,
// import, measure, compose a scene, and deliver the result through
// callbacks. Every load carries a token and a generation number; a
// completion whose generation is no longer current silently no-ops, so
// a stale load can never clobber a newer one even if it finishes
// later. This is the only ordering guarantee the engine makes, and the
// only one it needs.
package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/chazu/partview/pkg/logging"
	"github.com/chazu/partview/pkg/mesh"
	"github.com/chazu/partview/pkg/obb"
	"github.com/chazu/partview/pkg/scene"
)

// Token identifies one load attempt. Opaque to callers.
type Token string

// Result is a completed 3-D load.
type Result struct {
	Token      Token
	Scene      *scene.Scene
	Dimensions obb.Extents // rounded to 2 decimals, source units
	Fragments  int
}

// Callbacks receive load lifecycle events. Any field may be nil. They
// are invoked from the load goroutine; receivers are responsible for
// their own synchronization.
type Callbacks struct {
	OnLoading func(Token)
	OnReady   func(Result)
	OnError   func(Token, error)
}

// TransportError reports an unreachable source. The underlying error
// is surfaced verbatim; transport failures are never retried
// automatically.
type TransportError struct {
	Source string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Importer is the import dependency of the loader. *importer.Importer
// satisfies it.
type Importer interface {
	Import(ctx context.Context, data []byte, tag string) ([]*mesh.Fragment, error)
}

// Loader issues tokens and runs loads. Safe for concurrent use; a new
// Load supersedes any in-flight one.
type Loader struct {
	mu         sync.Mutex
	generation uint64

	importer Importer
	palette  []mesh.RGB
	client   *http.Client
}

// New returns a Loader importing through im. palette may be nil for
// the default part palette.
func New(im Importer, palette []mesh.RGB) *Loader {
	return &Loader{
		importer: im,
		palette:  palette,
		client:   http.DefaultClient,
	}
}

// Load starts an asynchronous load of the given source (URL or local
// path) with its declared file-type tag, superseding any in-flight
// load. It returns the new load's token immediately.
func (l *Loader) Load(ctx context.Context, source, tag string, cb Callbacks) Token {
	l.mu.Lock()
	l.generation++
	gen := l.generation
	l.mu.Unlock()

	token := Token(uuid.NewString())
	logging.Info("load started", "token", string(token), "source", source, "tag", tag)
	if cb.OnLoading != nil {
		cb.OnLoading(token)
	}

	go l.run(ctx, gen, token, source, tag, cb)
	return token
}

// current reports whether gen is still the newest issued generation.
func (l *Loader) current(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return gen == l.generation
}

func (l *Loader) run(ctx context.Context, gen uint64, token Token, source, tag string, cb Callbacks) {
	fail := func(err error) {
		if !l.current(gen) {
			logging.Debug("stale load error discarded", "token", string(token))
			return
		}
		logging.Warn("load failed", "token", string(token), "err", err)
		if cb.OnError != nil {
			cb.OnError(token, err)
		}
	}

	data, err := l.fetch(ctx, source)
	if err != nil {
		fail(err)
		return
	}

	fragments, err := l.importer.Import(ctx, data, tag)
	if err != nil {
		fail(err)
		return
	}

	// Measurement overlaps scene composition; the OBB pass is the
	// expensive half and must not delay the first frame.
	dims := make(chan obb.Extents, 1)
	go func() { dims <- obb.Measure(fragments).Rounded() }()
	s := scene.Build(fragments, l.palette)
	s.SetDimensions(<-dims)

	// The generation check is the last thing before delivery; nothing
	// after it may block.
	if !l.current(gen) {
		logging.Debug("stale load result discarded", "token", string(token))
		return
	}
	logging.Info("load ready", "token", string(token),
		"fragments", s.FragmentCount(), "dims", s.Dimensions)
	if cb.OnReady != nil {
		cb.OnReady(Result{
			Token:      token,
			Scene:      s,
			Dimensions: s.Dimensions,
			Fragments:  s.FragmentCount(),
		})
	}
}

// fetch retrieves the source bytes through the loader's HTTP client.
func (l *Loader) fetch(ctx context.Context, source string) ([]byte, error) {
	return fetchWith(ctx, l.client, source)
}

// Fetch retrieves source bytes outside a token-carrying load; the 2-D
// drawing path uses it since DXF parsing is synchronous.
func Fetch(ctx context.Context, source string) ([]byte, error) {
	return fetchWith(ctx, http.DefaultClient, source)
}

// fetchWith retrieves the source bytes. URLs go over HTTP; anything
// else is a local path.
func fetchWith(ctx context.Context, client *http.Client, source string) ([]byte, error) {
	if strings.Contains(source, "://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, &TransportError{Source: source, Err: err}
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, &TransportError{Source: source, Err: err}
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, &TransportError{Source: source,
				Err: fmt.Errorf("unexpected status %s", resp.Status)}
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &TransportError{Source: source, Err: err}
		}
		return data, nil
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, &TransportError{Source: source, Err: err}
	}
	return data, nil
}
