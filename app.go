package main

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"strings"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/chazu/partview/pkg/brep"
	"github.com/chazu/partview/pkg/brep/occt"
	"github.com/chazu/partview/pkg/config"
	"github.com/chazu/partview/pkg/importer"
	"github.com/chazu/partview/pkg/loader"
	"github.com/chazu/partview/pkg/logging"
	"github.com/chazu/partview/pkg/scene"
	"github.com/chazu/partview/pkg/vector"
	"github.com/chazu/partview/pkg/viewer"
)

// App is the Wails backend. It exposes methods to the frontend via
// bindings and emits load lifecycle events.
type App struct {
	ctx      context.Context
	cfg      config.Config
	viewport *viewer.Viewport
	loader   *loader.Loader

	mu       sync.Mutex
	watcher  *loader.Watcher
	drawing  []vector.Entity
	view     vector.ViewTransform
	drawingW float64
	drawingH float64
}

// DimensionsData is the measured part size sent to the frontend,
// rounded to 2 decimals in the source file's units.
type DimensionsData struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ModelReadyData is the payload of the model:ready event.
type ModelReadyData struct {
	Token      string         `json:"token"`
	Dimensions DimensionsData `json:"dimensions"`
	Fragments  int            `json:"fragments"`
}

// ModelErrorData is the payload of the model:error event. Kind is one
// of: parse-error, unsupported-format, native-format-unsupported,
// kernel-unavailable, transport-error.
type ModelErrorData struct {
	Token   string `json:"token"`
	Kind    string `json:"kind"`
	Format  string `json:"format"`
	Message string `json:"message"`
}

// DrawingReadyData is the payload of the drawing:ready event.
type DrawingReadyData struct {
	Entities int `json:"entities"`
}

// NewApp creates the App with configuration from partview.toml (when
// present) and whatever B-rep kernel this binary was built with.
func NewApp() *App {
	cfg, err := config.Load("partview.toml")
	if err != nil {
		logging.Warn("config rejected, using defaults", "err", err)
	}

	kern, err := occt.New()
	if err != nil {
		// Expected on default builds; STEP loads surface this as a
		// kernel-unavailable condition.
		logging.Info("no brep kernel", "err", err)
		kern = nil
	}

	palette, _ := cfg.PaletteColors()
	return &App{
		cfg:      cfg,
		viewport: viewer.New(cfg.Prefs),
		loader:   loader.New(importer.New(kern), palette),
		view:     vector.NewViewTransform(),
	}
}

// startup is called by Wails on app startup. The context is saved for
// event emission.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// shutdown releases the viewport and stops any file watcher.
func (a *App) shutdown(ctx context.Context) {
	a.mu.Lock()
	if a.watcher != nil {
		a.watcher.Close()
		a.watcher = nil
	}
	a.mu.Unlock()
	a.viewport.Unmount()
}

// emit forwards an event to the frontend when running under Wails.
// Tests construct the App without a runtime context.
func (a *App) emit(event string, payload interface{}) {
	if a.ctx != nil {
		runtime.EventsEmit(a.ctx, event, payload)
	}
}

// LoadModel starts loading a 3-D model from a URL or local path with
// its declared file-type tag, superseding any in-flight load. Returns
// the load token.
func (a *App) LoadModel(source, tag string) string {
	cb := loader.Callbacks{
		OnLoading: func(t loader.Token) {
			a.emit("model:loading", string(t))
		},
		OnReady: func(r loader.Result) {
			a.viewport.SetScene(r.Scene)
			a.emit("model:ready", ModelReadyData{
				Token: string(r.Token),
				Dimensions: DimensionsData{
					X: r.Dimensions.X, Y: r.Dimensions.Y, Z: r.Dimensions.Z,
				},
				Fragments: r.Fragments,
			})
		},
		OnError: func(t loader.Token, err error) {
			a.emit("model:error", classifyError(string(t), err))
		},
	}

	token := a.loader.Load(context.Background(), source, tag, cb)
	a.rewatch(source, tag, cb)
	return string(token)
}

// rewatch replaces the reload-on-change watcher when enabled and the
// source is a local file.
func (a *App) rewatch(source, tag string, cb loader.Callbacks) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.watcher != nil {
		a.watcher.Close()
		a.watcher = nil
	}
	if !a.cfg.WatchFiles || strings.Contains(source, "://") {
		return
	}
	w, err := loader.Watch(context.Background(), a.loader, source, tag, cb)
	if err != nil {
		logging.Warn("watch failed", "path", source, "err", err)
		return
	}
	a.watcher = w
}

// classifyError maps the importer/loader error taxonomy to the
// frontend's event payload.
func classifyError(token string, err error) ModelErrorData {
	data := ModelErrorData{Token: token, Message: err.Error()}

	var formatErr *importer.FormatError
	var unsupported *importer.UnsupportedError
	var native *importer.NativeFormatError
	var transport *loader.TransportError
	switch {
	case errors.As(err, &native):
		data.Kind = "native-format-unsupported"
		data.Format = native.Extension
	case errors.As(err, &unsupported):
		data.Kind = "unsupported-format"
		data.Format = unsupported.Extension
	case errors.Is(err, brep.ErrKernelUnavailable):
		data.Kind = "kernel-unavailable"
		data.Format = "step"
	case errors.As(err, &formatErr):
		data.Kind = "parse-error"
		data.Format = formatErr.Format
	case errors.As(err, &transport):
		data.Kind = "transport-error"
	default:
		data.Kind = "parse-error"
	}
	return data
}

// SetPreferences hot-swaps rendering preferences; no reload needed.
func (a *App) SetPreferences(p scene.Prefs) {
	a.viewport.SetPrefs(p)
}

// MountViewport acquires a render target for the given canvas size.
func (a *App) MountViewport(width, height int) error {
	return a.viewport.Mount(width, height)
}

// UnmountViewport releases the render target.
func (a *App) UnmountViewport() {
	a.viewport.Unmount()
}

// ResizeViewport re-derives the projection for a new canvas size.
func (a *App) ResizeViewport(width, height int) {
	a.viewport.Resize(width, height)
}

// OrbitCamera applies a drag delta in pixels.
func (a *App) OrbitCamera(dx, dy float64) {
	a.viewport.Camera().Drag(dx, dy)
}

// ZoomCamera applies zoom ticks (positive = in).
func (a *App) ZoomCamera(ticks float64) {
	a.viewport.Camera().Zoom(ticks)
}

// SetSectionEnabled toggles section view. Disabling resets the clip
// sliders and single-sided rendering.
func (a *App) SetSectionEnabled(enabled bool) {
	a.viewport.Section().SetEnabled(enabled)
}

// SetClip positions one axis clip slider (0 = fully cut, 1 = open).
func (a *App) SetClip(axis int, value float64) {
	a.viewport.Section().SetSlider(scene.Axis(axis), value)
}

// ClipState returns section enablement plus the three slider values.
type ClipState struct {
	Enabled bool       `json:"enabled"`
	Sliders [3]float64 `json:"sliders"`
}

// GetClipState reports the current section state.
func (a *App) GetClipState() ClipState {
	s := a.viewport.Section()
	return ClipState{Enabled: s.Enabled(), Sliders: s.Sliders()}
}

// Snapshot renders the current scene to PNG bytes for thumbnails.
func (a *App) Snapshot(width, height int) ([]byte, error) {
	img := a.viewport.Snapshot(width, height)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadDrawing loads and parses a 2-D cut drawing. Synchronous: DXF
// parse cost is negligible next to mesh imports.
func (a *App) LoadDrawing(source string) {
	data, err := loader.Fetch(context.Background(), source)
	if err == nil {
		var entities []vector.Entity
		entities, err = vector.ParseDXF(data)
		if err == nil {
			a.mu.Lock()
			a.drawing = entities
			a.view = vector.NewViewTransform()
			a.mu.Unlock()
			a.emit("drawing:ready", DrawingReadyData{Entities: len(entities)})
			return
		}
	}
	a.emit("drawing:error", err.Error())
}

// FitDrawing centers the drawing in a w×h canvas with fixed padding.
func (a *App) FitDrawing(w, h float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.drawingW, a.drawingH = w, h
	a.view = vector.Fit(vector.BoundsOf(a.drawing), w, h)
}

// PanDrawing shifts the view 1:1 with a pixel drag.
func (a *App) PanDrawing(dx, dy float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.view.Pan(dx, dy)
}

// ZoomDrawing zooms by factor anchored at the pointer pixel.
func (a *App) ZoomDrawing(px, py, factor float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.view.ZoomAt(px, py, factor)
}

// RenderDrawing rasterizes the drawing at the current view into PNG
// bytes.
func (a *App) RenderDrawing(w, h int) ([]byte, error) {
	a.mu.Lock()
	entities, view := a.drawing, a.view
	a.mu.Unlock()

	img := vector.Render(entities, view, w, h, vector.DefaultStyle())
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportDrawingSVG exports the drawing at the current view as SVG.
func (a *App) ExportDrawingSVG() string {
	a.mu.Lock()
	entities, view := a.drawing, a.view
	w, h := a.drawingW, a.drawingH
	a.mu.Unlock()
	if w <= 0 || h <= 0 {
		w, h = 800, 600
	}

	var buf bytes.Buffer
	vector.WriteSVG(&buf, entities, view, w, h, vector.DefaultStyle())
	return buf.String()
}

// HitTestDrawing returns the index of the entity within tol pixels of
// the pointer, or -1.
func (a *App) HitTestDrawing(px, py, tol float64) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return vector.HitTest(a.drawing, a.view, px, py, tol)
}
