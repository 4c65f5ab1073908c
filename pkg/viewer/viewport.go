package viewer

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/chazu/partview/pkg/logging"
	"github.com/chazu/partview/pkg/scene"
)

// frameInterval is the cooperative frame tick of the viewport loop.
const frameInterval = time.Second / 60

// RenderTarget is the exclusively-owned drawing surface. It must be
// released before a new one is acquired: the viewport enforces the
// release-then-reacquire discipline that keeps context handles from
// leaking across file changes and unmounts.
type RenderTarget struct {
	Width, Height int
	released      bool
}

// Release marks the target released. Double release is tolerated.
func (t *RenderTarget) Release() {
	t.released = true
}

// Viewport composes the current scene with camera and section state
// and owns the frame loop. All methods are safe for concurrent use;
// the wails bindings and the frame ticker call in from different
// goroutines.
type Viewport struct {
	mu      sync.Mutex
	camera  *OrbitCamera
	section *scene.SectionState
	scn     *scene.Scene
	prefs   scene.Prefs
	target  *RenderTarget

	running bool
	stop    context.CancelFunc
	onFrame func(*image.RGBA)
}

// New returns a viewport with default preferences and no scene.
func New(prefs scene.Prefs) *Viewport {
	return &Viewport{
		camera:  NewOrbitCamera(),
		section: scene.NewSectionState(),
		prefs:   prefs,
	}
}

// Mount acquires a render target for a container of the given pixel
// size. Mounting while already mounted is a programming error.
func (v *Viewport) Mount(width, height int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.target != nil && !v.target.released {
		return fmt.Errorf("viewport: mount before releasing previous target")
	}
	v.target = &RenderTarget{Width: width, Height: height}
	logging.Debug("render target acquired", "w", width, "h", height)
	return nil
}

// Unmount stops the loop and releases the render target.
func (v *Viewport) Unmount() {
	v.StopLoop()
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.target != nil {
		v.target.Release()
		logging.Debug("render target released")
	}
}

// Resize re-derives the projection for a new container size. This must
// run on every container size change, not just on load, or the
// projection goes stale.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.target == nil || v.target.released {
		return
	}
	v.target.Width = width
	v.target.Height = height
}

// SetScene swaps in a freshly built scene. Section state resets to
// Open and the camera reframes, matching new-file semantics.
func (v *Viewport) SetScene(s *scene.Scene) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scn = s
	v.section.Reset()
	v.camera.Reset()
}

// Scene returns the currently displayed scene, or nil.
func (v *Viewport) Scene() *scene.Scene {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scn
}

// SetPrefs hot-swaps the rendering preferences without a reload.
func (v *Viewport) SetPrefs(p scene.Prefs) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.prefs = p
}

// Prefs returns the active preferences.
func (v *Viewport) Prefs() scene.Prefs {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.prefs
}

// Section exposes the clipping controller.
func (v *Viewport) Section() *scene.SectionState {
	return v.section
}

// Camera exposes the orbit controller for input routing.
func (v *Viewport) Camera() *OrbitCamera {
	return v.camera
}

// StartLoop runs the frame loop until ctx is cancelled or StopLoop is
// called. Each tick advances camera damping; when a frame callback is
// registered, a snapshot is rendered and delivered.
func (v *Viewport) StartLoop(ctx context.Context, onFrame func(*image.RGBA)) {
	v.mu.Lock()
	if v.running {
		v.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	v.running = true
	v.stop = cancel
	v.onFrame = onFrame
	v.mu.Unlock()

	go func() {
		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()
		last := time.Now()
		for {
			select {
			case <-ctx.Done():
				v.mu.Lock()
				v.running = false
				v.mu.Unlock()
				return
			case now := <-ticker.C:
				dt := now.Sub(last).Seconds()
				last = now
				v.camera.Step(dt)
				v.mu.Lock()
				cb := v.onFrame
				v.mu.Unlock()
				if cb != nil {
					cb(v.Snapshot(0, 0))
				}
			}
		}
	}()
}

// StopLoop halts the frame loop if running.
func (v *Viewport) StopLoop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.stop != nil {
		v.stop()
		v.stop = nil
	}
}

// Snapshot renders the current scene to an image. Zero dimensions use
// the mounted target size, falling back to a default thumbnail size
// when unmounted.
func (v *Viewport) Snapshot(width, height int) *image.RGBA {
	v.mu.Lock()
	s := v.scn
	prefs := v.prefs
	if width <= 0 || height <= 0 {
		if v.target != nil && !v.target.released {
			width, height = v.target.Width, v.target.Height
		} else {
			width, height = 640, 480
		}
	}
	v.mu.Unlock()
	return renderSnapshot(s, v.section, v.camera.Pose(), prefs, width, height)
}
