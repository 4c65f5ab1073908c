package scene

import (
	"sync"

	"github.com/chazu/partview/pkg/geom"
)

// Axis selects one of the three principal clipping axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// sliderOpen is the slider value meaning "fully open", no visible cut.
const sliderOpen = 1.0

// SectionState is the two-state clipping controller. Open renders
// opaque and single-sided with no planes; Sectioned activates up to
// three axis-aligned clipping planes and double-sided materials so cut
// interiors stay visible. Disabling section view resets the sliders,
// preventing a stale partial cut from persisting invisibly into the
// next Open view. Methods are safe for concurrent use: the binding
// goroutine mutates state while the frame loop reads plane offsets.
type SectionState struct {
	mu      sync.Mutex
	enabled bool
	sliders [3]float64 // [0,1] per axis, 1 = fully open
}

// NewSectionState returns the controller in the Open state.
func NewSectionState() *SectionState {
	s := &SectionState{}
	s.reset()
	return s
}

// Reset returns to Open with all sliders fully open.
func (s *SectionState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *SectionState) reset() {
	s.enabled = false
	s.sliders = [3]float64{sliderOpen, sliderOpen, sliderOpen}
}

// SetEnabled toggles between Open and Sectioned. Leaving Sectioned
// resets all sliders.
func (s *SectionState) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enabled && !enabled {
		s.reset()
		return
	}
	s.enabled = enabled
}

// Enabled reports whether section view is active.
func (s *SectionState) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// DoubleSided reports whether materials must render both faces; cut
// interiors are only visible double-sided.
func (s *SectionState) DoubleSided() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// SetSlider positions one axis slider, clamped to [0,1]. No-op while
// Open.
func (s *SectionState) SetSlider(axis Axis, v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	s.sliders[axis] = v
}

// Slider returns the current value of one axis slider.
func (s *SectionState) Slider(axis Axis) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sliders[axis]
}

// Sliders returns all three slider values in axis order.
func (s *SectionState) Sliders() [3]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sliders
}

// PlaneOffsets maps the sliders to clipping-plane offsets for a scene:
// slider s on an axis of normalized extent e gives (s − 0.5) × e. The
// extent argument is the scene's normalized bounding size (native size
// × pose scale), so offsets track the canonical scale.
func (s *SectionState) PlaneOffsets(extent geom.Vec3) [3]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return [3]float64{
		(s.sliders[AxisX] - 0.5) * extent.X,
		(s.sliders[AxisY] - 0.5) * extent.Y,
		(s.sliders[AxisZ] - 0.5) * extent.Z,
	}
}
