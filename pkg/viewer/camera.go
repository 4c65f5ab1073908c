// Package viewer owns the interactive 3-D viewport: the orbit camera,
// the frame loop, render-target lifecycle, and a software raster
// backend that produces snapshot images without a GPU context.
package viewer

import (
	"math"
	"sync"

	"github.com/chazu/partview/pkg/geom"
)

// Camera motion constants. Damping is the per-second retention factor
// of the inertial velocity; orbit speed is radians per dragged pixel.
const (
	orbitSpeed  = 0.008
	zoomSpeed   = 0.1
	damping     = 0.0005
	minDistance = 1.0
	maxDistance = 200.0
	minPitch    = -math.Pi/2 + 0.05
	maxPitch    = math.Pi/2 - 0.05
)

// CameraPose is the exported camera state: where the camera sits and
// what it looks at.
type CameraPose struct {
	Position geom.Vec3
	Target   geom.Vec3
	Yaw      float64
	Pitch    float64
	Distance float64
}

// OrbitCamera is a damped orbit controller around a target point.
// Dragging applies velocity; Step integrates and decays it, giving the
// glide-to-rest feel of standard orbit controls. Methods are safe for
// concurrent use: input arrives from the binding goroutine while the
// frame loop steps and reads the pose.
type OrbitCamera struct {
	mu         sync.Mutex
	yaw, pitch float64
	distance   float64
	target     geom.Vec3

	yawVel, pitchVel float64
}

// NewOrbitCamera returns a camera framing the canonical scene volume
// from a three-quarter view.
func NewOrbitCamera() *OrbitCamera {
	c := &OrbitCamera{}
	c.home()
	return c
}

// home restores the default framing. Callers hold c.mu where needed.
func (c *OrbitCamera) home() {
	c.yaw = math.Pi / 4
	c.pitch = math.Pi / 6
	c.distance = 25
	c.target = geom.Vec3{Y: 3}
	c.yawVel = 0
	c.pitchVel = 0
}

// Drag applies an orbital drag of (dx,dy) pixels as velocity.
func (c *OrbitCamera) Drag(dx, dy float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yawVel += dx * orbitSpeed
	c.pitchVel += dy * orbitSpeed
}

// Zoom moves along the view axis; positive ticks zoom in. The distance
// is clamped so the camera can neither enter the model nor lose it.
func (c *OrbitCamera) Zoom(ticks float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.distance *= math.Pow(1-zoomSpeed, ticks)
	c.distance = math.Max(minDistance, math.Min(maxDistance, c.distance))
}

// Step advances the damped motion by dt seconds.
func (c *OrbitCamera) Step(dt float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yaw += c.yawVel
	c.pitch += c.pitchVel
	c.pitch = math.Max(minPitch, math.Min(maxPitch, c.pitch))

	decay := math.Pow(damping, dt)
	c.yawVel *= decay
	c.pitchVel *= decay
	if math.Abs(c.yawVel) < 1e-5 {
		c.yawVel = 0
	}
	if math.Abs(c.pitchVel) < 1e-5 {
		c.pitchVel = 0
	}
}

// Moving reports whether inertial motion is still in flight.
func (c *OrbitCamera) Moving() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.yawVel != 0 || c.pitchVel != 0
}

// Reset reframes the default view, discarding velocity.
func (c *OrbitCamera) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.home()
}

// Pose returns the current camera pose.
func (c *OrbitCamera) Pose() CameraPose {
	c.mu.Lock()
	defer c.mu.Unlock()
	cosP := math.Cos(c.pitch)
	dir := geom.Vec3{
		X: cosP * math.Sin(c.yaw),
		Y: math.Sin(c.pitch),
		Z: cosP * math.Cos(c.yaw),
	}
	return CameraPose{
		Position: c.target.Add(dir.Scale(c.distance)),
		Target:   c.target,
		Yaw:      c.yaw,
		Pitch:    c.pitch,
		Distance: c.distance,
	}
}
