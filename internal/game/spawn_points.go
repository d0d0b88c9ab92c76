package game

import (
	"errors"
	"math"
)

// ErrNoSpawnPoint is returned when every sampling attempt fell outside the world.
var ErrNoSpawnPoint = errors.New("no valid spawn point")

// RandSource is the subset of *rand.Rand the samplers need.
type RandSource interface {
	Float64() float64
}

// Camera is the player's view rectangle in world units.
type Camera struct {
	Center Vec2
	ViewW  float64
	ViewH  float64
}

func (c Camera) HalfDiagonal() float64 {
	return math.Hypot(c.ViewW, c.ViewH) / 2
}

// SpawnPointSelector picks enemy points in a ring just outside the camera
// and objective points anywhere inside the world margin.
type SpawnPointSelector struct {
	Bounds Rect
	Params SpawnRingParams
	rng    RandSource
}

func NewSpawnPointSelector(bounds Rect, params SpawnRingParams, rng RandSource) *SpawnPointSelector {
	if !bounds.valid() {
		bounds = WorldRect()
	}
	return &SpawnPointSelector{Bounds: bounds, Params: params, rng: rng}
}

// Ring returns the exclusion radius and the outer sampling radius for cam.
func (s *SpawnPointSelector) Ring(cam Camera) (inner, outer float64) {
	inner = cam.HalfDiagonal() + s.Params.Buffer
	return inner, inner + s.Params.Extra
}

// EnemyPoint samples uniformly by area inside the ring around the camera
// center. Samples outside the world or on the inner edge are rejected.
func (s *SpawnPointSelector) EnemyPoint(cam Camera) (Vec2, error) {
	inner, outer := s.Ring(cam)
	attempts := s.Params.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		theta := s.rng.Float64() * 2 * math.Pi
		u := 1 - s.rng.Float64() // (0,1]
		r := math.Sqrt(inner*inner + u*(outer*outer-inner*inner))
		p := cam.Center.Add(fromAngle(theta, r))
		if p.Dist(cam.Center) <= inner {
			continue
		}
		if !s.Bounds.Contains(p) {
			continue
		}
		return p, nil
	}
	return Vec2{}, ErrNoSpawnPoint
}

// ObjectivePoint samples uniformly inside the world minus the edge margin.
func (s *SpawnPointSelector) ObjectivePoint() Vec2 {
	area := s.Bounds.Inset(s.Params.ObjectiveMargin)
	return Vec2{
		X: area.MinX + s.rng.Float64()*(area.MaxX-area.MinX),
		Y: area.MinY + s.rng.Float64()*(area.MaxY-area.MinY),
	}
}
