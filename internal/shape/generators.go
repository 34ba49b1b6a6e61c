package shape

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// starGenerator walks the outline once, alternating between the outer
// radius at the tips and the inner radius between them.
type starGenerator struct {
	points      int
	innerRadius float64
	outerRadius float64
	depth       float64
}

func (s starGenerator) Target(i, count int, rng *rand.Rand) mgl64.Vec3 {
	angle := float64(i) / float64(count) * 2 * math.Pi
	r := s.Radius(angle)
	return mgl64.Vec3{
		r * math.Cos(angle-math.Pi/2),
		r * math.Sin(angle-math.Pi/2),
		(rng.Float64() - 0.5) * s.depth,
	}
}

// Radius returns the outline radius at angle: outer at every tip (angle 0 and
// each 2π/points after it), inner halfway between tips. Target measures angle
// from -Y, so the tip at angle 0 points down and the star stands on it.
func (s starGenerator) Radius(angle float64) float64 {
	section := angle * float64(s.points) / (2 * math.Pi)
	_, frac := math.Modf(section)
	t := 1 - math.Abs(frac-0.5)*2
	return s.outerRadius*(1-t) + s.innerRadius*t
}

// heartGenerator samples the classic parametric heart at random parameters,
// so density is uneven along the curve.
type heartGenerator struct {
	scale float64
	depth float64
}

func (h heartGenerator) Target(_, _ int, rng *rand.Rand) mgl64.Vec3 {
	t := rng.Float64() * 2 * math.Pi
	x, y := h.Curve(t)
	return mgl64.Vec3{x, y, (rng.Float64() - 0.5) * h.depth}
}

// Curve evaluates the heart outline at parameter t.
func (h heartGenerator) Curve(t float64) (x, y float64) {
	sin := math.Sin(t)
	x = h.scale * 16 * sin * sin * sin
	y = h.scale * (13*math.Cos(t) - 5*math.Cos(2*t) - 2*math.Cos(3*t) - math.Cos(4*t))
	return x, y
}

// planetGenerator puts the first 60% of particles on a sphere using a
// spiral distribution and scatters the rest over a flat ring.
type planetGenerator struct {
	radius     float64
	ringInner  float64
	ringWidth  float64
	ringHeight float64
}

// SphereCount is the number of leading particles that land on the sphere.
func SphereCount(count int) int {
	return count * 3 / 5
}

func (p planetGenerator) Target(i, count int, rng *rand.Rand) mgl64.Vec3 {
	if i < SphereCount(count) {
		n := float64(count) * 0.6
		phi := math.Acos(-1 + 2*float64(i)/n)
		theta := math.Sqrt(n*math.Pi) * phi
		return mgl64.Vec3{
			p.radius * math.Cos(theta) * math.Sin(phi),
			p.radius * math.Sin(theta) * math.Sin(phi),
			p.radius * math.Cos(phi),
		}
	}
	r := p.ringInner + rng.Float64()*p.ringWidth
	a := rng.Float64() * 2 * math.Pi
	return mgl64.Vec3{
		math.Cos(a) * r,
		(rng.Float64() - 0.5) * p.ringHeight,
		math.Sin(a) * r,
	}
}
