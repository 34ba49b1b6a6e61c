// Package shape generates the target point clouds the particles morph into.
package shape

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind identifies one of the target geometries.
type Kind int

const (
	Star Kind = iota
	Heart
	Planet
)

// Kinds lists every shape in display order.
var Kinds = []Kind{Star, Heart, Planet}

var ErrUnknownShape = errors.New("unknown shape")

func (k Kind) String() string {
	switch k {
	case Star:
		return "star"
	case Heart:
		return "heart"
	case Planet:
		return "planet"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a shape name (case-insensitive) to its Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(strings.TrimSpace(s), k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, s)
}

// Cloud holds the per-particle targets and explosion directions for one shape.
// Both slices always have the same length.
type Cloud struct {
	Targets    []mgl64.Vec3
	Directions []mgl64.Vec3
}

// Len returns the particle count.
func (c Cloud) Len() int { return len(c.Targets) }

// Generator places particle i of count on a shape.
type Generator interface {
	Target(i, count int, rng *rand.Rand) mgl64.Vec3
}

var generators = map[Kind]Generator{
	Star:   starGenerator{points: 5, innerRadius: 2.0, outerRadius: 5.0, depth: 1.0},
	Heart:  heartGenerator{scale: 0.22, depth: 3.0},
	Planet: planetGenerator{radius: 3.0, ringInner: 5.0, ringWidth: 2.0, ringHeight: 0.3},
}

// GeneratorFor returns the generator registered for k.
func GeneratorFor(k Kind) (Generator, error) {
	g, ok := generators[k]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownShape, k)
	}
	return g, nil
}

const (
	minBurst = 2.0
	maxBurst = 10.0

	originEpsilon = 1e-9
)

// Generate builds a fresh cloud of count particles for k. Previous clouds are
// never reused, so callers may swap the result in as a whole.
func Generate(k Kind, count int, rng *rand.Rand) (Cloud, error) {
	g, err := GeneratorFor(k)
	if err != nil {
		return Cloud{}, err
	}
	if count < 0 {
		count = 0
	}
	c := Cloud{
		Targets:    make([]mgl64.Vec3, count),
		Directions: make([]mgl64.Vec3, count),
	}
	for i := 0; i < count; i++ {
		p := g.Target(i, count, rng)
		c.Targets[i] = p
		c.Directions[i] = Direction(p, minBurst+rng.Float64()*(maxBurst-minBurst))
	}
	return c, nil
}

// Direction returns target normalized and scaled by magnitude. A target at the
// origin has no direction of its own and bursts straight up.
func Direction(target mgl64.Vec3, magnitude float64) mgl64.Vec3 {
	l := target.Len()
	if l < originEpsilon {
		return mgl64.Vec3{0, magnitude, 0}
	}
	return target.Mul(magnitude / l)
}
