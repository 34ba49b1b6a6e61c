package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/iburimskiy/gesture-particles/internal/config"
)

// camera projects world points onto the screen through a fixed perspective
// camera looking at the origin down -Z.
type camera struct {
	width, height float64
	viewProj      mgl64.Mat4
	// pointScale turns a world-space point size at unit depth into pixels.
	pointScale float64
}

func newCamera(width, height int) camera {
	w, h := float64(width), float64(height)
	proj := mgl64.Perspective(mgl64.DegToRad(config.FieldOfView), w/h, config.NearPlane, config.FarPlane)
	view := mgl64.LookAtV(
		mgl64.Vec3{0, 0, config.CameraDistance},
		mgl64.Vec3{0, 0, 0},
		mgl64.Vec3{0, 1, 0},
	)
	return camera{
		width:      w,
		height:     h,
		viewProj:   proj.Mul4(view),
		pointScale: h / 2,
	}
}

// transform returns the matrix for a cloud spun by rotation about Y.
func (c camera) transform(rotation float64) mgl64.Mat4 {
	return c.viewProj.Mul4(mgl64.HomogRotate3DY(rotation))
}

// project maps p through mvp to screen pixels. size is the on-screen
// diameter of a point of world size pointSize. ok is false for points
// behind the near plane.
func (c camera) project(mvp mgl64.Mat4, p mgl64.Vec3, pointSize float64) (x, y, size float64, ok bool) {
	clip := mvp.Mul4x1(p.Vec4(1))
	w := clip.W()
	if w <= config.NearPlane {
		return 0, 0, 0, false
	}
	x = (clip.X()/w + 1) / 2 * c.width
	y = (1 - clip.Y()/w) / 2 * c.height
	size = math.Max(1, pointSize*c.pointScale/w)
	return x, y, size, true
}
