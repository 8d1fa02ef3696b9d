// Package camera computes the terrain fly-over camera on the host side.
//
// The horizontal path is evaluated here and handed to the shader as uniforms;
// heights need the terrain noise and are resolved on the GPU.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// WorldScale matches the SC define in the terrain shader.
const WorldScale = 250.0

const (
	pathRadius    = 1100.0
	lookAhead     = 3.0
	rollAmplitude = 0.2
	rollRate      = 0.1
)

// Pose is the camera for one value of the path parameter. Y components are zero
// and filled in by the shader from the low detail terrain.
type Pose struct {
	Time   float32
	Origin mgl32.Vec3
	Target mgl32.Vec3
	Roll   float32
}

// Path is the camera position on the ground plane at time t.
func Path(t float64) mgl32.Vec3 {
	r := WorldScale * pathRadius
	return mgl32.Vec3{
		float32(r * math.Cos(0.23*t)),
		0,
		float32(r * math.Cos(1.5+0.21*t)),
	}
}

// At returns the pose at time t: origin on the path, target a little further
// along it, and a slow roll.
func At(t float64) Pose {
	return Pose{
		Time:   float32(t),
		Origin: Path(t),
		Target: Path(t + lookAhead),
		Roll:   float32(rollAmplitude * math.Cos(rollRate*t)),
	}
}

// Basis builds the look-at rotation (right, up, forward as columns) for a
// camera at ro looking at ta with the given roll.
func Basis(ro, ta mgl32.Vec3, roll float32) mgl32.Mat3 {
	cw := ta.Sub(ro).Normalize()
	s, c := math.Sincos(float64(roll))
	cp := mgl32.Vec3{float32(s), float32(c), 0}
	cu := cw.Cross(cp).Normalize()
	cv := cu.Cross(cw).Normalize()
	return mgl32.Mat3FromCols(cu, cv, cw)
}

// Ray returns the view direction through normalized screen position s
// (aspect-corrected, in [-aspect,aspect]x[-1,1]) for a focal length.
func Ray(basis mgl32.Mat3, s mgl32.Vec2, focal float32) mgl32.Vec3 {
	return basis.Mul3x1(mgl32.Vec3{s[0], s[1], focal}.Normalize())
}
