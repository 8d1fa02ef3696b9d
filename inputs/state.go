package inputs

import (
	"github.com/richinsley/goterrain/camera"
	"github.com/richinsley/goterrain/scroll"
)

// SetScroll copies a scroll state into the uniforms: progress, and the camera
// pose for the state's camera time.
func (u *Uniforms) SetScroll(s scroll.State) {
	pose := camera.At(s.CameraTime)
	u.ScrollProgress = float32(s.Progress)
	u.CameraOrigin = [2]float32{pose.Origin.X(), pose.Origin.Z()}
	u.CameraTarget = [2]float32{pose.Target.X(), pose.Target.Z()}
	u.CameraRoll = pose.Roll
}

// SetResolution sets iResolution from a framebuffer size.
func (u *Uniforms) SetResolution(width, height int) {
	u.Resolution = [2]float32{float32(width), float32(height)}
}
