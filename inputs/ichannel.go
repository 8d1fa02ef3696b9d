package inputs

// Uniforms is the per-frame input record of the background program.
type Uniforms struct {
	Resolution [2]float32
	// Time is only animated for variants that read it; the terrain keeps it at 0.
	Time float32
	// Mouse is always zero; the pointer does not steer the camera.
	Mouse [4]float32
	Frame int32
	// ScrollProgress is always within [0,1].
	ScrollProgress float32
	CameraOrigin   [2]float32
	CameraTarget   [2]float32
	CameraRoll     float32
}

// IChannel defines the contract for a texture bound to one of the iChannelN
// samplers.
type IChannel interface {
	// Update is called once per frame, passing in the global uniforms.
	Update(uniforms *Uniforms)

	// GetTextureID returns the OpenGL texture ID that should be bound.
	GetTextureID() uint32

	// Destroy releases any resources held by the channel.
	Destroy()
}
