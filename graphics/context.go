package graphics

// Key is a navigation key the host reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeySpace
)

// ScrollFunc receives wheel deltas in notches; positive dy scrolls up.
type ScrollFunc func(dx, dy float64)

// ResizeFunc receives the new window size in screen coordinates.
type ResizeFunc func(width, height int)

// KeyFunc receives key presses.
type KeyFunc func(key Key)

// Context defines the interface for an OpenGL context and the window events
// the background reacts to. Every On* method returns a function that removes
// the handler again.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	GetWindowSize() (int, int)
	Time() float64
	IsGLES() bool

	OnScroll(f ScrollFunc) (remove func())
	OnResize(f ResizeFunc) (remove func())
	OnKey(f KeyFunc) (remove func())
}
