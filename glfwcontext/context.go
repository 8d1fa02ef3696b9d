package glfwcontext

import (
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goterrain/graphics"
	options "github.com/richinsley/goterrain/options"
)

// registry holds removable handlers keyed by insertion id.
type registry[F any] struct {
	next int
	fns  map[int]F
}

func (r *registry[F]) add(f F) func() {
	if r.fns == nil {
		r.fns = make(map[int]F)
	}
	id := r.next
	r.next++
	r.fns[id] = f
	return func() { delete(r.fns, id) }
}

// Context is a GLFW window with an OpenGL 4.1 core context.
type Context struct {
	window *glfw.Window
	gles   bool

	scroll registry[graphics.ScrollFunc]
	resize registry[graphics.ResizeFunc]
	keys   registry[graphics.KeyFunc]
}

var _ graphics.Context = (*Context)(nil)

// New creates a window sized from opts. An invisible window is used for
// offscreen recording.
func New(opts *options.ViewerOptions, visible bool) (*Context, error) {
	gles := opts.GLES != nil && *opts.GLES
	if gles {
		glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLESAPI)
		glfw.WindowHint(glfw.ContextVersionMajor, 3)
		glfw.WindowHint(glfw.ContextVersionMinor, 0)
	} else {
		glfw.WindowHint(glfw.ContextVersionMajor, 4)
		glfw.WindowHint(glfw.ContextVersionMinor, 1)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	}

	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(*opts.Width, *opts.Height, "goterrain", nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{window: win, gles: gles}
	win.SetScrollCallback(c.glfwScrollCallback)
	win.SetSizeCallback(c.glfwSizeCallback)
	win.SetKeyCallback(c.glfwKeyCallback)
	return c, nil
}

func (c *Context) OnScroll(f graphics.ScrollFunc) func() { return c.scroll.add(f) }
func (c *Context) OnResize(f graphics.ResizeFunc) func() { return c.resize.add(f) }
func (c *Context) OnKey(f graphics.KeyFunc) func()       { return c.keys.add(f) }

// Listeners is the number of handlers still attached.
func (c *Context) Listeners() int {
	return len(c.scroll.fns) + len(c.resize.fns) + len(c.keys.fns)
}

func (c *Context) glfwScrollCallback(w *glfw.Window, xoff, yoff float64) {
	for _, f := range c.scroll.fns {
		f(xoff, yoff)
	}
}

func (c *Context) glfwSizeCallback(w *glfw.Window, width, height int) {
	for _, f := range c.resize.fns {
		f(width, height)
	}
}

var keyMap = map[glfw.Key]graphics.Key{
	glfw.KeyUp:       graphics.KeyUp,
	glfw.KeyDown:     graphics.KeyDown,
	glfw.KeyPageUp:   graphics.KeyPageUp,
	glfw.KeyPageDown: graphics.KeyPageDown,
	glfw.KeyHome:     graphics.KeyHome,
	glfw.KeyEnd:      graphics.KeyEnd,
	glfw.KeySpace:    graphics.KeySpace,
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
		return
	}
	if action != glfw.Press && action != glfw.Repeat {
		return
	}
	k, ok := keyMap[key]
	if !ok {
		return
	}
	for _, f := range c.keys.fns {
		f(k)
	}
}

// IsGLES reports whether an OpenGL ES context was requested with -gles.
func (c *Context) IsGLES() bool {
	return c.gles
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown detaches the GLFW callbacks and destroys the window.
func (c *Context) Shutdown() {
	if n := c.Listeners(); n > 0 {
		log.Printf("Warning: destroying window with %d handlers still attached", n)
	}
	c.window.SetScrollCallback(nil)
	c.window.SetSizeCallback(nil)
	c.window.SetKeyCallback(nil)
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) GetWindowSize() (int, int) {
	return c.window.GetSize()
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// SetTitle shows the current choreography phase in the title bar.
func (c *Context) SetTitle(title string) {
	c.window.SetTitle(title)
}

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}
