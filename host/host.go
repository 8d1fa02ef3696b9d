// Package host runs the background: it turns window events into scroll
// samples, renders one frame per display refresh and keeps the overlays in
// step with the scroll state.
//
// Two clocks drive it. Scroll and key events arrive whenever the window system
// delivers them and are throttled by the scroll controller; the frame loop
// reads whatever state was last committed, flushing a deferred sample first.
package host

import (
	"context"
	"fmt"
	"log"

	css "github.com/mazznoer/csscolorparser"
	"github.com/richinsley/goterrain/graphics"
	inputs "github.com/richinsley/goterrain/inputs"
	"github.com/richinsley/goterrain/overlay"
	"github.com/richinsley/goterrain/scroll"
)

// FrameRenderer draws the background for one set of uniforms.
type FrameRenderer interface {
	Render(u *inputs.Uniforms)
	Resize(width, height int)
	Close()
}

type titler interface {
	SetTitle(title string)
}

// Options configures a Host.
type Options struct {
	// WheelStep is the scroll distance of one wheel notch in pixels.
	WheelStep float64
	// AnimateTime feeds the frame clock into iTime.
	AnimateTime bool
	// Background is the color behind the shader surface.
	Background css.Color
	// Sink receives overlay style writes. Nil uses a StyleLog.
	Sink overlay.Sink
	// Title is the window title prefix; the current phase is appended.
	Title string
}

// pageStep is the fraction of a viewport moved by PageUp/PageDown/Space.
const pageStep = 0.9

type Host struct {
	context    graphics.Context
	renderer   FrameRenderer
	controller *scroll.Controller
	opts       Options
	applier    *overlay.Applier
	uniforms   inputs.Uniforms
	removers   []func()

	fbWidth   int
	fbHeight  int
	frame     int32
	startTime float64
	lastPhase scroll.Phase
	closed    bool
}

// New attaches a host to ctx. The host owns r from here on and closes it in
// Close; ctx stays owned by the caller.
func New(ctx graphics.Context, r FrameRenderer, controller *scroll.Controller, opts Options) (*Host, error) {
	if ctx == nil {
		return nil, fmt.Errorf("host: nil graphics context")
	}
	if r == nil {
		return nil, fmt.Errorf("host: nil renderer")
	}
	if controller == nil {
		return nil, fmt.Errorf("host: nil scroll controller")
	}
	if opts.WheelStep <= 0 {
		return nil, fmt.Errorf("host: wheel step must be positive, got %v", opts.WheelStep)
	}
	if opts.Sink == nil {
		opts.Sink = &StyleLog{}
	}
	if opts.Title == "" {
		opts.Title = "goterrain"
	}

	h := &Host{
		context:    ctx,
		renderer:   r,
		controller: controller,
		opts:       opts,
		applier:    overlay.NewApplier(opts.Sink),
		startTime:  ctx.Time(),
		lastPhase:  -1,
	}
	h.removers = append(h.removers,
		ctx.OnScroll(h.onScroll),
		ctx.OnResize(h.onResize),
		ctx.OnKey(h.onKey),
	)

	w, ht := ctx.GetWindowSize()
	controller.OnResize(scroll.Viewport{Width: float64(w), Height: float64(ht)})
	h.syncFramebuffer()
	return h, nil
}

func (h *Host) onScroll(dx, dy float64) {
	h.controller.ScrollBy(-dy * h.opts.WheelStep)
}

func (h *Host) onResize(width, height int) {
	h.controller.OnResize(scroll.Viewport{Width: float64(width), Height: float64(height)})
	h.syncFramebuffer()
}

func (h *Host) onKey(key graphics.Key) {
	page := h.controller.Viewport().Height * pageStep
	switch key {
	case graphics.KeyUp:
		h.controller.ScrollBy(-h.opts.WheelStep)
	case graphics.KeyDown:
		h.controller.ScrollBy(h.opts.WheelStep)
	case graphics.KeyPageUp:
		h.controller.ScrollBy(-page)
	case graphics.KeyPageDown, graphics.KeySpace:
		h.controller.ScrollBy(page)
	case graphics.KeyHome:
		h.controller.ScrollTo(0)
	case graphics.KeyEnd:
		h.controller.ScrollTo(h.controller.MaxOffset())
	}
}

// syncFramebuffer picks up a framebuffer size change. The framebuffer can
// change without a window resize, e.g. when moving to a display with a
// different scale.
func (h *Host) syncFramebuffer() {
	w, ht := h.context.GetFramebufferSize()
	if w == h.fbWidth && ht == h.fbHeight {
		return
	}
	h.fbWidth, h.fbHeight = w, ht
	h.renderer.Resize(w, ht)
	h.uniforms.SetResolution(w, ht)
}

// Uniforms is the record passed to the last rendered frame.
func (h *Host) Uniforms() inputs.Uniforms {
	return h.uniforms
}

// Frame renders one frame and presents it.
func (h *Host) Frame() {
	h.controller.Flush()
	state := h.controller.Current()
	h.syncFramebuffer()

	h.uniforms.SetScroll(state)
	if h.opts.AnimateTime {
		h.uniforms.Time = float32(h.context.Time() - h.startTime)
	}
	h.uniforms.Frame = h.frame
	h.renderer.Render(&h.uniforms)
	h.frame++

	h.applier.Apply(overlay.Styles(state, h.opts.Background))
	if state.Phase != h.lastPhase {
		log.Printf("Scroll phase %s at progress %.3f", state.Phase, state.Progress)
		if t, ok := h.context.(titler); ok {
			t.SetTitle(fmt.Sprintf("%s - %s", h.opts.Title, state.Phase))
		}
		h.lastPhase = state.Phase
	}

	h.context.EndFrame()
}

// Run renders frames until the window is closed or ctx is cancelled.
func (h *Host) Run(ctx context.Context) error {
	for !h.context.ShouldClose() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		h.Frame()
	}
	return nil
}

// Close detaches every event handler and releases the renderer. It is safe to
// call more than once.
func (h *Host) Close() {
	if h.closed {
		return
	}
	h.closed = true
	for i := len(h.removers) - 1; i >= 0; i-- {
		h.removers[i]()
	}
	h.removers = nil
	h.renderer.Close()
	log.Printf("Host closed after %d frames", h.frame)
}

// StyleLog is an overlay sink for a window without a document: it keeps the
// latest style of each element and logs video playback changes.
type StyleLog struct {
	styles  [overlay.Navbar + 1]overlay.Declarations
	playing bool
}

func (s *StyleLog) SetStyle(e overlay.Element, d overlay.Declarations) {
	if int(e) < len(s.styles) {
		s.styles[e] = d
	}
}

func (s *StyleLog) SetPlaying(e overlay.Element, playing bool) {
	s.playing = playing
	if playing {
		log.Printf("%s: playing", e)
	} else {
		log.Printf("%s: paused", e)
	}
}

// Style is the latest style written for e.
func (s *StyleLog) Style(e overlay.Element) overlay.Declarations {
	if int(e) < len(s.styles) {
		return s.styles[e]
	}
	return nil
}

func (s *StyleLog) Playing() bool {
	return s.playing
}
