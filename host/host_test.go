package host

import (
	"context"
	"errors"
	"testing"
	"time"

	css "github.com/mazznoer/csscolorparser"
	"github.com/richinsley/goterrain/graphics"
	inputs "github.com/richinsley/goterrain/inputs"
	"github.com/richinsley/goterrain/overlay"
	"github.com/richinsley/goterrain/scroll"
)

// fakeContext delivers queued events during EndFrame, like glfw.PollEvents.
type fakeContext struct {
	winW, winH int
	fbW, fbH   int
	now        float64
	frames     int
	maxFrames  int
	title      string
	// cursor is where the pointer sits over the window.
	cursor [4]float32

	scrolls map[int]graphics.ScrollFunc
	resizes map[int]graphics.ResizeFunc
	keys    map[int]graphics.KeyFunc
	nextID  int
	events  []func()
}

func newFakeContext(w, h int) *fakeContext {
	return &fakeContext{
		winW: w, winH: h, fbW: w, fbH: h,
		maxFrames: 1000,
		scrolls:   map[int]graphics.ScrollFunc{},
		resizes:   map[int]graphics.ResizeFunc{},
		keys:      map[int]graphics.KeyFunc{},
	}
}

func (f *fakeContext) MakeCurrent()                   {}
func (f *fakeContext) Shutdown()                      {}
func (f *fakeContext) ShouldClose() bool              { return f.frames >= f.maxFrames }
func (f *fakeContext) GetFramebufferSize() (int, int) { return f.fbW, f.fbH }
func (f *fakeContext) GetWindowSize() (int, int)      { return f.winW, f.winH }
func (f *fakeContext) Time() float64                  { return f.now }
func (f *fakeContext) GetMouseInput() [4]float32      { return f.cursor }
func (f *fakeContext) IsGLES() bool                   { return false }
func (f *fakeContext) SetTitle(title string)          { f.title = title }

func (f *fakeContext) EndFrame() {
	f.frames++
	f.now += 1.0 / 60
	events := f.events
	f.events = nil
	for _, e := range events {
		e()
	}
}

func (f *fakeContext) OnScroll(fn graphics.ScrollFunc) func() {
	id := f.nextID
	f.nextID++
	f.scrolls[id] = fn
	return func() { delete(f.scrolls, id) }
}

func (f *fakeContext) OnResize(fn graphics.ResizeFunc) func() {
	id := f.nextID
	f.nextID++
	f.resizes[id] = fn
	return func() { delete(f.resizes, id) }
}

func (f *fakeContext) OnKey(fn graphics.KeyFunc) func() {
	id := f.nextID
	f.nextID++
	f.keys[id] = fn
	return func() { delete(f.keys, id) }
}

func (f *fakeContext) listeners() int {
	return len(f.scrolls) + len(f.resizes) + len(f.keys)
}

func (f *fakeContext) wheel(dy float64) {
	f.events = append(f.events, func() {
		for _, fn := range f.scrolls {
			fn(0, dy)
		}
	})
}

func (f *fakeContext) resize(w, h int, scale int) {
	f.events = append(f.events, func() {
		f.winW, f.winH = w, h
		f.fbW, f.fbH = w*scale, h*scale
		for _, fn := range f.resizes {
			fn(w, h)
		}
	})
}

func (f *fakeContext) key(k graphics.Key) {
	f.events = append(f.events, func() {
		for _, fn := range f.keys {
			fn(k)
		}
	})
}

type fakeRenderer struct {
	frames []inputs.Uniforms
	sizes  [][2]int
	closed int
}

func (r *fakeRenderer) Render(u *inputs.Uniforms) { r.frames = append(r.frames, *u) }
func (r *fakeRenderer) Resize(w, h int)           { r.sizes = append(r.sizes, [2]int{w, h}) }
func (r *fakeRenderer) Close()                    { r.closed++ }

func (r *fakeRenderer) last() inputs.Uniforms { return r.frames[len(r.frames)-1] }

// unthrottled returns a controller whose throttle admits every sample.
func unthrottled(pages float64) *scroll.Controller {
	return scroll.NewController(scroll.Viewport{}, pages, scroll.NewThrottle(0))
}

func newTestHost(t *testing.T, fc *fakeContext, r *fakeRenderer, c *scroll.Controller, opts Options) *Host {
	t.Helper()
	if opts.WheelStep == 0 {
		opts.WheelStep = 100
	}
	h, err := New(fc, r, c, opts)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestNewValidates(t *testing.T) {
	fc := newFakeContext(800, 600)
	r := &fakeRenderer{}
	c := unthrottled(5)
	if _, err := New(nil, r, c, Options{WheelStep: 1}); err == nil {
		t.Error("nil context should fail")
	}
	if _, err := New(fc, nil, c, Options{WheelStep: 1}); err == nil {
		t.Error("nil renderer should fail")
	}
	if _, err := New(fc, r, c, Options{}); err == nil {
		t.Error("zero wheel step should fail")
	}
	if fc.listeners() != 0 {
		t.Errorf("failed New should not attach handlers, got %d", fc.listeners())
	}
}

func TestInitialFrame(t *testing.T) {
	fc := newFakeContext(800, 600)
	r := &fakeRenderer{}
	c := unthrottled(5)
	h := newTestHost(t, fc, r, c, Options{})
	defer h.Close()

	if c.Viewport().Height != 600 {
		t.Errorf("viewport: expected height 600, got %v", c.Viewport().Height)
	}
	h.Frame()
	u := r.last()
	if u.Resolution != [2]float32{800, 600} {
		t.Errorf("resolution: expected [800 600], got %v", u.Resolution)
	}
	if u.ScrollProgress != 0 {
		t.Errorf("progress: expected 0, got %v", u.ScrollProgress)
	}
	if u.Time != 0 {
		t.Errorf("time: expected 0, got %v", u.Time)
	}
	if fc.title != "goterrain - HERO_FULL" {
		t.Errorf("title: expected %q, got %q", "goterrain - HERO_FULL", fc.title)
	}
}

func TestWheelScrollsDown(t *testing.T) {
	fc := newFakeContext(800, 600)
	r := &fakeRenderer{}
	c := unthrottled(5)
	h := newTestHost(t, fc, r, c, Options{WheelStep: 120})
	defer h.Close()

	h.Frame()
	fc.wheel(-1)
	h.Frame() // delivers the wheel event during EndFrame
	if c.Offset() != 120 {
		t.Errorf("offset: expected 120, got %v", c.Offset())
	}
	if got := r.last().ScrollProgress; got != 0 {
		t.Errorf("progress of the frame drawn before the event: expected 0, got %v", got)
	}
	h.Frame()
	// 120 / (3000 - 600)
	want := float32(0.05)
	if got := r.last().ScrollProgress; got != want {
		t.Errorf("progress: expected %v, got %v", want, got)
	}

	fc.wheel(5)
	h.Frame()
	h.Frame()
	if c.Offset() != 0 {
		t.Errorf("offset should clamp at the top, got %v", c.Offset())
	}
	if got := r.last().ScrollProgress; got != 0 {
		t.Errorf("progress after scrolling back: expected 0, got %v", got)
	}
}

func TestKeys(t *testing.T) {
	fc := newFakeContext(800, 600)
	r := &fakeRenderer{}
	c := unthrottled(5)
	h := newTestHost(t, fc, r, c, Options{WheelStep: 50})
	defer h.Close()

	tests := []struct {
		key  graphics.Key
		want float64
	}{
		{graphics.KeyDown, 50},
		{graphics.KeyPageDown, 50 + 540},
		{graphics.KeyUp, 540},
		{graphics.KeyEnd, 2400},
		{graphics.KeySpace, 2400},
		{graphics.KeyPageUp, 2400 - 540},
		{graphics.KeyHome, 0},
	}
	for _, tt := range tests {
		fc.key(tt.key)
		h.Frame()
		h.Frame()
		if c.Offset() != tt.want {
			t.Errorf("after key %d: expected offset %v, got %v", tt.key, tt.want, c.Offset())
		}
	}
}

func TestResizeBeforeNextRender(t *testing.T) {
	fc := newFakeContext(800, 600)
	r := &fakeRenderer{}
	c := unthrottled(5)
	h := newTestHost(t, fc, r, c, Options{})
	defer h.Close()

	h.Frame()
	fc.resize(1000, 500, 2)
	h.Frame() // delivers the resize during EndFrame
	h.Frame()

	if got := r.last().Resolution; got != [2]float32{2000, 1000} {
		t.Errorf("resolution: expected [2000 1000], got %v", got)
	}
	if got := r.sizes[len(r.sizes)-1]; got != [2]int{2000, 1000} {
		t.Errorf("renderer size: expected [2000 1000], got %v", got)
	}
	if c.Viewport().Height != 500 {
		t.Errorf("viewport height: expected 500, got %v", c.Viewport().Height)
	}
}

func TestFramebufferChangeWithoutResize(t *testing.T) {
	fc := newFakeContext(800, 600)
	r := &fakeRenderer{}
	h := newTestHost(t, fc, r, unthrottled(5), Options{})
	defer h.Close()

	h.Frame()
	fc.fbW, fc.fbH = 1600, 1200
	h.Frame()
	if got := r.last().Resolution; got != [2]float32{1600, 1200} {
		t.Errorf("resolution: expected [1600 1200], got %v", got)
	}
	if len(r.sizes) != 2 {
		t.Errorf("expected 2 resizes, got %d", len(r.sizes))
	}
}

func TestThrottledSampleIsFlushed(t *testing.T) {
	fc := newFakeContext(800, 600)
	r := &fakeRenderer{}
	now := time.Unix(0, 0)
	th := &scroll.Throttle{Interval: 32 * time.Millisecond, Now: func() time.Time { return now }}
	c := scroll.NewController(scroll.Viewport{}, 5, th)
	h := newTestHost(t, fc, r, c, Options{WheelStep: 240})
	defer h.Close()

	// The first sample is admitted, the second lands inside the window.
	fc.wheel(-1)
	fc.wheel(-1)
	h.Frame()
	h.Frame()
	if !c.Pending() {
		t.Fatal("sample inside the throttle window should be pending")
	}
	if want := float32(0.1); r.last().ScrollProgress != want {
		t.Errorf("progress while throttled: expected %v, got %v", want, r.last().ScrollProgress)
	}

	now = now.Add(40 * time.Millisecond)
	h.Frame()
	if want := float32(0.2); r.last().ScrollProgress != want {
		t.Errorf("progress after flush: expected %v, got %v", want, r.last().ScrollProgress)
	}
}

func TestAnimateTime(t *testing.T) {
	fc := newFakeContext(800, 600)
	fc.now = 5
	r := &fakeRenderer{}
	h := newTestHost(t, fc, r, unthrottled(5), Options{AnimateTime: true})
	defer h.Close()

	h.Frame()
	h.Frame()
	if got := r.last().Time; got <= 0 || got > 0.02 {
		t.Errorf("time: expected one frame after start, got %v", got)
	}
	if r.last().Frame != 1 {
		t.Errorf("frame: expected 1, got %d", r.last().Frame)
	}
}

func TestOverlaySink(t *testing.T) {
	fc := newFakeContext(800, 600)
	r := &fakeRenderer{}
	c := unthrottled(5)
	sink := &StyleLog{}
	bg, _ := css.Parse("#0b1020")
	h := newTestHost(t, fc, r, c, Options{Sink: sink, Background: bg})
	defer h.Close()

	h.Frame()
	if sink.Playing() {
		t.Error("video should be paused at the top")
	}
	if v, _ := sink.Style(overlay.Canvas).Get("background-color"); v != "#0b1020" {
		t.Errorf("background: expected #0b1020, got %s", v)
	}

	c.ScrollTo(c.MaxOffset() * 0.22)
	h.Frame()
	if !sink.Playing() {
		t.Error("video should play once docked")
	}
	if v, _ := sink.Style(overlay.Video).Get("visibility"); v != "visible" {
		t.Errorf("video visibility: expected visible, got %s", v)
	}
}

func TestRunStopsOnClose(t *testing.T) {
	fc := newFakeContext(800, 600)
	fc.maxFrames = 3
	r := &fakeRenderer{}
	h := newTestHost(t, fc, r, unthrottled(5), Options{})
	defer h.Close()

	if err := h.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(r.frames) != 3 {
		t.Errorf("frames: expected 3, got %d", len(r.frames))
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	fc := newFakeContext(800, 600)
	r := &fakeRenderer{}
	h := newTestHost(t, fc, r, unthrottled(5), Options{})
	defer h.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(r.frames) != 0 {
		t.Errorf("frames: expected 0, got %d", len(r.frames))
	}
}

func TestCloseDetachesEverything(t *testing.T) {
	fc := newFakeContext(800, 600)
	r := &fakeRenderer{}
	h := newTestHost(t, fc, r, unthrottled(5), Options{})
	if fc.listeners() != 3 {
		t.Fatalf("listeners: expected 3, got %d", fc.listeners())
	}
	h.Close()
	h.Close()
	if fc.listeners() != 0 {
		t.Errorf("listeners after Close: expected 0, got %d", fc.listeners())
	}
	if r.closed != 1 {
		t.Errorf("renderer closes: expected 1, got %d", r.closed)
	}
}

func TestPointerIsIgnored(t *testing.T) {
	fc := newFakeContext(800, 600)
	fc.cursor = [4]float32{400, 300, 400, 300}
	r := &fakeRenderer{}
	h := newTestHost(t, fc, r, unthrottled(5), Options{WheelStep: 120})
	defer h.Close()

	h.Frame()
	fc.wheel(-1)
	h.Frame()
	h.Frame()
	for i, u := range r.frames {
		if u.Mouse != ([4]float32{}) {
			t.Errorf("frame %d: mouse expected zero, got %v", i, u.Mouse)
		}
	}
}

func TestNavbarStyleFollowsOffset(t *testing.T) {
	fc := newFakeContext(800, 600)
	r := &fakeRenderer{}
	c := unthrottled(8)
	sink := &StyleLog{}
	h := newTestHost(t, fc, r, c, Options{Sink: sink})
	defer h.Close()

	h.Frame()
	if v, _ := sink.Style(overlay.Navbar).Get("background-color"); v != "transparent" {
		t.Errorf("navbar at the top: expected transparent, got %s", v)
	}

	c.ScrollTo(6 * 600)
	h.Frame()
	if v, _ := sink.Style(overlay.Navbar).Get("backdrop-filter"); v != "blur(12px)" {
		t.Errorf("navbar past the hero: expected blur(12px), got %s", v)
	}

	c.ScrollTo(c.MaxOffset())
	h.Frame()
	if v, _ := sink.Style(overlay.Navbar).Get("opacity"); v != "0" {
		t.Errorf("navbar at the bottom: expected opacity 0, got %s", v)
	}
}
