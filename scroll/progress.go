// Package scroll maps a vertical scroll offset onto the hero choreography:
// the shader's scroll progress, the terrain camera time, and the transform
// state of the overlays drawn above the background.
//
// Every mapping here is a pure function of progress. There is no history and no
// hysteresis, so scrolling back up reverses all visual state exactly.
package scroll

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Viewport is the visible area of the page in CSS pixels.
type Viewport struct {
	Width  float64
	Height float64
}

// Phase is the coarse state of the choreography.
type Phase int

const (
	HeroFull Phase = iota
	TransitionHold
	DockFadeIn
	Docked
)

func (p Phase) String() string {
	switch p {
	case HeroFull:
		return "HERO_FULL"
	case TransitionHold:
		return "TRANSITION_HOLD"
	case DockFadeIn:
		return "DOCK_FADE_IN"
	case Docked:
		return "DOCKED"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// PhaseOf returns the phase for a progress value.
func PhaseOf(progress float64) Phase {
	switch {
	case progress < HoldStart:
		return HeroFull
	case progress < DockStart:
		return TransitionHold
	case progress < VideoFadeEnd:
		return DockFadeIn
	}
	return Docked
}

// Progress converts a scroll offset into a value in [0,1]. A page with no
// scrollable range reports 0.
func Progress(offset, viewportHeight, scrollHeight float64) float64 {
	scrollable := scrollHeight - viewportHeight
	if scrollable <= 0 {
		return 0
	}
	return clamp(offset/scrollable, 0, 1)
}

// CameraTime maps progress onto the camera path parameter. The camera advances
// until CameraFreeze and is parked from there on.
func CameraTime(progress float64) float64 {
	p := clamp(progress, 0, CameraFreeze)
	return CameraTimeStart - p*CameraTimeRate
}

// HeroState is the transform of the headline and logo strip.
type HeroState struct {
	Scale   float64
	Opacity float64
}

// CanvasState is the transform of the background container.
type CanvasState struct {
	// MoveProgress is 0 until DockStart and reaches 1 at the end of the page.
	MoveProgress float64
	// TranslateY is in viewport heights; negative moves up.
	TranslateY   float64
	SidePadding  float64
	BorderRadius float64
}

// Pinned reports whether the background is still full-bleed.
func (c CanvasState) Pinned() bool {
	return c.MoveProgress == 0
}

// VideoState is the transform and playback state of the video overlay.
type VideoState struct {
	Visible    bool
	Opacity    float64
	TranslateY float64
	Paused     bool
}

// NavbarState is the chrome of the fixed navigation bar.
type NavbarState struct {
	// Scrolled switches the bar from transparent to a solid backdrop.
	Scrolled bool
	// Hidden slides the bar out near the end of the page.
	Hidden bool
}

// Navbar derives the navbar state from an absolute offset. Pages no taller
// than NavbarMinPages viewports never hide the bar.
func Navbar(offset, viewportHeight, scrollHeight float64) NavbarState {
	n := NavbarState{Scrolled: offset > viewportHeight*NavbarScrolledAfter}
	if scrollHeight > viewportHeight*NavbarMinPages {
		n.Hidden = offset > scrollHeight-viewportHeight*NavbarHideMargin
	}
	return n
}

// State is everything derived from one scroll sample.
type State struct {
	Progress   float64
	Phase      Phase
	CameraTime float64
	Hero       HeroState
	Canvas     CanvasState
	Video      VideoState
	// Navbar is filled in by the Controller, which knows the offset. Derive
	// leaves it zero.
	Navbar NavbarState
}

// Derive computes the full state for a progress value. Progress outside [0,1]
// is clamped.
func Derive(progress float64) State {
	p := clamp(progress, 0, 1)

	move := remap(p, DockStart, 1, 0, 1)
	canvas := CanvasState{
		MoveProgress: move,
		TranslateY:   -move * DockTravel,
		SidePadding:  lerp(0, MaxSidePadding, move),
		BorderRadius: lerp(0, MaxBorderRadius, move),
	}

	video := VideoState{
		Visible:    p >= DockStart,
		Opacity:    remap(p, DockStart, VideoFadeEnd, 0, 1),
		TranslateY: canvas.TranslateY,
	}
	video.Paused = !video.Visible || move > VideoPauseAfter

	return State{
		Progress:   p,
		Phase:      PhaseOf(p),
		CameraTime: CameraTime(p),
		Hero: HeroState{
			Scale:   1 - p*HeroScaleRate,
			Opacity: remap(p, HeroFadeStart, HeroFadeEnd, 1, 0),
		},
		Canvas: canvas,
		Video:  video,
	}
}

func clamp[T constraints.Float](v, lo, hi T) T {
	return max(lo, min(hi, v))
}

func lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

// remap maps v from [inLo,inHi] onto [outLo,outHi], clamping outside the window.
func remap[T constraints.Float](v, inLo, inHi, outLo, outHi T) T {
	t := clamp((v-inLo)/(inHi-inLo), 0, 1)
	return lerp(outLo, outHi, t)
}
