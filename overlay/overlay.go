// Package overlay turns a scroll state into the inline styles of the elements
// layered over the background: the hero text, the background container, the
// video card and the fixed navbar.
//
// Styles are written inline rather than through class changes so a scroll tick
// never triggers a stylesheet recalculation.
package overlay

import (
	"strconv"
	"strings"

	css "github.com/mazznoer/csscolorparser"
	"github.com/richinsley/goterrain/scroll"
)

// Element identifies an overlay.
type Element int

const (
	Hero Element = iota
	Canvas
	Video
	Navbar
)

var elementNames = [...]string{"hero", "canvas", "video", "navbar"}

func (e Element) String() string {
	if int(e) < len(elementNames) {
		return elementNames[e]
	}
	return "element(" + strconv.Itoa(int(e)) + ")"
}

// Declaration is one inline style property.
type Declaration struct {
	Property string
	Value    string
}

// Declarations is an ordered inline style.
type Declarations []Declaration

// String renders the declarations as a style attribute.
func (d Declarations) String() string {
	var b strings.Builder
	for i, decl := range d {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(decl.Property)
		b.WriteString(": ")
		b.WriteString(decl.Value)
		b.WriteByte(';')
	}
	return b.String()
}

// Get returns the value of a property.
func (d Declarations) Get(property string) (string, bool) {
	for _, decl := range d {
		if decl.Property == property {
			return decl.Value, true
		}
	}
	return "", false
}

func (d Declarations) equal(o Declarations) bool {
	if len(d) != len(o) {
		return false
	}
	for i := range d {
		if d[i] != o[i] {
			return false
		}
	}
	return true
}

// Frame is the inline style of every overlay for one scroll state.
type Frame struct {
	Styles       [Navbar + 1]Declarations
	VideoPlaying bool
}

func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// Styles derives the overlay styles for a state. background is the color of
// the container behind the shader surface, visible whenever the surface is not.
func Styles(s scroll.State, background css.Color) Frame {
	var f Frame

	f.Styles[Hero] = Declarations{
		{"transform", "scale(" + num(s.Hero.Scale) + ")"},
		{"opacity", num(s.Hero.Opacity)},
	}

	pad := num(s.Canvas.SidePadding)
	f.Styles[Canvas] = Declarations{
		{"transform", "translateY(" + num(s.Canvas.TranslateY*100) + "vh)"},
		{"margin", "0 " + pad + "px"},
		{"width", "calc(100% - " + num(2*s.Canvas.SidePadding) + "px)"},
		{"border-radius", num(s.Canvas.BorderRadius) + "px"},
		{"background-color", background.HexString()},
	}

	visibility := "hidden"
	if s.Video.Visible {
		visibility = "visible"
	}
	f.Styles[Video] = Declarations{
		{"visibility", visibility},
		{"opacity", num(s.Video.Opacity)},
		{"transform", "translateY(" + num(s.Video.TranslateY*100) + "vh)"},
	}
	f.VideoPlaying = !s.Video.Paused
	f.Styles[Navbar] = navbarStyle(s.Navbar)
	return f
}

// Navbar chrome once the page is scrolled past the hero sections.
var (
	navbarBackdrop = css.Color{R: 1, G: 1, B: 1, A: 0.95}
	navbarBorder   = css.Color{R: 229.0 / 255, G: 231.0 / 255, B: 235.0 / 255, A: 1}
)

const navbarHideOffset = -100 // px

func navbarStyle(n scroll.NavbarState) Declarations {
	opacity, y := 1.0, 0.0
	if n.Hidden {
		opacity, y = 0, navbarHideOffset
	}
	d := Declarations{
		{"opacity", num(opacity)},
		{"transform", "translateY(" + num(y) + "px)"},
	}
	if n.Scrolled {
		return append(d,
			Declaration{"background-color", navbarBackdrop.RGBString()},
			Declaration{"backdrop-filter", "blur(12px)"},
			Declaration{"border-bottom", "1px solid " + navbarBorder.HexString()},
			Declaration{"box-shadow", "0 1px 2px 0 rgba(0,0,0,0.05)"},
		)
	}
	return append(d,
		Declaration{"background-color", "transparent"},
		Declaration{"backdrop-filter", "none"},
		Declaration{"border-bottom", "none"},
		Declaration{"box-shadow", "none"},
	)
}

// Sink receives style writes, e.g. a DOM bridge or a log.
type Sink interface {
	SetStyle(e Element, d Declarations)
	SetPlaying(e Element, playing bool)
}

// Applier writes frames to a sink, skipping elements whose style is unchanged.
type Applier struct {
	sink Sink
	last *Frame
}

func NewApplier(sink Sink) *Applier {
	return &Applier{sink: sink}
}

// Apply writes the parts of f that differ from the previous frame and returns
// how many elements were touched.
func (a *Applier) Apply(f Frame) int {
	writes := 0
	for e := Hero; e <= Navbar; e++ {
		if a.last != nil && a.last.Styles[e].equal(f.Styles[e]) {
			continue
		}
		a.sink.SetStyle(e, f.Styles[e])
		writes++
	}
	if a.last == nil || a.last.VideoPlaying != f.VideoPlaying {
		a.sink.SetPlaying(Video, f.VideoPlaying)
	}
	a.last = &f
	return writes
}

// Reset forces the next Apply to write everything.
func (a *Applier) Reset() {
	a.last = nil
}
