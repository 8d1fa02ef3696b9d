package renderer

import (
	"log"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	css "github.com/mazznoer/csscolorparser"
	"github.com/richinsley/goterrain/graphics"
	inputs "github.com/richinsley/goterrain/inputs"
)

// FrameRenderer draws the background for one set of uniforms.
type FrameRenderer interface {
	Render(u *inputs.Uniforms)
	Resize(width, height int)
	Close()
}

var (
	_ FrameRenderer = (*Session)(nil)
	_ FrameRenderer = (*StaticBackground)(nil)
)

// StaticBackground clears to a solid color. It stands in for the shader when
// no program could be built; the page stays readable, just without the terrain.
type StaticBackground struct {
	color  css.Color
	width  int
	height int
	ready  bool
}

// NewStaticBackground returns a fallback that clears to color. With a nil
// context, or one on which GL could not be loaded, Render does nothing and the
// window background shows through.
func NewStaticBackground(color css.Color, ctx graphics.Context) *StaticBackground {
	b := &StaticBackground{color: color}
	if ctx == nil {
		return b
	}
	ctx.MakeCurrent()
	glInitOnce.Do(func() {
		glInitErr = gl.Init()
	})
	b.ready = glInitErr == nil
	b.width, b.height = ctx.GetFramebufferSize()
	log.Printf("Static background %s", color.HexString())
	return b
}

// Color is the fill color.
func (b *StaticBackground) Color() css.Color {
	return b.color
}

func (b *StaticBackground) Resize(width, height int) {
	b.width, b.height = width, height
}

func (b *StaticBackground) Render(u *inputs.Uniforms) {
	if !b.ready {
		return
	}
	gl.Viewport(0, 0, int32(b.width), int32(b.height))
	gl.ClearColor(float32(b.color.R), float32(b.color.G), float32(b.color.B), float32(b.color.A))
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (b *StaticBackground) Close() {}
