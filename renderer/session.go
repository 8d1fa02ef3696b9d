package renderer

import (
	"fmt"
	"log"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goterrain/graphics"
	inputs "github.com/richinsley/goterrain/inputs"
	"github.com/richinsley/goterrain/noise"
	"github.com/richinsley/goterrain/shader"
	xlate "github.com/richinsley/goterrain/translator"
)

var glInitOnce sync.Once
var glInitErr error

// SessionOptions selects what a Session compiles and uploads.
type SessionOptions struct {
	Variant shader.Variant
	Tuning  shader.Tuning
	Noise   noise.Kind
}

type uniformLocations struct {
	resolution     int32
	time           int32
	mouse          int32
	scrollProgress int32
	cameraOrigin   int32
	cameraTarget   int32
	cameraRoll     int32
	iChannel       [3]int32
}

// Session owns every GPU object the background needs: the noise textures, the
// full-screen quad and the program. It is created once per surface and released
// with Close, in reverse order of creation.
type Session struct {
	context  graphics.Context
	variant  shader.Variant
	channels []inputs.IChannel
	quadVAO  uint32
	quadVBO  uint32
	program  uint32
	locs     uniformLocations
	width    int
	height   int
	closed   bool
}

var quadVertices = []float32{
	-1.0, 1.0, -1.0, -1.0, 1.0, -1.0,
	-1.0, 1.0, 1.0, -1.0, 1.0, 1.0,
}

// initGL makes ctx current and loads the OpenGL entry points once per process.
func initGL(ctx graphics.Context) error {
	if ctx == nil {
		return ErrNoContext
	}
	ctx.MakeCurrent()
	glInitOnce.Do(func() {
		glInitErr = gl.Init()
	})
	if glInitErr != nil {
		return fmt.Errorf("%w: %v", ErrNoContext, glInitErr)
	}
	if gl.GoStr(gl.GetString(gl.VERSION)) == "" {
		return fmt.Errorf("%w: driver reported no GL version", ErrNoContext)
	}
	return nil
}

// NewSession acquires the context and builds the program. On failure nothing
// allocated so far is left behind.
func NewSession(ctx graphics.Context, opts SessionOptions) (*Session, error) {
	if err := initGL(ctx); err != nil {
		return nil, err
	}
	log.Printf("OpenGL %s (%s)", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))

	fragmentSource, err := shader.GetFragmentShader(opts.Variant, opts.Tuning)
	if err != nil {
		return nil, err
	}

	s := &Session{context: ctx, variant: opts.Variant}
	s.width, s.height = ctx.GetFramebufferSize()

	if err := s.createChannels(opts.Noise); err != nil {
		s.Close()
		return nil, err
	}
	s.createQuad()
	if err := s.createProgram(fragmentSource); err != nil {
		s.Close()
		return nil, err
	}
	log.Printf("Render session ready: %s variant, %d noise channels, %dx%d", s.variant, len(s.channels), s.width, s.height)
	return s, nil
}

func (s *Session) createChannels(kind noise.Kind) error {
	for i := 0; i < s.variant.Channels(); i++ {
		tex, err := noise.New(kind, noise.Seeds[i], noise.Size)
		if err != nil {
			return fmt.Errorf("failed to generate noise %d: %w", i, err)
		}
		ch, err := inputs.NewNoiseChannel(i, tex, inputs.NoiseSampler)
		if err != nil {
			return fmt.Errorf("failed to create channel %d: %w", i, err)
		}
		s.channels = append(s.channels, ch)
	}
	return nil
}

func (s *Session) createQuad() {
	gl.GenVertexArrays(1, &s.quadVAO)
	gl.GenBuffers(1, &s.quadVBO)
	gl.BindVertexArray(s.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

func (s *Session) createProgram(fragmentSource string) error {
	isGLES := s.context.IsGLES()
	fs, err := xlate.TranslateFragment(fragmentSource, isGLES)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrShader, err)
	}
	s.program, err = newProgram(shader.GenerateVertexShader(isGLES), fs.Code)
	if err != nil {
		return err
	}

	gl.UseProgram(s.program)
	loc := func(name string) int32 {
		mapped, ok := fs.Uniforms[name]
		if !ok {
			return -1
		}
		return gl.GetUniformLocation(s.program, gl.Str(mapped+"\x00"))
	}
	s.locs = uniformLocations{
		resolution:     loc("iResolution"),
		time:           loc("iTime"),
		mouse:          loc("iMouse"),
		scrollProgress: loc("scrollProgress"),
		cameraOrigin:   loc("cameraOrigin"),
		cameraTarget:   loc("cameraTarget"),
		cameraRoll:     loc("cameraRoll"),
	}
	// Texture units never change for the life of the session.
	for i := range s.locs.iChannel {
		s.locs.iChannel[i] = loc(fmt.Sprintf("iChannel%d", i))
		if s.locs.iChannel[i] != -1 {
			gl.Uniform1i(s.locs.iChannel[i], int32(i))
		}
	}
	gl.UseProgram(0)
	return nil
}

// Size is the drawing surface size in pixels.
func (s *Session) Size() (int, int) {
	return s.width, s.height
}

// Resize records the new surface size; the next Render draws at it.
func (s *Session) Resize(width, height int) {
	s.width, s.height = width, height
}

// Render draws one frame into the currently bound framebuffer.
func (s *Session) Render(u *inputs.Uniforms) {
	if s.closed || s.program == 0 {
		return
	}
	gl.Viewport(0, 0, int32(s.width), int32(s.height))
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(s.program)
	s.updateUniforms(u)
	s.bindChannels(u)
	gl.BindVertexArray(s.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
	s.unbindChannels()
	gl.UseProgram(0)
}

func (s *Session) updateUniforms(u *inputs.Uniforms) {
	if s.locs.resolution != -1 {
		gl.Uniform2f(s.locs.resolution, u.Resolution[0], u.Resolution[1])
	}
	if s.locs.time != -1 {
		gl.Uniform1f(s.locs.time, u.Time)
	}
	if s.locs.mouse != -1 {
		gl.Uniform4f(s.locs.mouse, u.Mouse[0], u.Mouse[1], u.Mouse[2], u.Mouse[3])
	}
	if s.locs.scrollProgress != -1 {
		gl.Uniform1f(s.locs.scrollProgress, u.ScrollProgress)
	}
	if s.locs.cameraOrigin != -1 {
		gl.Uniform2f(s.locs.cameraOrigin, u.CameraOrigin[0], u.CameraOrigin[1])
	}
	if s.locs.cameraTarget != -1 {
		gl.Uniform2f(s.locs.cameraTarget, u.CameraTarget[0], u.CameraTarget[1])
	}
	if s.locs.cameraRoll != -1 {
		gl.Uniform1f(s.locs.cameraRoll, u.CameraRoll)
	}
}

func (s *Session) bindChannels(u *inputs.Uniforms) {
	for i, ch := range s.channels {
		ch.Update(u)
		gl.ActiveTexture(gl.TEXTURE0 + uint32(i))
		gl.BindTexture(gl.TEXTURE_2D, ch.GetTextureID())
	}
}

func (s *Session) unbindChannels() {
	for i := range s.channels {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(i))
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}
	gl.ActiveTexture(gl.TEXTURE0)
}

// Close releases the program, the quad and the textures. It is safe to call
// more than once and on a partially built session.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.program != 0 {
		gl.DeleteProgram(s.program)
		s.program = 0
	}
	if s.quadVBO != 0 {
		gl.DeleteBuffers(1, &s.quadVBO)
		s.quadVBO = 0
	}
	if s.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &s.quadVAO)
		s.quadVAO = 0
	}
	for i := len(s.channels) - 1; i >= 0; i-- {
		s.channels[i].Destroy()
	}
	s.channels = nil
	log.Printf("Render session released")
}
