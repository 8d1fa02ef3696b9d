package shader

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/richinsley/goterrain/camera"
)

// ────────────────────────────────── Sources ──────────────────────────────────

//go:embed glsl/terrain.frag
var terrainFragment string

//go:embed glsl/clouds.frag
var cloudsFragment string

const vertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const vertexShaderSourceGLES = `#version 300 es
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

// ────────────────────────────────── Variants ─────────────────────────────────

// Variant selects the fragment program.
type Variant string

const (
	// Terrain is the raymarched fly-over, driven by scroll progress.
	Terrain Variant = "terrain"
	// Clouds is the sky-only program whose sun is driven by iTime.
	Clouds Variant = "clouds"
)

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case Terrain, Clouds:
		return Variant(s), nil
	}
	return "", fmt.Errorf("unknown shader variant %q", s)
}

// Channels is how many noise textures the variant samples.
func (v Variant) Channels() int {
	if v == Clouds {
		return 1
	}
	return 3
}

// AnimatesTime reports whether the variant reads iTime. The terrain variant is
// static apart from scroll progress.
func (v Variant) AnimatesTime() bool {
	return v == Clouds
}

// ─────────────────────────────────── Tuning ──────────────────────────────────

// Tuning holds the constants compiled into the fragment program as #defines.
type Tuning struct {
	// MarchSteps bounds the primary ray march.
	MarchSteps int
	// MarchStep scales each step by the height above the terrain.
	MarchStep float64
	// HitEpsilon is the hit threshold per unit of ray distance.
	HitEpsilon float64
	// ShadowSteps bounds the shadow ray march.
	ShadowSteps int
	// Penumbra sharpens the soft shadow estimate.
	Penumbra float64
	// Octaves for the high, medium and low detail height fields.
	OctavesHigh, OctavesMedium, OctavesLow int
	// SunSpeed is the sun angular speed of the clouds variant, radians/second.
	SunSpeed float64
}

// DefaultTuning returns the constants the terrain was designed with.
func DefaultTuning() Tuning {
	return Tuning{
		MarchSteps:    128,
		MarchStep:     0.5,
		HitEpsilon:    0.004,
		ShadowSteps:   32,
		Penumbra:      16,
		OctavesHigh:   10,
		OctavesMedium: 6,
		OctavesLow:    5,
		SunSpeed:      0.35,
	}
}

// Validate rejects values that would produce a degenerate program.
func (t Tuning) Validate() error {
	if t.MarchSteps <= 0 || t.ShadowSteps <= 0 {
		return fmt.Errorf("step counts must be positive, got %d/%d", t.MarchSteps, t.ShadowSteps)
	}
	if t.OctavesLow <= 0 || t.OctavesLow > t.OctavesMedium || t.OctavesMedium > t.OctavesHigh {
		return fmt.Errorf("octaves must satisfy 0 < low <= medium <= high, got %d/%d/%d",
			t.OctavesLow, t.OctavesMedium, t.OctavesHigh)
	}
	return nil
}

// glslFloat always prints a decimal point so GLSL treats the literal as float.
func glslFloat(v float64) string {
	s := fmt.Sprintf("%g", v)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// ─────────────────────────────────── Public API ──────────────────────────────

func GenerateVertexShader(isGLES bool) string {
	if isGLES {
		return vertexShaderSourceGLES
	}
	return vertexShaderSourceGL
}

// GeneratePreamble emits the WebGL2 header and the tuning #defines. SC is
// camera.WorldScale so host-side camera poses land on the same terrain.
func GeneratePreamble(t Tuning) string {
	var b strings.Builder
	b.WriteString("#version 300 es\nprecision highp float;\nprecision highp int;\n\n")
	fmt.Fprintf(&b, "#define SC (%s)\n", glslFloat(camera.WorldScale))
	fmt.Fprintf(&b, "#define MARCH_STEPS %d\n", t.MarchSteps)
	fmt.Fprintf(&b, "#define MARCH_STEP (%s)\n", glslFloat(t.MarchStep))
	fmt.Fprintf(&b, "#define HIT_EPSILON (%s)\n", glslFloat(t.HitEpsilon))
	fmt.Fprintf(&b, "#define SHADOW_STEPS %d\n", t.ShadowSteps)
	fmt.Fprintf(&b, "#define PENUMBRA (%s)\n", glslFloat(t.Penumbra))
	fmt.Fprintf(&b, "#define OCTAVES_H %d\n", t.OctavesHigh)
	fmt.Fprintf(&b, "#define OCTAVES_M %d\n", t.OctavesMedium)
	fmt.Fprintf(&b, "#define OCTAVES_L %d\n", t.OctavesLow)
	fmt.Fprintf(&b, "#define SUN_SPEED (%s)\n\n", glslFloat(t.SunSpeed))
	return b.String()
}

// GetFragmentShader returns the complete WebGL2 fragment source for a variant.
func GetFragmentShader(v Variant, t Tuning) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	var body string
	switch v {
	case Terrain:
		body = terrainFragment
	case Clouds:
		body = cloudsFragment
	default:
		return "", fmt.Errorf("unknown shader variant %q", v)
	}
	return GeneratePreamble(t) + body, nil
}
