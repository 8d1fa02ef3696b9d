// Package noise generates the pseudo-random lattices the terrain shader samples.
//
// Textures are square, single channel, 8 bits per texel, and fully determined by
// their seed. The shader does its own interpolation and fractal summation on top.
package noise

import (
	"fmt"
	"math"

	"github.com/ojrac/opensimplex-go"
)

// Size is the edge length of every lattice the terrain shader expects.
// The shader divides lattice coordinates by this value.
const Size = 256

// Seeds used for the three channels: base terrain, detail, and the secondary
// detail channel.
var Seeds = [3]int{1, 2, 3}

// Kind selects the lattice generator.
type Kind string

const (
	// KindSine is the sine hash lattice: fract(sin(i+seed)*10000).
	KindSine Kind = "sine"
	// KindSimplex is a seamless opensimplex lattice, wrapped on a 4D torus so it
	// tiles under repeat sampling.
	KindSimplex Kind = "simplex"
)

// ParseKind validates a generator name.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindSine, KindSimplex:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown noise kind %q", s)
}

// Texture is an immutable square lattice of 8-bit values.
type Texture struct {
	Seed int
	Size int
	Kind Kind
	Pix  []byte
}

// New builds a texture of the given kind.
func New(kind Kind, seed, size int) (*Texture, error) {
	if size <= 0 {
		return nil, fmt.Errorf("noise size must be positive, got %d", size)
	}
	var pix []byte
	switch kind {
	case KindSine:
		pix = Generate(seed, size)
	case KindSimplex:
		pix = GenerateSimplex(seed, size)
	default:
		return nil, fmt.Errorf("unknown noise kind %q", kind)
	}
	return &Texture{Seed: seed, Size: size, Kind: kind, Pix: pix}, nil
}

// At returns the texel at (x, y) with repeat wrapping on both axes.
func (t *Texture) At(x, y int) byte {
	x = wrap(x, t.Size)
	y = wrap(y, t.Size)
	return t.Pix[y*t.Size+x]
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Hash is the lattice value for linear index i in [0,1).
func Hash(i, seed int) float64 {
	v := math.Sin(float64(i+seed)) * 10000
	return v - math.Floor(v)
}

// Generate returns size*size texels using the sine hash.
func Generate(seed, size int) []byte {
	pix := make([]byte, size*size)
	for i := range pix {
		pix[i] = byte(Hash(i, seed) * 255)
	}
	return pix
}

// GenerateSimplex returns size*size texels of opensimplex noise. Each texel is
// mapped onto two circles so the lattice wraps seamlessly at its edges.
func GenerateSimplex(seed, size int) []byte {
	n := opensimplex.NewNormalized(int64(seed))
	const radius = 4.0
	pix := make([]byte, size*size)
	for y := 0; y < size; y++ {
		ay := 2 * math.Pi * float64(y) / float64(size)
		for x := 0; x < size; x++ {
			ax := 2 * math.Pi * float64(x) / float64(size)
			v := n.Eval4(
				radius*math.Cos(ax), radius*math.Sin(ax),
				radius*math.Cos(ay), radius*math.Sin(ay),
			)
			pix[y*size+x] = byte(math.Min(math.Max(v, 0), 1) * 255)
		}
	}
	return pix
}
