package noise

import (
	"bytes"
	"math"
	"testing"
)

func TestGenerateDeterministic(t *testing.T) {
	for _, seed := range []int{0, 1, 2, 3, 42, -7} {
		a := Generate(seed, Size)
		b := Generate(seed, Size)
		if !bytes.Equal(a, b) {
			t.Errorf("seed %d: textures differ between invocations", seed)
		}
		if len(a) != Size*Size {
			t.Errorf("seed %d: expected %d texels, got %d", seed, Size*Size, len(a))
		}
	}
}

func TestGenerateSeedsDiffer(t *testing.T) {
	a := Generate(Seeds[0], Size)
	b := Generate(Seeds[1], Size)
	c := Generate(Seeds[2], Size)
	if bytes.Equal(a, b) || bytes.Equal(b, c) || bytes.Equal(a, c) {
		t.Error("expected independent textures for seeds 1, 2, 3")
	}
}

func TestGenerateMatchesHash(t *testing.T) {
	pix := Generate(1, 4)
	for i, got := range pix {
		v := math.Sin(float64(i+1)) * 10000
		want := byte((v - math.Floor(v)) * 255)
		if got != want {
			t.Errorf("texel %d: expected %d, got %d", i, want, got)
		}
	}
}

func TestHashRange(t *testing.T) {
	for i := 0; i < 10000; i++ {
		h := Hash(i, 3)
		if h < 0 || h >= 1 {
			t.Fatalf("Hash(%d): expected [0,1), got %v", i, h)
		}
	}
}

func TestGenerateSimplexDeterministic(t *testing.T) {
	a := GenerateSimplex(2, 32)
	b := GenerateSimplex(2, 32)
	if !bytes.Equal(a, b) {
		t.Error("simplex textures differ for the same seed")
	}
	if bytes.Equal(a, GenerateSimplex(3, 32)) {
		t.Error("simplex textures equal for different seeds")
	}
}

func TestTextureAtWraps(t *testing.T) {
	tex, err := New(KindSine, 1, 8)
	if err != nil {
		t.Fatal(err)
	}
	if tex.At(-1, 0) != tex.At(7, 0) {
		t.Error("At(-1,0) should wrap to At(7,0)")
	}
	if tex.At(3, 9) != tex.At(3, 1) {
		t.Error("At(3,9) should wrap to At(3,1)")
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New(KindSine, 1, 0); err == nil {
		t.Error("expected error for zero size")
	}
	if _, err := New(Kind("perlin"), 1, 8); err == nil {
		t.Error("expected error for unknown kind")
	}
	if _, err := ParseKind("simplex"); err != nil {
		t.Errorf("ParseKind(simplex): unexpected error %v", err)
	}
}
