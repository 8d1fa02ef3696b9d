package inputs

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goterrain/noise"
)

// Sampler is the texture sampling state of a channel, as GL enums.
type Sampler struct {
	Wrap   int32
	Filter int32
}

// NoiseSampler is linear filtering with repeat wrap on both axes. The terrain
// samples far outside [0,1] and relies on the lattice tiling.
var NoiseSampler = Sampler{Wrap: gl.REPEAT, Filter: gl.LINEAR}

// NoiseChannel is a single channel noise lattice resident on the GPU.
type NoiseChannel struct {
	textureID uint32
}

// NewNoiseChannel uploads tex as an R8 texture without mipmaps.
func NewNoiseChannel(index int, tex *noise.Texture, sampler Sampler) (*NoiseChannel, error) {
	if tex == nil {
		return nil, fmt.Errorf("noise texture for channel %d is nil", index)
	}
	if len(tex.Pix) != tex.Size*tex.Size {
		return nil, fmt.Errorf("noise texture for channel %d has %d texels, want %d", index, len(tex.Pix), tex.Size*tex.Size)
	}

	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_2D, textureID)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, sampler.Wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, sampler.Wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, sampler.Filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, sampler.Filter)

	// Rows are tightly packed single bytes.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.R8,
		int32(tex.Size),
		int32(tex.Size),
		0,
		gl.RED,
		gl.UNSIGNED_BYTE,
		gl.Ptr(tex.Pix),
	)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if glErr := gl.GetError(); glErr != gl.NO_ERROR {
		gl.DeleteTextures(1, &textureID)
		return nil, fmt.Errorf("uploading noise texture for channel %d: gl error 0x%x", index, glErr)
	}
	return &NoiseChannel{textureID: textureID}, nil
}

// Update does nothing; the lattice is static.
func (c *NoiseChannel) Update(uniforms *Uniforms) {}

func (c *NoiseChannel) GetTextureID() uint32 {
	return c.textureID
}

func (c *NoiseChannel) Destroy() {
	if c.textureID != 0 {
		gl.DeleteTextures(1, &c.textureID)
		c.textureID = 0
	}
}
