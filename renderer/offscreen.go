package renderer

import (
	"fmt"
	"log"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// Frame is a single rendered frame's pixels, ready for encoding.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// OffscreenTarget is an RGBA8 framebuffer with a ring of pixel pack buffers.
// Reads are pipelined: ReadAsync queues the current frame and returns the one
// queued len(pbos)-1 calls earlier, so the GPU copy overlaps the next render.
type OffscreenTarget struct {
	fbo       uint32
	textureID uint32
	width     int
	height    int
	pbos      []uint32
	pboIndex  int
	queued    int
}

const bytesPerPixel = 4

func NewOffscreenTarget(width, height, numPBOs int) (*OffscreenTarget, error) {
	if numPBOs < 2 {
		return nil, fmt.Errorf("number of PBOs must be at least 2")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid offscreen size %dx%d", width, height)
	}

	ot := &OffscreenTarget{
		width:  width,
		height: height,
		pbos:   make([]uint32, numPBOs),
	}

	gl.GenFramebuffers(1, &ot.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, ot.fbo)
	gl.GenTextures(1, &ot.textureID)
	gl.BindTexture(gl.TEXTURE_2D, ot.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, ot.textureID, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if gl.CheckFramebufferStatus(gl.FRAMEBUFFER) != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.DeleteTextures(1, &ot.textureID)
		gl.DeleteFramebuffers(1, &ot.fbo)
		return nil, fmt.Errorf("offscreen fbo is not complete")
	}

	gl.GenBuffers(int32(len(ot.pbos)), &ot.pbos[0])
	for _, pbo := range ot.pbos {
		gl.BindBuffer(gl.PIXEL_PACK_BUFFER, pbo)
		gl.BufferData(gl.PIXEL_PACK_BUFFER, ot.frameSize(), nil, gl.STREAM_READ)
	}
	gl.BindBuffer(gl.PIXEL_PACK_BUFFER, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	log.Printf("Offscreen target %dx%d with %d PBOs", width, height, numPBOs)
	return ot, nil
}

func (ot *OffscreenTarget) frameSize() int {
	return ot.width * ot.height * bytesPerPixel
}

// Bind directs drawing into the target.
func (ot *OffscreenTarget) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, ot.fbo)
	gl.Viewport(0, 0, int32(ot.width), int32(ot.height))
}

func (ot *OffscreenTarget) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// ReadAsync queues a readback of the current contents and returns the oldest
// queued frame once the ring is full, or nil while it is still filling.
func (ot *OffscreenTarget) ReadAsync() ([]byte, error) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, ot.fbo)
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.BindBuffer(gl.PIXEL_PACK_BUFFER, ot.pbos[ot.pboIndex])
	gl.ReadPixels(0, 0, int32(ot.width), int32(ot.height), gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	ot.pboIndex = (ot.pboIndex + 1) % len(ot.pbos)
	ot.queued++

	if ot.queued < len(ot.pbos) {
		gl.BindBuffer(gl.PIXEL_PACK_BUFFER, 0)
		return nil, nil
	}
	// pboIndex now points at the oldest queued read.
	return ot.mapOldest()
}

// Drain returns the frames still queued, oldest first.
func (ot *OffscreenTarget) Drain() ([][]byte, error) {
	var frames [][]byte
	for ot.queued > 0 {
		oldest := (ot.pboIndex - ot.queued + len(ot.pbos)) % len(ot.pbos)
		pixels, err := ot.mapPBO(oldest)
		if err != nil {
			return frames, err
		}
		ot.queued--
		frames = append(frames, pixels)
	}
	return frames, nil
}

func (ot *OffscreenTarget) mapOldest() ([]byte, error) {
	oldest := (ot.pboIndex - ot.queued + len(ot.pbos)) % len(ot.pbos)
	pixels, err := ot.mapPBO(oldest)
	if err != nil {
		return nil, err
	}
	ot.queued--
	return pixels, nil
}

func (ot *OffscreenTarget) mapPBO(index int) ([]byte, error) {
	size := ot.frameSize()
	gl.BindBuffer(gl.PIXEL_PACK_BUFFER, ot.pbos[index])
	defer gl.BindBuffer(gl.PIXEL_PACK_BUFFER, 0)
	ptr := gl.MapBufferRange(gl.PIXEL_PACK_BUFFER, 0, size, gl.MAP_READ_BIT)
	if ptr == nil {
		return nil, fmt.Errorf("failed to map PBO %d", index)
	}
	pixels := make([]byte, size)
	copy(pixels, (*[1 << 30]byte)(ptr)[:size:size])
	gl.UnmapBuffer(gl.PIXEL_PACK_BUFFER)
	return pixels, nil
}

func (ot *OffscreenTarget) Destroy() {
	gl.DeleteFramebuffers(1, &ot.fbo)
	gl.DeleteTextures(1, &ot.textureID)
	gl.DeleteBuffers(int32(len(ot.pbos)), &ot.pbos[0])
}
