package renderer

import (
	"context"
	"fmt"
	"io"
	"log"
	"runtime"
	"strings"
	"time"

	inputs "github.com/richinsley/goterrain/inputs"
	"github.com/richinsley/goterrain/scroll"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const numBuffers = 3

// RecordOptions describes a scroll sweep recording.
type RecordOptions struct {
	Width      int
	Height     int
	FPS        int
	Duration   float64 // seconds for the sweep from the top to the bottom of the page
	OutputFile string
	FFMPEGPath string
	Codec      string // h264 or hevc
	// AnimateTime feeds the simulated clock into iTime.
	AnimateTime bool
}

func (o RecordOptions) totalFrames() int {
	return max(int(o.Duration*float64(o.FPS)), 2)
}

// encoderArgs builds the ffmpeg arguments for raw RGBA frames on stdin.
func encoderArgs(o RecordOptions) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", o.Width, o.Height),
		"r":       o.FPS,
	}

	// GL rows run bottom to top.
	outputArgs = ffmpeg.KwArgs{
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
	}

	switch runtime.GOOS {
	case "darwin":
		log.Println("Using macOS (VideoToolbox) hardware acceleration.")
		if o.Codec == "hevc" {
			outputArgs["c:v"] = "hevc_videotoolbox"
		} else {
			outputArgs["c:v"] = "h264_videotoolbox"
		}
		outputArgs["b:v"] = "25M"
	default:
		log.Println("Using software encoding pipeline (no hardware acceleration).")
		if o.Codec == "hevc" {
			outputArgs["c:v"] = "libx265"
		} else {
			outputArgs["c:v"] = "libx264"
		}
		outputArgs["crf"] = 18
	}

	if o.Codec == "hevc" && strings.HasSuffix(o.OutputFile, ".mp4") {
		outputArgs["tag:v"] = "hvc1"
	}
	return
}

// runEncoder is the consumer. It starts ffmpeg and writes every frame from
// frames to its stdin until the channel is closed.
func runEncoder(o RecordOptions, frames <-chan *Frame, done chan<- error) {
	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := encoderArgs(o)

	cmd := ffmpeg.Input("pipe:", inputArgs).
		Output(o.OutputFile, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()
	if o.FFMPEGPath != "" {
		cmd = cmd.SetFfmpegPath(o.FFMPEGPath)
	}

	// Once ffmpeg is gone nobody reads the pipe; closing the reader makes
	// further writes fail with its error instead of blocking.
	errc := make(chan error, 1)
	go func() {
		err := cmd.Run()
		if err != nil {
			pipeReader.CloseWithError(fmt.Errorf("ffmpeg exited: %w", err))
		} else {
			pipeReader.Close()
		}
		errc <- err
	}()

	var writeErr error
	for frame := range frames {
		if writeErr != nil {
			continue
		}
		if _, err := pipeWriter.Write(frame.Pixels); err != nil {
			writeErr = fmt.Errorf("failed to write frame %d to ffmpeg: %w", frame.PTS, err)
			log.Println(writeErr)
		}
	}
	pipeWriter.Close()
	if err := <-errc; err != nil {
		done <- fmt.Errorf("ffmpeg: %w", err)
		return
	}
	done <- writeErr
}

// sweepClock is the simulated clock of a recording.
type sweepClock struct {
	base time.Time
	now  time.Duration
}

func (c *sweepClock) Now() time.Time { return c.base.Add(c.now) }

// Record renders a scroll sweep from progress 0 to 1 into a video file. The
// sweep drives controller exactly like wheel input would, on a simulated clock
// advancing one frame per render, so the throttle behaves as it does live.
func Record(ctx context.Context, r FrameRenderer, controller *scroll.Controller, o RecordOptions) error {
	if o.FPS <= 0 || o.Duration <= 0 {
		return fmt.Errorf("invalid recording: %d fps for %vs", o.FPS, o.Duration)
	}

	target, err := NewOffscreenTarget(o.Width, o.Height, numBuffers)
	if err != nil {
		return err
	}
	defer target.Destroy()

	clock := &sweepClock{base: time.Unix(0, 0)}
	throttle := controller.Throttle()
	throttle.Now = clock.Now
	throttle.Reset()
	controller.OnResize(scroll.Viewport{Width: float64(o.Width), Height: float64(o.Height)})
	controller.ScrollTo(0)
	r.Resize(o.Width, o.Height)

	log.Printf("Recording %d frames to %s...", o.totalFrames(), o.OutputFile)
	frameChan := make(chan *Frame, numBuffers)
	encoderDone := make(chan error, 1)
	go runEncoder(o, frameChan, encoderDone)

	frameStep := time.Second / time.Duration(o.FPS)
	total := o.totalFrames()
	var pts int64
	lastPhase := controller.Current().Phase

	emit := func(pixels []byte) {
		if pixels == nil {
			return
		}
		frameChan <- &Frame{Pixels: pixels, PTS: pts}
		pts++
	}

	render := func(i int, state scroll.State) error {
		u := &inputs.Uniforms{Frame: int32(i)}
		u.SetResolution(o.Width, o.Height)
		u.SetScroll(state)
		if o.AnimateTime {
			u.Time = float32(clock.now.Seconds())
		}
		target.Bind()
		r.Render(u)
		target.Unbind()
		pixels, err := target.ReadAsync()
		if err != nil {
			return fmt.Errorf("error reading pixels on frame %d: %w", i, err)
		}
		emit(pixels)
		return nil
	}

	var renderErr error
	i := 0
	for ; i < total && renderErr == nil; i++ {
		if err := ctx.Err(); err != nil {
			renderErr = err
			break
		}
		controller.ScrollTo(controller.MaxOffset() * float64(i) / float64(total-1))
		state, _ := controller.Flush()
		if state.Phase != lastPhase {
			log.Printf("Frame %d: %s -> %s", i, lastPhase, state.Phase)
			lastPhase = state.Phase
		}
		renderErr = render(i, state)
		clock.now += frameStep
	}

	// The last sample may have been deferred; hold one more frame on the
	// trailing edge so the video ends fully scrolled.
	if renderErr == nil && controller.Pending() {
		clock.now += throttle.Interval
		state, _ := controller.Flush()
		renderErr = render(i, state)
	}

	if renderErr == nil {
		var rest [][]byte
		rest, renderErr = target.Drain()
		for _, pixels := range rest {
			emit(pixels)
		}
	}

	close(frameChan)
	encErr := <-encoderDone
	if renderErr != nil {
		return renderErr
	}
	if encErr != nil {
		return encErr
	}
	log.Printf("Recorded %d frames to %s", pts, o.OutputFile)
	return nil
}
