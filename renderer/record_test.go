package renderer

import (
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestEncoderArgs(t *testing.T) {
	o := RecordOptions{Width: 640, Height: 360, FPS: 30, Duration: 2, OutputFile: "sweep.mp4", Codec: "hevc"}
	in, out := encoderArgs(o)

	if in["f"] != "rawvideo" || in["pix_fmt"] != "rgba" {
		t.Errorf("input format: expected rawvideo/rgba, got %v/%v", in["f"], in["pix_fmt"])
	}
	if in["s"] != "640x360" {
		t.Errorf("input size: expected 640x360, got %v", in["s"])
	}
	if out["vf"] != "vflip" {
		t.Errorf("vf: expected vflip, got %v", out["vf"])
	}
	if out["tag:v"] != "hvc1" {
		t.Errorf("tag:v: expected hvc1 for hevc in mp4, got %v", out["tag:v"])
	}
	want := "libx265"
	if runtime.GOOS == "darwin" {
		want = "hevc_videotoolbox"
	}
	if out["c:v"] != want {
		t.Errorf("c:v: expected %s, got %v", want, out["c:v"])
	}
}

func TestEncoderArgsH264(t *testing.T) {
	_, out := encoderArgs(RecordOptions{Width: 8, Height: 8, FPS: 1, OutputFile: "a.mkv", Codec: "h264"})
	if _, ok := out["tag:v"]; ok {
		t.Error("tag:v should only be set for hevc")
	}
}

func TestTotalFrames(t *testing.T) {
	tests := []struct {
		duration float64
		fps      int
		want     int
	}{
		{10, 30, 300},
		{0.5, 60, 30},
		{0.01, 30, 2},
	}
	for _, tt := range tests {
		o := RecordOptions{Duration: tt.duration, FPS: tt.fps}
		if got := o.totalFrames(); got != tt.want {
			t.Errorf("totalFrames(%v, %d): expected %d, got %d", tt.duration, tt.fps, tt.want, got)
		}
	}
}

func TestSweepClock(t *testing.T) {
	c := &sweepClock{base: time.Unix(100, 0)}
	c.now += 40 * time.Millisecond
	if got := c.Now().Sub(time.Unix(100, 0)); got != 40*time.Millisecond {
		t.Errorf("clock: expected 40ms, got %v", got)
	}
}

func TestEncoderFailsWithoutFFmpeg(t *testing.T) {
	dir := t.TempDir()
	o := RecordOptions{
		Width: 4, Height: 4, FPS: 30, Duration: 1,
		OutputFile: filepath.Join(dir, "out.mp4"),
		FFMPEGPath: filepath.Join(dir, "no-such-ffmpeg"),
		Codec:      "h264",
	}
	frames := make(chan *Frame, numBuffers)
	done := make(chan error, 1)
	go runEncoder(o, frames, done)

	sent := make(chan struct{})
	go func() {
		defer close(sent)
		for i := 0; i < 10; i++ {
			frames <- &Frame{Pixels: make([]byte, 4*4*bytesPerPixel), PTS: int64(i)}
		}
		close(frames)
	}()

	select {
	case <-sent:
	case <-time.After(5 * time.Second):
		t.Fatal("encoder stopped draining frames after ffmpeg failed to start")
	}
	select {
	case err := <-done:
		if err == nil {
			t.Error("expected an error for a missing ffmpeg binary")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("encoder did not finish")
	}
}
