package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/richinsley/goterrain/glfwcontext"
	"github.com/richinsley/goterrain/host"
	"github.com/richinsley/goterrain/noise"
	options "github.com/richinsley/goterrain/options"
	renderer "github.com/richinsley/goterrain/renderer"
	"github.com/richinsley/goterrain/scroll"
	"github.com/richinsley/goterrain/shader"
	_ "github.com/silbinarywolf/preferdiscretegpu"
)

func init() {
	runtime.LockOSThread()
}

func sessionOptions(opts *options.ViewerOptions) (renderer.SessionOptions, error) {
	variant, err := shader.ParseVariant(*opts.Variant)
	if err != nil {
		return renderer.SessionOptions{}, err
	}
	kind, err := noise.ParseKind(*opts.Noise)
	if err != nil {
		return renderer.SessionOptions{}, err
	}
	return renderer.SessionOptions{Variant: variant, Tuning: shader.DefaultTuning(), Noise: kind}, nil
}

// newBackground builds the shader session, or the static color fallback when
// the GPU path is unavailable.
func newBackground(ctx *glfwcontext.Context, opts *options.ViewerOptions, so renderer.SessionOptions) renderer.FrameRenderer {
	session, err := renderer.NewSession(ctx, so)
	if err == nil {
		return session
	}
	switch {
	case errors.Is(err, renderer.ErrNoContext):
		log.Printf("No usable OpenGL context, using static background: %v", err)
	case errors.Is(err, renderer.ErrShader):
		log.Printf("Shader program failed, using static background:\n%v", err)
	default:
		log.Printf("Render session failed, using static background: %v", err)
	}
	bg, _ := opts.BackgroundColor()
	return renderer.NewStaticBackground(bg, ctx)
}

func runWindow(opts *options.ViewerOptions, so renderer.SessionOptions) error {
	ctx, err := glfwcontext.New(opts, true)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer ctx.Shutdown()

	bg, _ := opts.BackgroundColor()
	controller := scroll.NewController(scroll.Viewport{}, *opts.Pages, scroll.NewThrottle(*opts.Throttle))
	background := newBackground(ctx, opts, so)
	h, err := host.New(ctx, background, controller, host.Options{
		WheelStep:   *opts.WheelStep,
		AnimateTime: so.Variant.AnimatesTime(),
		Background:  bg,
	})
	if err != nil {
		background.Close()
		return err
	}
	defer h.Close()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	log.Println("Starting interactive render loop...")
	if err := h.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runRecord(opts *options.ViewerOptions, so renderer.SessionOptions) error {
	// The window stays hidden; it only provides the GL context.
	ctx, err := glfwcontext.New(opts, false)
	if err != nil {
		return fmt.Errorf("failed to create offscreen context: %w", err)
	}
	defer ctx.Shutdown()

	session, err := renderer.NewSession(ctx, so)
	if err != nil {
		return err
	}
	defer session.Close()

	vp := scroll.Viewport{Width: float64(*opts.Width), Height: float64(*opts.Height)}
	controller := scroll.NewController(vp, *opts.Pages, scroll.NewThrottle(*opts.Throttle))

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return renderer.Record(runCtx, session, controller, renderer.RecordOptions{
		Width:       *opts.Width,
		Height:      *opts.Height,
		FPS:         *opts.FPS,
		Duration:    *opts.Duration,
		OutputFile:  *opts.OutputFile,
		FFMPEGPath:  *opts.FFMPEGPath,
		Codec:       *opts.Codec,
		AnimateTime: so.Variant.AnimatesTime(),
	})
}

func runStoryboard(opts *options.ViewerOptions) error {
	bg, _ := opts.BackgroundColor()
	vp := scroll.Viewport{Width: float64(*opts.Width), Height: float64(*opts.Height)}
	controller := scroll.NewController(vp, *opts.Pages, scroll.NewThrottle(0))
	return host.Storyboard(os.Stdout, controller, *opts.Samples, bg)
}

func main() {
	opts := &options.ViewerOptions{
		Help:       flag.Bool("help", false, "Show help message"),
		Mode:       flag.String("mode", "window", "Run mode: window, record or storyboard"),
		Width:      flag.Int("width", 1280, "Width of the window or output"),
		Height:     flag.Int("height", 720, "Height of the window or output"),
		Pages:      flag.Float64("pages", 8, "Virtual page height in viewport heights"),
		WheelStep:  flag.Float64("wheel", 120, "Scroll distance of one wheel notch in pixels"),
		Throttle:   flag.Duration("throttle", scroll.DefaultThrottle, "Minimum interval between scroll samples"),
		Variant:    flag.String("variant", "terrain", "Background variant: terrain or clouds"),
		Noise:      flag.String("noise", "sine", "Noise lattice: sine or simplex"),
		Background: flag.String("background", "#0b1020", "CSS color behind the background, and the fallback fill"),
		Duration:   flag.Float64("duration", 10.0, "Recording: seconds for the full scroll sweep"),
		FPS:        flag.Int("fps", 60, "Recording: frames per second"),
		OutputFile: flag.String("output", "output.mp4", "Recording: output file name"),
		FFMPEGPath: flag.String("ffmpeg", "", "Path to ffmpeg executable"),
		Codec:      flag.String("codec", "h264", "Recording: h264 or hevc"),
		Samples:    flag.Int("samples", 21, "Storyboard: number of progress samples"),
		GLES:       flag.Bool("gles", false, "Translate the shader to ESSL instead of GLSL 410"),
	}
	flag.Parse()

	if *opts.Help {
		fmt.Println("Scroll-driven terrain background viewer/recorder")
		flag.PrintDefaults()
		return
	}
	if err := opts.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	if *opts.Mode == "storyboard" {
		if err := runStoryboard(opts); err != nil {
			log.Fatalf("Storyboard failed: %v", err)
		}
		return
	}

	so, err := sessionOptions(opts)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := glfwcontext.InitGraphics(); err != nil {
		log.Fatalf("Failed to initialize GLFW: %v", err)
	}
	defer glfwcontext.TerminateGraphics()

	start := time.Now()
	switch *opts.Mode {
	case "record":
		log.Println("Starting offscreen render loop...")
		err = runRecord(opts, so)
		if err == nil {
			log.Printf("Successfully rendered to %s in %v", *opts.OutputFile, time.Since(start).Round(time.Millisecond))
		}
	default:
		err = runWindow(opts, so)
	}
	if err != nil {
		log.Printf("%s failed: %v", *opts.Mode, err)
		glfwcontext.TerminateGraphics()
		os.Exit(1)
	}
}
