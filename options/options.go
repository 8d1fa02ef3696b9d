package options

import (
	"errors"
	"fmt"
	"time"

	css "github.com/mazznoer/csscolorparser"
)

// ErrInvalid is returned for flag values the viewer cannot run with.
var ErrInvalid = errors.New("invalid option")

type ViewerOptions struct {
	Help       *bool
	Mode       *string // window, record or storyboard
	Width      *int
	Height     *int
	Pages      *float64       // virtual page height in viewport heights
	WheelStep  *float64       // CSS pixels per wheel notch
	Throttle   *time.Duration // minimum interval between scroll samples
	Variant    *string        // terrain or clouds
	Noise      *string        // sine or simplex
	Background *string        // CSS color shown when the shader is unavailable
	Duration   *float64       // record: seconds for the full 0..1 sweep
	FPS        *int
	OutputFile *string
	FFMPEGPath *string
	Codec      *string
	Samples    *int // storyboard rows
	GLES       *bool
}

func invalid(flag string, format string, args ...any) error {
	return fmt.Errorf("%w: -%s: %s", ErrInvalid, flag, fmt.Sprintf(format, args...))
}

// Validate checks the values that every mode depends on.
func (o *ViewerOptions) Validate() error {
	switch *o.Mode {
	case "window", "record", "storyboard":
	default:
		return invalid("mode", "unknown mode %q", *o.Mode)
	}
	if *o.Width <= 0 || *o.Height <= 0 {
		return invalid("width", "size must be positive, got %dx%d", *o.Width, *o.Height)
	}
	if *o.Pages < 1 {
		return invalid("pages", "must be at least 1, got %v", *o.Pages)
	}
	if *o.WheelStep <= 0 {
		return invalid("wheel", "must be positive, got %v", *o.WheelStep)
	}
	if *o.Throttle < 0 {
		return invalid("throttle", "must not be negative, got %v", *o.Throttle)
	}
	if _, err := o.BackgroundColor(); err != nil {
		return invalid("background", "%v", err)
	}
	if *o.Mode == "record" {
		if *o.Duration <= 0 {
			return invalid("duration", "must be positive, got %v", *o.Duration)
		}
		if *o.FPS <= 0 {
			return invalid("fps", "must be positive, got %d", *o.FPS)
		}
		if *o.Codec != "h264" && *o.Codec != "hevc" {
			return invalid("codec", "unknown codec %q", *o.Codec)
		}
		if *o.OutputFile == "" {
			return invalid("output", "an output file is required")
		}
	}
	if *o.Mode == "storyboard" && *o.Samples < 2 {
		return invalid("samples", "need at least 2, got %d", *o.Samples)
	}
	return nil
}

// BackgroundColor parses the fallback background.
func (o *ViewerOptions) BackgroundColor() (css.Color, error) {
	return css.Parse(*o.Background)
}
