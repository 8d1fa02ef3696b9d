package host

import (
	"fmt"
	"io"
	"text/tabwriter"

	css "github.com/mazznoer/csscolorparser"
	"github.com/richinsley/goterrain/camera"
	"github.com/richinsley/goterrain/overlay"
	"github.com/richinsley/goterrain/scroll"
)

// Storyboard scrolls c from the top to the bottom of the page in evenly spaced
// steps and writes one row per step: progress, phase, camera and the overlay
// styles. c should not throttle, or rows will show the last admitted sample.
func Storyboard(w io.Writer, c *scroll.Controller, samples int, background css.Color) error {
	if samples < 2 {
		return fmt.Errorf("storyboard needs at least 2 samples, got %d", samples)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "offset\tprogress\tphase\tcamera t\tcamera x,z\troll\tvideo")
	type row struct {
		state scroll.State
		frame overlay.Frame
	}
	rows := make([]row, 0, samples)
	for i := 0; i < samples; i++ {
		c.ScrollTo(c.MaxOffset() * float64(i) / float64(samples-1))
		c.Flush()
		state := c.Current()
		pose := camera.At(state.CameraTime)
		frame := overlay.Styles(state, background)
		video := "paused"
		if frame.VideoPlaying {
			video = "playing"
		}
		fmt.Fprintf(tw, "%.0f\t%.3f\t%s\t%.3f\t%.0f,%.0f\t%.3f\t%s\n",
			c.Offset(), state.Progress, state.Phase, state.CameraTime,
			pose.Origin.X(), pose.Origin.Z(), pose.Roll, video)
		rows = append(rows, row{state, frame})
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "\n[%.3f %s]\n", r.state.Progress, r.state.Phase); err != nil {
			return err
		}
		for e := overlay.Hero; e <= overlay.Navbar; e++ {
			if _, err := fmt.Fprintf(w, "  %-6s %s\n", e, r.frame.Styles[e]); err != nil {
				return err
			}
		}
	}
	return nil
}
