package scroll

import "time"

// Progress thresholds of the hero choreography. All values are fractions of the
// scrollable range.
const (
	// HeroFadeStart is where the hero text and logos begin to fade out.
	HeroFadeStart = 0.05
	// HeroFadeEnd is where the hero text is fully transparent.
	HeroFadeEnd = 0.15
	// HoldStart pins the background while the hero text finishes fading.
	HoldStart = 0.15
	// DockStart is where the background starts docking into a framed card and
	// the video overlay appears.
	DockStart = 0.20
	// VideoFadeEnd is where the video overlay reaches full opacity.
	VideoFadeEnd = 0.25
	// CameraFreeze parks the terrain camera for the rest of the page.
	CameraFreeze = 0.30
	// VideoPauseAfter is the docking progress past which the video is paused.
	VideoPauseAfter = 0.80
)

// Camera path mapping: time = CameraTimeStart - progress*CameraTimeRate.
const (
	CameraTimeStart = 10.0
	CameraTimeRate  = 7.7
)

// Overlay transform extents.
const (
	// HeroScaleRate shrinks the hero text by this fraction over the full page.
	HeroScaleRate = 0.5
	// MaxSidePadding is the card inset in CSS pixels once fully docked.
	MaxSidePadding = 32.0
	// MaxBorderRadius is the card corner radius in CSS pixels once fully docked.
	MaxBorderRadius = 24.0
	// DockTravel is how far, in viewport heights, the docked card travels upward.
	DockTravel = 1.0
)

// Navbar thresholds in viewport heights. Unlike the choreography these depend
// on the absolute offset, not on progress.
const (
	// NavbarScrolledAfter is the offset past which the navbar gets its solid
	// background, where the feature sections begin.
	NavbarScrolledAfter = 5.5
	// NavbarHideMargin hides the navbar within this distance of the page end.
	NavbarHideMargin = 1.5
	// NavbarMinPages is the page height at or below which the navbar never hides.
	NavbarMinPages = 2.0
)

// DefaultThrottle is the minimum interval between two scroll samples (~30Hz).
const DefaultThrottle = 32 * time.Millisecond
