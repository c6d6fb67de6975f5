// Package capture grabs the desktop and manages the transient PNG file that
// carries it from one cycle step to the next.
package capture

import (
	"context"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// AllDisplays captures the union of every active display.
const AllDisplays = -1

// Grabber takes one picture of the screen.
type Grabber interface {
	Grab(ctx context.Context) (image.Image, error)
}

// ScreenGrabber captures a display through the native screen APIs.
type ScreenGrabber struct {
	display int
}

// NewScreenGrabber returns a grabber for the given display index, or
// AllDisplays for the whole virtual desktop.
func NewScreenGrabber(display int) *ScreenGrabber {
	return &ScreenGrabber{display: display}
}

func (g *ScreenGrabber) Grab(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, fmt.Errorf("no active displays found")
	}

	var bounds image.Rectangle
	if g.display == AllDisplays {
		for i := 0; i < n; i++ {
			bounds = bounds.Union(screenshot.GetDisplayBounds(i))
		}
	} else {
		if g.display >= n {
			return nil, fmt.Errorf("display %d not found, %d active", g.display, n)
		}
		bounds = screenshot.GetDisplayBounds(g.display)
	}

	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("failed to capture screen: %w", err)
	}
	return img, nil
}
