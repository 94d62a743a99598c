//go:build !windows

package capture

import (
	"image"

	"github.com/kbinani/screenshot"
	"github.com/pkg/errors"

	"screensnap/internal/window"
)

// PortableCapturer grabs pixels through the kbinani/screenshot backend
// (X11/CGDisplay depending on the platform).
type PortableCapturer struct{}

// NewCapturer creates the platform capturer.
func NewCapturer() Capturer {
	return &PortableCapturer{}
}

// GetDisplays enumerates the attached monitors.
func (c *PortableCapturer) GetDisplays() ([]Display, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, ErrNoDisplay
	}

	displays := make([]Display, 0, n)
	for i := 0; i < n; i++ {
		bounds := screenshot.GetDisplayBounds(i)
		displays = append(displays, Display{
			Index:       i,
			X:           bounds.Min.X,
			Y:           bounds.Min.Y,
			Width:       bounds.Dx(),
			Height:      bounds.Dy(),
			ScaleFactor: 1.0,
		})
	}
	return displays, nil
}

// GetFullBounds returns the union rectangle of all monitors.
func (c *PortableCapturer) GetFullBounds() Region {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return Region{}
	}

	union := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		union = union.Union(screenshot.GetDisplayBounds(i))
	}
	return Region{
		X:      union.Min.X,
		Y:      union.Min.Y,
		Width:  union.Dx(),
		Height: union.Dy(),
	}
}

// CaptureFullScreen captures the whole virtual screen.
func (c *PortableCapturer) CaptureFullScreen() (*image.RGBA, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return nil, ErrNoDisplay
	}
	return c.CaptureRegion(c.GetFullBounds())
}

// CaptureRegion captures the given virtual-screen rectangle.
func (c *PortableCapturer) CaptureRegion(region Region) (*image.RGBA, error) {
	bounds := image.Rect(region.X, region.Y, region.X+region.Width, region.Y+region.Height)
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, errors.Wrap(err, "capture screen")
	}
	return img, nil
}

// CaptureWindow is unavailable without a window-system API; callers fall
// back to CaptureFullScreen.
func (c *PortableCapturer) CaptureWindow(h window.Handle) (*image.RGBA, error) {
	return nil, ErrWindowUnsupported
}
