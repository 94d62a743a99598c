package capture

import (
	"errors"
	"image"

	"screensnap/internal/window"
)

// Region is a rectangle in virtual-screen coordinates.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display describes one attached monitor.
type Display struct {
	Index       int
	X           int
	Y           int
	Width       int
	Height      int
	ScaleFactor float64
}

// ErrNoDisplay means no display or capture backend is attached, such as a
// headless session with no forwarded display. Fatal for the call.
var ErrNoDisplay = errors.New("no active display found")

// ErrWindowUnsupported means this platform cannot capture a single window.
// Callers degrade to a full-screen capture.
var ErrWindowUnsupported = errors.New("window capture not supported on this platform")

// Capturer grabs pixels from the display. Each call is one synchronous,
// consistent snapshot.
type Capturer interface {
	// CaptureFullScreen captures the entire virtual screen, all monitors
	// combined into one coordinate space.
	CaptureFullScreen() (*image.RGBA, error)

	// CaptureRegion captures the given virtual-screen rectangle.
	CaptureRegion(region Region) (*image.RGBA, error)

	// CaptureWindow captures the bounding rectangle of a single window.
	// Returns ErrWindowUnsupported where the platform has no window API.
	CaptureWindow(h window.Handle) (*image.RGBA, error)

	// GetDisplays lists the attached monitors.
	GetDisplays() ([]Display, error)

	// GetFullBounds is the union rectangle of all monitors.
	GetFullBounds() Region
}

// BytesPerPixel is the RGBA pixel width in bytes.
const BytesPerPixel = 4

// CropImage cuts region out of img, clamping to the image bounds. Rows are
// copied wholesale rather than pixel by pixel.
func CropImage(img *image.RGBA, region Region) *image.RGBA {
	bounds := img.Bounds()

	if region.X < bounds.Min.X {
		region.Width -= bounds.Min.X - region.X
		region.X = bounds.Min.X
	}
	if region.Y < bounds.Min.Y {
		region.Height -= bounds.Min.Y - region.Y
		region.Y = bounds.Min.Y
	}
	if region.X+region.Width > bounds.Max.X {
		region.Width = bounds.Max.X - region.X
	}
	if region.Y+region.Height > bounds.Max.Y {
		region.Height = bounds.Max.Y - region.Y
	}

	if region.Width <= 0 || region.Height <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}

	cropped := image.NewRGBA(image.Rect(0, 0, region.Width, region.Height))

	srcStride := img.Stride
	dstStride := cropped.Stride
	bytesPerRow := region.Width * BytesPerPixel

	for y := 0; y < region.Height; y++ {
		srcStart := (region.Y-bounds.Min.Y+y)*srcStride + (region.X-bounds.Min.X)*BytesPerPixel
		dstStart := y * dstStride
		copy(cropped.Pix[dstStart:dstStart+bytesPerRow], img.Pix[srcStart:srcStart+bytesPerRow])
	}

	return cropped
}
