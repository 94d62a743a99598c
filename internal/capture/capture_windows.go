//go:build windows

package capture

import (
	"image"
	"syscall"
	"unsafe"

	"github.com/pkg/errors"

	"screensnap/internal/window"
)

var (
	user32 = syscall.NewLazyDLL("user32.dll")
	gdi32  = syscall.NewLazyDLL("gdi32.dll")
	shcore = syscall.NewLazyDLL("shcore.dll")

	getDC               = user32.NewProc("GetDC")
	getWindowDC         = user32.NewProc("GetWindowDC")
	releaseDC           = user32.NewProc("ReleaseDC")
	getSystemMetrics    = user32.NewProc("GetSystemMetrics")
	enumDisplayMonitors = user32.NewProc("EnumDisplayMonitors")
	getMonitorInfoW     = user32.NewProc("GetMonitorInfoW")
	getWindowRect       = user32.NewProc("GetWindowRect")
	printWindow         = user32.NewProc("PrintWindow")

	createCompatibleDC = gdi32.NewProc("CreateCompatibleDC")
	createDIBSection   = gdi32.NewProc("CreateDIBSection")
	selectObject       = gdi32.NewProc("SelectObject")
	bitBlt             = gdi32.NewProc("BitBlt")
	deleteDC           = gdi32.NewProc("DeleteDC")
	deleteObject       = gdi32.NewProc("DeleteObject")

	getDpiForMonitor = shcore.NewProc("GetDpiForMonitor")
)

const (
	smXVirtualScreen  = 76
	smYVirtualScreen  = 77
	smCxVirtualScreen = 78
	smCyVirtualScreen = 79
	srcCopy           = 0x00CC0020
	biRGB             = 0
	dibRGBColors      = 0
	smCMonitors       = 80

	// Renders DirectComposition content, needed for modern apps.
	pwRenderFullContent = 2
)

type bitmapInfoHeader struct {
	BiSize          uint32
	BiWidth         int32
	BiHeight        int32
	BiPlanes        uint16
	BiBitCount      uint16
	BiCompression   uint32
	BiSizeImage     uint32
	BiXPelsPerMeter int32
	BiYPelsPerMeter int32
	BiClrUsed       uint32
	BiClrImportant  uint32
}

type bitmapInfo struct {
	BmiHeader bitmapInfoHeader
	BmiColors [1]uint32
}

type winRect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

type monitorInfo struct {
	CbSize    uint32
	RcMonitor winRect
	RcWork    winRect
	DwFlags   uint32
}

// WindowsCapturer grabs pixels with GDI.
type WindowsCapturer struct {
	displays []Display
}

// NewCapturer creates the platform capturer.
func NewCapturer() Capturer {
	return &WindowsCapturer{}
}

// GetDisplays enumerates the attached monitors.
func (c *WindowsCapturer) GetDisplays() ([]Display, error) {
	c.displays = []Display{}

	callback := syscall.NewCallback(func(hMonitor, hdcMonitor, lprcMonitor, dwData uintptr) uintptr {
		var mi monitorInfo
		mi.CbSize = uint32(unsafe.Sizeof(mi))

		ret, _, _ := getMonitorInfoW.Call(hMonitor, uintptr(unsafe.Pointer(&mi)))
		if ret != 0 {
			display := Display{
				Index:       len(c.displays),
				X:           int(mi.RcMonitor.Left),
				Y:           int(mi.RcMonitor.Top),
				Width:       int(mi.RcMonitor.Right - mi.RcMonitor.Left),
				Height:      int(mi.RcMonitor.Bottom - mi.RcMonitor.Top),
				ScaleFactor: 1.0,
			}

			var dpiX, dpiY uint32
			if getDpiForMonitor.Find() == nil {
				ret, _, _ := getDpiForMonitor.Call(
					hMonitor,
					0, // MDT_EFFECTIVE_DPI
					uintptr(unsafe.Pointer(&dpiX)),
					uintptr(unsafe.Pointer(&dpiY)),
				)
				if ret == 0 {
					display.ScaleFactor = float64(dpiX) / 96.0
				}
			}

			c.displays = append(c.displays, display)
		}
		return 1 // keep enumerating
	})

	enumDisplayMonitors.Call(0, 0, callback, 0)

	if len(c.displays) == 0 {
		return nil, ErrNoDisplay
	}
	return c.displays, nil
}

// GetFullBounds returns the virtual screen rectangle covering all monitors.
func (c *WindowsCapturer) GetFullBounds() Region {
	// GetSystemMetrics returns int32, sign-extend before use.
	x, _, _ := getSystemMetrics.Call(smXVirtualScreen)
	y, _, _ := getSystemMetrics.Call(smYVirtualScreen)
	width, _, _ := getSystemMetrics.Call(smCxVirtualScreen)
	height, _, _ := getSystemMetrics.Call(smCyVirtualScreen)

	return Region{
		X:      int(int32(x)),
		Y:      int(int32(y)),
		Width:  int(int32(width)),
		Height: int(int32(height)),
	}
}

// CaptureFullScreen captures the whole virtual screen.
func (c *WindowsCapturer) CaptureFullScreen() (*image.RGBA, error) {
	monitors, _, _ := getSystemMetrics.Call(smCMonitors)
	if int(int32(monitors)) == 0 {
		return nil, ErrNoDisplay
	}

	bounds := c.GetFullBounds()
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return nil, ErrNoDisplay
	}
	return c.CaptureRegion(bounds)
}

// CaptureRegion captures the given virtual-screen rectangle with BitBlt.
func (c *WindowsCapturer) CaptureRegion(region Region) (*image.RGBA, error) {
	hdcScreen, _, err := getDC.Call(0)
	if hdcScreen == 0 {
		return nil, errors.Wrap(err, "get screen DC")
	}
	defer releaseDC.Call(0, hdcScreen)

	img, err2 := blitToImage(hdcScreen, region.Width, region.Height, func(hdcMem uintptr) error {
		ret, _, _ := bitBlt.Call(
			hdcMem, 0, 0, uintptr(region.Width), uintptr(region.Height),
			hdcScreen, uintptr(region.X), uintptr(region.Y),
			srcCopy,
		)
		if ret == 0 {
			return errors.New("BitBlt failed")
		}
		return nil
	})
	return img, err2
}

// CaptureWindow captures one window. PrintWindow is asked first so occluded
// windows come out intact; if the target refuses (some GPU-rendered apps
// do), the window rectangle is cut out of a full-screen grab instead.
func (c *WindowsCapturer) CaptureWindow(h window.Handle) (*image.RGBA, error) {
	var rect winRect
	ret, _, _ := getWindowRect.Call(uintptr(h), uintptr(unsafe.Pointer(&rect)))
	if ret == 0 {
		return nil, errors.New("get window rect")
	}

	width := int(rect.Right - rect.Left)
	height := int(rect.Bottom - rect.Top)
	if width <= 0 || height <= 0 {
		return nil, errors.New("window has empty bounds")
	}

	hdcWindow, _, err := getWindowDC.Call(uintptr(h))
	if hdcWindow == 0 {
		return nil, errors.Wrap(err, "get window DC")
	}
	defer releaseDC.Call(uintptr(h), hdcWindow)

	img, err2 := blitToImage(hdcWindow, width, height, func(hdcMem uintptr) error {
		ret, _, _ := printWindow.Call(uintptr(h), hdcMem, pwRenderFullContent)
		if ret == 0 {
			return errors.New("PrintWindow failed")
		}
		return nil
	})
	if err2 == nil {
		return img, nil
	}

	// Screen-region fallback: capture the virtual screen and crop out the
	// window rect. Gets whatever overlaps the window on screen.
	full, ferr := c.CaptureFullScreen()
	if ferr != nil {
		return nil, err2
	}
	bounds := c.GetFullBounds()
	return CropImage(full, Region{
		X:      int(rect.Left) - bounds.X,
		Y:      int(rect.Top) - bounds.Y,
		Width:  width,
		Height: height,
	}), nil
}

// blitToImage creates a top-down 32-bit DIB of the given size, lets blit
// draw into it, and converts the BGRA bits to an RGBA image.
func blitToImage(hdcRef uintptr, width, height int, blit func(hdcMem uintptr) error) (*image.RGBA, error) {
	hdcMem, _, err := createCompatibleDC.Call(hdcRef)
	if hdcMem == 0 {
		return nil, errors.Wrap(err, "create compatible DC")
	}
	defer deleteDC.Call(hdcMem)

	var bi bitmapInfo
	bi.BmiHeader.BiSize = uint32(unsafe.Sizeof(bi.BmiHeader))
	bi.BmiHeader.BiWidth = int32(width)
	bi.BmiHeader.BiHeight = -int32(height) // negative = top-down rows
	bi.BmiHeader.BiPlanes = 1
	bi.BmiHeader.BiBitCount = 32
	bi.BmiHeader.BiCompression = biRGB

	var pBits uintptr
	hBitmap, _, _ := createDIBSection.Call(
		hdcMem,
		uintptr(unsafe.Pointer(&bi)),
		dibRGBColors,
		uintptr(unsafe.Pointer(&pBits)),
		0, 0,
	)
	if hBitmap == 0 || pBits == 0 {
		return nil, errors.New("create DIB section")
	}
	defer deleteObject.Call(hBitmap)

	hOldBitmap, _, _ := selectObject.Call(hdcMem, hBitmap)
	defer selectObject.Call(hdcMem, hOldBitmap)

	if err := blit(hdcMem); err != nil {
		return nil, err
	}

	pixels := unsafe.Slice((*byte)(unsafe.Pointer(pBits)), width*height*BytesPerPixel)

	// Windows hands back BGRA.
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += BytesPerPixel {
		img.Pix[i+0] = pixels[i+2] // R <- B
		img.Pix[i+1] = pixels[i+1] // G <- G
		img.Pix[i+2] = pixels[i+0] // B <- R
		img.Pix[i+3] = 255
	}

	return img, nil
}
