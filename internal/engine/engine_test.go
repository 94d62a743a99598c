package engine

import (
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screensnap/internal/capture"
	"screensnap/internal/config"
	"screensnap/internal/storage"
	"screensnap/internal/window"
)

type fakeCapturer struct {
	full      *image.RGBA
	fullErr   error
	window    *image.RGBA
	windowErr error
}

func (f *fakeCapturer) CaptureFullScreen() (*image.RGBA, error) {
	return f.full, f.fullErr
}

func (f *fakeCapturer) CaptureRegion(region capture.Region) (*image.RGBA, error) {
	return f.full, f.fullErr
}

func (f *fakeCapturer) CaptureWindow(h window.Handle) (*image.RGBA, error) {
	return f.window, f.windowErr
}

func (f *fakeCapturer) GetDisplays() ([]capture.Display, error) {
	return []capture.Display{{Width: 64, Height: 48, ScaleFactor: 1}}, nil
}

func (f *fakeCapturer) GetFullBounds() capture.Region {
	return capture.Region{Width: 64, Height: 48}
}

type fakeLocator struct {
	handle window.Handle
	title  string
	err    error
}

func (f *fakeLocator) Find(titleFragment string) (window.Handle, string, error) {
	return f.handle, f.title, f.err
}

func solidImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = 40
		img.Pix[i+1] = 120
		img.Pix[i+2] = 200
		img.Pix[i+3] = 255
	}
	return img
}

func testEngine(dir string, c capture.Capturer, loc window.Locator) *Engine {
	cfg := config.Default()
	cfg.OutputDir = dir
	return &Engine{cfg: cfg, capturer: c, locator: loc}
}

func TestCaptureAutoName(t *testing.T) {
	dir := t.TempDir()
	eng := testEngine(dir, &fakeCapturer{full: solidImage(64, 48)}, &fakeLocator{err: window.ErrNotFound})

	res, err := eng.Capture(Request{})

	require.NoError(t, err)
	assert.Regexp(t, `^screenshot_\d{8}_\d{6}\.png$`, res.Filename)
	assert.Equal(t, "png", res.Format)
	assert.Equal(t, 64, res.Width)
	assert.Equal(t, 48, res.Height)
	assert.False(t, res.FellBack)

	info, statErr := os.Stat(res.Path)
	require.NoError(t, statErr)
	assert.Greater(t, info.Size(), int64(0))
}

func TestCaptureNamedFile(t *testing.T) {
	dir := t.TempDir()
	eng := testEngine(dir, &fakeCapturer{full: solidImage(10, 10)}, &fakeLocator{err: window.ErrNotFound})

	res, err := eng.Capture(Request{Filename: "bug_report.png"})

	require.NoError(t, err)
	assert.Equal(t, "bug_report.png", res.Filename)
	assert.Equal(t, filepath.Join(dir, "bug_report.png"), res.Path)

	_, statErr := os.Stat(res.Path)
	assert.NoError(t, statErr)
}

func TestCaptureRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	eng := testEngine(dir, &fakeCapturer{full: solidImage(10, 10)}, &fakeLocator{err: window.ErrNotFound})

	_, err := eng.Capture(Request{Filename: "../../etc/passwd"})

	var verr *storage.ValidationError
	require.ErrorAs(t, err, &verr)
	assertEmptyDir(t, dir)
}

func TestCaptureFormatOverride(t *testing.T) {
	dir := t.TempDir()
	eng := testEngine(dir, &fakeCapturer{full: solidImage(10, 10)}, &fakeLocator{err: window.ErrNotFound})

	res, err := eng.Capture(Request{Filename: "x", Format: "jpg"})

	require.NoError(t, err)
	assert.Equal(t, "x.jpg", res.Filename)
	assert.Equal(t, "jpg", res.Format)

	f, err := os.Open(res.Path)
	require.NoError(t, err)
	defer f.Close()
	_, err = jpeg.Decode(f)
	assert.NoError(t, err, "file decodes as JPEG")
}

func TestCaptureNoDisplay(t *testing.T) {
	dir := t.TempDir()
	eng := testEngine(dir, &fakeCapturer{fullErr: capture.ErrNoDisplay}, &fakeLocator{err: window.ErrNotFound})

	_, err := eng.Capture(Request{})

	require.Error(t, err)
	assert.ErrorIs(t, err, capture.ErrNoDisplay)
	assertEmptyDir(t, dir)
}

func TestCaptureWindowHit(t *testing.T) {
	dir := t.TempDir()
	eng := testEngine(dir,
		&fakeCapturer{full: solidImage(64, 48), window: solidImage(30, 20)},
		&fakeLocator{handle: 42, title: "Bug Tracker - Firefox"})

	res, err := eng.Capture(Request{WindowTitle: "firefox"})

	require.NoError(t, err)
	assert.False(t, res.FellBack)
	assert.Equal(t, "Bug Tracker - Firefox", res.WindowTitle)
	assert.Equal(t, 30, res.Width)
	assert.Equal(t, 20, res.Height)
}

func TestCaptureWindowNotFoundFallsBack(t *testing.T) {
	dir := t.TempDir()
	eng := testEngine(dir, &fakeCapturer{full: solidImage(64, 48)}, &fakeLocator{err: window.ErrNotFound})

	res, err := eng.Capture(Request{WindowTitle: "no-such-window"})

	require.NoError(t, err, "not found is a fallback, not a failure")
	assert.True(t, res.FellBack)
	assert.Contains(t, res.FallbackReason, "no-such-window")
	assert.Equal(t, 64, res.Width, "full screen was captured")
}

func TestCaptureWindowUnsupportedFallsBack(t *testing.T) {
	dir := t.TempDir()
	eng := testEngine(dir,
		&fakeCapturer{full: solidImage(64, 48), windowErr: capture.ErrWindowUnsupported},
		&fakeLocator{handle: 42, title: "Terminal"})

	res, err := eng.Capture(Request{WindowTitle: "Terminal"})

	require.NoError(t, err)
	assert.True(t, res.FellBack)
	assert.Contains(t, res.FallbackReason, "not supported")
	assert.Equal(t, 64, res.Width)
}

func TestCaptureWindowCaptureFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	eng := testEngine(dir,
		&fakeCapturer{full: solidImage(64, 48), windowErr: errors.New("PrintWindow failed")},
		&fakeLocator{handle: 42, title: "Terminal"})

	_, err := eng.Capture(Request{WindowTitle: "Terminal"})

	require.Error(t, err)
	assertEmptyDir(t, dir)
}

func TestCaptureWrittenPixelsSurvive(t *testing.T) {
	dir := t.TempDir()
	src := solidImage(16, 16)
	eng := testEngine(dir, &fakeCapturer{full: src}, &fakeLocator{err: window.ErrNotFound})

	res, err := eng.Capture(Request{Filename: "pixels"})
	require.NoError(t, err)

	f, err := os.Open(res.Path)
	require.NoError(t, err)
	defer f.Close()

	decoded, err := png.Decode(f)
	require.NoError(t, err)
	r, g, b, _ := decoded.At(8, 8).RGBA()
	assert.Equal(t, color.RGBA{R: 40, G: 120, B: 200, A: 255}, color.RGBA{
		R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255,
	})
}

func TestConcurrentCapturesToDistinctPaths(t *testing.T) {
	dir := t.TempDir()
	eng := testEngine(dir, &fakeCapturer{full: solidImage(8, 8)}, &fakeLocator{err: window.ErrNotFound})

	done := make(chan error, 4)
	names := []string{"a.png", "b.png", "c.png", "d.png"}
	for _, name := range names {
		go func(name string) {
			_, err := eng.Capture(Request{Filename: name})
			done <- err
		}(name)
	}
	for range names {
		require.NoError(t, <-done)
	}

	for _, name := range names {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err)
	}
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "a failed capture must write nothing")
}
