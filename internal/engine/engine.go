// Package engine orchestrates one capture: resolve configuration, derive a
// safe output path, pick the capture target, grab the pixels, and persist
// them atomically. Each call is independent; the engine keeps no state
// between calls beyond the read-only config it was built with.
package engine

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/pkg/errors"

	"screensnap/internal/capture"
	"screensnap/internal/config"
	"screensnap/internal/storage"
	"screensnap/internal/window"
)

// Request describes one capture. Empty fields fall back to the config.
type Request struct {
	Filename    string // output name; auto-generated when empty
	OutputDir   string // overrides config output_dir
	Format      string // overrides config format
	JpegQuality int    // overrides config jpeg_quality
	WindowTitle string // capture the window matching this title fragment
}

// Result reports a completed capture.
type Result struct {
	Path     string // absolute path of the written file
	Filename string
	Format   string
	Width    int
	Height   int

	// FellBack is set when a window capture degraded to full screen, with
	// FallbackReason explaining why. The file was still written.
	FellBack       bool
	FallbackReason string

	// WindowTitle is the full title of the captured window, when one was.
	WindowTitle string
}

// Engine is the capture facade.
type Engine struct {
	cfg      *config.Config
	capturer capture.Capturer
	locator  window.Locator
}

// New builds an engine around the resolved config and the platform
// capture backends.
func New(cfg *config.Config) *Engine {
	return &Engine{
		cfg:      cfg,
		capturer: capture.NewCapturer(),
		locator:  window.NewLocator(),
	}
}

// Capture runs one capture to completion. Failures come back typed:
// *storage.ValidationError for a rejected filename, capture.ErrNoDisplay
// when no display is attached, wrapped I/O errors for directory or write
// trouble. A failed call writes nothing.
func (e *Engine) Capture(req Request) (*Result, error) {
	cfg := e.cfg.Resolve(config.Overrides{
		OutputDir:   req.OutputDir,
		Format:      req.Format,
		JpegQuality: req.JpegQuality,
	})

	path, err := storage.ResolvePath(req.Filename, cfg.OutputDir, cfg.Format, cfg.IncludeTimestamp)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Path:   path,
		Format: cfg.Format,
	}

	img, err := e.grab(req.WindowTitle, res)
	if err != nil {
		return nil, err
	}

	if err := storage.Save(img, path, cfg.Format, cfg.JpegQuality); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	res.Width = bounds.Dx()
	res.Height = bounds.Dy()
	res.Filename = filepath.Base(path)
	return res, nil
}

// grab resolves the capture target and extracts the pixels. A window
// request degrades to full screen when the window cannot be found or the
// platform cannot capture windows; the fallback is recorded on res, never
// silent.
func (e *Engine) grab(windowTitle string, res *Result) (*image.RGBA, error) {
	if windowTitle != "" {
		h, title, err := e.locator.Find(windowTitle)
		switch {
		case errors.Is(err, window.ErrNotFound):
			res.FellBack = true
			res.FallbackReason = fmt.Sprintf("window %q not found", windowTitle)
		case err != nil:
			return nil, errors.Wrap(err, "locate window")
		default:
			img, err := e.capturer.CaptureWindow(h)
			if errors.Is(err, capture.ErrWindowUnsupported) {
				res.FellBack = true
				res.FallbackReason = "window capture not supported on this platform"
			} else if err != nil {
				return nil, errors.Wrapf(err, "capture window %q", title)
			} else {
				res.WindowTitle = title
				return img, nil
			}
		}
	}

	img, err := e.capturer.CaptureFullScreen()
	if err != nil {
		return nil, err
	}
	return img, nil
}
