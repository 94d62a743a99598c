package storage

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/pkg/errors"
)

// MaxFilenameLen is the portable filename length limit.
const MaxFilenameLen = 255

// ValidationError reports an unsafe or malformed filename. No file is
// written and the filesystem is not touched when it is returned.
type ValidationError struct {
	Filename string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid filename %q: %s", e.Filename, e.Reason)
}

// ResolvePath turns the requested filename into a safe absolute path under
// outputDir, creating the directory if needed. An empty filename is
// synthesized as screenshot_<YYYYMMDD>_<HHMMSS>.<format>, or plain
// screenshot.<format> when includeTimestamp is false. Timestamp resolution
// is one second; two auto-named captures within the same second resolve to
// the same path and the later write wins.
func ResolvePath(filename, outputDir, format string, includeTimestamp bool) (string, error) {
	var name string
	if filename == "" {
		name = synthesizeName(format, includeTimestamp)
	} else {
		if err := validateFilename(filename); err != nil {
			return "", err
		}
		name = enforceExt(filename, format)
	}

	dir := ExpandHome(outputDir)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, "create output directory")
	}

	abs, err := filepath.Abs(filepath.Join(dir, name))
	if err != nil {
		return "", errors.Wrap(err, "resolve output path")
	}
	return abs, nil
}

func synthesizeName(format string, includeTimestamp bool) string {
	if !includeTimestamp {
		return "screenshot." + format
	}
	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("screenshot_%s.%s", timestamp, format)
}

func validateFilename(name string) error {
	fail := func(reason string) error {
		return &ValidationError{Filename: name, Reason: reason}
	}

	if strings.ContainsAny(name, `/\`) || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return fail("path components not allowed")
	}
	if strings.Contains(name, "..") {
		return fail("path traversal not allowed")
	}
	if len(name) > MaxFilenameLen {
		return fail(fmt.Sprintf("too long (%d chars, max %d)", len(name), MaxFilenameLen))
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return fail("control characters not allowed")
		}
		switch r {
		case '<', '>', ':', '"', '|', '?', '*':
			return fail(fmt.Sprintf("illegal character %q", r))
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' && r != '.' {
			return fail(fmt.Sprintf("unsupported character %q", r))
		}
	}
	if strings.Trim(name, ".") == "" {
		return fail("empty name")
	}
	return nil
}

// enforceExt makes the final extension agree with the configured format,
// so the name always matches the encoding actually written. A conflicting
// image extension is rewritten; anything else counts as part of the name
// and the format extension is appended.
func enforceExt(name, format string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "."+format {
		return name
	}
	switch ext {
	case ".png", ".jpg", ".jpeg":
		return strings.TrimSuffix(name, filepath.Ext(name)) + "." + format
	}
	return name + "." + format
}

// ExpandHome resolves a leading ~ to the user home directory.
func ExpandHome(dir string) string {
	if len(dir) > 0 && dir[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, dir[1:])
		}
	}
	return dir
}

// Save encodes img per format and writes it to path atomically: the bytes
// go to a temporary file in the target directory first, then a rename
// publishes the finished file. A crash or a full disk mid-write never
// leaves a truncated image at path.
func Save(img image.Image, path, format string, quality int) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".screensnap-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temporary file")
	}
	tmpName := tmp.Name()

	switch format {
	case "jpg", "jpeg":
		err = jpeg.Encode(tmp, img, &jpeg.Options{Quality: quality})
	default:
		err = png.Encode(tmp, img)
	}
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "encode image")
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "write image")
	}

	// CreateTemp files are 0600; the published screenshot should not be.
	_ = os.Chmod(tmpName, 0644)

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "publish image")
	}
	return nil
}
