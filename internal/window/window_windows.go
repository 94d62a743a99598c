//go:build windows

package window

import (
	"strings"
	"syscall"
	"unsafe"
)

var (
	user32 = syscall.NewLazyDLL("user32.dll")

	enumWindows       = user32.NewProc("EnumWindows")
	isWindowVisible   = user32.NewProc("IsWindowVisible")
	getWindowTextW    = user32.NewProc("GetWindowTextW")
	getWindowTextLenW = user32.NewProc("GetWindowTextLengthW")
)

// WindowsLocator finds windows through EnumWindows.
type WindowsLocator struct{}

// NewLocator creates the window locator.
func NewLocator() Locator {
	return &WindowsLocator{}
}

// Find enumerates visible top-level windows and returns the first whose
// title contains the fragment, ignoring case. EnumWindows walks windows in
// z-order starting at the topmost, so ties resolve to the frontmost match.
func (l *WindowsLocator) Find(titleFragment string) (Handle, string, error) {
	fragment := strings.ToLower(titleFragment)

	var (
		found      Handle
		foundTitle string
	)

	callback := syscall.NewCallback(func(hwnd, lparam uintptr) uintptr {
		visible, _, _ := isWindowVisible.Call(hwnd)
		if visible == 0 {
			return 1 // keep enumerating
		}

		title := windowTitle(hwnd)
		if title == "" {
			return 1
		}

		if strings.Contains(strings.ToLower(title), fragment) {
			found = Handle(hwnd)
			foundTitle = title
			return 0 // first match wins, stop enumerating
		}
		return 1
	})

	enumWindows.Call(callback, 0)

	if found == 0 {
		return 0, "", ErrNotFound
	}
	return found, foundTitle, nil
}

func windowTitle(hwnd uintptr) string {
	length, _, _ := getWindowTextLenW.Call(hwnd)
	if length == 0 {
		return ""
	}

	buf := make([]uint16, length+1)
	copied, _, _ := getWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if copied == 0 {
		return ""
	}
	return syscall.UTF16ToString(buf[:copied])
}
