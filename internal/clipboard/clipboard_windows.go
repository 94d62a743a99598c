//go:build windows

package clipboard

import (
	"errors"
	"syscall"
	"unsafe"
)

var (
	user32   = syscall.NewLazyDLL("user32.dll")
	kernel32 = syscall.NewLazyDLL("kernel32.dll")

	openClipboard    = user32.NewProc("OpenClipboard")
	closeClipboard   = user32.NewProc("CloseClipboard")
	emptyClipboard   = user32.NewProc("EmptyClipboard")
	setClipboardData = user32.NewProc("SetClipboardData")

	globalAlloc  = kernel32.NewProc("GlobalAlloc")
	globalFree   = kernel32.NewProc("GlobalFree")
	globalLock   = kernel32.NewProc("GlobalLock")
	globalUnlock = kernel32.NewProc("GlobalUnlock")
)

const (
	cfUnicodeText = 13
	gmemMoveable  = 0x0002
)

// WindowsClipboard writes through the Win32 clipboard API.
type WindowsClipboard struct{}

// NewClipboard creates the platform clipboard.
func NewClipboard() Clipboard {
	return &WindowsClipboard{}
}

// SetText replaces the clipboard contents with text.
func (c *WindowsClipboard) SetText(text string) error {
	utf16, err := syscall.UTF16FromString(text)
	if err != nil {
		return err
	}
	size := len(utf16) * 2

	ret, _, _ := openClipboard.Call(0)
	if ret == 0 {
		return errors.New("open clipboard")
	}
	defer closeClipboard.Call()

	emptyClipboard.Call()

	// Ownership of the allocation passes to the clipboard on success.
	hMem, _, _ := globalAlloc.Call(gmemMoveable, uintptr(size))
	if hMem == 0 {
		return errors.New("allocate clipboard memory")
	}

	ptr, _, _ := globalLock.Call(hMem)
	if ptr == 0 {
		globalFree.Call(hMem)
		return errors.New("lock clipboard memory")
	}

	for i, v := range utf16 {
		*(*uint16)(unsafe.Pointer(ptr + uintptr(i*2))) = v
	}

	globalUnlock.Call(hMem)

	ret, _, _ = setClipboardData.Call(cfUnicodeText, hMem)
	if ret == 0 {
		globalFree.Call(hMem)
		return errors.New("set clipboard data")
	}

	return nil
}
