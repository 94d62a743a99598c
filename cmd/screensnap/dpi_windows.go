//go:build windows

package main

import "syscall"

func init() {
	// DPI awareness must be set before any other Win32 call, otherwise the
	// virtual-screen metrics come back scaled instead of in physical pixels.
	user32 := syscall.NewLazyDLL("user32.dll")

	// Windows 10 1703+ API first.
	ctx := user32.NewProc("SetProcessDpiAwarenessContext")
	if err := ctx.Find(); err == nil {
		// DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2 = -4
		r, _, _ := ctx.Call(^uintptr(3))
		if r != 0 {
			return
		}
		// DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE = -3
		r, _, _ = ctx.Call(^uintptr(2))
		if r != 0 {
			return
		}
	}

	// Windows 8.1+ API.
	shcore := syscall.NewLazyDLL("shcore.dll")
	awareness := shcore.NewProc("SetProcessDpiAwareness")
	if err := awareness.Find(); err == nil {
		r, _, _ := awareness.Call(2) // PROCESS_PER_MONITOR_DPI_AWARE
		if r == 0 {                  // S_OK
			return
		}
		// E_ACCESSDENIED means something set it already; take system DPI.
		awareness.Call(1)
		return
	}

	// Vista+ fallback.
	user32.NewProc("SetProcessDPIAware").Call()
}
