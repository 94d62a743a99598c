//go:build !windows

package clipboard

import (
	"os/exec"
	"strings"
)

// execClipboard shells out to the platform clipboard tool.
type execClipboard struct{}

// NewClipboard creates the platform clipboard.
func NewClipboard() Clipboard {
	return execClipboard{}
}

// SetText pipes text into pbcopy, wl-copy, or xclip, whichever exists.
// No tool installed is not an error; the copy is best-effort.
func (execClipboard) SetText(text string) error {
	candidates := [][]string{
		{"pbcopy"},
		{"wl-copy"},
		{"xclip", "-selection", "clipboard"},
	}
	for _, candidate := range candidates {
		path, err := exec.LookPath(candidate[0])
		if err != nil {
			continue
		}
		cmd := exec.Command(path, candidate[1:]...)
		cmd.Stdin = strings.NewReader(text)
		return cmd.Run()
	}
	return nil
}
