//go:build !windows

package notify

import "os/exec"

// execNotifier shells out to the platform notification tool, if any.
type execNotifier struct{}

// NewNotifier creates the platform notifier.
func NewNotifier() Notifier {
	return execNotifier{}
}

// Show tries osascript (macOS) then notify-send (Linux). Missing tools are
// not an error; the notification is best-effort.
func (execNotifier) Show(title, message string) error {
	if path, err := exec.LookPath("osascript"); err == nil {
		script := "display notification " + appleQuote(message) + " with title " + appleQuote(title)
		return exec.Command(path, "-e", script).Start()
	}
	if path, err := exec.LookPath("notify-send"); err == nil {
		return exec.Command(path, title, message).Start()
	}
	return nil
}

func appleQuote(s string) string {
	out := make([]rune, 0, len(s)+2)
	out = append(out, '"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(append(out, '"'))
}
