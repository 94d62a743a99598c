//go:build windows

package notify

import (
	"github.com/go-toast/toast"
)

// WindowsNotifier shows toast notifications.
type WindowsNotifier struct {
	appID string
}

// NewNotifier creates the platform notifier.
func NewNotifier() Notifier {
	return &WindowsNotifier{
		appID: "ScreenSnap",
	}
}

// Show pushes the toast asynchronously so the capture path never blocks
// on the notification subsystem.
func (n *WindowsNotifier) Show(title, message string) error {
	go func() {
		notification := toast.Notification{
			AppID:   n.appID,
			Title:   title,
			Message: message,
		}
		notification.Push()
	}()
	return nil
}
