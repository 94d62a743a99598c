package notify

// Notifier shows a desktop notification after a watch-mode capture.
type Notifier interface {
	Show(title, message string) error
}
