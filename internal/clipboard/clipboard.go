package clipboard

// Clipboard puts text on the system clipboard. Watch mode uses it to hand
// the saved screenshot path to whatever the user pastes into next.
type Clipboard interface {
	SetText(text string) error
}
