//go:build !windows

package window

// stubLocator stands in on platforms without window enumeration. Every
// lookup reports ErrNotFound so callers take the full-screen fallback.
type stubLocator struct{}

// NewLocator creates the window locator.
func NewLocator() Locator {
	return stubLocator{}
}

func (stubLocator) Find(titleFragment string) (Handle, string, error) {
	return 0, "", ErrNotFound
}
