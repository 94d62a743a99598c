// Package hotkey registers the watch-mode capture hotkey.
package hotkey

import (
	"fmt"
	"strings"

	"golang.design/x/hotkey"
	"golang.design/x/hotkey/mainthread"
)

// Manager owns one registered hotkey and its callback.
type Manager struct {
	hk       *hotkey.Hotkey
	callback func()
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

func parseModifiers(mods []string) []hotkey.Modifier {
	var result []hotkey.Modifier
	for _, mod := range mods {
		switch strings.ToLower(mod) {
		case "ctrl", "control":
			result = append(result, hotkey.ModCtrl)
		case "alt", "option":
			result = append(result, hotkey.ModAlt)
		case "shift":
			result = append(result, hotkey.ModShift)
		case "win", "cmd", "command", "super":
			result = append(result, hotkey.ModWin)
		}
	}
	return result
}

func parseKey(key string) (hotkey.Key, error) {
	key = strings.ToUpper(key)

	if len(key) == 1 && (key[0] >= 'A' && key[0] <= 'Z' || key[0] >= '0' && key[0] <= '9') {
		return hotkey.Key(key[0]), nil
	}

	switch key {
	case "F1":
		return hotkey.KeyF1, nil
	case "F2":
		return hotkey.KeyF2, nil
	case "F3":
		return hotkey.KeyF3, nil
	case "F4":
		return hotkey.KeyF4, nil
	case "F5":
		return hotkey.KeyF5, nil
	case "F6":
		return hotkey.KeyF6, nil
	case "F7":
		return hotkey.KeyF7, nil
	case "F8":
		return hotkey.KeyF8, nil
	case "F9":
		return hotkey.KeyF9, nil
	case "F10":
		return hotkey.KeyF10, nil
	case "F11":
		return hotkey.KeyF11, nil
	case "F12":
		return hotkey.KeyF12, nil
	case "SPACE":
		return hotkey.KeySpace, nil
	case "RETURN", "ENTER":
		return hotkey.KeyReturn, nil
	case "TAB":
		return hotkey.KeyTab, nil
	}

	return 0, fmt.Errorf("unsupported key %q (use a-z, 0-9, f1-f12)", key)
}

// Register binds the combination and arranges callback to run on every
// keydown. Fails when another program already owns the combination.
func (m *Manager) Register(modifiers []string, key string, callback func()) error {
	mods := parseModifiers(modifiers)
	if len(mods) == 0 {
		return fmt.Errorf("need at least one modifier (ctrl/alt/shift/win)")
	}

	k, err := parseKey(key)
	if err != nil {
		return err
	}

	m.hk = hotkey.New(mods, k)
	m.callback = callback

	if err := m.hk.Register(); err != nil {
		return fmt.Errorf("register hotkey: %v", err)
	}

	return nil
}

// Unregister releases the hotkey.
func (m *Manager) Unregister() error {
	if m.hk != nil {
		return m.hk.Unregister()
	}
	return nil
}

// Listen blocks, invoking the callback on every keydown.
func (m *Manager) Listen() {
	for range m.hk.Keydown() {
		if m.callback != nil {
			m.callback()
		}
	}
}

// Run executes fn on the main thread. Some platforms require hotkey
// registration to happen there.
func Run(fn func()) {
	mainthread.Init(fn)
}

// ParseCombo splits a combo like "ctrl+alt+s" into modifiers and key.
func ParseCombo(combo string) (modifiers []string, key string, err error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(combo)), "+")
	cleaned := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) < 2 {
		return nil, "", fmt.Errorf("invalid hotkey %q: need modifier+key, like ctrl+alt+s", combo)
	}

	modifiers = cleaned[:len(cleaned)-1]
	key = cleaned[len(cleaned)-1]

	if len(parseModifiers(modifiers)) != len(modifiers) {
		return nil, "", fmt.Errorf("invalid hotkey %q: unknown modifier (use ctrl/alt/shift/win)", combo)
	}
	if _, err := parseKey(key); err != nil {
		return nil, "", fmt.Errorf("invalid hotkey %q: %v", combo, err)
	}
	return modifiers, key, nil
}
