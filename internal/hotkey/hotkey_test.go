package hotkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCombo(t *testing.T) {
	mods, key, err := ParseCombo("ctrl+alt+s")

	require.NoError(t, err)
	assert.Equal(t, []string{"ctrl", "alt"}, mods)
	assert.Equal(t, "s", key)
}

func TestParseComboFunctionKey(t *testing.T) {
	mods, key, err := ParseCombo("Shift+F5")

	require.NoError(t, err)
	assert.Equal(t, []string{"shift"}, mods)
	assert.Equal(t, "f5", key)
}

func TestParseComboInvalid(t *testing.T) {
	cases := []string{
		"",
		"s",
		"ctrl+",
		"bogus+s",
		"ctrl+escape-key",
	}
	for _, combo := range cases {
		_, _, err := ParseCombo(combo)
		assert.Error(t, err, "combo %q", combo)
	}
}
