package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	require.NotNil(t, km)
}

func TestDefaultKeyMap_Keys(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		keyStr  string
		binding func() bool
	}{
		{"quit q", "q", func() bool { return Matches("q", km.Quit) }},
		{"quit ctrl+c", "ctrl+c", func() bool { return Matches("ctrl+c", km.Quit) }},
		{"toggle space", " ", func() bool { return Matches(" ", km.Toggle) }},
		{"toggle all", "a", func() bool { return Matches("a", km.ToggleAll) }},
		{"filter", "/", func() bool { return Matches("/", km.Filter) }},
		{"delete", "d", func() bool { return Matches("d", km.Delete) }},
		{"confirm", "y", func() bool { return Matches("y", km.Confirm) }},
		{"deny esc", "esc", func() bool { return Matches("esc", km.Deny) }},
		{"submit", "ctrl+s", func() bool { return Matches("ctrl+s", km.Submit) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.binding(), "expected %q to match", tt.keyStr)
		})
	}
}

func TestShortHelp(t *testing.T) {
	km := DefaultKeyMap()
	help := km.ShortHelp()

	require.Len(t, help, 3)
	assert.Equal(t, "esc", help[0].Help().Key)
}

func TestFullHelp(t *testing.T) {
	km := DefaultKeyMap()
	groups := km.FullHelp()

	assert.Len(t, groups, 5)
	for _, g := range groups {
		assert.NotEmpty(t, g)
	}
}

func TestMatches_False(t *testing.T) {
	km := DefaultKeyMap()
	assert.False(t, Matches("x", km.Quit))
	assert.False(t, Matches("", km.Delete))
}

func TestBindings_HaveHelp(t *testing.T) {
	km := DefaultKeyMap()
	for _, group := range km.FullHelp() {
		for _, b := range group {
			assert.NotEmpty(t, b.Help().Key)
			assert.NotEmpty(t, b.Help().Desc)
		}
	}
}
