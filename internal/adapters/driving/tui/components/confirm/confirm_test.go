package confirm

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type confirmed struct{}

func yes() tea.Msg { return confirmed{} }

func TestDialog_ClosedByDefault(t *testing.T) {
	d := New(nil)

	assert.False(t, d.Open())
	assert.Empty(t, d.View())
}

func TestDialog_Confirm(t *testing.T) {
	d := New(nil)
	d.Ask(`Delete collection "Research"?`, yes)
	require.True(t, d.Open())
	assert.Contains(t, d.View(), `Delete collection "Research"?`)

	d, cmd := d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})

	require.NotNil(t, cmd)
	assert.Equal(t, confirmed{}, cmd())
	assert.False(t, d.Open())
}

func TestDialog_Deny(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'n'}},
		{Type: tea.KeyEsc},
	} {
		d := New(nil)
		d.Ask("Delete?", yes)

		d, cmd := d.Update(key)

		assert.Nil(t, cmd)
		assert.False(t, d.Open())
	}
}

func TestDialog_IgnoresOtherKeys(t *testing.T) {
	d := New(nil)
	d.Ask("Delete?", yes)

	d, cmd := d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	assert.Nil(t, cmd)
	assert.True(t, d.Open())
}

func TestDialog_UpdateWhenClosed(t *testing.T) {
	d := New(nil)

	_, cmd := d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})

	assert.Nil(t, cmd)
}
