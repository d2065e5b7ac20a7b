package epoch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounter_Next(t *testing.T) {
	var c Counter
	assert.Equal(t, uint64(0), c.Current())

	first := c.Next()
	second := c.Next()

	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second)
	assert.Equal(t, second, c.Current())
}

func TestCounter_IsCurrent(t *testing.T) {
	var c Counter
	assert.False(t, c.IsCurrent(0), "zero before any request")

	old := c.Next()
	assert.True(t, c.IsCurrent(old))

	latest := c.Next()
	assert.False(t, c.IsCurrent(old), "older answers are stale")
	assert.True(t, c.IsCurrent(latest))
	assert.False(t, c.IsCurrent(0))
}
