package stringutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAnyEmpty(t *testing.T) {
	assert.False(t, IsAnyEmpty())
	assert.False(t, IsAnyEmpty("a", "b"))
	assert.True(t, IsAnyEmpty("a", ""))
	assert.True(t, IsAnyEmpty(""))
}

func TestRandomBytesString(t *testing.T) {
	var one = RandomBytesString(32)
	var two = RandomBytesString(32)
	assert.NotEmpty(t, one)
	assert.NotEqual(t, one, two)
}

func TestSplitTrimmed(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitTrimmed("a,b"))
	assert.Equal(t, []string{"a", "b"}, SplitTrimmed(" a , b "))
	assert.Empty(t, SplitTrimmed(""))
	assert.Empty(t, SplitTrimmed(" , ,"))
	assert.Equal(t, []string{"solo"}, SplitTrimmed("solo"))
}
