package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldReplan(t *testing.T) {
	route := Route{{2, 0}, {3, 1}}

	assert.True(t, ShouldReplan(route, Position{3, 1}, true))
	assert.True(t, ShouldReplan(route, Position{2, 0}, true))
	assert.False(t, ShouldReplan(route, Position{5, 5}, true))
	// membership, not proximity
	assert.False(t, ShouldReplan(route, Position{3, 2}, true))
}

func TestShouldReplanWithoutEnemy(t *testing.T) {
	route := Route{{2, 0}, {3, 1}}

	assert.False(t, ShouldReplan(route, Position{3, 1}, false))
	assert.False(t, ShouldReplan(nil, NoPosition, false))
	assert.False(t, ShouldReplan(nil, Position{0, 0}, true))
}

func TestRouteLast(t *testing.T) {
	_, ok := Route{}.Last()
	assert.False(t, ok)

	last, ok := Route{{1, 1}, {2, 2}}.Last()
	assert.True(t, ok)
	assert.Equal(t, Position{2, 2}, last)
}
