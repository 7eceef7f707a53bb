package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains(t *testing.T) {
	pressed := Parse("space  left")
	assert.True(t, pressed.Contains(NewSet("SPACE")))
	assert.True(t, pressed.Contains(NewSet()))
	assert.False(t, pressed.Contains(NewSet("SPACE", "UP")))
	assert.False(t, Set{}.Contains(NewSet("SPACE")))
	assert.Equal(t, []KeyCode{"LEFT", "SPACE"}, pressed.Keys())
}
