package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusDeliversNextFrame(t *testing.T) {
	b := NewBus()
	var got []GameOver
	Subscribe(b, func(ev GameOver) { got = append(got, ev) })

	Emit(b, GameOver{Won: true, Frame: 3})
	b.DispatchAll()
	assert.Empty(t, got, "events are not visible in the frame that emitted them")

	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, []GameOver{{Won: true, Frame: 3}}, got)

	b.SwapBuffers()
	b.DispatchAll()
	assert.Len(t, got, 1, "events are delivered once")
}
