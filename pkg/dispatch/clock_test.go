package dispatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualClock(t *testing.T) {
	c := NewManualClock(5)
	assert.Equal(t, Ticks(5), c.Now())

	c.Advance(10)
	assert.Equal(t, Ticks(15), c.Now())

	c.Set(2)
	assert.Equal(t, Ticks(2), c.Now())
}

func TestTickBeforeAcrossWrap(t *testing.T) {
	max := ^Ticks(0)
	assert.True(t, tickBefore(max-1, max))
	assert.True(t, tickBefore(max, 0), "wraparound keeps ordering")
	assert.False(t, tickBefore(0, max))
	assert.False(t, tickBefore(7, 7))
}

func TestTickClockCounts(t *testing.T) {
	c := NewTickClock()
	c.Start(time.Millisecond)
	defer c.Stop()

	deadline := time.After(time.Second)
	for c.Now() == 0 {
		select {
		case <-deadline:
			t.Fatal("clock never ticked")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestMillisAdvances(t *testing.T) {
	a := Millis()
	time.Sleep(5 * time.Millisecond)
	b := Millis()
	assert.True(t, tickBefore(a, b))
}
