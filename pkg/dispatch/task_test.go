package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type counter struct {
	n int
}

func (c *counter) Bump() { c.n++ }

func (c *counter) task() Task { return Bound(c, "Bump") }

func TestTaskZeroValueInvalid(t *testing.T) {
	var task Task
	assert.False(t, task.Valid())
	assert.True(t, task.Equal(Func(nil)))
}

func TestTaskFunc(t *testing.T) {
	called := false
	task := Func(func() { called = true })

	assert.True(t, task.Valid())
	task.Invoke()
	assert.True(t, called)
}

func TestTaskBound(t *testing.T) {
	c := &counter{}
	task := Bound(c, "Bump")

	assert.True(t, task.Valid())
	task.Invoke()
	task.Invoke()
	assert.Equal(t, 2, c.n)
}

func TestTaskBoundInvalid(t *testing.T) {
	c := &counter{}

	assert.False(t, Bound(nil, "Bump").Valid())
	assert.False(t, Bound(c, "NoSuchMethod").Valid())
}

func TestTaskEqual(t *testing.T) {
	a, b := &counter{}, &counter{}

	assert.True(t, Bound(a, "Bump").Equal(Bound(a, "Bump")))
	assert.False(t, Bound(a, "Bump").Equal(Bound(b, "Bump")))

	var x, y int
	f := func() { x++ }
	g := func() { y += 2 }
	assert.True(t, Func(f).Equal(Func(f)))
	assert.False(t, Func(f).Equal(Func(g)))

	// Mixed variants never compare equal.
	assert.False(t, Func(f).Equal(Bound(a, "Bump")))
}
