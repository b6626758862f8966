// pkg/dispatch/task.go

// Package dispatch is a cooperative task dispatcher for single-threaded
// control loops. Application code registers callbacks that run at scheduled
// future times, at periodic intervals, or in response to logical events, and
// drives everything by calling the dispatcher's Run step from its main loop.
//
// All state is owned by the one goroutine that calls Run, Delay, and Wait.
// The package performs no locking and callbacks execute synchronously on the
// caller's stack.
package dispatch

import "reflect"

// Task is a uniform callable handle: either a plain function or a method
// bound to a receiver. The zero Task is invalid and dispatches nothing.
//
// Tasks have value semantics and compare structurally with Equal. Plain
// functions compare by code pointer, so two closures created from the same
// function literal are considered equal. Bound tasks compare by (receiver,
// method name); the receiver must be of a comparable type (a pointer is the
// usual case).
type Task struct {
	fn   func()
	recv any
	name string
}

// Func wraps a plain function as a Task. Func(nil) is invalid.
func Func(f func()) Task {
	return Task{fn: f}
}

// Bound binds the named exported niladic method of recv as a Task. The
// result is invalid if recv is nil or has no such method.
func Bound(recv any, method string) Task {
	t := Task{recv: recv, name: method}
	if recv == nil {
		return t
	}
	m := reflect.ValueOf(recv).MethodByName(method)
	if m.IsValid() {
		if f, ok := m.Interface().(func()); ok {
			t.fn = f
		}
	}
	return t
}

// Valid reports whether invoking the task would actually call something.
func (t Task) Valid() bool {
	return t.fn != nil
}

// Invoke calls the underlying function or bound method. Callers must check
// Valid first; invoking an invalid Task panics.
func (t Task) Invoke() {
	t.fn()
}

// Equal reports whether both tasks refer to the same function, or to the
// same (receiver, method) pair.
func (t Task) Equal(rhs Task) bool {
	if t.recv != rhs.recv {
		return false
	}
	if t.recv == nil {
		return funcPointer(t.fn) == funcPointer(rhs.fn)
	}
	return t.name == rhs.name
}

func funcPointer(f func()) uintptr {
	if f == nil {
		return 0
	}
	return reflect.ValueOf(f).Pointer()
}
