package work

import (
	"log/slog"

	"tickdispatch/pkg/dispatch"
)

// Heartbeat returns a callback that logs a counter each time it fires.
func Heartbeat(log *slog.Logger) func() {
	var beats int
	return func() {
		beats++
		log.Info("heartbeat", "beats", beats)
	}
}

// BusyWork returns a callback that occupies the loop for the given number of
// ticks. It delays cooperatively, so other scheduled tasks keep running
// underneath it.
func BusyWork(d *dispatch.TaskDispatcher, ticks int32) func() {
	return func() {
		d.Delay(ticks)
	}
}

// Sensor simulates a polled input that trips a barrier every nth reading.
type Sensor struct {
	Barrier *dispatch.EventBarrier
	Every   int
	Log     *slog.Logger

	readings int
}

// Poll takes one reading and signals the barrier on each nth one. It is
// meant to be scheduled as a bound method.
func (s *Sensor) Poll() {
	s.readings++
	if s.Every > 0 && s.readings%s.Every == 0 {
		s.Log.Debug("sensor tripped", "reading", s.readings)
		s.Barrier.Signal()
	}
}
