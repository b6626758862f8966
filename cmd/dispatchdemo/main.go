package main

import (
	"flag"
	"time"

	"tickdispatch/internal/logging"
	"tickdispatch/internal/work"
	"tickdispatch/pkg/dispatch"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to YAML config")
	flag.Parse()

	cfg := dispatch.LoadConfig(*configPath)
	log := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	log.Info("loaded config",
		"tick_ms", cfg.TickMS,
		"policy", cfg.Policy,
		"pool_limit", cfg.PoolLimit,
		"run_for_ms", cfg.RunForMS,
	)

	clock := dispatch.NewTickClock()
	clock.Start(time.Duration(cfg.TickMS) * time.Millisecond)
	defer clock.Stop()

	pool := dispatch.NewDynamicContextPool(cfg.PoolLimit)
	d := dispatch.NewTaskDispatcher(clock.Now, pool)
	d.SchedulingPolicy = cfg.SchedulingPolicy()
	d.Tracer = dispatch.TracerFunc(func(ev dispatch.TraceEvent) {
		log.Debug("trace", "kind", ev.Kind.String(), "tick", uint32(ev.Tick))
	})

	// Periodic heartbeat plus a sensor that trips a barrier every fifth
	// reading; the barrier waiter reacts to each trip.
	alarm := dispatch.NewEventBarrier(d)
	sensor := &work.Sensor{Barrier: alarm, Every: 5, Log: log}

	d.CallEvery(250, dispatch.Func(work.Heartbeat(log)), "heartbeat")
	d.CallEvery(50, dispatch.Bound(sensor, "Poll"), sensor)
	d.CallEvery(700, dispatch.Func(work.BusyWork(d, 30)), "busy")
	alarm.Whenever(dispatch.Func(func() {
		log.Info("alarm raised", "tick", uint32(clock.Now()))
	}), "alarm")

	// The demo loop is just a cooperative sleep: every scheduled task runs
	// inside Delay.
	d.Delay(int32(cfg.RunForMS / cfg.TickMS))

	d.CancelAll()
	log.Info("done", "pool_size", pool.Size(), "tick", uint32(clock.Now()))
}
