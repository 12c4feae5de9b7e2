package driven

import "time"

// CancelTick cancels a scheduled tick. Safe to call more than once.
type CancelTick func()

// TickScheduler abstracts "schedule the next timing callback" for the
// playback engine. The engine schedules exactly one tick at a time and
// reschedules only after the previous tick completed, so implementations
// never run callbacks concurrently for one engine.
type TickScheduler interface {
	// Schedule runs fn once after d and returns a cancel function.
	Schedule(d time.Duration, fn func()) CancelTick
}
