// Package timing provides the wall-clock tick scheduler used by playback.
package timing

import (
	"time"

	"github.com/pacerlabs/pacer-cli/internal/core/ports/driven"
)

// Ensure TimerScheduler implements the interface.
var _ driven.TickScheduler = (*TimerScheduler)(nil)

// TimerScheduler schedules callbacks on runtime timers.
type TimerScheduler struct{}

// NewTimerScheduler creates a scheduler backed by time.AfterFunc.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{}
}

// Schedule runs fn once after d. The returned cancel stops the callback if
// it has not fired yet.
func (s *TimerScheduler) Schedule(d time.Duration, fn func()) driven.CancelTick {
	t := time.AfterFunc(d, fn)
	return func() {
		t.Stop()
	}
}
