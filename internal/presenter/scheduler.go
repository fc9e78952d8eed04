package presenter

import "time"

// Task is a scheduled callback that can be canceled before it runs.
type Task interface {
	Stop() bool
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Task
}

type wallClock struct{}

// NewScheduler - returns a scheduler backed by the runtime timers.
func NewScheduler() Scheduler {
	return wallClock{}
}

func (wallClock) AfterFunc(d time.Duration, f func()) Task {
	return time.AfterFunc(d, f)
}
