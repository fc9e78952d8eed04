// Package presentertest provides a scheduler whose time only moves when a test advances it.
package presentertest

import (
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/presenter"
)

type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	scheduler *ManualScheduler
	at        time.Duration
	seq       int
	run       func()
	done      bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (that *ManualScheduler) AfterFunc(d time.Duration, f func()) presenter.Task {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.seq++
	task := &manualTask{scheduler: that, at: that.now + d, seq: that.seq, run: f}
	that.tasks = append(that.tasks, task)

	return task
}

// Advance - moves time forward, running every due task in order. Tasks scheduled by a running
// task are run too when they fall due before the new time.
func (that *ManualScheduler) Advance(d time.Duration) {
	that.mu.Lock()
	target := that.now + d
	that.mu.Unlock()

	for {
		that.mu.Lock()
		next := that.nextDueLocked(target)
		if next == nil {
			that.now = target
			that.mu.Unlock()
			return
		}

		that.now = next.at
		next.done = true
		that.mu.Unlock()

		next.run()
	}
}

// Pending - returns the number of tasks that are neither run nor stopped.
func (that *ManualScheduler) Pending() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	pending := 0
	for _, task := range that.tasks {
		if !task.done {
			pending++
		}
	}

	return pending
}

func (that *ManualScheduler) nextDueLocked(target time.Duration) *manualTask {
	var next *manualTask
	for _, task := range that.tasks {
		if task.done || task.at > target {
			continue
		}

		if next == nil || task.at < next.at || (task.at == next.at && task.seq < next.seq) {
			next = task
		}
	}

	return next
}

func (that *manualTask) Stop() bool {
	that.scheduler.mu.Lock()
	defer that.scheduler.mu.Unlock()

	if that.done {
		return false
	}

	that.done = true

	return true
}
