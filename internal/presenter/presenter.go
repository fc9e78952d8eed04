// Package presenter drives the feedback shown when a game is won: a banner that clears itself
// and a short celebration animation. Both are timer driven and canceled by a restart.
package presenter

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

const (
	DefaultBannerDuration      = 4500 * time.Millisecond
	DefaultCelebrationDelay    = 300 * time.Millisecond
	DefaultCelebrationDuration = 2 * time.Second
	DefaultFrameInterval       = 250 * time.Millisecond
)

type Options struct {
	BannerDuration      time.Duration
	CelebrationDelay    time.Duration
	CelebrationDuration time.Duration
	FrameInterval       time.Duration
}

func DefaultOptions() Options {
	return Options{
		BannerDuration:      DefaultBannerDuration,
		CelebrationDelay:    DefaultCelebrationDelay,
		CelebrationDuration: DefaultCelebrationDuration,
		FrameInterval:       DefaultFrameInterval,
	}
}

// Presenter implements tictactoe.Listener for one session.
type Presenter struct {
	logger    *slog.Logger
	scheduler Scheduler
	opts      Options
	onChange  func()

	mu              sync.Mutex
	generation      uint64
	banner          string
	bannerTask      Task
	celebrating     bool
	frame           int
	celebrationTask Task
}

// New - creates a presenter. onChange, when set, is called after every timer driven change
// and never while a session operation is notifying the presenter.
func New(logger *slog.Logger, scheduler Scheduler, opts Options, onChange func()) *Presenter {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = opts.CelebrationDuration
	}

	return &Presenter{
		logger:    logger.With("component", "presenter"),
		scheduler: scheduler,
		opts:      opts,
		onChange:  onChange,
	}
}

func (that *Presenter) OnWin(player entity.Mark) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.cancelLocked()
	that.generation++
	generation := that.generation

	that.banner = fmt.Sprintf("WINNER: PLAYER %s", player)
	that.bannerTask = that.scheduler.AfterFunc(that.opts.BannerDuration, func() {
		that.clearBanner(generation)
	})
	that.celebrationTask = that.scheduler.AfterFunc(that.opts.CelebrationDelay, func() {
		that.advanceCelebration(generation, 0)
	})

	that.logger.Debug("win announced", "player", player, "generation", generation)
}

func (that *Presenter) OnRestart() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.resetLocked()

	that.logger.Debug("effects canceled on restart", "generation", that.generation)
}

// Close - stops every pending timer.
func (that *Presenter) Close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.resetLocked()
}

func (that *Presenter) View() entity.Presentation {
	that.mu.Lock()
	defer that.mu.Unlock()

	return entity.Presentation{
		Banner:           that.banner,
		Celebrating:      that.celebrating,
		CelebrationFrame: that.frame,
	}
}

func (that *Presenter) clearBanner(generation uint64) {
	that.mu.Lock()
	if generation != that.generation {
		that.mu.Unlock()
		return
	}

	that.banner = ""
	that.bannerTask = nil
	that.mu.Unlock()

	that.changed()
}

// advanceCelebration - shows the given frame, or ends the celebration once its duration is spent.
func (that *Presenter) advanceCelebration(generation uint64, frame int) {
	that.mu.Lock()
	if generation != that.generation {
		that.mu.Unlock()
		return
	}

	if time.Duration(frame)*that.opts.FrameInterval >= that.opts.CelebrationDuration {
		that.celebrating = false
		that.frame = 0
		that.celebrationTask = nil
	} else {
		that.celebrating = true
		that.frame = frame
		that.celebrationTask = that.scheduler.AfterFunc(that.opts.FrameInterval, func() {
			that.advanceCelebration(generation, frame+1)
		})
	}
	that.mu.Unlock()

	that.changed()
}

func (that *Presenter) resetLocked() {
	that.cancelLocked()
	that.generation++

	that.banner = ""
	that.celebrating = false
	that.frame = 0
}

func (that *Presenter) cancelLocked() {
	if that.bannerTask != nil {
		that.bannerTask.Stop()
		that.bannerTask = nil
	}

	if that.celebrationTask != nil {
		that.celebrationTask.Stop()
		that.celebrationTask = nil
	}
}

func (that *Presenter) changed() {
	if that.onChange != nil {
		that.onChange()
	}
}
