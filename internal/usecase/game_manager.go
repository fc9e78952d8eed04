package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/presenter"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.SessionState) error
	GetByID(ctx context.Context, id string) (*entity.SessionState, error)
	DeleteByID(ctx context.Context, id string) error
}

// table is one running game: the session and the presenter reacting to it.
type table struct {
	mu        sync.Mutex
	id        string
	session   *tictactoe.Session
	presenter *presenter.Presenter
	closed    bool
}

// GameManager hosts the running sessions. Operations on one session run one at a time.
type GameManager struct {
	logger       *slog.Logger
	sessionRepo  sessionRepo
	scheduler    presenter.Scheduler
	presentation presenter.Options

	mu     sync.Mutex
	tables map[string]*table

	subscribersMu sync.RWMutex
	subscribers   map[int]func(entity.GameView)
	nextSubID     int
}

func NewGameManager(logger *slog.Logger, sessionRepo sessionRepo, scheduler presenter.Scheduler, presentation presenter.Options) *GameManager {
	return &GameManager{
		logger:       logger.With("component", "game_manager"),
		sessionRepo:  sessionRepo,
		scheduler:    scheduler,
		presentation: presentation,
		tables:       make(map[string]*table),
		subscribers:  make(map[int]func(entity.GameView)),
	}
}

// Subscribe - registers fn to receive every view change of every session. Views of one session
// arrive in the order the changes were applied. fn runs while the session is locked and must not
// call back into the manager.
func (that *GameManager) Subscribe(fn func(view entity.GameView)) (unsubscribe func()) {
	that.subscribersMu.Lock()
	defer that.subscribersMu.Unlock()

	id := that.nextSubID
	that.nextSubID++
	that.subscribers[id] = fn

	return func() {
		that.subscribersMu.Lock()
		defer that.subscribersMu.Unlock()

		delete(that.subscribers, id)
	}
}

// Open - returns the view of the session, starting a new one when id is empty or unknown.
func (that *GameManager) Open(ctx context.Context, id string) (*entity.GameView, error) {
	if id != "" {
		existing, err := that.lookup(ctx, id)
		if err == nil {
			view := existing.view()
			return &view, nil
		}

		if !errors.Is(err, apperror.ErrSessionNotFound) {
			return nil, fmt.Errorf("failed to get session: %w", err)
		}
	}

	created, err := that.createTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	view := created.view()

	return &view, nil
}

func (that *GameManager) View(ctx context.Context, id string) (*entity.GameView, error) {
	existing, err := that.lookup(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	view := existing.view()

	return &view, nil
}

func (that *GameManager) SelectCell(ctx context.Context, id string, cell int) (*entity.GameView, error) {
	return that.apply(ctx, id, "SelectCell", func(session *tictactoe.Session) error {
		return session.SelectCell(cell)
	})
}

func (that *GameManager) Undo(ctx context.Context, id string) (*entity.GameView, error) {
	return that.apply(ctx, id, "Undo", func(session *tictactoe.Session) error {
		return session.Undo()
	})
}

func (that *GameManager) Restart(ctx context.Context, id string) (*entity.GameView, error) {
	return that.apply(ctx, id, "Restart", func(session *tictactoe.Session) error {
		session.Restart()
		return nil
	})
}

// Close - ends the session and forgets it.
func (that *GameManager) Close(ctx context.Context, id string) error {
	log := that.logger.With("method", "Close", "sessionID", id)

	that.mu.Lock()
	defer that.mu.Unlock()

	existing, ok := that.tables[id]
	delete(that.tables, id)

	if ok {
		existing.mu.Lock()
		existing.closed = true
		existing.presenter.Close()
		existing.mu.Unlock()
	}

	err := that.sessionRepo.DeleteByID(ctx, id)
	if errors.Is(err, apperror.ErrSessionNotFound) && ok {
		err = nil
	}

	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	log.Info("session closed")

	return nil
}

// apply - runs op on the session, saves and publishes the result. A rejected op returns the
// unchanged view with the rejection. A failed save leaves the session unchanged.
func (that *GameManager) apply(ctx context.Context, id, method string, op func(*tictactoe.Session) error) (*entity.GameView, error) {
	existing, err := that.lookup(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return that.applyTo(ctx, existing, method, op)
}

func (that *GameManager) applyTo(ctx context.Context, existing *table, method string, op func(*tictactoe.Session) error) (*entity.GameView, error) {
	log := that.logger.With("method", method, "sessionID", existing.id)

	existing.mu.Lock()
	defer existing.mu.Unlock()

	if existing.closed {
		return nil, fmt.Errorf("failed to get session: %w", apperror.ErrSessionNotFound)
	}

	// op runs on a copy first so nothing changes, and nobody is notified, until the save succeeds
	trial := existing.session.Copy()
	if err := op(trial); err != nil {
		log.Debug("request rejected", "error", err)

		view := existing.viewLocked()
		return &view, err
	}

	state := trial.State(existing.id)
	if err := that.sessionRepo.CreateOrUpdate(ctx, &state); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if err := op(existing.session); err != nil {
		return nil, fmt.Errorf("failed to apply saved change: %w", err)
	}

	view := existing.viewLocked()

	log.Debug("session updated", "move", view.CurrentMove, "status", view.StatusText)
	that.publish(view)

	return &view, nil
}

// lookup - finds a running session, restoring it from the store when needed.
func (that *GameManager) lookup(ctx context.Context, id string) (*table, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if existing, ok := that.tables[id]; ok {
		return existing, nil
	}

	if id == "" {
		return nil, apperror.ErrSessionNotFound
	}

	state, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	restored := that.newTable(id)
	restored.session, err = tictactoe.RestoreSession(*state, restored.presenter)
	if err != nil {
		that.logger.Warn("dropping unreadable session", "sessionID", id, "error", err)
		return nil, fmt.Errorf("%w: %w", apperror.ErrSessionNotFound, err)
	}

	that.tables[id] = restored

	return restored, nil
}

func (that *GameManager) createTable(ctx context.Context) (*table, error) {
	created := that.newTable(uuid.NewString())
	created.session = tictactoe.NewSession(created.presenter)

	state := created.session.State(created.id)
	if err := that.sessionRepo.CreateOrUpdate(ctx, &state); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	that.mu.Lock()
	that.tables[created.id] = created
	that.mu.Unlock()

	that.logger.Info("session started", "sessionID", created.id)

	return created, nil
}

func (that *GameManager) newTable(id string) *table {
	created := &table{id: id}
	created.presenter = presenter.New(that.logger, that.scheduler, that.presentation, func() {
		created.mu.Lock()
		defer created.mu.Unlock()

		if created.closed || created.session == nil {
			return
		}

		that.publish(created.viewLocked())
	})

	return created
}

func (that *GameManager) publish(view entity.GameView) {
	that.subscribersMu.RLock()
	defer that.subscribersMu.RUnlock()

	for _, fn := range that.subscribers {
		fn(view)
	}
}

func (that *table) view() entity.GameView {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.viewLocked()
}

func (that *table) viewLocked() entity.GameView {
	status := that.session.CurrentStatus()

	return entity.GameView{
		SessionID:    that.id,
		Board:        that.session.Board(),
		Status:       status,
		StatusText:   status.String(),
		CurrentMove:  that.session.CurrentMove(),
		CanUndo:      that.session.CanUndo(),
		Presentation: that.presenter.View(),
	}
}
