package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

// Listener receives the outbound notifications of a session.
type Listener interface {
	// OnWin fires once, synchronously, for the move that completes a line.
	OnWin(player entity.Mark)
	// OnRestart fires when the session is reset, so pending effects can be canceled.
	OnRestart()
}

type noopListener struct{}

func (noopListener) OnWin(entity.Mark) {}
func (noopListener) OnRestart()        {}

// Session owns the history of snapshots and the index of the viewed one.
// It is not safe for concurrent use.
type Session struct {
	history     []entity.Board
	currentMove int
	listener    Listener
}

func NewSession(listener Listener) *Session {
	if listener == nil {
		listener = noopListener{}
	}

	return &Session{
		history:  []entity.Board{{}},
		listener: listener,
	}
}

// RestoreSession - rebuilds a session from its stored state. The listener is not notified.
func RestoreSession(state entity.SessionState, listener Listener) (*Session, error) {
	if err := validateHistory(state.History, state.CurrentMove); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrCorruptedSession, err)
	}

	session := NewSession(listener)
	session.history = make([]entity.Board, len(state.History))
	copy(session.history, state.History)
	session.currentMove = state.CurrentMove

	return session, nil
}

// Copy - returns an independent session with the same state and no listener.
func (that *Session) Copy() *Session {
	copied := NewSession(nil)
	copied.history = that.History()
	copied.currentMove = that.currentMove

	return copied
}

// SelectCell - places the mark of the player to move on the viewed snapshot.
// Any future snapshots left over from undo are discarded.
func (that *Session) SelectCell(cell int) error {
	if cell < 0 || cell >= entity.BoardSize {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	current := that.Board()

	if _, ok := Winner(current); ok {
		return apperror.ErrGameFinished
	}

	if !current[cell].IsEmpty() {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	next := current.With(cell, that.NextPlayer())

	that.history = append(that.history[:that.currentMove+1:that.currentMove+1], next)
	that.currentMove = len(that.history) - 1

	if winner, ok := Winner(next); ok {
		that.listener.OnWin(winner)
	}

	return nil
}

// Undo - steps the viewed snapshot back by one move. History is kept.
func (that *Session) Undo() error {
	if that.currentMove == 0 {
		return apperror.ErrNothingToUndo
	}

	that.currentMove--

	return nil
}

func (that *Session) Restart() {
	that.history = []entity.Board{{}}
	that.currentMove = 0

	that.listener.OnRestart()
}

func (that *Session) CurrentStatus() entity.Status {
	return Status(that.Board(), that.NextPlayer() == entity.PlayerX)
}

// Board - returns the viewed snapshot.
func (that *Session) Board() entity.Board {
	return that.history[that.currentMove]
}

func (that *Session) NextPlayer() entity.Mark {
	return entity.NextPlayer(that.currentMove)
}

func (that *Session) CanUndo() bool {
	return that.currentMove > 0
}

func (that *Session) CurrentMove() int {
	return that.currentMove
}

// History - returns a copy of every snapshot, including ones ahead of the viewed move.
func (that *Session) History() []entity.Board {
	history := make([]entity.Board, len(that.history))
	copy(history, that.history)

	return history
}

func (that *Session) State(id string) entity.SessionState {
	return entity.SessionState{
		ID:          id,
		History:     that.History(),
		CurrentMove: that.currentMove,
	}
}

func validateHistory(history []entity.Board, currentMove int) error {
	if len(history) == 0 {
		return fmt.Errorf("history is empty")
	}

	if !history[0].IsEmpty() {
		return fmt.Errorf("first snapshot is not empty")
	}

	if currentMove < 0 || currentMove >= len(history) {
		return fmt.Errorf("current move %d out of range [0, %d]", currentMove, len(history)-1)
	}

	for i := 1; i < len(history); i++ {
		prev, next := history[i-1], history[i]

		if _, ok := Winner(prev); ok {
			return fmt.Errorf("snapshot %d follows a finished game", i)
		}

		changed := 0
		for cell := range next {
			if prev[cell] == next[cell] {
				continue
			}

			changed++
			if !prev[cell].IsEmpty() || next[cell] != entity.NextPlayer(i-1) {
				return fmt.Errorf("snapshot %d has an illegal change at cell %d", i, cell)
			}
		}

		if changed != 1 {
			return fmt.Errorf("snapshot %d changes %d cells", i, changed)
		}
	}

	return nil
}
