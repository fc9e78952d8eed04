package apperror

import (
	"errors"
	"fmt"
)

// ErrRejected marks a request that was refused without changing any state.
var ErrRejected = errors.New("move rejected")

var (
	ErrCellOccupied  = fmt.Errorf("%w: cell is already occupied", ErrRejected)
	ErrGameFinished  = fmt.Errorf("%w: game is already finished", ErrRejected)
	ErrInvalidCell   = fmt.Errorf("%w: invalid cell index", ErrRejected)
	ErrNothingToUndo = fmt.Errorf("%w: nothing to undo", ErrRejected)

	ErrSessionNotFound  = errors.New("session not found")
	ErrCorruptedSession = errors.New("session state is corrupted")
)
