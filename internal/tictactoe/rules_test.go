package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

const (
	x = entity.PlayerX
	o = entity.PlayerO
	e = entity.EmptyCell
)

func TestWinner(t *testing.T) {
	t.Run("Every line is detected", func(t *testing.T) {
		for _, combo := range WinCombos {
			// Given: a board where only this line is filled by O
			var board entity.Board
			for _, cell := range combo {
				board[cell] = o
			}

			// When: looking for a winner
			winner, ok := Winner(board)

			// Then: O wins
			require.True(t, ok, "combo %v", combo)
			assert.Equal(t, o, winner)
		}
	})

	t.Run("Column win for X", func(t *testing.T) {
		// Given: X holds the left column
		board := entity.Board{
			x, o, e,
			x, o, e,
			x, e, e,
		}

		// When: looking for a winner
		winner, ok := Winner(board)

		// Then: X is the winner
		require.True(t, ok)
		assert.Equal(t, x, winner)
	})

	t.Run("No winner on an ongoing board", func(t *testing.T) {
		// Given: a board without a complete line
		board := entity.Board{
			x, o, x,
			e, o, e,
			x, e, e,
		}

		// When: looking for a winner
		winner, ok := Winner(board)

		// Then: there is none
		assert.False(t, ok)
		assert.Equal(t, e, winner)
	})

	t.Run("Empty cells never form a line", func(t *testing.T) {
		_, ok := Winner(entity.Board{})

		assert.False(t, ok)
	})
}

func TestIsFull(t *testing.T) {
	assert.False(t, IsFull(entity.Board{}))
	assert.False(t, IsFull(entity.Board{x, o, x, o, x, o, o, x, e}))
	assert.True(t, IsFull(entity.Board{x, o, x, x, o, o, o, x, x}))
}

func TestStatus(t *testing.T) {
	t.Run("Win", func(t *testing.T) {
		// Given: X completed the top row
		board := entity.Board{
			x, x, x,
			o, o, e,
			e, e, e,
		}

		// When: deriving the status
		status := Status(board, false)

		// Then: X wins and no next player is reported
		assert.Equal(t, entity.Status{Outcome: entity.OutcomeWin, Winner: x}, status)
	})

	t.Run("Win on a full board is still a win", func(t *testing.T) {
		// Given: the last move fills the board and completes a diagonal
		board := entity.Board{
			x, o, x,
			o, x, o,
			o, x, x,
		}

		// When: deriving the status
		status := Status(board, false)

		// Then: the win takes precedence over the draw
		assert.True(t, status.IsWin())
		assert.Equal(t, x, status.Winner)
	})

	t.Run("Draw", func(t *testing.T) {
		// Given: a full board without a line
		board := entity.Board{
			x, o, x,
			x, o, o,
			o, x, x,
		}

		// When: deriving the status
		status := Status(board, true)

		// Then: the game is a draw
		assert.Equal(t, entity.Status{Outcome: entity.OutcomeDraw}, status)
	})

	t.Run("In progress reports the next player", func(t *testing.T) {
		board := entity.Board{x, e, e, e, e, e, e, e, e}

		assert.Equal(t, entity.Status{Outcome: entity.OutcomeInProgress, NextPlayer: o}, Status(board, false))
		assert.Equal(t, entity.Status{Outcome: entity.OutcomeInProgress, NextPlayer: x}, Status(board, true))
	})
}
