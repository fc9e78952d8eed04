package tictactoe

import "github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"

// WinCombos - rows, columns and diagonals in the order they are checked.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Winner - returns the player holding the first complete line, if any.
func Winner(board entity.Board) (entity.Mark, bool) {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if !a.IsEmpty() && a == b && b == c {
			return a, true
		}
	}

	return entity.EmptyCell, false
}

// IsFull - checks that no cell is left empty.
func IsFull(board entity.Board) bool {
	for _, cell := range board {
		if cell.IsEmpty() {
			return false
		}
	}

	return true
}

// Status - derives the outcome of a snapshot. A win takes precedence over a full board.
func Status(board entity.Board, xIsNext bool) entity.Status {
	if winner, ok := Winner(board); ok {
		return entity.Status{Outcome: entity.OutcomeWin, Winner: winner}
	}

	if IsFull(board) {
		return entity.Status{Outcome: entity.OutcomeDraw}
	}

	next := entity.PlayerO
	if xIsNext {
		next = entity.PlayerX
	}

	return entity.Status{Outcome: entity.OutcomeInProgress, NextPlayer: next}
}
