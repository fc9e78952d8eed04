package entity

const (
	OutcomeInProgress Outcome = "in_progress"
	OutcomeWin        Outcome = "win"
	OutcomeDraw       Outcome = "draw"

	PlayerX Mark = "X"
	PlayerO Mark = "O"

	EmptyCell Mark = ""
)

// BoardSize is the number of cells on the board, indexed 0..8 in row-major order.
const BoardSize = 9

// Mark is the value of a single cell.
type Mark string

// Board is one immutable snapshot of the board. Being an array, assigning it copies it.
type Board [BoardSize]Mark

// Outcome is the derived state of a snapshot.
type Outcome string

// Status is computed from the viewed snapshot only and is never stored.
type Status struct {
	Outcome    Outcome `json:"outcome"`
	Winner     Mark    `json:"winner,omitempty"`
	NextPlayer Mark    `json:"next_player,omitempty"`
}

func (that Mark) IsEmpty() bool {
	return that == EmptyCell
}

func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

// NextPlayer - returns the player to move when the given move index is viewed.
func NextPlayer(currentMove int) Mark {
	if currentMove%2 == 0 {
		return PlayerX
	}
	return PlayerO
}

// IsEmpty - reports whether no cell of the board is occupied.
func (that Board) IsEmpty() bool {
	for _, cell := range that {
		if !cell.IsEmpty() {
			return false
		}
	}

	return true
}

// With - returns a copy of the board with the cell set to mark.
func (that Board) With(cell int, mark Mark) Board {
	next := that
	next[cell] = mark

	return next
}

func (that Status) IsWin() bool {
	return that.Outcome == OutcomeWin
}

func (that Status) IsDraw() bool {
	return that.Outcome == OutcomeDraw
}

func (that Status) IsInProgress() bool {
	return that.Outcome == OutcomeInProgress
}

// String - returns the status text shown above the board.
func (that Status) String() string {
	switch that.Outcome {
	case OutcomeWin:
		return "Winner: " + string(that.Winner)
	case OutcomeDraw:
		return "Draw"
	default:
		return "Next player: " + string(that.NextPlayer)
	}
}
