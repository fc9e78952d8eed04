package entity

// SessionState is the stored form of a game session.
type SessionState struct {
	ID          string  `json:"id"`
	History     []Board `json:"history"`
	CurrentMove int     `json:"current_move"`
}

// Presentation holds the feedback effects shown on top of the board.
type Presentation struct {
	Banner           string `json:"banner,omitempty"`
	Celebrating      bool   `json:"celebrating"`
	CelebrationFrame int    `json:"celebration_frame,omitempty"`
}

// GameView is everything a client needs to render the game.
type GameView struct {
	SessionID    string       `json:"session_id"`
	Board        Board        `json:"board"`
	Status       Status       `json:"status"`
	StatusText   string       `json:"status_text"`
	CurrentMove  int          `json:"current_move"`
	CanUndo      bool         `json:"can_undo"`
	Presentation Presentation `json:"presentation"`
}

// Clone - returns a deep copy of the state.
func (that *SessionState) Clone() *SessionState {
	history := make([]Board, len(that.History))
	copy(history, that.History)

	return &SessionState{
		ID:          that.ID,
		History:     history,
		CurrentMove: that.CurrentMove,
	}
}
