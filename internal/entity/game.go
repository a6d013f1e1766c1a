package entity

type GameStatus string

const (
	StatusInProgress GameStatus = "inprogress"
	StatusWin        GameStatus = "win"
	StatusDraw       GameStatus = "draw"
)

// Outcome reports what a single move did to the game.
type Outcome string

const (
	OutcomeRejected  Outcome = "rejected"
	OutcomeContinued Outcome = "continued"
	OutcomeWon       Outcome = "won"
	OutcomeDrawn     Outcome = "drawn"
)

// GameState is a read-only snapshot handed to the presentation layer.
type GameState struct {
	SessionID       string           `json:"session_id"`
	Board           Board            `json:"board"`
	Players         [2]Player        `json:"players"`
	ActiveSeat      Seat             `json:"active_seat"`
	WinningSequence *WinningSequence `json:"winning_sequence,omitempty"`
	Status          GameStatus       `json:"status"`
}

// ActivePlayer - returns the player whose turn it is, or the winner once the game is won.
func (that *GameState) ActivePlayer() Player {
	return that.Players[that.ActiveSeat]
}

func (that *GameState) IsFinished() bool {
	return that.Status == StatusWin || that.Status == StatusDraw
}
