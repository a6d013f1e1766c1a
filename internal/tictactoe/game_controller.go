package tictactoe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

// FirstSymbol is the symbol that opens every round.
const FirstSymbol = entity.SymbolX

var ErrInvalidPlayerNames = errors.New("player names must produce two distinct, non-empty keys")

type scoreKeeper interface {
	ReadWinCount(ctx context.Context, name string) (int, error)
	WriteWinCount(ctx context.Context, name string, wins int) error
	ClearAll(ctx context.Context) error
}

// GameController is the state machine of a hotseat session. It is not safe for concurrent use.
type GameController struct {
	logger *slog.Logger
	scores scoreKeeper
	names  [2]string

	sessionID       string
	board           entity.Board
	winningSequence *entity.WinningSequence
	players         [2]entity.Player
}

// NewGameController - starts a session for two players, loading their wins from the score keeper.
func NewGameController(ctx context.Context, logger *slog.Logger, scores scoreKeeper, firstName, secondName string) (*GameController, error) {
	firstKey, secondKey := entity.PlayerKey(firstName), entity.PlayerKey(secondName)
	if firstKey == "" || secondKey == "" || firstKey == secondKey {
		return nil, fmt.Errorf("%w: %q, %q", ErrInvalidPlayerNames, firstName, secondName)
	}

	controller := &GameController{
		logger: logger.With("component", "game_controller"),
		scores: scores,
		names:  [2]string{firstName, secondName},
	}

	if err := controller.init(ctx); err != nil {
		return nil, err
	}

	return controller, nil
}

// init - loads both win counters and resets the session to the state of a fresh start.
func (that *GameController) init(ctx context.Context) error {
	var wins [2]int

	for i, name := range that.names {
		count, err := that.scores.ReadWinCount(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to load wins of %q: %w", name, err)
		}
		wins[i] = count
	}

	that.start(wins)

	return nil
}

func (that *GameController) start(wins [2]int) {
	that.sessionID = uuid.NewString()
	that.players = [2]entity.Player{
		{Name: that.names[entity.SeatOne], Symbol: FirstSymbol, Wins: wins[entity.SeatOne], IsTurn: true},
		{Name: that.names[entity.SeatTwo], Symbol: FirstSymbol.Opposite(), Wins: wins[entity.SeatTwo]},
	}
	that.board = entity.Board{}
	that.winningSequence = nil

	that.logger.Info("session started", "sessionID", that.sessionID)
}

// ApplyMove - marks the cell with the symbol of the acting seat and advances the game.
// Invalid moves are ignored and reported as OutcomeRejected; the error is reserved for score storage failures.
func (that *GameController) ApplyMove(ctx context.Context, cell entity.Cell, seat entity.Seat) (entity.Outcome, error) {
	log := that.logger.With("method", "ApplyMove", "row", cell.Row, "col", cell.Col, "seat", seat)

	if err := that.validateMove(cell, seat); err != nil {
		log.Debug("move ignored", "reason", err)
		return entity.OutcomeRejected, nil
	}

	actor := &that.players[seat]
	that.board = that.board.With(cell, actor.Symbol)

	if seq := CheckWinner(that.board); seq != nil {
		that.winningSequence = seq
		actor.Wins++

		log.Info("player won", "player", actor.Name, "line", seq.Type, "wins", actor.Wins)

		if err := that.scores.WriteWinCount(ctx, actor.Name, actor.Wins); err != nil {
			return entity.OutcomeWon, fmt.Errorf("failed to save wins of %q: %w", actor.Name, err)
		}

		return entity.OutcomeWon, nil
	}

	if !IsMoveAvailable(that.board) {
		log.Info("game drawn")
		return entity.OutcomeDrawn, nil
	}

	that.toggleTurn()

	return entity.OutcomeContinued, nil
}

// validateMove - checks if the move is valid.
func (that *GameController) validateMove(cell entity.Cell, seat entity.Seat) error {
	if that.Status() != entity.StatusInProgress {
		return apperror.ErrGameFinished
	}

	if !seat.Valid() {
		return apperror.ErrInvalidSeat
	}

	if !cell.InBounds() {
		return apperror.ErrInvalidCell
	}

	if !that.players[seat].IsTurn {
		return apperror.ErrNotYourTurn
	}

	if !that.board.IsEmpty(cell) {
		return apperror.ErrCellOccupied
	}

	return nil
}

func (that *GameController) toggleTurn() {
	for i := range that.players {
		that.players[i].IsTurn = !that.players[i].IsTurn
	}
}

// Restart - clears the board and swaps the symbols, so the other player opens the next round. Wins are kept.
func (that *GameController) Restart() {
	that.board = entity.Board{}
	that.winningSequence = nil

	for i := range that.players {
		that.players[i].Symbol = that.players[i].Symbol.Opposite()
		that.players[i].IsTurn = that.players[i].Symbol == FirstSymbol
	}

	that.logger.Debug("round restarted", "sessionID", that.sessionID, "opens", that.players[that.ActiveSeat()].Name)
}

// ClearSavedData - erases every stored win counter and starts the session over with zero wins.
func (that *GameController) ClearSavedData(ctx context.Context) error {
	if err := that.scores.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear saved data: %w", err)
	}

	that.start([2]int{})

	return nil
}

func (that *GameController) Status() entity.GameStatus {
	return Status(that.board, that.winningSequence)
}

// ActiveSeat - returns the seat whose turn flag is set.
func (that *GameController) ActiveSeat() entity.Seat {
	if that.players[entity.SeatTwo].IsTurn {
		return entity.SeatTwo
	}
	return entity.SeatOne
}

// State - returns a snapshot of the session.
func (that *GameController) State() *entity.GameState {
	state := &entity.GameState{
		SessionID:  that.sessionID,
		Board:      that.board,
		Players:    that.players,
		ActiveSeat: that.ActiveSeat(),
		Status:     that.Status(),
	}

	if that.winningSequence != nil {
		seq := *that.winningSequence
		state.WinningSequence = &seq
	}

	return state
}
