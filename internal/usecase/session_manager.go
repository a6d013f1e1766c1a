package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/overlay"
)

const (
	ActionGameState = "game:state"
	ActionGameWon   = "game:won"
)

// WonPayload is broadcast once, when a round is won.
type WonPayload struct {
	SessionID       string                  `json:"session_id"`
	Winner          entity.Player           `json:"winner"`
	WinningSequence *entity.WinningSequence `json:"winning_sequence"`
}

type gameController interface {
	ApplyMove(ctx context.Context, cell entity.Cell, seat entity.Seat) (entity.Outcome, error)
	Restart()
	ClearSavedData(ctx context.Context) error
	ActiveSeat() entity.Seat
	State() *entity.GameState
}

type broadcaster interface {
	Broadcast(action string, payload any)
}

// SessionManager serializes presentation events into the game controller and publishes the resulting state.
type SessionManager struct {
	logger *slog.Logger

	mu          sync.Mutex
	controller  gameController
	broadcaster broadcaster
}

func NewSessionManager(logger *slog.Logger, controller gameController, broadcaster broadcaster) *SessionManager {
	return &SessionManager{
		logger:      logger.With("component", "session_manager"),
		controller:  controller,
		broadcaster: broadcaster,
	}
}

func (that *SessionManager) State() *entity.GameState {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.controller.State()
}

type notification struct {
	action  string
	payload any
}

// SelectCell - plays the cell for the player whose turn it is.
func (that *SessionManager) SelectCell(ctx context.Context, cell entity.Cell) (*entity.GameState, error) {
	state, notifications, err := that.selectCell(ctx, cell)
	that.publish(notifications)

	if err != nil {
		that.logger.Error("failed to apply move", "method", "SelectCell", "error", err)
		return state, fmt.Errorf("failed to apply move: %w", err)
	}

	return state, nil
}

func (that *SessionManager) selectCell(ctx context.Context, cell entity.Cell) (*entity.GameState, []notification, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	outcome, err := that.controller.ApplyMove(ctx, cell, that.controller.ActiveSeat())
	state := that.controller.State()

	var notifications []notification

	if outcome != entity.OutcomeRejected {
		notifications = append(notifications, notification{action: ActionGameState, payload: state})
	}

	if outcome == entity.OutcomeWon {
		notifications = append(notifications, notification{action: ActionGameWon, payload: WonPayload{
			SessionID:       state.SessionID,
			Winner:          state.ActivePlayer(),
			WinningSequence: state.WinningSequence,
		}})
	}

	return state, notifications, err
}

// Restart - starts the next round.
func (that *SessionManager) Restart(_ context.Context) *entity.GameState {
	that.mu.Lock()
	that.controller.Restart()
	state := that.controller.State()
	that.mu.Unlock()

	that.publish([]notification{{action: ActionGameState, payload: state}})

	return state
}

// ClearAllData - erases the saved wins and starts a brand new session.
func (that *SessionManager) ClearAllData(ctx context.Context) (*entity.GameState, error) {
	that.mu.Lock()
	err := that.controller.ClearSavedData(ctx)
	state := that.controller.State()
	that.mu.Unlock()

	if err != nil {
		that.logger.Error("failed to clear saved data", "method", "ClearAllData", "error", err)
		return nil, fmt.Errorf("failed to clear saved data: %w", err)
	}

	that.publish([]notification{{action: ActionGameState, payload: state}})

	return state, nil
}

// publish - must be called without holding the session lock.
func (that *SessionManager) publish(notifications []notification) {
	for _, n := range notifications {
		that.broadcaster.Broadcast(n.action, n.payload)
	}
}

// WinLine - maps the current winning sequence onto the measured cell boxes.
func (that *SessionManager) WinLine(boxes overlay.BoxProvider, origin overlay.Point) (overlay.Line, bool) {
	seq := that.State().WinningSequence

	return overlay.WinLine(seq, boxes, origin)
}
