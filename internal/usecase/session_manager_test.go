package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/overlay"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
)

var errSomeError = errors.New("some error")

type fakeScores struct {
	wins     map[string]int
	writeErr error
	clearErr error
}

func (that *fakeScores) ReadWinCount(_ context.Context, name string) (int, error) {
	return that.wins[entity.PlayerKey(name)], nil
}

func (that *fakeScores) WriteWinCount(_ context.Context, name string, wins int) error {
	if that.writeErr != nil {
		return that.writeErr
	}
	that.wins[entity.PlayerKey(name)] = wins
	return nil
}

func (that *fakeScores) ClearAll(_ context.Context) error {
	if that.clearErr != nil {
		return that.clearErr
	}
	that.wins = map[string]int{}
	return nil
}

type message struct {
	action  string
	payload any
}

type recorder struct {
	mu       sync.Mutex
	messages []message
}

func (that *recorder) Broadcast(action string, payload any) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.messages = append(that.messages, message{action: action, payload: payload})
}

func (that *recorder) actions() []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	actions := make([]string, 0, len(that.messages))
	for _, msg := range that.messages {
		actions = append(actions, msg.action)
	}
	return actions
}

type blockingBroadcaster struct {
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (that *blockingBroadcaster) Broadcast(string, any) {
	that.once.Do(func() { close(that.entered) })
	<-that.release
}

func newSession(t *testing.T, scores *fakeScores) (*SessionManager, *recorder) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	controller, err := tictactoe.NewGameController(context.Background(), logger, scores, "Player 1", "Player 2")
	require.NoError(t, err)

	rec := &recorder{}

	return NewSessionManager(logger, controller, rec), rec
}

func cell(row, col int) entity.Cell {
	return entity.Cell{Row: row, Col: col}
}

func TestSessionManager_SelectCell(t *testing.T) {
	ctx := context.Background()

	t.Run("Plays for the active player and publishes the state", func(t *testing.T) {
		// Given: a new session
		session, rec := newSession(t, &fakeScores{wins: map[string]int{}})

		// When: two cells are selected
		_, err := session.SelectCell(ctx, cell(1, 1))
		require.NoError(t, err)
		state, err := session.SelectCell(ctx, cell(0, 0))
		require.NoError(t, err)

		// Then: the turns alternated and each move was published
		assert.Equal(t, entity.SymbolX, state.Board.At(cell(1, 1)))
		assert.Equal(t, entity.SymbolO, state.Board.At(cell(0, 0)))
		assert.Equal(t, entity.SeatOne, state.ActiveSeat)
		assert.Equal(t, []string{ActionGameState, ActionGameState}, rec.actions())
	})

	t.Run("Ignored moves publish nothing", func(t *testing.T) {
		// Given: a session with an occupied center
		session, rec := newSession(t, &fakeScores{wins: map[string]int{}})
		before, err := session.SelectCell(ctx, cell(1, 1))
		require.NoError(t, err)

		// When: the occupied cell is selected again
		state, err := session.SelectCell(ctx, cell(1, 1))

		// Then: the state is unchanged and only the first move was published
		require.NoError(t, err)
		assert.Equal(t, before, state)
		assert.Len(t, rec.actions(), 1)
	})

	t.Run("A win is announced exactly once", func(t *testing.T) {
		// Given: a session one move away from a top row win
		scores := &fakeScores{wins: map[string]int{}}
		session, rec := newSession(t, scores)
		for _, c := range []entity.Cell{cell(0, 0), cell(1, 0), cell(0, 1), cell(1, 1)} {
			_, err := session.SelectCell(ctx, c)
			require.NoError(t, err)
		}

		// When: the winning cell is selected, then more cells are clicked
		state, err := session.SelectCell(ctx, cell(0, 2))
		require.NoError(t, err)
		_, err = session.SelectCell(ctx, cell(2, 2))
		require.NoError(t, err)

		// Then: the win was announced once with the winner
		assert.Equal(t, entity.StatusWin, state.Status)
		assert.Equal(t, 1, scores.wins["player1"])

		actions := rec.actions()
		require.Len(t, actions, 6)
		assert.Equal(t, ActionGameWon, actions[5])

		won, ok := rec.messages[5].payload.(WonPayload)
		require.True(t, ok)
		assert.Equal(t, "Player 1", won.Winner.Name)
		assert.Equal(t, 1, won.Winner.Wins)
		assert.Equal(t, entity.LineRow, won.WinningSequence.Type)
	})

	t.Run("Storage errors are returned with the state", func(t *testing.T) {
		scores := &fakeScores{wins: map[string]int{}, writeErr: errSomeError}
		session, _ := newSession(t, scores)
		for _, c := range []entity.Cell{cell(0, 0), cell(1, 0), cell(0, 1), cell(1, 1)} {
			_, err := session.SelectCell(ctx, c)
			require.NoError(t, err)
		}

		state, err := session.SelectCell(ctx, cell(0, 2))

		require.ErrorIs(t, err, errSomeError)
		require.NotNil(t, state)
		assert.Equal(t, entity.StatusWin, state.Status)
	})
}

func TestSessionManager_Restart(t *testing.T) {
	// Given: a session with a move played
	session, rec := newSession(t, &fakeScores{wins: map[string]int{}})
	_, err := session.SelectCell(context.Background(), cell(0, 0))
	require.NoError(t, err)

	// When: the round is restarted
	state := session.Restart(context.Background())

	// Then: seat two opens an empty board and the state is published
	assert.Equal(t, entity.Board{}, state.Board)
	assert.Equal(t, entity.SeatTwo, state.ActiveSeat)
	assert.Equal(t, []string{ActionGameState, ActionGameState}, rec.actions())
}

func TestSessionManager_ClearAllData(t *testing.T) {
	t.Run("Resets wins and the session", func(t *testing.T) {
		// Given: stored wins
		scores := &fakeScores{wins: map[string]int{"player1": 5, "player2": 2}}
		session, rec := newSession(t, scores)
		sessionID := session.State().SessionID

		// When: clearing all data
		state, err := session.ClearAllData(context.Background())
		require.NoError(t, err)

		// Then: both counters are zero in a new session
		assert.NotEqual(t, sessionID, state.SessionID)
		assert.Zero(t, state.Players[entity.SeatOne].Wins)
		assert.Zero(t, state.Players[entity.SeatTwo].Wins)
		assert.Empty(t, scores.wins)
		assert.Equal(t, []string{ActionGameState}, rec.actions())
	})

	t.Run("Storage errors are returned", func(t *testing.T) {
		scores := &fakeScores{wins: map[string]int{}, clearErr: errSomeError}
		session, rec := newSession(t, scores)

		state, err := session.ClearAllData(context.Background())

		require.ErrorIs(t, err, errSomeError)
		assert.Nil(t, state)
		assert.Empty(t, rec.actions())
	})
}

func TestSessionManager_WinLine(t *testing.T) {
	ctx := context.Background()

	boxes := make(overlay.Boxes, entity.CellCount)
	for index := range boxes {
		c := entity.CellAt(index)
		left, top := 10+float64(c.Col)*60, 10+float64(c.Row)*60
		boxes[index] = &overlay.Rect{Left: left, Top: top, Right: left + 40, Bottom: top + 40}
	}

	t.Run("Nothing to draw while in progress", func(t *testing.T) {
		session, _ := newSession(t, &fakeScores{wins: map[string]int{}})

		_, ok := session.WinLine(boxes, overlay.Point{})

		assert.False(t, ok)
	})

	t.Run("Draws the left column", func(t *testing.T) {
		// Given: X completed the left column
		session, _ := newSession(t, &fakeScores{wins: map[string]int{}})
		for _, c := range []entity.Cell{cell(0, 0), cell(0, 1), cell(1, 0), cell(1, 1), cell(2, 0)} {
			_, err := session.SelectCell(ctx, c)
			require.NoError(t, err)
		}

		// When: asking for the overlay line
		line, ok := session.WinLine(boxes, overlay.Point{})

		// Then: it runs down the middle of the column
		require.True(t, ok)
		assert.Equal(t, overlay.Line{Start: overlay.Point{X: 30, Y: 10}, End: overlay.Point{X: 30, Y: 170}}, line)
	})
}

func TestSessionManager_SlowBroadcast(t *testing.T) {
	// Given: a session whose broadcaster stalls
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	controller, err := tictactoe.NewGameController(context.Background(), logger, &fakeScores{wins: map[string]int{}}, "Player 1", "Player 2")
	require.NoError(t, err)

	stalled := &blockingBroadcaster{entered: make(chan struct{}), release: make(chan struct{})}
	session := NewSessionManager(logger, controller, stalled)

	moveDone := make(chan struct{})
	go func() {
		defer close(moveDone)
		_, _ = session.SelectCell(context.Background(), cell(1, 1))
	}()

	select {
	case <-stalled.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast was never reached")
	}

	// When: the state is read while the broadcast is stuck
	stateCh := make(chan *entity.GameState, 1)
	go func() { stateCh <- session.State() }()

	// Then: the read is not blocked and already sees the move
	select {
	case state := <-stateCh:
		assert.Equal(t, entity.SymbolX, state.Board.At(cell(1, 1)))
	case <-time.After(2 * time.Second):
		t.Fatal("state read blocked by a stalled broadcast")
	}

	close(stalled.release)
	<-moveDone
}
