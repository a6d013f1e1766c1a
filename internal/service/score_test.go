package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/repository"
)

var errRedisDown = errors.New("redis down")

type mockScoreRepo struct {
	mock.Mock
}

func (that *mockScoreRepo) Get(ctx context.Context, key string) (string, error) {
	args := that.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (that *mockScoreRepo) Set(ctx context.Context, key, value string) error {
	return that.Called(ctx, key, value).Error(0)
}

func (that *mockScoreRepo) DeleteAll(ctx context.Context) error {
	return that.Called(ctx).Error(0)
}

func newScoreService(t *testing.T) (ScoreService, *mockScoreRepo) {
	t.Helper()

	repo := &mockScoreRepo{}
	t.Cleanup(func() {
		repo.AssertExpectations(t)
	})

	return NewScoreService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo), repo
}

func TestScoreService_ReadWinCount(t *testing.T) {
	ctx := context.Background()

	t.Run("Reads the counter under the normalized key", func(t *testing.T) {
		// Given: a stored counter for "player1"
		scores, repo := newScoreService(t)
		repo.On("Get", mock.Anything, "player1").Return("4", nil).Once()

		// When: reading the wins of "Player 1"
		wins, err := scores.ReadWinCount(ctx, "Player 1")

		// Then: the stored value is returned
		require.NoError(t, err)
		assert.Equal(t, 4, wins)
	})

	t.Run("Missing counter is zero", func(t *testing.T) {
		scores, repo := newScoreService(t)
		repo.On("Get", mock.Anything, "player2").Return("", repository.ErrScoreNotFound).Once()

		wins, err := scores.ReadWinCount(ctx, "Player 2")

		require.NoError(t, err)
		assert.Zero(t, wins)
	})

	t.Run("Malformed counters are zero", func(t *testing.T) {
		for _, raw := range []string{"", "abc", "1.5", "-3", "NaN"} {
			t.Run(raw, func(t *testing.T) {
				scores, repo := newScoreService(t)
				repo.On("Get", mock.Anything, "player1").Return(raw, nil).Once()

				wins, err := scores.ReadWinCount(ctx, "Player 1")

				require.NoError(t, err)
				assert.Zero(t, wins)
			})
		}
	})

	t.Run("Storage failures are returned", func(t *testing.T) {
		scores, repo := newScoreService(t)
		repo.On("Get", mock.Anything, "player1").Return("", errRedisDown).Once()

		_, err := scores.ReadWinCount(ctx, "Player 1")

		require.ErrorIs(t, err, errRedisDown)
	})
}

func TestScoreService_WriteWinCount(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores the counter as text", func(t *testing.T) {
		// Given: a repository expecting the normalized key
		scores, repo := newScoreService(t)
		repo.On("Set", mock.Anything, "player2", "12").Return(nil).Once()

		// When: writing the wins of "Player 2"
		err := scores.WriteWinCount(ctx, "Player 2", 12)

		// Then: no error is returned
		require.NoError(t, err)
	})

	t.Run("Rejects negative counters", func(t *testing.T) {
		scores, _ := newScoreService(t)

		err := scores.WriteWinCount(ctx, "Player 2", -1)

		require.ErrorIs(t, err, ErrNegativeWins)
	})

	t.Run("Storage failures are returned", func(t *testing.T) {
		scores, repo := newScoreService(t)
		repo.On("Set", mock.Anything, "player1", "1").Return(errRedisDown).Once()

		err := scores.WriteWinCount(ctx, "Player 1", 1)

		require.ErrorIs(t, err, errRedisDown)
	})
}

func TestScoreService_ClearAll(t *testing.T) {
	ctx := context.Background()

	t.Run("Deletes every counter", func(t *testing.T) {
		scores, repo := newScoreService(t)
		repo.On("DeleteAll", mock.Anything).Return(nil).Once()

		require.NoError(t, scores.ClearAll(ctx))
	})

	t.Run("Storage failures are returned", func(t *testing.T) {
		scores, repo := newScoreService(t)
		repo.On("DeleteAll", mock.Anything).Return(errRedisDown).Once()

		require.ErrorIs(t, scores.ClearAll(ctx), errRedisDown)
	})
}
