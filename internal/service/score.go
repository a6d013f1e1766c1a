package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/repository"
)

var ErrNegativeWins = errors.New("win count must not be negative")

type ScoreService interface {
	ReadWinCount(ctx context.Context, name string) (int, error)
	WriteWinCount(ctx context.Context, name string, wins int) error
	ClearAll(ctx context.Context) error
}

type scoreRepo interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	DeleteAll(ctx context.Context) error
}

type scoreService struct {
	logger    *slog.Logger
	scoreRepo scoreRepo
}

func NewScoreService(logger *slog.Logger, scoreRepo scoreRepo) ScoreService {
	return &scoreService{
		logger:    logger.With("component", "score_service"),
		scoreRepo: scoreRepo,
	}
}

// ReadWinCount - returns the stored wins of the player. A missing or malformed value counts as zero.
func (that *scoreService) ReadWinCount(ctx context.Context, name string) (int, error) {
	key := entity.PlayerKey(name)

	value, err := that.scoreRepo.Get(ctx, key)
	if errors.Is(err, repository.ErrScoreNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read wins: %w", err)
	}

	wins, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || wins < 0 {
		that.logger.Warn("malformed win count, using zero", "method", "ReadWinCount", "key", key, "value", value)
		return 0, nil
	}

	return wins, nil
}

func (that *scoreService) WriteWinCount(ctx context.Context, name string, wins int) error {
	if wins < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeWins, wins)
	}

	if err := that.scoreRepo.Set(ctx, entity.PlayerKey(name), strconv.Itoa(wins)); err != nil {
		return fmt.Errorf("failed to write wins: %w", err)
	}

	return nil
}

func (that *scoreService) ClearAll(ctx context.Context) error {
	if err := that.scoreRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear wins: %w", err)
	}

	that.logger.Info("saved wins cleared")

	return nil
}
