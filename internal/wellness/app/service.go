package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dwikikusuma/shoping-voice/internal/wellness/domain"
	"github.com/dwikikusuma/shoping-voice/pkg/logger"
	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrPersistence  = errors.New("check-in could not be saved")
)

type CheckInRepo interface {
	Append(ctx context.Context, c domain.CheckIn) error
	List(ctx context.Context) ([]domain.CheckIn, error)
}

type Service struct {
	repo CheckInRepo
	log  *slog.Logger
	now  func() time.Time
}

func NewService(repo CheckInRepo, log *slog.Logger) *Service {
	return &Service{repo: repo, log: logger.OrDefault(log), now: time.Now}
}

func (s *Service) Record(ctx context.Context, c domain.CheckIn) (domain.CheckIn, error) {
	c.Mood = strings.TrimSpace(c.Mood)
	c.Energy = strings.TrimSpace(c.Energy)
	c.Summary = strings.TrimSpace(c.Summary)
	if c.Mood == "" {
		return domain.CheckIn{}, fmt.Errorf("%w: mood is required", ErrInvalidInput)
	}

	objectives := make([]string, 0, len(c.Objectives))
	for _, o := range c.Objectives {
		if o = strings.TrimSpace(o); o != "" {
			objectives = append(objectives, o)
		}
	}
	c.Objectives = objectives
	c.ID = uuid.NewString()
	c.CreatedAt = s.now().UTC()

	if err := s.repo.Append(ctx, c); err != nil {
		s.log.Error("check-in save failed", slog.Any("err", err))
		return domain.CheckIn{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return c, nil
}

// Last returns the most recent check-in. found is false when there is none or
// the log cannot be read.
func (s *Service) Last(ctx context.Context) (domain.CheckIn, bool) {
	recent := s.History(ctx, 1)
	if len(recent) == 0 {
		return domain.CheckIn{}, false
	}
	return recent[0], true
}

// History returns up to n check-ins, newest first. n <= 0 means all.
func (s *Service) History(ctx context.Context, n int) []domain.CheckIn {
	all, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("check-in history unavailable", slog.Any("err", err))
		return nil
	}

	out := slices.Clone(all)
	slices.Reverse(out)
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
