package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dwikikusuma/shoping-voice/internal/fraud/domain"
	"github.com/dwikikusuma/shoping-voice/pkg/logger"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("fraud case not found")
	ErrInvalidStatus = errors.New("invalid case status")
	ErrNotPending    = errors.New("fraud case is not pending review")
)

type CaseRepo interface {
	FindPendingByUser(ctx context.Context, userName string) (domain.Case, error)
	Get(ctx context.Context, id int64) (domain.Case, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status, note string, at time.Time) error
}

type Service struct {
	repo CaseRepo
	log  *slog.Logger
	now  func() time.Time
}

func NewService(repo CaseRepo, log *slog.Logger) *Service {
	return &Service{repo: repo, log: logger.OrDefault(log), now: time.Now}
}

// FindPending returns the newest case awaiting review for userName.
func (s *Service) FindPending(ctx context.Context, userName string) (domain.Case, error) {
	userName = strings.TrimSpace(userName)
	if userName == "" {
		return domain.Case{}, fmt.Errorf("%w: user name is required", ErrInvalidInput)
	}
	return s.repo.FindPendingByUser(ctx, userName)
}

// Verify checks the customer's answer to the case's security question. A
// wrong answer closes the case as verification_failed.
func (s *Service) Verify(ctx context.Context, caseID int64, answer string) (bool, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return false, fmt.Errorf("%w: answer is required", ErrInvalidInput)
	}

	c, err := s.repo.Get(ctx, caseID)
	if err != nil {
		return false, err
	}
	if c.Status != domain.StatusPendingReview {
		return false, fmt.Errorf("%w: case %d is %s", ErrNotPending, caseID, c.Status)
	}

	if strings.EqualFold(answer, strings.TrimSpace(c.SecurityAnswer)) {
		s.log.Info("fraud case identity verified", slog.Int64("case_id", caseID))
		return true, nil
	}

	if err := s.repo.UpdateStatus(ctx, caseID, domain.StatusVerificationFailed, "security answer did not match", s.now().UTC()); err != nil {
		return false, err
	}
	s.log.Warn("fraud case verification failed", slog.Int64("case_id", caseID))
	return false, nil
}

// Resolve records the customer's confirmation for a case.
func (s *Service) Resolve(ctx context.Context, caseID int64, outcome domain.Status, note string) (domain.Case, error) {
	if !outcome.Outcome() {
		return domain.Case{}, fmt.Errorf("%w: %q", ErrInvalidStatus, outcome)
	}

	if err := s.repo.UpdateStatus(ctx, caseID, outcome, strings.TrimSpace(note), s.now().UTC()); err != nil {
		return domain.Case{}, err
	}

	s.log.Info("fraud case resolved", slog.Int64("case_id", caseID), slog.String("status", string(outcome)))
	return s.repo.Get(ctx, caseID)
}
