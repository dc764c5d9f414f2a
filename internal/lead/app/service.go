package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dwikikusuma/shoping-voice/internal/lead/domain"
	"github.com/dwikikusuma/shoping-voice/pkg/logger"
	"github.com/google/uuid"
)

var ErrPersistence = errors.New("lead could not be saved")

type LeadRepo interface {
	Append(ctx context.Context, lead domain.Lead) error
}

type Service struct {
	repo LeadRepo
	log  *slog.Logger
	now  func() time.Time
}

func NewService(repo LeadRepo, log *slog.Logger) *Service {
	return &Service{repo: repo, log: logger.OrDefault(log), now: time.Now}
}

// Save stores a lead. Every lead is kept, even one with no way to follow up.
func (s *Service) Save(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	lead.Name = strings.TrimSpace(lead.Name)
	lead.Company = strings.TrimSpace(lead.Company)
	lead.Email = strings.TrimSpace(lead.Email)
	lead.Role = strings.TrimSpace(lead.Role)
	lead.UseCase = strings.TrimSpace(lead.UseCase)
	lead.TeamSize = strings.TrimSpace(lead.TeamSize)
	lead.Timeline = strings.TrimSpace(lead.Timeline)
	lead.Notes = strings.TrimSpace(lead.Notes)

	lead.ID = uuid.NewString()
	lead.CreatedAt = s.now().UTC()

	if lead.Name == "" && lead.Email == "" {
		s.log.Warn("lead has no name or email", slog.String("lead_id", lead.ID), slog.String("company", lead.Company))
	}

	if err := s.repo.Append(ctx, lead); err != nil {
		s.log.Error("lead save failed", slog.String("lead_id", lead.ID), slog.Any("err", err))
		return domain.Lead{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.log.Info("lead saved", slog.String("lead_id", lead.ID), slog.String("company", lead.Company))
	return lead, nil
}
