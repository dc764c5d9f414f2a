package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dwikikusuma/shoping-voice/internal/tutor/domain"
	"github.com/dwikikusuma/shoping-voice/pkg/logger"
)

var ErrConceptNotFound = errors.New("concept not found")

type Service struct {
	concepts []domain.Concept
	byID     map[string]int
}

func NewService(concepts []domain.Concept) *Service {
	cp := make([]domain.Concept, len(concepts))
	copy(cp, concepts)

	byID := make(map[string]int, len(cp))
	for i, c := range cp {
		byID[strings.ToLower(c.ID)] = i
	}
	return &Service{concepts: cp, byID: byID}
}

// Load reads concepts from src, falling back to an empty set on failure.
func Load(ctx context.Context, src ConceptSource, log *slog.Logger) *Service {
	log = logger.OrDefault(log)

	concepts, err := src.Load(ctx)
	if err != nil {
		log.Error("concepts load failed", slog.Any("err", err))
		return NewService(nil)
	}
	return NewService(concepts)
}

func (s *Service) Concepts() []domain.Concept {
	out := make([]domain.Concept, len(s.concepts))
	copy(out, s.concepts)
	return out
}

func (s *Service) Concept(id string) (domain.Concept, error) {
	idx, ok := s.byID[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return domain.Concept{}, fmt.Errorf("%w: %q", ErrConceptNotFound, id)
	}
	return s.concepts[idx], nil
}

// Switch is domain.Switch that also requires the target concept to exist.
func (s *Service) Switch(ctx context.Context, cur domain.State, mode domain.Mode, conceptID string) (domain.State, error) {
	if strings.TrimSpace(conceptID) != "" {
		c, err := s.Concept(conceptID)
		if err != nil {
			return cur, err
		}
		conceptID = c.ID
	}
	return domain.Switch(cur, mode, conceptID)
}

type Description struct {
	Mode    domain.Mode    `json:"mode"`
	Concept domain.Concept `json:"concept"`
	Prompt  string         `json:"prompt"`
}

// Describe returns what the agent should say for the current state.
func (s *Service) Describe(state domain.State) (Description, error) {
	if !state.Mode.Valid() {
		return Description{}, domain.ErrInvalidMode
	}
	if state.ConceptID == "" {
		return Description{}, domain.ErrNoConcept
	}
	c, err := s.Concept(state.ConceptID)
	if err != nil {
		return Description{}, err
	}

	d := Description{Mode: state.Mode, Concept: c}
	switch state.Mode {
	case domain.ModeLearn:
		d.Prompt = c.Summary
	case domain.ModeQuiz:
		d.Prompt = c.SampleQuestion
	case domain.ModeTeachBack:
		d.Prompt = fmt.Sprintf("Explain %s back to me in your own words.", c.Title)
	}
	return d, nil
}
