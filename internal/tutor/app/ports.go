package app

import (
	"context"

	"github.com/dwikikusuma/shoping-voice/internal/tutor/domain"
)

type ConceptSource interface {
	Load(ctx context.Context) ([]domain.Concept, error)
}
