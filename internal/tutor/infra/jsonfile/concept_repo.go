package jsonfile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dwikikusuma/shoping-voice/internal/tutor/domain"
	"github.com/dwikikusuma/shoping-voice/pkg/jsonstore"
)

// ConceptRepo reads tutoring concepts from a JSON array file.
type ConceptRepo struct {
	store *jsonstore.Store[domain.Concept]
}

func NewConceptRepo(path string, log *slog.Logger) *ConceptRepo {
	return &ConceptRepo{store: jsonstore.New[domain.Concept](path, log)}
}

func (r *ConceptRepo) Load(ctx context.Context) ([]domain.Concept, error) {
	items, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(items))
	for i, c := range items {
		id := strings.ToLower(strings.TrimSpace(c.ID))
		if id == "" || strings.TrimSpace(c.Title) == "" {
			return nil, fmt.Errorf("%w: concept %d: id and title are required", jsonstore.ErrLoadFailure, i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: duplicate concept id %q", jsonstore.ErrLoadFailure, c.ID)
		}
		seen[id] = struct{}{}
	}
	return items, nil
}
