package jsonfile

import (
	"context"
	"log/slog"

	"github.com/dwikikusuma/shoping-voice/internal/lead/domain"
	"github.com/dwikikusuma/shoping-voice/pkg/jsonstore"
)

type LeadRepo struct {
	store *jsonstore.Store[domain.Lead]
}

func NewLeadRepo(path string, log *slog.Logger) *LeadRepo {
	return &LeadRepo{store: jsonstore.New[domain.Lead](path, log)}
}

func (r *LeadRepo) Append(ctx context.Context, lead domain.Lead) error {
	return r.store.Append(ctx, lead)
}

func (r *LeadRepo) List(ctx context.Context) ([]domain.Lead, error) {
	return r.store.Load(ctx)
}
