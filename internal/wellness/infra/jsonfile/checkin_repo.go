package jsonfile

import (
	"context"
	"log/slog"

	"github.com/dwikikusuma/shoping-voice/internal/wellness/domain"
	"github.com/dwikikusuma/shoping-voice/pkg/jsonstore"
)

type CheckInRepo struct {
	store *jsonstore.Store[domain.CheckIn]
}

func NewCheckInRepo(path string, log *slog.Logger) *CheckInRepo {
	return &CheckInRepo{store: jsonstore.New[domain.CheckIn](path, log)}
}

func (r *CheckInRepo) Append(ctx context.Context, c domain.CheckIn) error {
	return r.store.Append(ctx, c)
}

func (r *CheckInRepo) List(ctx context.Context) ([]domain.CheckIn, error) {
	return r.store.Load(ctx)
}
