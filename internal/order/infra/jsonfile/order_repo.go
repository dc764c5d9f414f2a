package jsonfile

import (
	"context"
	"log/slog"

	"github.com/dwikikusuma/shoping-voice/internal/order/domain"
	"github.com/dwikikusuma/shoping-voice/pkg/jsonstore"
)

// OrderRepo keeps the order collection in one JSON array file.
type OrderRepo struct {
	store *jsonstore.Store[domain.Order]
}

func NewOrderRepo(path string, log *slog.Logger) *OrderRepo {
	return &OrderRepo{store: jsonstore.New[domain.Order](path, log)}
}

func (r *OrderRepo) Append(ctx context.Context, order domain.Order) error {
	return r.store.Append(ctx, order)
}

func (r *OrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	return r.store.Load(ctx)
}
