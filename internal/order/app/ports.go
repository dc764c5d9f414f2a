package app

import (
	"context"

	"github.com/dwikikusuma/shoping-voice/internal/order/domain"
)

type OrderRepo interface {
	Append(ctx context.Context, order domain.Order) error
	List(ctx context.Context) ([]domain.Order, error)
}
