package app

import (
	"context"

	"github.com/dwikikusuma/shoping-voice/internal/catalog/domain"
)

// ProductSource loads the full catalog. It is read once at startup.
type ProductSource interface {
	Load(ctx context.Context) ([]domain.Product, error)
}
