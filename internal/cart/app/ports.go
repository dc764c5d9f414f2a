package app

import (
	"context"
	"errors"

	"github.com/dwikikusuma/shoping-voice/internal/cart/domain"
	"github.com/shopspring/decimal"
)

var ErrSnapshotMiss = errors.New("snapshot miss")

type Product struct {
	ID       string
	Name     string
	Currency string
	Amount   decimal.Decimal
}

// CatalogReader looks products up by id or by a spoken reference. Both
// methods return ErrProductNotFound when nothing matches.
type CatalogReader interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
	ResolveProduct(ctx context.Context, text string) (Product, error)
}

// SnapshotStore keeps a copy of a session's cart outside the process.
type SnapshotStore interface {
	Get(ctx context.Context, sessionID string) ([]domain.CartLine, error)
	Set(ctx context.Context, sessionID string, lines []domain.CartLine) error
	Delete(ctx context.Context, sessionID string) error
}
