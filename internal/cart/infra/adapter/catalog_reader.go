package adapter

import (
	"context"
	"errors"

	cartapp "github.com/dwikikusuma/shoping-voice/internal/cart/app"
	catalogapp "github.com/dwikikusuma/shoping-voice/internal/catalog/app"
	"github.com/dwikikusuma/shoping-voice/internal/catalog/domain"
)

type CatalogServiceReader struct {
	svc *catalogapp.Service
}

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

func (r *CatalogServiceReader) GetProduct(ctx context.Context, productID string) (cartapp.Product, error) {
	p, err := r.svc.Get(productID)
	if err != nil {
		return cartapp.Product{}, mapErr(err)
	}
	return toCart(p), nil
}

func (r *CatalogServiceReader) ResolveProduct(ctx context.Context, text string) (cartapp.Product, error) {
	p, err := r.svc.Resolve(text)
	if err != nil {
		return cartapp.Product{}, mapErr(err)
	}
	return toCart(p), nil
}

func toCart(p domain.Product) cartapp.Product {
	return cartapp.Product{
		ID:       p.ID,
		Name:     p.Name,
		Currency: p.Price.Currency,
		Amount:   p.Price.Amount,
	}
}

func mapErr(err error) error {
	if errors.Is(err, catalogapp.ErrNotFound) || errors.Is(err, catalogapp.ErrInvalidInput) {
		return cartapp.ErrProductNotFound
	}
	return err
}
