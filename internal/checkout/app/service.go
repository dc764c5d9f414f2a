package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dwikikusuma/shoping-voice/internal/checkout/domain"
	"github.com/dwikikusuma/shoping-voice/pkg/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type CartReader interface {
	GetCart(ctx context.Context, sessionID string) ([]CartItem, error)
	ClearCart(ctx context.Context, sessionID string) error
}

type CartItem struct {
	ProductID string
	Quantity  int64
	Attrs     map[string]string
}

type CatalogReader interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}

type Product struct {
	ID       string
	Name     string
	Currency string
	Amount   decimal.Decimal
}

type OrderWriter interface {
	PlaceOrder(ctx context.Context, sessionID string, q domain.Quote) (domain.Receipt, error)
}

type Service struct {
	Cart    CartReader
	Catalog CatalogReader
	Orders  OrderWriter

	maxConcurrent int
	log           *slog.Logger
}

func NewService(cart CartReader, catalog CatalogReader, orders OrderWriter, maxConcurrent int, log *slog.Logger) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}

	return &Service{
		Cart:          cart,
		Catalog:       catalog,
		Orders:        orders,
		maxConcurrent: maxConcurrent,
		log:           logger.OrDefault(log),
	}
}

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrProductNotFound = errors.New("product not found")
	ErrMixedCurrency   = errors.New("cart mixes currencies")
	ErrPersistence     = errors.New("order could not be saved")
)

// Quote prices every cart line against the catalog. It fails if the cart is
// empty or any line no longer resolves.
func (s *Service) Quote(ctx context.Context, sessionID string) (domain.Quote, error) {
	items, err := s.Cart.GetCart(ctx, sessionID)
	if err != nil {
		return domain.Quote{}, err
	}

	if len(items) == 0 {
		return domain.Quote{}, ErrEmptyCart
	}

	lines := make([]domain.QuoteLine, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range items {
		g.Go(func() error {
			it := items[idx]
			if it.Quantity <= 0 {
				return fmt.Errorf("quantity must be greater than zero: %d", it.Quantity)
			}

			product, err := s.Catalog.GetProduct(gctx, it.ProductID)
			if err != nil {
				if errors.Is(err, ErrProductNotFound) {
					return fmt.Errorf("%w: %s", ErrProductNotFound, it.ProductID)
				}
				return fmt.Errorf("failed to get product %s: %w", it.ProductID, err)
			}

			lineTotal := product.Amount.Mul(decimal.NewFromInt(it.Quantity))
			lines[idx] = domain.QuoteLine{
				ProductID: product.ID,
				Name:      product.Name,
				Quantity:  it.Quantity,
				UnitPrice: domain.Money{
					Currency: product.Currency,
					Amount:   product.Amount,
				},
				LineTotal: domain.Money{
					Currency: product.Currency,
					Amount:   lineTotal,
				},
				Attrs: it.Attrs,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.Quote{}, err
	}

	currency := lines[0].LineTotal.Currency
	totalAmount := decimal.Zero
	for _, line := range lines {
		if line.LineTotal.Currency != currency {
			return domain.Quote{}, fmt.Errorf("%w: %s and %s", ErrMixedCurrency, currency, line.LineTotal.Currency)
		}
		totalAmount = totalAmount.Add(line.LineTotal.Amount)
	}

	quote := domain.Quote{
		Lines: lines,
		Total: domain.Money{
			Currency: currency,
			Amount:   totalAmount,
		},
	}

	return quote, nil
}

// Checkout turns the session's cart into a persisted order. Nothing is
// written unless every line validates, and the cart is only cleared after the
// order is saved.
func (s *Service) Checkout(ctx context.Context, sessionID string) (domain.Receipt, error) {
	quote, err := s.Quote(ctx, sessionID)
	if err != nil {
		return domain.Receipt{}, err
	}

	receipt, err := s.Orders.PlaceOrder(ctx, sessionID, quote)
	if err != nil {
		return domain.Receipt{}, err
	}

	if err := s.Cart.ClearCart(ctx, sessionID); err != nil {
		// the order is already persisted; report success but flag the stale cart
		s.log.Error("cart clear after checkout failed",
			slog.String("session_id", sessionID),
			slog.String("order_id", receipt.OrderID),
			slog.Any("err", err),
		)
	}

	return receipt, nil
}
