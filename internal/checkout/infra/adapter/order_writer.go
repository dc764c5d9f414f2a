package adapter

import (
	"context"
	"errors"
	"fmt"

	checkoutapp "github.com/dwikikusuma/shoping-voice/internal/checkout/app"
	"github.com/dwikikusuma/shoping-voice/internal/checkout/domain"
	orderapp "github.com/dwikikusuma/shoping-voice/internal/order/app"
	orderdomain "github.com/dwikikusuma/shoping-voice/internal/order/domain"
)

type OrderServiceWriter struct {
	svc *orderapp.Service
}

func NewOrderServiceWriter(svc *orderapp.Service) *OrderServiceWriter {
	return &OrderServiceWriter{svc: svc}
}

func (w *OrderServiceWriter) PlaceOrder(ctx context.Context, sessionID string, q domain.Quote) (domain.Receipt, error) {
	items := make([]orderdomain.OrderItemRequest, 0, len(q.Lines))
	for _, ln := range q.Lines {
		items = append(items, orderdomain.OrderItemRequest{
			ProductID: ln.ProductID,
			Name:      ln.Name,
			UnitPrice: ln.UnitPrice.Amount,
			Quantity:  ln.Quantity,
			Attrs:     ln.Attrs,
		})
	}

	order, err := w.svc.CreateOrder(ctx, orderdomain.CreateOrderRequest{
		SessionID: sessionID,
		Currency:  q.Total.Currency,
		Items:     items,
	})
	if err != nil {
		if errors.Is(err, orderapp.ErrPersistence) {
			return domain.Receipt{}, fmt.Errorf("%w: %w", checkoutapp.ErrPersistence, err)
		}
		return domain.Receipt{}, err
	}

	lines := make([]domain.QuoteLine, 0, len(order.Items))
	for _, it := range order.Items {
		lines = append(lines, domain.QuoteLine{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: domain.Money{Currency: order.Currency, Amount: it.UnitPrice},
			LineTotal: domain.Money{Currency: order.Currency, Amount: it.LineTotal},
			Attrs:     it.Attrs,
		})
	}

	return domain.Receipt{
		OrderID:   order.ID,
		Lines:     lines,
		Total:     domain.Money{Currency: order.Currency, Amount: order.Total},
		CreatedAt: order.CreatedAt,
	}, nil
}
