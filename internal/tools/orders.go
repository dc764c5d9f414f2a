package tools

import (
	"context"
	"fmt"
	"time"

	checkoutdomain "github.com/dwikikusuma/shoping-voice/internal/checkout/domain"
	"github.com/shopspring/decimal"
)

type receiptLine struct {
	ProductID string            `json:"product_id"`
	Name      string            `json:"name"`
	UnitPrice decimal.Decimal   `json:"unit_price"`
	Quantity  int64             `json:"quantity"`
	LineTotal decimal.Decimal   `json:"line_total"`
	Attrs     map[string]string `json:"attrs,omitempty"`
}

type receiptView struct {
	OrderID   string          `json:"order_id"`
	Items     []receiptLine   `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
	CreatedAt string          `json:"created_at"`
}

func toReceiptView(r checkoutdomain.Receipt) receiptView {
	items := make([]receiptLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		items = append(items, receiptLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice.Amount,
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal.Amount,
			Attrs:     l.Attrs,
		})
	}
	return receiptView{
		OrderID:   r.OrderID,
		Items:     items,
		Total:     r.Total.Amount,
		Currency:  r.Total.Currency,
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type listOrdersArgs struct {
	Limit int `json:"limit"`
}

func (r *Registry) registerOrders() {
	r.add(&Tool{
		Name:        "place_order",
		Description: "Place an order for everything in the cart. The cart is emptied once the order is saved.",
		session:     true,
		handle:      r.placeOrder,
	})

	r.add(&Tool{
		Name:        "list_orders",
		Description: "List the most recent orders, newest first.",
		Params: []Param{
			{Name: "limit", Type: TypeInteger, Description: "How many orders to return (default 5)."},
		},
		handle: r.listOrders,
	})
}

func (r *Registry) placeOrder(ctx context.Context, c *call) (Result, error) {
	receipt, err := r.deps.Checkout.Checkout(ctx, c.sessionID)
	if err != nil {
		return Result{}, err
	}

	msg := fmt.Sprintf("Your order %s is placed. Total %s %s.", receipt.OrderID, receipt.Total.Amount, receipt.Total.Currency)
	return ok(msg, toReceiptView(receipt)), nil
}

func (r *Registry) listOrders(ctx context.Context, c *call) (Result, error) {
	args, err := decode[listOrdersArgs](c.args)
	if err != nil {
		return Result{}, err
	}
	limit := args.Limit
	if limit <= 0 {
		limit = 5
	}

	orders, err := r.deps.Orders.Recent(ctx, limit)
	if err != nil {
		return Result{}, err
	}
	if len(orders) == 0 {
		return ok("There are no orders yet.", map[string]any{"orders": orders, "count": 0}), nil
	}
	return ok(fmt.Sprintf("Found %d recent orders.", len(orders)), map[string]any{"orders": orders, "count": len(orders)}), nil
}
