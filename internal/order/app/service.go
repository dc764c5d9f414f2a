package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/dwikikusuma/shoping-voice/internal/order/domain"
	"github.com/dwikikusuma/shoping-voice/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrPersistence  = errors.New("order persistence failed")
)

type Service struct {
	repo OrderRepo
	log  *slog.Logger
	now  func() time.Time
}

func NewService(repo OrderRepo, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  logger.OrDefault(log),
		now:  time.Now,
	}
}

func (s *Service) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	if len(req.Items) == 0 {
		return domain.Order{}, fmt.Errorf("%w: order has no items", ErrInvalidInput)
	}

	currency := strings.TrimSpace(req.Currency)
	if currency == "" {
		return domain.Order{}, fmt.Errorf("%w: currency is required", ErrInvalidInput)
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	total := decimal.Zero

	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return domain.Order{}, fmt.Errorf("%w: item %d: quantity must be positive, got %d", ErrInvalidInput, i, item.Quantity)
		}
		if item.UnitPrice.IsNegative() {
			return domain.Order{}, fmt.Errorf("%w: item %d: unit price cannot be negative, got %s", ErrInvalidInput, i, item.UnitPrice)
		}

		var attrs map[string]string
		if len(item.Attrs) > 0 {
			attrs = maps.Clone(item.Attrs)
		}

		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity))
		items = append(items, domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
			Attrs:     attrs,
		})
		total = total.Add(lineTotal)
	}

	order := domain.Order{
		ID:        uuid.NewString(),
		Items:     items,
		Total:     total,
		Currency:  currency,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.Append(ctx, order); err != nil {
		s.log.Error("order persist failed", slog.String("order_id", order.ID), slog.Any("err", err))
		return domain.Order{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.log.Info("order created",
		slog.String("order_id", order.ID),
		slog.String("session_id", req.SessionID),
		slog.String("total", order.Total.String()),
		slog.String("currency", order.Currency),
	)
	return order, nil
}

// ListOrders returns persisted orders, newest last. An unreadable collection
// is logged and reported as empty.
func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		s.log.Error("order collection unreadable", slog.Any("err", err))
		return []domain.Order{}, nil
	}
	return orders, nil
}

// Recent returns at most n orders, newest first.
func (s *Service) Recent(ctx context.Context, n int) ([]domain.Order, error) {
	orders, err := s.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	if n <= 0 || n > len(orders) {
		n = len(orders)
	}
	out := make([]domain.Order, 0, n)
	for i := len(orders) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, orders[i])
	}
	return out, nil
}
