package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dwikikusuma/shoping-voice/internal/order/domain"
	"github.com/dwikikusuma/shoping-voice/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	orders  []domain.Order
	err     error
	listErr error
}

func (f *fakeRepo) Append(ctx context.Context, o domain.Order) error {
	if f.err != nil {
		return f.err
	}
	f.orders = append(f.orders, o)
	return nil
}

func (f *fakeRepo) List(ctx context.Context) ([]domain.Order, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.orders, nil
}

func newTestService(repo OrderRepo) *Service {
	svc := NewService(repo, logger.Discard())
	svc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("IST", 19800)) }
	return svc
}

func TestCreateOrderComputesTotals(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	order, err := svc.CreateOrder(context.Background(), domain.CreateOrderRequest{
		Currency: "INR",
		Items: []domain.OrderItemRequest{
			{ProductID: "mug-001", Name: "Blue Mug", UnitPrice: decimal.NewFromInt(299), Quantity: 2},
			{ProductID: "hoodie-001", Name: "Hoodie", UnitPrice: decimal.NewFromInt(1499), Quantity: 1, Attrs: map[string]string{"size": "M"}},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "598", order.Items[0].LineTotal.String())
	assert.Equal(t, "1499", order.Items[1].LineTotal.String())
	assert.Equal(t, "2097", order.Total.String())
	assert.Equal(t, time.UTC, order.CreatedAt.Location())
	assert.Equal(t, map[string]string{"size": "M"}, order.Items[1].Attrs)
	require.Len(t, repo.orders, 1)
	assert.Equal(t, order, repo.orders[0])
}

func TestCreateOrderDecimalTotalsAreExact(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	order, err := svc.CreateOrder(context.Background(), domain.CreateOrderRequest{
		Currency: "USD",
		Items: []domain.OrderItemRequest{
			{ProductID: "mug-001", Name: "Blue Mug", UnitPrice: decimal.RequireFromString("2.99"), Quantity: 3},
			{ProductID: "pen-001", Name: "Pen", UnitPrice: decimal.RequireFromString("0.10"), Quantity: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "8.97", order.Items[0].LineTotal.String())
	assert.Equal(t, "0.3", order.Items[1].LineTotal.String())
	assert.Equal(t, "9.27", order.Total.String())
}

func TestCreateOrderValidation(t *testing.T) {
	svc := newTestService(&fakeRepo{})
	ctx := context.Background()

	cases := map[string]domain.CreateOrderRequest{
		"no items":       {Currency: "INR"},
		"no currency":    {Items: []domain.OrderItemRequest{{ProductID: "a", Quantity: 1}}},
		"zero quantity":  {Currency: "INR", Items: []domain.OrderItemRequest{{ProductID: "a", Quantity: 0}}},
		"negative price": {Currency: "INR", Items: []domain.OrderItemRequest{{ProductID: "a", Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateOrder(ctx, req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreateOrderPersistenceFailure(t *testing.T) {
	cause := errors.New("disk full")
	svc := newTestService(&fakeRepo{err: cause})

	_, err := svc.CreateOrder(context.Background(), domain.CreateOrderRequest{
		Currency: "INR",
		Items:    []domain.OrderItemRequest{{ProductID: "a", UnitPrice: decimal.NewFromInt(1), Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)
}

func TestListOrdersFailSoft(t *testing.T) {
	svc := newTestService(&fakeRepo{listErr: errors.New("corrupt")})
	orders, err := svc.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestRecent(t *testing.T) {
	repo := &fakeRepo{orders: []domain.Order{{ID: "1"}, {ID: "2"}, {ID: "3"}}}
	svc := newTestService(repo)

	got, err := svc.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "3", got[0].ID)
	assert.Equal(t, "2", got[1].ID)

	all, err := svc.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
