package adapter

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	cartadapter "github.com/dwikikusuma/shoping-voice/internal/cart/infra/adapter"
	cartapp "github.com/dwikikusuma/shoping-voice/internal/cart/app"
	catalogapp "github.com/dwikikusuma/shoping-voice/internal/catalog/app"
	catalogdomain "github.com/dwikikusuma/shoping-voice/internal/catalog/domain"
	checkoutapp "github.com/dwikikusuma/shoping-voice/internal/checkout/app"
	orderapp "github.com/dwikikusuma/shoping-voice/internal/order/app"
	orderjson "github.com/dwikikusuma/shoping-voice/internal/order/infra/jsonfile"
	"github.com/dwikikusuma/shoping-voice/internal/session"
	"github.com/dwikikusuma/shoping-voice/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type harness struct {
	sessions *session.Registry
	checkout *checkoutapp.Service
	orders   *orderapp.Service
}

func newHarness(t *testing.T, ordersPath string) harness {
	t.Helper()
	log := logger.Discard()

	catalog := catalogapp.NewService([]catalogdomain.Product{
		{ID: "mug-001", Name: "Blue Mug", Category: "mug", Color: "blue", Price: catalogdomain.Money{Currency: "INR", Amount: decimal.NewFromInt(299)}},
		{ID: "hoodie-001", Name: "Grey Hoodie", Category: "hoodie", Color: "grey", Price: catalogdomain.Money{Currency: "INR", Amount: decimal.NewFromInt(1499)}},
	})
	cartCatalog := cartadapter.NewCatalogServiceReader(catalog)

	sessions := session.NewRegistry(func(id string) *cartapp.Service {
		return cartapp.NewService(id, cartCatalog, nil, log)
	}, 0, log)
	t.Cleanup(sessions.Close)

	orders := orderapp.NewService(orderjson.NewOrderRepo(ordersPath, log), log)
	checkout := checkoutapp.NewService(
		NewSessionCartReader(sessions),
		NewCatalogServiceReader(catalog),
		NewOrderServiceWriter(orders),
		4,
		log,
	)
	return harness{sessions: sessions, checkout: checkout, orders: orders}
}

func TestCheckoutPersistsOrderAndEmptiesCart(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, filepath.Join(t.TempDir(), "orders.json"))

	s := h.sessions.GetOrCreate(ctx, "s1")
	s.Lock()
	_, err := s.Cart.Add(ctx, "mug-001", 2, nil)
	require.NoError(t, err)
	receipt, err := h.checkout.Checkout(ctx, "s1")
	s.Unlock()
	require.NoError(t, err)

	assert.Equal(t, "598", receipt.Total.Amount.String())
	assert.Equal(t, "INR", receipt.Total.Currency)
	assert.NotEmpty(t, receipt.OrderID)
	assert.Equal(t, 0, s.Cart.Len())

	orders, err := h.orders.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, receipt.OrderID, orders[0].ID)
	assert.Equal(t, int64(2), orders[0].Items[0].Quantity)
}

func TestCheckoutUnknownSessionIsEmptyCart(t *testing.T) {
	h := newHarness(t, filepath.Join(t.TempDir(), "orders.json"))
	_, err := h.checkout.Checkout(context.Background(), "nobody")
	assert.ErrorIs(t, err, checkoutapp.ErrEmptyCart)
}

func TestCheckoutPersistenceFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	// a directory where the orders file should be makes the rename fail
	dir := t.TempDir()
	h := newHarness(t, dir)

	s := h.sessions.GetOrCreate(ctx, "s1")
	s.Lock()
	defer s.Unlock()
	_, err := s.Cart.Add(ctx, "mug-001", 1, nil)
	require.NoError(t, err)

	_, err = h.checkout.Checkout(ctx, "s1")
	assert.ErrorIs(t, err, checkoutapp.ErrPersistence)
	assert.Equal(t, 1, s.Cart.Len())
}

func TestConcurrentCheckoutsShareOrdersFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "orders.json")
	h := newHarness(t, path)

	const n = 8
	var g errgroup.Group
	for i := range n {
		g.Go(func() error {
			id := fmt.Sprintf("s%d", i)
			s := h.sessions.GetOrCreate(ctx, id)
			s.Lock()
			defer s.Unlock()

			if _, err := s.Cart.Add(ctx, "hoodie-001", int64(i+1), nil); err != nil {
				return err
			}
			_, err := h.checkout.Checkout(ctx, id)
			return err
		})
	}
	require.NoError(t, g.Wait())

	orders, err := h.orders.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, n)

	seen := map[string]bool{}
	for _, o := range orders {
		assert.False(t, seen[o.ID], "duplicate order id %s", o.ID)
		seen[o.ID] = true
	}
}
