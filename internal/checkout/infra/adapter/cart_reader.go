package adapter

import (
	"context"

	checkoutapp "github.com/dwikikusuma/shoping-voice/internal/checkout/app"
	"github.com/dwikikusuma/shoping-voice/internal/session"
)

// SessionCartReader reads carts out of the session registry.
type SessionCartReader struct {
	sessions *session.Registry
}

func NewSessionCartReader(sessions *session.Registry) *SessionCartReader {
	return &SessionCartReader{sessions: sessions}
}

func (r *SessionCartReader) GetCart(ctx context.Context, sessionID string) ([]checkoutapp.CartItem, error) {
	sess, ok := r.sessions.Get(sessionID)
	if !ok {
		return nil, nil
	}

	lines := sess.Cart.Items(ctx)
	items := make([]checkoutapp.CartItem, 0, len(lines))
	for _, it := range lines {
		items = append(items, checkoutapp.CartItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Attrs:     it.Attrs,
		})
	}
	return items, nil
}

func (r *SessionCartReader) ClearCart(ctx context.Context, sessionID string) error {
	if sess, ok := r.sessions.Get(sessionID); ok {
		sess.Cart.Clear(ctx)
	}
	return nil
}
