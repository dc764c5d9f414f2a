package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dwikikusuma/shoping-voice/internal/cart/domain"
	"github.com/dwikikusuma/shoping-voice/pkg/logger"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrProductNotFound = errors.New("product not found")
)

const snapshotTimeout = time.Second

type LineView struct {
	ProductID string            `json:"product_id"`
	Name      string            `json:"name,omitempty"`
	Quantity  int64             `json:"quantity"`
	UnitPrice decimal.Decimal   `json:"unit_price"`
	LineTotal decimal.Decimal   `json:"line_total"`
	Currency  string            `json:"currency,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"`
	Available bool              `json:"available"`
}

// View is the cart as read back to the user. When lines are priced in more
// than one currency there is no meaningful subtotal: MixedCurrency is set and
// Subtotal and Currency stay empty.
type View struct {
	Lines         []LineView      `json:"lines"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Currency      string          `json:"currency,omitempty"`
	MixedCurrency bool            `json:"mixed_currency,omitempty"`
	ItemCount     int64           `json:"item_count"`
}

type AddResult struct {
	Line    domain.CartLine
	Product Product
}

// Service is the cart of one session.
type Service struct {
	sessionID string
	cart      *domain.Cart
	catalog   CatalogReader
	snapshots SnapshotStore
	log       *slog.Logger
}

// NewService creates an empty cart for sessionID. snapshots may be nil.
func NewService(sessionID string, catalog CatalogReader, snapshots SnapshotStore, log *slog.Logger) *Service {
	return &Service{
		sessionID: sessionID,
		cart:      domain.NewCart(),
		catalog:   catalog,
		snapshots: snapshots,
		log:       logger.OrDefault(log).With(slog.String("session_id", sessionID)),
	}
}

func (s *Service) SessionID() string { return s.sessionID }

// Add puts qty of the referenced product in the cart. ref may be a product id
// or free text such as "the second hoodie".
func (s *Service) Add(ctx context.Context, ref string, qty int64, attrs map[string]string) (AddResult, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return AddResult{}, ErrInvalidInput
	}
	if qty <= 0 {
		return AddResult{}, domain.ErrInvalidQuantity
	}

	p, err := s.lookup(ctx, ref)
	if err != nil {
		return AddResult{}, err
	}

	line, err := s.cart.Add(p.ID, qty, cleanAttrs(attrs))
	if err != nil {
		return AddResult{}, err
	}

	s.log.Info("cart line added", slog.String("product_id", p.ID), slog.Int64("quantity", line.Quantity))
	s.snapshot(ctx)
	return AddResult{Line: line, Product: p}, nil
}

// Update sets the quantity of a line already in the cart. qty <= 0 removes it.
func (s *Service) Update(ctx context.Context, ref string, qty int64) (domain.CartLine, error) {
	id, err := s.lineID(ctx, ref)
	if err != nil {
		return domain.CartLine{}, err
	}

	line, err := s.cart.SetQuantity(id, qty)
	if err != nil {
		return domain.CartLine{}, err
	}

	s.snapshot(ctx)
	return line, nil
}

func (s *Service) Remove(ctx context.Context, ref string) (string, error) {
	id, err := s.lineID(ctx, ref)
	if err != nil {
		return "", err
	}
	if err := s.cart.Remove(id); err != nil {
		return "", err
	}

	s.snapshot(ctx)
	return id, nil
}

// List joins the cart with current catalog data. Lines whose product is no
// longer in the catalog are reported unavailable and left out of the subtotal.
func (s *Service) List(ctx context.Context) View {
	lines := s.cart.Lines()
	view := View{Lines: make([]LineView, 0, len(lines))}

	for _, l := range lines {
		lv := LineView{ProductID: l.ProductID, Quantity: l.Quantity, Attrs: l.Attrs}

		p, err := s.catalog.GetProduct(ctx, l.ProductID)
		if err == nil {
			lv.Name = p.Name
			lv.UnitPrice = p.Amount
			lv.LineTotal = p.Amount.Mul(decimal.NewFromInt(l.Quantity))
			lv.Currency = p.Currency
			lv.Available = true

			view.Subtotal = view.Subtotal.Add(lv.LineTotal)
			view.ItemCount += l.Quantity
			switch {
			case view.Currency == "":
				view.Currency = p.Currency
			case view.Currency != p.Currency:
				view.MixedCurrency = true
			}
		} else if !errors.Is(err, ErrProductNotFound) {
			s.log.Warn("cart line lookup failed", slog.String("product_id", l.ProductID), slog.Any("err", err))
		}

		view.Lines = append(view.Lines, lv)
	}

	if view.MixedCurrency {
		view.Subtotal = decimal.Zero
		view.Currency = ""
	}
	return view
}

// Items returns the raw lines, in insertion order.
func (s *Service) Items(ctx context.Context) []domain.CartLine {
	return s.cart.Lines()
}

func (s *Service) Len() int { return s.cart.Len() }

func (s *Service) Clear(ctx context.Context) {
	s.cart.Clear()
	s.snapshot(ctx)
}

// Restore loads the last snapshot of this session's cart, if any.
func (s *Service) Restore(ctx context.Context) (bool, error) {
	if s.snapshots == nil {
		return false, nil
	}
	lines, err := s.snapshots.Get(ctx, s.sessionID)
	if errors.Is(err, ErrSnapshotMiss) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("restore cart: %w", err)
	}
	s.cart.Replace(lines)
	return true, nil
}

func (s *Service) lookup(ctx context.Context, ref string) (Product, error) {
	p, err := s.catalog.GetProduct(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrProductNotFound) {
		return Product{}, err
	}

	p, err = s.catalog.ResolveProduct(ctx, ref)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return Product{}, fmt.Errorf("%w: %q", ErrProductNotFound, ref)
		}
		return Product{}, err
	}
	return p, nil
}

// lineID maps ref to the product id of a cart line. An exact line id wins;
// otherwise ref is resolved through the catalog.
func (s *Service) lineID(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrInvalidInput
	}
	if _, ok := s.cart.Line(ref); ok {
		return ref, nil
	}
	for _, l := range s.cart.Lines() {
		if strings.EqualFold(l.ProductID, ref) {
			return l.ProductID, nil
		}
	}

	p, err := s.lookup(ctx, ref)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return "", fmt.Errorf("%w: %q", domain.ErrLineNotFound, ref)
		}
		return "", err
	}
	if _, ok := s.cart.Line(p.ID); !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrLineNotFound, p.ID)
	}
	return p.ID, nil
}

func (s *Service) snapshot(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), snapshotTimeout)
	defer cancel()

	var err error
	if s.cart.Len() == 0 {
		err = s.snapshots.Delete(ctx, s.sessionID)
	} else {
		err = s.snapshots.Set(ctx, s.sessionID, s.cart.Lines())
	}
	if err != nil {
		s.log.Warn("cart snapshot failed", slog.Any("err", err))
	}
}

func cleanAttrs(attrs map[string]string) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}
