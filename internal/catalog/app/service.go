package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dwikikusuma/shoping-voice/internal/catalog/domain"
	"github.com/dwikikusuma/shoping-voice/pkg/logger"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrLoadFailure  = errors.New("catalog load failure")
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Service is the read-only catalog store. It is built once and never
// mutated, so it can be shared by every session without locking.
type Service struct {
	items    []domain.Product
	byID     map[string]int
	resolver *Resolver
}

func NewService(items []domain.Product) *Service {
	cp := make([]domain.Product, len(items))
	copy(cp, items)

	byID := make(map[string]int, len(cp))
	for i, p := range cp {
		byID[strings.ToLower(p.ID)] = i
	}

	return &Service{
		items:    cp,
		byID:     byID,
		resolver: NewResolver(nil),
	}
}

// Load reads the catalog from src. It never fails: any load problem is logged
// and an empty catalog is returned.
func Load(ctx context.Context, src ProductSource, log *slog.Logger) *Service {
	log = logger.OrDefault(log)

	items, err := src.Load(ctx)
	if err != nil {
		log.Error("catalog load failed, serving empty catalog", slog.Any("err", err))
		return NewService(nil)
	}

	log.Info("catalog loaded", slog.Int("items", len(items)))
	return NewService(items)
}

// WithResolver returns a copy of s that resolves references with r.
func (s *Service) WithResolver(r *Resolver) *Service {
	cp := *s
	cp.resolver = r
	return &cp
}

func (s *Service) Len() int { return len(s.items) }

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	return s.Get(id)
}

func (s *Service) Get(id string) (domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Product{}, ErrInvalidInput
	}
	idx, ok := s.byID[strings.ToLower(id)]
	if !ok {
		return domain.Product{}, ErrNotFound
	}
	return s.items[idx], nil
}

func (s *Service) All() []domain.Product {
	out := make([]domain.Product, len(s.items))
	copy(out, s.items)
	return out
}

// Resolve maps a spoken reference to a product across the whole catalog.
func (s *Service) Resolve(text string) (domain.Product, error) {
	return s.resolve(text, s.items)
}

// ResolveIn is Resolve restricted to candidates, e.g. the result of a List.
// A reference naming a catalog category that none of the candidates belong to
// ("the first phone" against a list of hoodies) is ErrNotFound rather than a
// pick from the wrong category.
func (s *Service) ResolveIn(text string, candidates []domain.Product) (domain.Product, error) {
	if cat, ok := s.resolver.CategoryHint(text, s.items); ok && len(byCategory(candidates, cat)) == 0 {
		return domain.Product{}, fmt.Errorf("%w: no %s among the candidates", ErrNotFound, cat)
	}
	return s.resolve(text, candidates)
}

func (s *Service) resolve(text string, candidates []domain.Product) (domain.Product, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Product{}, ErrInvalidInput
	}
	p, ok := s.resolver.Resolve(text, candidates)
	if !ok {
		return domain.Product{}, ErrNotFound
	}
	return p, nil
}

type Filter struct {
	Category string
	Color    string
	Brand    string
	Size     string
	Tag      string
	Query    string
	// MaxPrice is ignored unless positive.
	MaxPrice decimal.Decimal
	Limit    int
}

func (s *Service) List(f Filter) []domain.Product {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]domain.Product, 0, min(limit, len(s.items)))
	for _, p := range s.items {
		if !matches(p, f, query) {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out
}

func matches(p domain.Product, f Filter, query string) bool {
	if f.Category != "" && !strings.EqualFold(p.Category, strings.TrimSpace(f.Category)) {
		return false
	}
	if f.Color != "" && !strings.EqualFold(p.Color, strings.TrimSpace(f.Color)) {
		return false
	}
	if f.Brand != "" && !strings.EqualFold(p.Brand, strings.TrimSpace(f.Brand)) {
		return false
	}
	if f.Size != "" && !p.HasSize(f.Size) {
		return false
	}
	if f.Tag != "" && !p.HasTag(f.Tag) {
		return false
	}
	if f.MaxPrice.IsPositive() && p.Price.Amount.GreaterThan(f.MaxPrice) {
		return false
	}
	if query == "" {
		return true
	}

	if strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Description), query) ||
		strings.Contains(strings.ToLower(p.Brand), query) ||
		strings.Contains(strings.ToLower(p.Category), query) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), query) {
			return true
		}
	}
	return false
}
