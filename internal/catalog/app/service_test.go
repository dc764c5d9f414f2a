package app

import (
	"context"
	"errors"
	"testing"

	"github.com/dwikikusuma/shoping-voice/internal/catalog/domain"
	"github.com/dwikikusuma/shoping-voice/pkg/logger"
	"github.com/shopspring/decimal"
)

type fakeSource struct {
	items []domain.Product
	err   error
}

func (f fakeSource) Load(ctx context.Context) ([]domain.Product, error) { return f.items, f.err }

func TestLoadFailSoft(t *testing.T) {
	t.Run("load error -> empty catalog", func(t *testing.T) {
		svc := Load(context.Background(), fakeSource{err: ErrLoadFailure}, logger.Discard())
		if svc.Len() != 0 {
			t.Fatalf("expected empty catalog, got %d items", svc.Len())
		}
	})

	t.Run("items are served", func(t *testing.T) {
		svc := Load(context.Background(), fakeSource{items: fixture()}, logger.Discard())
		if svc.Len() != len(fixture()) {
			t.Fatalf("expected %d items, got %d", len(fixture()), svc.Len())
		}
	})
}

func TestGet(t *testing.T) {
	svc := NewService(fixture())

	t.Run("blank id -> invalid", func(t *testing.T) {
		_, err := svc.Get("   ")
		if err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("unknown id -> not found", func(t *testing.T) {
		_, err := svc.Get("nope")
		if err != ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("id lookup ignores case", func(t *testing.T) {
		p, err := svc.Get("MUG-001")
		if err != nil || p.Name != "Blue Mug" {
			t.Fatalf("got %+v, %v", p, err)
		}
	})
}

func TestStoreIsIsolatedFromCaller(t *testing.T) {
	items := fixture()
	svc := NewService(items)
	items[0].Name = "mutated"

	all := svc.All()
	all[1].Name = "mutated too"

	p, _ := svc.Get("hoodie-001")
	if p.Name != "Classic Hoodie" {
		t.Fatalf("store changed through input slice: %q", p.Name)
	}
	p, _ = svc.Get("phone-001")
	if p.Name != "Pixel Lite" {
		t.Fatalf("store changed through All(): %q", p.Name)
	}
}

func TestList(t *testing.T) {
	svc := NewService(fixture())

	t.Run("category", func(t *testing.T) {
		got := svc.List(Filter{Category: "Mobile"})
		if len(got) != 2 || got[0].ID != "phone-001" || got[1].ID != "phone-002" {
			t.Fatalf("got %+v", ids(got))
		}
	})

	t.Run("color and max price", func(t *testing.T) {
		got := svc.List(Filter{Color: "black", MaxPrice: decimal.NewFromInt(2000)})
		if len(got) != 1 || got[0].ID != "hoodie-002" {
			t.Fatalf("got %+v", ids(got))
		}
	})

	t.Run("query", func(t *testing.T) {
		got := svc.List(Filter{Query: "HOODIE"})
		if len(got) != 2 {
			t.Fatalf("got %+v", ids(got))
		}
	})

	t.Run("limit", func(t *testing.T) {
		got := svc.List(Filter{Limit: 2})
		if len(got) != 2 || got[0].ID != "hoodie-001" {
			t.Fatalf("got %+v", ids(got))
		}
	})
}

func TestResolveThroughService(t *testing.T) {
	svc := NewService(fixture())

	p, err := svc.Resolve("the second phone")
	if err != nil || p.ID != "phone-002" {
		t.Fatalf("got %s, %v", p.ID, err)
	}

	_, err = svc.Resolve("nothing like it")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, err = svc.Resolve("")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	mugs := svc.List(Filter{Category: "mug"})
	p, err = svc.ResolveIn("first", mugs)
	if err != nil || p.ID != "mug-001" {
		t.Fatalf("got %s, %v", p.ID, err)
	}
}

func TestResolveInRejectsCategoryOutsideCandidates(t *testing.T) {
	svc := NewService(fixture())
	hoodies := svc.List(Filter{Category: "hoodie"})

	_, err := svc.ResolveIn("the first phone", hoodies)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, err = svc.ResolveIn("the first mug", hoodies)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	p, err := svc.ResolveIn("the second hoodie", hoodies)
	if err != nil || p.ID != "hoodie-002" {
		t.Fatalf("got %s, %v", p.ID, err)
	}

	p, err = svc.Resolve("the first phone")
	if err != nil || p.ID != "phone-001" {
		t.Fatalf("got %s, %v", p.ID, err)
	}
}

func ids(ps []domain.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}
