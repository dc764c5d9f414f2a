package app

import (
	"testing"

	"github.com/dwikikusuma/shoping-voice/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

func fixture() []domain.Product {
	return []domain.Product{
		{ID: "hoodie-001", Name: "Classic Hoodie", Category: "hoodie", Color: "grey", Price: domain.Money{Currency: "INR", Amount: decimal.NewFromInt(1499)}},
		{ID: "phone-001", Name: "Pixel Lite", Category: "mobile", Color: "white", Price: domain.Money{Currency: "INR", Amount: decimal.NewFromInt(19999)}},
		{ID: "hoodie-002", Name: "Zip Hoodie", Category: "hoodie", Color: "black", Price: domain.Money{Currency: "INR", Amount: decimal.NewFromInt(1799)}},
		{ID: "mug-001", Name: "Blue Mug", Category: "mug", Color: "blue", Price: domain.Money{Currency: "INR", Amount: decimal.NewFromInt(299)}},
		{ID: "phone-002", Name: "Galaxy Note", Category: "mobile", Color: "black", Price: domain.Money{Currency: "INR", Amount: decimal.NewFromInt(49999)}},
		{ID: "tee-001", Name: "Cotton Tee", Category: "tshirt", Price: domain.Money{Currency: "INR", Amount: decimal.NewFromInt(499)}},
	}
}

func TestResolve(t *testing.T) {
	r := NewResolver(nil)
	items := fixture()

	cases := []struct {
		name   string
		text   string
		wantID string
	}{
		{"exact id", "mug-001", "mug-001"},
		{"exact id ignores case", "  MUG-001 ", "mug-001"},
		{"ordinal without hint indexes whole list", "the third one", "hoodie-002"},
		{"ordinal narrowed by synonym", "the second phone", "phone-002"},
		{"ordinal narrowed by category name", "first hoodie", "hoodie-001"},
		{"plural category hint", "the second hoodies", "hoodie-002"},
		{"color and category", "that black hoodie please", "hoodie-002"},
		{"color and category synonym", "the black mobile", "phone-002"},
		{"all name words", "zip hoodie", "hoodie-002"},
		{"any name word", "something cotton", "tee-001"},
		{"numeric position", "number 4", "mug-001"},
		{"numeric position after narrowing", "phone 2", "phone-002"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := r.Resolve(tc.text, items)
			if !ok {
				t.Fatalf("Resolve(%q) not found, want %s", tc.text, tc.wantID)
			}
			if got.ID != tc.wantID {
				t.Fatalf("Resolve(%q) = %s, want %s", tc.text, got.ID, tc.wantID)
			}
		})
	}
}

func TestResolveNotFound(t *testing.T) {
	r := NewResolver(nil)

	for _, text := range []string{"", "   ", "xyz", "number 42", "a b"} {
		if got, ok := r.Resolve(text, fixture()); ok {
			t.Fatalf("Resolve(%q) = %s, want not found", text, got.ID)
		}
	}

	if _, ok := r.Resolve("mug-001", nil); ok {
		t.Fatal("empty candidates must not resolve")
	}
}

func TestResolveEveryIDCaseInsensitive(t *testing.T) {
	r := NewResolver(nil)
	items := fixture()
	for _, p := range items {
		for _, text := range []string{p.ID, toUpper(p.ID)} {
			got, ok := r.Resolve(text, items)
			if !ok || got.ID != p.ID {
				t.Fatalf("Resolve(%q) = %v/%v, want %s", text, got.ID, ok, p.ID)
			}
		}
	}
}

func TestResolveOrdinalBeatsOtherRules(t *testing.T) {
	r := NewResolver(nil)
	// "blue mug" would match rule 4 and 5, but the ordinal comes first.
	got, ok := r.Resolve("the first blue mug", fixture())
	if !ok || got.ID != "mug-001" {
		t.Fatalf("got %s", got.ID)
	}

	got, ok = r.Resolve("second cotton", fixture())
	if !ok || got.ID != "phone-001" {
		t.Fatalf("ordinal should index the whole list, got %s", got.ID)
	}
}

func TestResolveOrdinalOutOfRangeFallsThrough(t *testing.T) {
	r := NewResolver(nil)
	// only one mug: "fourth" is out of range, the name match still applies
	got, ok := r.Resolve("fourth blue mug", fixture())
	if !ok || got.ID != "mug-001" {
		t.Fatalf("got %s/%v", got.ID, ok)
	}
}

func TestResolveEmptyNarrowingKeepsCandidates(t *testing.T) {
	r := NewResolver(nil)
	items := []domain.Product{
		{ID: "a", Name: "Alpha Mug", Category: "mug"},
		{ID: "b", Name: "Beta Mug", Category: "mug"},
	}
	// "phone" hints at mobile but there are no mobiles here
	got, ok := r.Resolve("second phone", items)
	if !ok || got.ID != "b" {
		t.Fatalf("got %s/%v", got.ID, ok)
	}
}

func TestResolveCustomHints(t *testing.T) {
	r := NewResolver(map[string]string{"Cup": "mug"})
	got, ok := r.Resolve("the first cup", fixture())
	if !ok || got.ID != "mug-001" {
		t.Fatalf("got %s/%v", got.ID, ok)
	}
}

func toUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 32
		}
	}
	return string(b)
}
