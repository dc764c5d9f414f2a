package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dwikikusuma/shoping-voice/internal/catalog/app"
	"github.com/dwikikusuma/shoping-voice/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

type productRecord struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Price       *json.Number `json:"price"`
	Currency    string       `json:"currency"`
	Color       string       `json:"color,omitempty"`
	Sizes       []string     `json:"sizes,omitempty"`
	Brand       string       `json:"brand,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Description string       `json:"description,omitempty"`
}

// ProductRepo reads a catalog stored as a JSON array of products.
type ProductRepo struct {
	path string
}

func NewProductRepo(path string) *ProductRepo {
	return &ProductRepo{path: path}
}

func (r *ProductRepo) Load(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", app.ErrLoadFailure, r.path, err)
	}
	return Decode(raw)
}

// Decode parses and validates a catalog document.
func Decode(raw []byte) ([]domain.Product, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var rows []productRecord
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", app.ErrLoadFailure, err)
	}

	out := make([]domain.Product, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))

	for i, row := range rows {
		p, err := toDomain(row)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", app.ErrLoadFailure, i, err)
		}
		key := strings.ToLower(p.ID)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: item %d: duplicate id %q", app.ErrLoadFailure, i, p.ID)
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}

	return out, nil
}

func toDomain(row productRecord) (domain.Product, error) {
	id := strings.TrimSpace(row.ID)
	name := strings.TrimSpace(row.Name)
	category := strings.TrimSpace(row.Category)
	currency := strings.TrimSpace(row.Currency)

	switch {
	case id == "":
		return domain.Product{}, fmt.Errorf("missing id")
	case name == "":
		return domain.Product{}, fmt.Errorf("%s: missing name", id)
	case category == "":
		return domain.Product{}, fmt.Errorf("%s: missing category", id)
	case currency == "":
		return domain.Product{}, fmt.Errorf("%s: missing currency", id)
	case row.Price == nil:
		return domain.Product{}, fmt.Errorf("%s: missing price", id)
	}

	amount, err := decimal.NewFromString(row.Price.String())
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: price %q is not a number", id, row.Price.String())
	}
	if amount.IsNegative() {
		return domain.Product{}, fmt.Errorf("%s: negative price %s", id, amount)
	}

	return domain.Product{
		ID:          id,
		Name:        name,
		Category:    category,
		Price:       domain.Money{Currency: currency, Amount: amount},
		Color:       strings.TrimSpace(row.Color),
		Sizes:       row.Sizes,
		Brand:       strings.TrimSpace(row.Brand),
		Tags:        row.Tags,
		Description: row.Description,
	}, nil
}
