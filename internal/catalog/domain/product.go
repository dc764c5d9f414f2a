package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount. Whether it counts major or minor units is
// up to the catalog, as long as one catalog is consistent.
type Money struct {
	Currency string
	Amount   decimal.Decimal
}

// Product is a catalog entry. Products are immutable once loaded.
type Product struct {
	ID          string
	Name        string
	Category    string
	Price       Money
	Color       string
	Sizes       []string
	Brand       string
	Tags        []string
	Description string
}

func (p Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if equalFold(s, size) {
			return true
		}
	}
	return false
}

func (p Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if equalFold(t, tag) {
			return true
		}
	}
	return false
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
