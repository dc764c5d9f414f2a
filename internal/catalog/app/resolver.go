package app

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dwikikusuma/shoping-voice/internal/catalog/domain"
)

var ordinals = map[string]int{
	"first":  0,
	"second": 1,
	"third":  2,
	"fourth": 3,
}

// DefaultCategoryHints maps spoken words to catalog categories.
var DefaultCategoryHints = map[string]string{
	"phone":   "mobile",
	"phones":  "mobile",
	"mobile":  "mobile",
	"mobiles": "mobile",
}

// Resolver maps a free-text reference ("the second hoodie", "mug-001",
// "black hoodie") to one catalog entry. Rules are tried in a fixed order and
// the first match wins:
//
//  1. a category hint word narrows the candidates (ignored if nothing is left)
//  2. an ordinal word picks by position in the narrowed list
//  3. exact id, case-insensitive
//  4. item color and category both mentioned
//  5. every word longer than two characters occurs in the name
//  6. any word longer than two characters occurs in the name
//  7. a bare number is a 1-based position in the narrowed list
type Resolver struct {
	hints map[string]string
}

// NewResolver builds a resolver with DefaultCategoryHints plus extra.
func NewResolver(extra map[string]string) *Resolver {
	hints := make(map[string]string, len(DefaultCategoryHints)+len(extra))
	for k, v := range DefaultCategoryHints {
		hints[k] = v
	}
	for k, v := range extra {
		hints[strings.ToLower(k)] = strings.ToLower(v)
	}
	return &Resolver{hints: hints}
}

func (r *Resolver) Resolve(text string, candidates []domain.Product) (domain.Product, bool) {
	norm := strings.ToLower(strings.TrimSpace(text))
	if norm == "" || len(candidates) == 0 {
		return domain.Product{}, false
	}

	words := tokenize(norm)
	hints := r.hintsFor(candidates)

	narrowed := candidates
	if cat, ok := categoryHint(words, hints); ok {
		if sub := byCategory(candidates, cat); len(sub) > 0 {
			narrowed = sub
		}
	}

	for _, w := range words {
		if idx, ok := ordinals[w]; ok {
			if idx < len(narrowed) {
				return narrowed[idx], true
			}
			break
		}
	}

	for _, p := range candidates {
		if strings.EqualFold(p.ID, norm) {
			return p, true
		}
	}

	for _, p := range narrowed {
		if p.Color == "" {
			continue
		}
		if strings.Contains(norm, strings.ToLower(p.Color)) && mentionsCategory(norm, words, p.Category, hints) {
			return p, true
		}
	}

	significant := make([]string, 0, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) > 2 {
			significant = append(significant, w)
		}
	}

	if len(significant) > 0 {
		for _, p := range narrowed {
			name := strings.ToLower(p.Name)
			all := true
			for _, w := range significant {
				if !strings.Contains(name, w) {
					all = false
					break
				}
			}
			if all {
				return p, true
			}
		}

		for _, p := range narrowed {
			name := strings.ToLower(p.Name)
			for _, w := range significant {
				if strings.Contains(name, w) {
					return p, true
				}
			}
		}
	}

	for _, w := range words {
		if !isDigits(w) {
			continue
		}
		n, err := strconv.Atoi(w)
		if err == nil && n >= 1 && n <= len(narrowed) {
			return narrowed[n-1], true
		}
	}

	return domain.Product{}, false
}

// CategoryHint reports the category a reference names ("the first phone" ->
// mobile), using the default hints plus the category names found in items.
func (r *Resolver) CategoryHint(text string, items []domain.Product) (string, bool) {
	return categoryHint(tokenize(strings.ToLower(text)), r.hintsFor(items))
}

func (r *Resolver) hintsFor(candidates []domain.Product) map[string]string {
	hints := make(map[string]string, len(r.hints)+2*len(candidates))
	for k, v := range r.hints {
		hints[k] = v
	}
	for _, p := range candidates {
		cat := strings.ToLower(p.Category)
		if cat == "" {
			continue
		}
		if _, ok := hints[cat]; !ok {
			hints[cat] = cat
		}
		if _, ok := hints[cat+"s"]; !ok {
			hints[cat+"s"] = cat
		}
	}
	return hints
}

func categoryHint(words []string, hints map[string]string) (string, bool) {
	for _, w := range words {
		if cat, ok := hints[w]; ok {
			return cat, true
		}
	}
	return "", false
}

func byCategory(items []domain.Product, category string) []domain.Product {
	var out []domain.Product
	for _, p := range items {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

func mentionsCategory(text string, words []string, category string, hints map[string]string) bool {
	cat := strings.ToLower(category)
	if cat == "" {
		return false
	}
	if strings.Contains(text, cat) {
		return true
	}
	for _, w := range words {
		if hints[w] == cat {
			return true
		}
	}
	return false
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
