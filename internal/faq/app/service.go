package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dwikikusuma/shoping-voice/internal/faq/domain"
	"github.com/dwikikusuma/shoping-voice/pkg/logger"
)

const NotFoundText = "I could not find that exact detail in my FAQ data. A teammate can confirm this for you."

const gstKey = "gst"

var pricingWords = []string{"price", "pricing", "charge", "fee", "cost"}

type DocumentSource interface {
	Load(ctx context.Context) (domain.Document, error)
}

type Service struct {
	doc domain.Document
	log *slog.Logger
}

func NewService(doc domain.Document, log *slog.Logger) *Service {
	return &Service{doc: doc, log: logger.OrDefault(log)}
}

// Load reads the FAQ from src. A missing or broken document is logged and
// every lookup then answers not found.
func Load(ctx context.Context, src DocumentSource, log *slog.Logger) *Service {
	log = logger.OrDefault(log)

	doc, err := src.Load(ctx)
	if err != nil {
		log.Error("faq load failed, serving empty faq", slog.Any("err", err))
		return NewService(domain.Document{}, log)
	}

	log.Info("faq loaded", slog.Int("entries", len(doc.FAQ)), slog.Int("pricing_sections", len(doc.Pricing)))
	return NewService(doc, log)
}

// Lookup answers query from the FAQ. Pricing questions naming a price key are
// answered from the pricing table; everything else goes to the entry sharing
// the most words with the query.
func (s *Service) Lookup(query string) domain.Answer {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return domain.Answer{Text: NotFoundText}
	}

	if ans, ok := s.pricing(q); ok {
		return ans
	}

	words := make([]string, 0, 8)
	for _, w := range strings.Fields(strings.ReplaceAll(q, "?", " ")) {
		if utf8.RuneCountInString(w) > 2 {
			words = append(words, w)
		}
	}

	best, bestScore := -1, 0
	for i, e := range s.doc.FAQ {
		text := strings.ToLower(e.Q + " " + e.A)
		score := 0
		for _, w := range words {
			if strings.Contains(text, w) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	if best < 0 || s.doc.FAQ[best].A == "" {
		s.log.Info("faq miss", slog.String("query", query))
		return domain.Answer{Text: NotFoundText}
	}
	return domain.Answer{Text: s.doc.FAQ[best].A, Found: true}
}

func (s *Service) pricing(q string) (domain.Answer, bool) {
	if !slices.ContainsFunc(pricingWords, func(w string) bool { return strings.Contains(q, w) }) {
		return domain.Answer{}, false
	}

	tokens := strings.FieldsFunc(q, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})

	sections := make([]string, 0, len(s.doc.Pricing))
	for name := range s.doc.Pricing {
		sections = append(sections, name)
	}
	slices.Sort(sections)

	for _, name := range sections {
		table := s.doc.Pricing[name]
		for _, tok := range tokens {
			if tok == gstKey {
				continue
			}
			price, ok := table[tok]
			if !ok || price == "" {
				continue
			}

			text := fmt.Sprintf("%s payments are %s.", strings.ToUpper(tok), price)
			if gst := table[gstKey]; gst != "" {
				text += " " + gst
			}
			return domain.Answer{Text: text, Found: true}, true
		}
	}
	return domain.Answer{}, false
}
