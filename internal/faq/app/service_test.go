package app

import (
	"context"
	"errors"
	"testing"

	"github.com/dwikikusuma/shoping-voice/internal/faq/domain"
	"github.com/dwikikusuma/shoping-voice/pkg/logger"
	"github.com/stretchr/testify/assert"
)

var doc = domain.Document{
	FAQ: []domain.Entry{
		{Q: "What does the product do?", A: "It lets businesses accept online payments."},
		{Q: "Who is it for?", A: "Startups and enterprises selling online."},
		{Q: "Is there a free tier?", A: "There is no setup fee or annual maintenance fee."},
	},
	Pricing: map[string]map[string]string{
		"payment_gateway": {
			"upi":   "0% per transaction",
			"cards": "2% per transaction",
			"gst":   "Additional 18% GST is applicable.",
		},
	},
}

type fakeSource struct{ err error }

func (f fakeSource) Load(ctx context.Context) (domain.Document, error) {
	return domain.Document{}, f.err
}

func TestLookupPricingShortcut(t *testing.T) {
	svc := NewService(doc, logger.Discard())

	got := svc.Lookup("How much do you charge for UPI payments?")
	assert.True(t, got.Found)
	assert.Equal(t, "UPI payments are 0% per transaction. Additional 18% GST is applicable.", got.Text)

	got = svc.Lookup("what is the cost for cards")
	assert.Equal(t, "CARDS payments are 2% per transaction. Additional 18% GST is applicable.", got.Text)
}

func TestLookupPricingWordWithoutKeyFallsBackToEntries(t *testing.T) {
	svc := NewService(doc, logger.Discard())

	got := svc.Lookup("is there a setup fee?")
	assert.True(t, got.Found)
	assert.Equal(t, "There is no setup fee or annual maintenance fee.", got.Text)
}

func TestLookupScoresByWordOverlap(t *testing.T) {
	svc := NewService(doc, logger.Discard())

	got := svc.Lookup("who is this for")
	assert.True(t, got.Found)
	assert.Equal(t, "Startups and enterprises selling online.", got.Text)
}

func TestLookupTiesKeepEarliest(t *testing.T) {
	svc := NewService(domain.Document{FAQ: []domain.Entry{
		{Q: "alpha", A: "first"},
		{Q: "alpha", A: "second"},
	}}, logger.Discard())

	assert.Equal(t, "first", svc.Lookup("alpha").Text)
}

func TestLookupNotFound(t *testing.T) {
	svc := NewService(doc, logger.Discard())

	for _, q := range []string{"", "xyzzy plugh", "a b"} {
		got := svc.Lookup(q)
		assert.False(t, got.Found, q)
		assert.Equal(t, NotFoundText, got.Text)
	}
}

func TestLoadFailsSoft(t *testing.T) {
	svc := Load(context.Background(), fakeSource{err: errors.New("missing")}, logger.Discard())
	assert.False(t, svc.Lookup("upi pricing").Found)
}
