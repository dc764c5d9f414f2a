package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFAQRepoLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faq.json")
	body := `{"faq":[{"q":"Who is it for?","a":"Everyone."}],"pricing":{"payment_gateway":{"upi":"0%","gst":"GST extra."}}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	doc, err := NewFAQRepo(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.FAQ, 1)
	assert.Equal(t, "0%", doc.Pricing["payment_gateway"]["upi"])
}

func TestFAQRepoLoadFailures(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"faq": [`), 0o644))

	for _, path := range []string{filepath.Join(dir, "missing.json"), bad} {
		_, err := NewFAQRepo(path).Load(context.Background())
		assert.ErrorIs(t, err, ErrLoadFailure)
	}
}
