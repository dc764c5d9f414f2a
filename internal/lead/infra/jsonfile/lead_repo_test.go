package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/dwikikusuma/shoping-voice/internal/lead/domain"
	"github.com/dwikikusuma/shoping-voice/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadRepoAppendKeepsAllFields(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "leads.json")
	repo := NewLeadRepo(path, logger.Discard())

	require.NoError(t, repo.Append(ctx, domain.Lead{ID: "l1", Name: "Asha"}))
	require.NoError(t, repo.Append(ctx, domain.Lead{ID: "l2", Email: "b@example.com"}))

	leads, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "l2", leads[1].ID)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, sonic.Unmarshal(raw, &rows))
	for _, key := range []string{"name", "company", "email", "role", "use_case", "team_size", "timeline", "notes", "created_at"} {
		assert.Contains(t, rows[0], key)
	}
}
