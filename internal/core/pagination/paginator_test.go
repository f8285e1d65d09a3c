package pagination

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"migration-console/internal/pkg/config"
	"migration-console/internal/pkg/database"
	"migration-console/internal/repository"
	"migration-console/internal/state"
)

func newPaginator(t *testing.T) *Paginator {
	t.Helper()
	db, err := database.Open(&config.StateConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "state.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return NewPaginator(state.NewPreferences(repository.NewPreferenceRepository(db)))
}

func TestRangeLabelPersistsPageSize(t *testing.T) {
	ctx := context.Background()
	p := newPaginator(t)
	assert.Equal(t, state.DefaultPageSize, p.PageSize(ctx))

	label, err := p.RangeLabel(ctx, 1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "Page 2 of 2", label)
	assert.Equal(t, 1, p.PageSize(ctx))

	label, err = p.RangeLabel(ctx, 1, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, "Page 1 of 1", label)
	assert.Equal(t, 5, p.PageSize(ctx))
}

func TestLabel(t *testing.T) {
	tests := []struct {
		index, size, length int
		want                string
	}{
		{0, 10, 25, "Page 1 of 3"},
		{2, 10, 25, "Page 3 of 3"},
		{9, 10, 25, "Page 3 of 3"},
		{0, 0, 25, "Page 1 of 1"},
		{0, 10, 10, "Page 1 of 1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Label(tt.index, tt.size, tt.length))
	}
}

func TestWindow(t *testing.T) {
	start, end := Window(1, 10, 25)
	assert.Equal(t, 10, start)
	assert.Equal(t, 20, end)

	start, end = Window(5, 10, 25)
	assert.Equal(t, 25, start)
	assert.Equal(t, 25, end)
}

func TestClampKeepsLabelAndWindowAligned(t *testing.T) {
	assert.Equal(t, 1, Clamp(1, 10, 25))
	assert.Equal(t, 2, Clamp(9, 10, 25))
	assert.Equal(t, 0, Clamp(-1, 10, 25))
	assert.Equal(t, 0, Clamp(3, 10, 0))

	index := Clamp(5, 1, 2)
	assert.Equal(t, "Page 2 of 2", Label(index, 1, 2))
	start, end := Window(index, 1, 2)
	assert.Equal(t, 1, start)
	assert.Equal(t, 2, end)
}
