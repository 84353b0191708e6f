package repository

import (
	"context"
	"testing"

	"coursecatalog/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailRepository_GetOrCreate(t *testing.T) {
	repo := NewEmailRepository(newTestDB(t))
	ctx := context.Background()

	first, err := repo.GetOrCreate(ctx, "  Viewer@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "viewer@example.com", first.Address)
	assert.False(t, first.Verified)

	// Same address comes back, not a duplicate row.
	second, err := repo.GetOrCreate(ctx, "viewer@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestEmailRepository_MarkVerified(t *testing.T) {
	repo := NewEmailRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.GetOrCreate(ctx, "viewer@example.com")
	require.NoError(t, err)

	require.NoError(t, repo.MarkVerified(ctx, "viewer@example.com"))

	got, err := repo.GetByAddress(ctx, "viewer@example.com")
	require.NoError(t, err)
	assert.True(t, got.Verified)

	assert.ErrorIs(t, repo.MarkVerified(ctx, "stranger@example.com"), domain.ErrEmailNotFound)
}
