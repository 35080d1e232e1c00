package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthycity/compliance/internal/model"
	"github.com/healthycity/compliance/internal/store"
)

func newSearchFixture(t *testing.T) *store.Memory {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory()
	standards := []model.Standard{
		{ID: 1, Text: "Childhood vaccination coverage reaches ninety five percent.", Requirements: []string{"Coverage report"}},
		{ID: 2, Text: "Drinking water is tested monthly.", Requirements: []string{"Vaccination cold-chain audit"}},
		{ID: 3, Text: "School canteens meet nutrition standards.", Requirements: []string{"Inspection reports"}},
	}
	for i := range standards {
		require.NoError(t, mem.Standards().Upsert(ctx, &standards[i]))
	}
	return mem
}

func TestCatalogGetByID(t *testing.T) {
	ctx := context.Background()
	mem := newSearchFixture(t)
	svc := NewCatalog(mem.Standards())

	st, err := svc.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, st.ID)
	assert.Equal(t, model.StandardNotSubmitted, st.Status)

	_, err = svc.GetByID(ctx, 42)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestCatalogSearch(t *testing.T) {
	ctx := context.Background()
	mem := newSearchFixture(t)
	svc := NewCatalog(mem.Standards())

	t.Run("query matches text and requirements", func(t *testing.T) {
		got, err := svc.Search(ctx, "vaccination", "", "")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 1, got[0].ID)
		assert.Equal(t, 2, got[1].ID)
	})

	t.Run("no matches is empty not nil", func(t *testing.T) {
		got, err := svc.Search(ctx, "helicopter", "", "")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("status filter", func(t *testing.T) {
		got, err := svc.Search(ctx, "", "", "not_submitted")
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("unknown status yields empty result", func(t *testing.T) {
		got, err := svc.Search(ctx, "", "", "half-done")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unslugifiable agency yields empty result", func(t *testing.T) {
		got, err := svc.Search(ctx, "", "!!!", "")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("agency filter accepts names", func(t *testing.T) {
		_, err := mem.Agencies().GetOrCreate(ctx, "Ministry of Health", "ministry-of-health")
		require.NoError(t, err)
		_, err = mem.Agencies().Link(ctx, 1, "ministry-of-health")
		require.NoError(t, err)

		got, err := svc.Search(ctx, "", "Ministry of Health", "")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 1, got[0].ID)
	})
}

func TestCatalogListAll(t *testing.T) {
	mem := newSearchFixture(t)
	svc := NewCatalog(mem.Standards())

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Stable id order.
	assert.Equal(t, 1, all[0].ID)
	assert.Equal(t, 3, all[2].ID)
}
