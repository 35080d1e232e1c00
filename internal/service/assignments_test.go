package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthycity/compliance/internal/model"
	"github.com/healthycity/compliance/internal/store"
)

// newCatalogStore returns a memory store pre-loaded with n standards and no
// assignments.
func newCatalogStore(t *testing.T, n int) *store.Memory {
	t.Helper()
	mem := store.NewMemory()
	for i := 1; i <= n; i++ {
		err := mem.Standards().Upsert(context.Background(), &model.Standard{
			ID:           i,
			Text:         fmt.Sprintf("Standard %d", i),
			Requirements: []string{"Annual report"},
		})
		require.NoError(t, err)
	}
	return mem
}

func TestAssignRegistersAgency(t *testing.T) {
	ctx := context.Background()
	mem := newCatalogStore(t, 80)
	svc := NewAssignments(mem.Standards(), mem.Agencies())

	alreadyAssigned, err := svc.Assign(ctx, 41, "Ministry of Health")
	require.NoError(t, err)
	assert.False(t, alreadyAssigned)

	assigned, err := svc.StandardsFor(ctx, "ministry-of-health")
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, 41, assigned[0].ID)

	unassigned, err := svc.UnassignedFor(ctx, "ministry-of-health")
	require.NoError(t, err)
	assert.Len(t, unassigned, 79)

	// Both directions of the index agree.
	st, err := mem.Standards().GetByID(ctx, 41)
	require.NoError(t, err)
	assert.True(t, st.AssignedTo("ministry-of-health"))
	for _, u := range unassigned {
		assert.False(t, u.AssignedTo("ministry-of-health"))
	}

	// The agency was registered with its display name and derived slug.
	ag, err := svc.AgencyBySlug(ctx, "ministry-of-health")
	require.NoError(t, err)
	assert.Equal(t, "Ministry of Health", ag.Name)
}

func TestAssignIdempotent(t *testing.T) {
	ctx := context.Background()
	mem := newCatalogStore(t, 5)
	svc := NewAssignments(mem.Standards(), mem.Agencies())

	_, err := svc.Assign(ctx, 3, "Municipality")
	require.NoError(t, err)

	// Name and slug address the same agency; repeats report the no-op.
	alreadyAssigned, err := svc.Assign(ctx, 3, "municipality")
	require.NoError(t, err)
	assert.True(t, alreadyAssigned)

	assigned, err := svc.StandardsFor(ctx, "Municipality")
	require.NoError(t, err)
	assert.Len(t, assigned, 1)
}

func TestAssignErrors(t *testing.T) {
	ctx := context.Background()
	mem := newCatalogStore(t, 5)
	svc := NewAssignments(mem.Standards(), mem.Agencies())

	_, err := svc.Assign(ctx, 99, "Municipality")
	assert.True(t, errors.Is(err, model.ErrNotFound))

	_, err = svc.Assign(ctx, 1, "   ")
	assert.True(t, errors.Is(err, model.ErrValidation))
}

func TestUnassign(t *testing.T) {
	ctx := context.Background()
	mem := newCatalogStore(t, 5)
	svc := NewAssignments(mem.Standards(), mem.Agencies())

	_, err := svc.Assign(ctx, 2, "Civil Defense")
	require.NoError(t, err)

	removed, err := svc.Unassign(ctx, 2, "Civil Defense")
	require.NoError(t, err)
	assert.True(t, removed)

	// Removing again, or removing a never-assigned pair, is a reported no-op.
	removed, err = svc.Unassign(ctx, 2, "Civil Defense")
	require.NoError(t, err)
	assert.False(t, removed)
	removed, err = svc.Unassign(ctx, 4, "Civil Defense")
	require.NoError(t, err)
	assert.False(t, removed)

	// The agency stays registered even with zero assignments left.
	_, err = svc.AgencyBySlug(ctx, "civil-defense")
	assert.NoError(t, err)

	_, err = svc.Unassign(ctx, 99, "Civil Defense")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestStandardsForUnknownAgency(t *testing.T) {
	ctx := context.Background()
	mem := newCatalogStore(t, 5)
	svc := NewAssignments(mem.Standards(), mem.Agencies())

	assigned, err := svc.StandardsFor(ctx, "never-registered")
	require.NoError(t, err)
	assert.Empty(t, assigned)

	unassigned, err := svc.UnassignedFor(ctx, "never-registered")
	require.NoError(t, err)
	assert.Len(t, unassigned, 5)
}

func TestAgencyBySlugNotFound(t *testing.T) {
	mem := newCatalogStore(t, 1)
	svc := NewAssignments(mem.Standards(), mem.Agencies())

	_, err := svc.AgencyBySlug(context.Background(), "ghost-agency")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}
