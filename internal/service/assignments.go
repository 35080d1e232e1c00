package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/healthycity/compliance/internal/model"
)

// Assignments maintains the many-to-many index between agencies and
// standards. Agencies are identified by slug; an unknown agency is
// registered on first assignment. Both assign and unassign are safe to
// retry: repeating either reports the no-op instead of failing, since the
// admin UI toggles assignments.
type Assignments struct {
	standards StandardRepository
	agencies  AgencyRepository
}

// NewAssignments creates a new Assignments service.
func NewAssignments(standards StandardRepository, agencies AgencyRepository) *Assignments {
	return &Assignments{standards: standards, agencies: agencies}
}

// StandardsFor retrieves the standards assigned to an agency. An unknown
// agency yields an empty list, not an error: an agency with zero
// assignments is valid.
func (a *Assignments) StandardsFor(ctx context.Context, agency string) ([]model.Standard, error) {
	slug := model.Slugify(agency)

	ids, err := a.agencies.StandardIDsFor(ctx, slug)
	if err != nil {
		return nil, err
	}
	assigned := make(map[int]bool, len(ids))
	for _, id := range ids {
		assigned[id] = true
	}

	all, err := a.standards.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Standard, 0, len(ids))
	for _, st := range all {
		if assigned[st.ID] {
			out = append(out, st)
		}
	}
	return out, nil
}

// UnassignedFor retrieves the complement: every standard not assigned to the
// agency.
func (a *Assignments) UnassignedFor(ctx context.Context, agency string) ([]model.Standard, error) {
	slug := model.Slugify(agency)

	all, err := a.standards.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Standard, 0, len(all))
	for _, st := range all {
		if !st.AssignedTo(slug) {
			out = append(out, st)
		}
	}
	return out, nil
}

// Assign adds an agency to a standard's responsible set, registering the
// agency if needed. Re-assigning an existing pair is a reported no-op, never
// an error. The returned flag is true when the pair was already assigned.
func (a *Assignments) Assign(ctx context.Context, standardID int, agency string) (alreadyAssigned bool, err error) {
	if err := a.ensureStandard(ctx, standardID); err != nil {
		return false, err
	}

	name := strings.TrimSpace(agency)
	slug := model.Slugify(name)
	if slug == "" {
		return false, fmt.Errorf("%w: agency is required", model.ErrValidation)
	}

	ag, err := a.agencies.GetOrCreate(ctx, name, slug)
	if err != nil {
		return false, err
	}
	created, err := a.agencies.Link(ctx, standardID, ag.Slug)
	if err != nil {
		return false, err
	}
	return !created, nil
}

// Unassign removes an agency from a standard's responsible set. Removing an
// assignment that does not exist is reported through the flag without
// corrupting state.
func (a *Assignments) Unassign(ctx context.Context, standardID int, agency string) (removed bool, err error) {
	if err := a.ensureStandard(ctx, standardID); err != nil {
		return false, err
	}
	return a.agencies.Unlink(ctx, standardID, model.Slugify(agency))
}

// Agencies lists every registered agency.
func (a *Assignments) Agencies(ctx context.Context) ([]model.Agency, error) {
	agencies, err := a.agencies.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if agencies == nil {
		agencies = []model.Agency{}
	}
	return agencies, nil
}

// AgencyBySlug retrieves one registered agency, failing with ErrNotFound.
func (a *Assignments) AgencyBySlug(ctx context.Context, slug string) (*model.Agency, error) {
	ag, err := a.agencies.GetBySlug(ctx, model.Slugify(slug))
	if err != nil {
		return nil, err
	}
	if ag == nil {
		return nil, fmt.Errorf("agency %s: %w", slug, model.ErrNotFound)
	}
	return ag, nil
}

func (a *Assignments) ensureStandard(ctx context.Context, standardID int) error {
	st, err := a.standards.GetByID(ctx, standardID)
	if err != nil {
		return err
	}
	if st == nil {
		return fmt.Errorf("standard %d: %w", standardID, model.ErrNotFound)
	}
	return nil
}
