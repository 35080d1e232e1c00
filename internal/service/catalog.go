package service

import (
	"context"
	"fmt"

	"github.com/healthycity/compliance/internal/model"
)

// Catalog exposes read access to the standards registry. All operations are
// pure reads; the catalog is only written by the seeder.
type Catalog struct {
	standards StandardRepository
}

// NewCatalog creates a new Catalog service.
func NewCatalog(standards StandardRepository) *Catalog {
	return &Catalog{standards: standards}
}

// GetByID retrieves one standard, failing with ErrNotFound for ids outside
// the seeded catalog.
func (c *Catalog) GetByID(ctx context.Context, id int) (*model.Standard, error) {
	st, err := c.standards.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, fmt.Errorf("standard %d: %w", id, model.ErrNotFound)
	}
	return st, nil
}

// ListAll retrieves the full catalog in stable id order.
func (c *Catalog) ListAll(ctx context.Context) ([]model.Standard, error) {
	return c.standards.GetAll(ctx)
}

// Search filters the catalog by a case-insensitive substring query against
// text and requirements, an agency and a derived status. Filters compose
// with AND; an empty query returns everything post-filter. Filter values
// outside the known universe yield an empty result instead of an error, so
// UI filtering stays forgiving.
func (c *Catalog) Search(ctx context.Context, query, agency, status string) ([]model.Standard, error) {
	var st model.StandardStatus
	if status != "" {
		parsed, ok := model.ParseStandardStatus(status)
		if !ok {
			return []model.Standard{}, nil
		}
		st = parsed
	}

	var slug string
	if agency != "" {
		slug = model.Slugify(agency)
		// Nothing slugifiable can never match a registered agency; the
		// stores would read an empty slug as "no filter".
		if slug == "" {
			return []model.Standard{}, nil
		}
	}

	results, err := c.standards.Search(ctx, query, slug, st)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []model.Standard{}
	}
	return results, nil
}
