package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/healthycity/compliance/internal/model"
)

// AgencyStore handles database operations for agencies and the
// agency-standard assignment links.
type AgencyStore struct {
	db *sql.DB
}

// NewAgencyStore creates a new AgencyStore.
func NewAgencyStore(db *sql.DB) *AgencyStore {
	return &AgencyStore{db: db}
}

// GetBySlug retrieves an agency by its slug. Returns nil without error when
// no agency carries the slug.
func (s *AgencyStore) GetBySlug(ctx context.Context, slug string) (*model.Agency, error) {
	query := `SELECT id, name, slug, created_at FROM agencies WHERE slug = $1`

	var a model.Agency
	err := s.db.QueryRowContext(ctx, query, slug).Scan(&a.ID, &a.Name, &a.Slug, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get agency %s: %w", slug, err)
	}
	return &a, nil
}

// GetAll retrieves all registered agencies ordered by name.
func (s *AgencyStore) GetAll(ctx context.Context) ([]model.Agency, error) {
	query := `SELECT id, name, slug, created_at FROM agencies ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get agencies: %w", err)
	}
	defer rows.Close()

	var agencies []model.Agency
	for rows.Next() {
		var a model.Agency
		if err := rows.Scan(&a.ID, &a.Name, &a.Slug, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan agency: %w", err)
		}
		agencies = append(agencies, a)
	}
	return agencies, rows.Err()
}

// GetOrCreate registers an agency under the slug if it is new, keeping the
// existing display name on conflict.
func (s *AgencyStore) GetOrCreate(ctx context.Context, name, slug string) (*model.Agency, error) {
	query := `
		INSERT INTO agencies (name, slug)
		VALUES ($1, $2)
		ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING id, name, slug, created_at
	`

	var a model.Agency
	err := s.db.QueryRowContext(ctx, query, name, slug).Scan(&a.ID, &a.Name, &a.Slug, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create agency %s: %w", slug, err)
	}
	return &a, nil
}

// Link creates an assignment between an agency and a standard. Linking an
// already-assigned pair is a no-op; the return value reports whether a new
// link was created.
func (s *AgencyStore) Link(ctx context.Context, standardID int, slug string) (bool, error) {
	query := `
		INSERT INTO agency_standards (agency_id, standard_id)
		SELECT a.id, $1 FROM agencies a WHERE a.slug = $2
		ON CONFLICT (agency_id, standard_id) DO NOTHING
	`

	res, err := s.db.ExecContext(ctx, query, standardID, slug)
	if err != nil {
		return false, fmt.Errorf("failed to link agency %s to standard %d: %w", slug, standardID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Unlink removes an assignment. Removing a link that does not exist is not
// an error; the return value reports whether anything was removed.
func (s *AgencyStore) Unlink(ctx context.Context, standardID int, slug string) (bool, error) {
	query := `
		DELETE FROM agency_standards j
		USING agencies a
		WHERE a.id = j.agency_id AND j.standard_id = $1 AND a.slug = $2
	`

	res, err := s.db.ExecContext(ctx, query, standardID, slug)
	if err != nil {
		return false, fmt.Errorf("failed to unlink agency %s from standard %d: %w", slug, standardID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// StandardIDsFor retrieves the standard ids assigned to an agency, ordered
// ascending. Unknown agencies yield an empty list.
func (s *AgencyStore) StandardIDsFor(ctx context.Context, slug string) ([]int, error) {
	query := `
		SELECT j.standard_id
		FROM agency_standards j
		JOIN agencies a ON a.id = j.agency_id
		WHERE a.slug = $1
		ORDER BY j.standard_id
	`

	rows, err := s.db.QueryContext(ctx, query, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get standards for agency %s: %w", slug, err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan standard id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
