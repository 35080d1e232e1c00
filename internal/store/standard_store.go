package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/healthycity/compliance/internal/model"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Standards join against the newest filed submission so the derived status
// comes straight out of the query. Drafts (status pending) never count.
const standardsFrom = `standards s
		LEFT JOIN LATERAL (
			SELECT status FROM submissions
			WHERE standard_id = s.id AND status <> 'pending'
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		) latest ON true`

const derivedStatus = `COALESCE(latest.status, 'not_submitted')`

// StandardStore handles database operations for the standards catalog.
type StandardStore struct {
	db *sql.DB
}

// NewStandardStore creates a new StandardStore.
func NewStandardStore(db *sql.DB) *StandardStore {
	return &StandardStore{db: db}
}

// GetByID retrieves a standard with its derived status and assigned agencies.
// Returns nil without error when the id is not in the catalog.
func (s *StandardStore) GetByID(ctx context.Context, id int) (*model.Standard, error) {
	query, args, err := psql.
		Select("s.id", "s.text", "s.requirements", derivedStatus).
		From(standardsFrom).
		Where(sq.Eq{"s.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build standard query: %w", err)
	}

	var st model.Standard
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&st.ID,
		&st.Text,
		pq.Array(&st.Requirements),
		&st.Status,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get standard %d: %w", id, err)
	}

	if err := s.attachAgencies(ctx, []*model.Standard{&st}); err != nil {
		return nil, err
	}
	return &st, nil
}

// GetAll retrieves the full catalog ordered by id ascending.
func (s *StandardStore) GetAll(ctx context.Context) ([]model.Standard, error) {
	return s.Search(ctx, "", "", "")
}

// Search retrieves standards matching a case-insensitive substring query
// against text and requirements, optionally restricted to one agency and one
// derived status. Empty arguments mean no restriction; filters compose with
// AND. Unknown filter values simply produce an empty result.
func (s *StandardStore) Search(ctx context.Context, query, agencySlug string, status model.StandardStatus) ([]model.Standard, error) {
	qb := psql.
		Select("s.id", "s.text", "s.requirements", derivedStatus).
		From(standardsFrom).
		OrderBy("s.id ASC")

	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		pattern := "%" + q + "%"
		qb = qb.Where(sq.Expr(
			`(LOWER(s.text) LIKE ? OR EXISTS (
				SELECT 1 FROM unnest(s.requirements) AS req WHERE LOWER(req) LIKE ?
			))`, pattern, pattern))
	}
	if agencySlug != "" {
		qb = qb.Where(sq.Expr(
			`EXISTS (
				SELECT 1 FROM agency_standards j
				JOIN agencies a ON a.id = j.agency_id
				WHERE j.standard_id = s.id AND a.slug = ?
			)`, agencySlug))
	}
	if status != "" {
		qb = qb.Where(sq.Expr(derivedStatus+` = ?`, string(status)))
	}

	sqlStr, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build search query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search standards: %w", err)
	}
	defer rows.Close()

	var standards []model.Standard
	for rows.Next() {
		var st model.Standard
		if err := rows.Scan(&st.ID, &st.Text, pq.Array(&st.Requirements), &st.Status); err != nil {
			return nil, fmt.Errorf("failed to scan standard: %w", err)
		}
		standards = append(standards, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*model.Standard, len(standards))
	for i := range standards {
		refs[i] = &standards[i]
	}
	if err := s.attachAgencies(ctx, refs); err != nil {
		return nil, err
	}
	return standards, nil
}

// Count returns the catalog size.
func (s *StandardStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM standards").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count standards: %w", err)
	}
	return count, nil
}

// Upsert inserts or updates a standard's seed fields. Used by the seeder;
// assignments and submissions are never touched here.
func (s *StandardStore) Upsert(ctx context.Context, st *model.Standard) error {
	query := `
		INSERT INTO standards (id, text, requirements)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			text = EXCLUDED.text,
			requirements = EXCLUDED.requirements,
			updated_at = now()
	`
	_, err := s.db.ExecContext(ctx, query, st.ID, st.Text, pq.Array(st.Requirements))
	if err != nil {
		return fmt.Errorf("failed to upsert standard %d: %w", st.ID, err)
	}
	return nil
}

// attachAgencies bulk-loads assignment links for the given standards.
func (s *StandardStore) attachAgencies(ctx context.Context, standards []*model.Standard) error {
	for _, st := range standards {
		st.AssignedAgencies = []string{}
	}
	if len(standards) == 0 {
		return nil
	}

	ids := make([]int64, len(standards))
	byID := make(map[int]*model.Standard, len(standards))
	for i, st := range standards {
		ids[i] = int64(st.ID)
		byID[st.ID] = st
	}

	query := `
		SELECT j.standard_id, a.slug
		FROM agency_standards j
		JOIN agencies a ON a.id = j.agency_id
		WHERE j.standard_id = ANY($1)
		ORDER BY a.slug
	`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load standard assignments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var standardID int
		var slug string
		if err := rows.Scan(&standardID, &slug); err != nil {
			return fmt.Errorf("failed to scan assignment: %w", err)
		}
		if st, ok := byID[standardID]; ok {
			st.AssignedAgencies = append(st.AssignedAgencies, slug)
		}
	}
	return rows.Err()
}
