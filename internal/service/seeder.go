package service

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/healthycity/compliance/internal/model"
	"github.com/healthycity/compliance/internal/seed"
)

// SeedStats tracks seeding statistics
type SeedStats struct {
	Standards   int
	Agencies    int
	Assignments int
	Skipped     int
}

// Seeder loads the standards catalog into the store. Seeding is idempotent:
// standards are upserted by id, agencies by slug, and existing assignment
// links are counted as skipped rather than duplicated.
type Seeder struct {
	standards StandardRepository
	agencies  AgencyRepository
	logger    *log.Logger
	errLogger *log.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(standards StandardRepository, agencies AgencyRepository) *Seeder {
	return &Seeder{
		standards: standards,
		agencies:  agencies,
		logger:    log.New(os.Stdout, "", log.LstdFlags),
		errLogger: log.New(os.Stderr, "ERROR: ", log.LstdFlags),
	}
}

// Seed loads the embedded catalog and writes it to the store.
func (s *Seeder) Seed(ctx context.Context) (*SeedStats, error) {
	catalog, err := seed.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return s.SeedCatalog(ctx, catalog)
}

// SeedCatalog writes the given catalog to the store.
func (s *Seeder) SeedCatalog(ctx context.Context, catalog *seed.Catalog) (*SeedStats, error) {
	stats := &SeedStats{}

	s.logger.Printf("Seeding %d agencies...", len(catalog.Agencies))
	for _, a := range catalog.Agencies {
		if _, err := s.agencies.GetOrCreate(ctx, a.Name, a.Slug); err != nil {
			return stats, fmt.Errorf("failed to create agency %s: %w", a.Slug, err)
		}
		stats.Agencies++
	}

	s.logger.Printf("Seeding %d standards...", len(catalog.Standards))
	for idx, st := range catalog.Standards {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		standard := &model.Standard{
			ID:           st.ID,
			Text:         st.Text,
			Requirements: st.Requirements,
		}
		if err := s.standards.Upsert(ctx, standard); err != nil {
			s.errLogger.Printf("Failed to upsert standard %d: %v", st.ID, err)
			return stats, fmt.Errorf("failed to upsert standard %d: %w", st.ID, err)
		}
		stats.Standards++

		for _, slug := range st.Agencies {
			created, err := s.agencies.Link(ctx, st.ID, slug)
			if err != nil {
				s.errLogger.Printf("Failed to link standard %d to %s: %v", st.ID, slug, err)
				return stats, fmt.Errorf("failed to link standard %d to %s: %w", st.ID, slug, err)
			}
			if created {
				stats.Assignments++
			} else {
				stats.Skipped++
			}
		}

		if (idx+1)%20 == 0 {
			s.logger.Printf("[%d/%d] standards seeded", idx+1, len(catalog.Standards))
		}
	}

	return stats, nil
}

// PrintSummary prints the seeding statistics
func (s *Seeder) PrintSummary(stats *SeedStats) {
	s.logger.Println("")
	s.logger.Println("=== Seed Summary ===")
	s.logger.Printf("Agencies:     %d", stats.Agencies)
	s.logger.Printf("Standards:    %d", stats.Standards)
	s.logger.Printf("Assignments:  %d new, %d existing", stats.Assignments, stats.Skipped)
}
