package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/healthycity/compliance/internal/service"
	"github.com/healthycity/compliance/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the standards catalog into the database",
	Long: `Seed loads the embedded Healthy City standards catalog into PostgreSQL:
the 80 program standards, the participating agencies, and the default
agency assignments.

Seeding is idempotent and safe to re-run; standards are upserted by id and
existing assignments are left untouched.`,
	Run: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	log.Println("Connecting to database...")
	db, err := store.NewDB(dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	seeder := service.NewSeeder(store.NewStandardStore(db), store.NewAgencyStore(db))

	stats, err := seeder.Seed(ctx)
	if err != nil {
		if ctx.Err() != nil {
			log.Println("Seeding cancelled")
			seeder.PrintSummary(stats)
			os.Exit(1)
		}
		log.Fatalf("Seeding failed: %v", err)
	}
	seeder.PrintSummary(stats)
}
