package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/healthycity/compliance/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Run: func(cmd *cobra.Command, args []string) {
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			log.Fatal("DATABASE_URL environment variable is required")
		}

		db, err := store.NewDB(dbURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := store.Migrate(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations applied")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
