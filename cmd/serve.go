package cmd

import (
	"context"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/healthycity/compliance/internal/handlers"
	"github.com/healthycity/compliance/internal/service"
	"github.com/healthycity/compliance/internal/store"
)

var port string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the compliance tracker API server",
	Long: `Start the HTTP API server.

With DATABASE_URL set the server runs against PostgreSQL (run migrate and
seed first). Without it the server runs on an in-memory store seeded with
the embedded standards catalog, which is enough for local development.`,
	Run: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&port, "port", "p", "8080", "Port to run the server on")
}

func runServe(cmd *cobra.Command, args []string) {
	// Use PORT env var if set, otherwise use flag value
	if envPort := os.Getenv("PORT"); envPort != "" && port == "8080" {
		port = envPort
	}

	var (
		standards   service.StandardRepository
		agencies    service.AgencyRepository
		submissions service.SubmissionRepository
	)

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := store.NewDB(dsn)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		standards = store.NewStandardStore(db)
		agencies = store.NewAgencyStore(db)
		submissions = store.NewSubmissionStore(db)
	} else {
		log.Println("DATABASE_URL not set, using in-memory store with embedded catalog")
		mem := store.NewMemory()
		standards = mem.Standards()
		agencies = mem.Agencies()
		submissions = mem.Submissions()

		seeder := service.NewSeeder(standards, agencies)
		stats, err := seeder.Seed(context.Background())
		if err != nil {
			log.Fatalf("Failed to seed in-memory store: %v", err)
		}
		log.Printf("Seeded %d standards, %d agencies, %d assignments", stats.Standards, stats.Agencies, stats.Assignments)
	}

	catalog := service.NewCatalog(standards)
	assignments := service.NewAssignments(standards, agencies)
	subs := service.NewSubmissions(standards, submissions)

	app := fiber.New(fiber.Config{
		AppName: "Healthy City Compliance",
	})

	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/healthz", handlers.HealthHandler())

	// Standard routes
	app.Get("/standards", handlers.StandardsHandler(catalog))
	app.Get("/standards/:id", handlers.StandardDetailHandler(catalog))
	app.Get("/standards/:id/stats", handlers.StandardStatsHandler(subs))

	// Assignment routes
	app.Post("/standards/:id/assignments", handlers.AssignHandler(assignments))
	app.Delete("/standards/:id/assignments/:agency", handlers.UnassignHandler(assignments))

	// Submission routes
	app.Get("/standards/:id/submissions", handlers.SubmissionsHandler(subs))
	app.Post("/standards/:id/submissions", handlers.CreateSubmissionHandler(subs))
	app.Get("/submissions/:id", handlers.SubmissionDetailHandler(subs))
	app.Patch("/submissions/:id", handlers.ReviewSubmissionHandler(subs))

	// Agency routes
	app.Get("/agencies", handlers.AgenciesHandler(assignments))
	app.Get("/agencies/:slug", handlers.AgencyDetailHandler(assignments))

	// Dashboard route
	app.Get("/stats", handlers.StatsHandler(subs))

	log.Printf("Starting server on :%s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
