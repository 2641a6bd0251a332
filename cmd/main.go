package main

import (
	"context"

	"medical-appointment-booking/cmd/bootstrap"
	"medical-appointment-booking/internal/infrastructure/database"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
)

func main() {
	migrate := flag.Bool("migrate", false, "apply pending database migrations")
	seed := flag.Bool("seed", false, "reset the booking tables to the fixed test data")
	serve := flag.Bool("serve", true, "start the HTTP server")
	flag.Parse()

	// Initialize application with all dependencies
	app, err := bootstrap.New()
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}

	if *migrate {
		if err := database.RunMigrations(app.Config.DB.URL(), app.Log); err != nil {
			app.Close()
			app.Log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	if *seed {
		if err := database.ResetTestData(context.Background(), app.DB, app.Log); err != nil {
			app.Close()
			app.Log.Fatalf("Failed to seed test data: %v", err)
		}
	}

	if !*serve {
		app.Close()
		return
	}

	// Run the application
	app.Run()
}
