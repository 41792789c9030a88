package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/office-attendance/internal/config"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/office-attendance/internal/repository/postgresql"
	"github.com/cmlabs-hris/office-attendance/internal/repository/sqlite"
	"github.com/cmlabs-hris/office-attendance/internal/service/importer"
)

// importer loads an employees/punches workbook into the configured store.
func main() {
	file := flag.String("file", "", "path to the .xlsx workbook")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: importer -file punches.xlsx")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	ctx := context.Background()
	in, err := os.Open(*file)
	if err != nil {
		slog.Error("Failed to open workbook", "file", *file, "error", err)
		os.Exit(1)
	}
	defer in.Close()

	var imp *importer.Importer
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := database.NewSQLiteDB(ctx, cfg.Database.SQLitePath)
		if err != nil {
			slog.Error("Failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		imp = importer.NewImporter(sqlite.NewEmployeeRepository(db), sqlite.NewPunchRepository(db), cfg.Location())
	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			slog.Error("Failed to migrate database", "error", err)
			os.Exit(1)
		}
		imp = importer.NewImporter(postgresql.NewEmployeeRepository(db), postgresql.NewPunchRepository(db), cfg.Location())
	}

	summary, err := imp.Import(ctx, in)
	if err != nil {
		slog.Error("Import failed", "file", *file, "error", err)
		os.Exit(1)
	}

	fmt.Printf("imported %d employees and %d punches\n", summary.Employees, summary.Punches)
}
