package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	"itassets-dashboard/internal/accessor"
	"itassets-dashboard/internal/assets"
	"itassets-dashboard/internal/config"
	"itassets-dashboard/internal/database"
	"itassets-dashboard/internal/entity"
	"itassets-dashboard/internal/logging"
	"itassets-dashboard/internal/notify"
	"itassets-dashboard/pkg/importer"
)

func main() {
	var (
		filePath    = flag.String("file", "", "Workbook to import (.xlsx)")
		mappingPath = flag.String("mapping", "", "YAML header aliases (default: built-in)")
		createdBy   = flag.String("as", "", "User UUID stamped as created_by")
		dryRun      = flag.Bool("dry-run", false, "Validate rows without inserting")
		maxErrors   = flag.Int("max-errors", 50, "Stop after this many rejected rows")
	)
	flag.Parse()

	if *filePath == "" {
		fmt.Println("Usage: import_excel --file=ativos.xlsx [--mapping=aliases.yaml] [--as=<uuid>] [--dry-run]")
		os.Exit(1)
	}

	cfg := config.Load()
	if cfg.DatabaseDSN == "" {
		log.Fatal("DB_DSN environment variable is required")
	}
	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		log.Fatalf("Logging setup failed: %v", err)
	}

	opts := importer.Options{DryRun: *dryRun, MaxErrors: *maxErrors}
	if *mappingPath != "" {
		if opts.Mapping, err = importer.LoadMapping(*mappingPath); err != nil {
			log.Fatalf("Failed to load mapping: %v", err)
		}
	}

	accOpts := []accessor.Option{accessor.WithoutRefresh()}
	if *createdBy != "" {
		id, err := uuid.Parse(*createdBy)
		if err != nil {
			log.Fatalf("Invalid --as: %v", err)
		}
		accOpts = append(accOpts, accessor.WithSession(func(context.Context) (uuid.UUID, bool) { return id, true }))
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.DatabaseDSN, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()
	tables := assets.NewPostgres(pool, false)

	file, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("Failed to open Excel file: %v", err)
	}
	defer file.Close()

	fmt.Printf("Importing from %s (dry_run=%v)\n", *filePath, *dryRun)
	fmt.Println(strings.Repeat("=", 60))

	open := func(ctx context.Context, def entity.Definition) (importer.Creator, error) {
		return tables.Open(ctx, def, notify.LogNotifier{Log: logger.WithField("entity", def.Slug)}, accOpts...)
	}
	summary, err := importer.Import(ctx, file, open, opts)

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("IMPORT SUMMARY")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("Total inserted: %d\n", summary.Inserted)
	fmt.Printf("Total skipped: %d\n", summary.Skipped)
	fmt.Printf("Total errors: %d\n", summary.Errors)
	fmt.Printf("Dry run: %v\n", summary.DryRun)
	if len(summary.Ignored) > 0 {
		fmt.Printf("Ignored sheets: %s\n", strings.Join(summary.Ignored, ", "))
	}

	for _, sheet := range summary.Sheets {
		fmt.Printf("  %s -> %s: inserted=%d, skipped=%d, errors=%d\n",
			sheet.Name, sheet.Entity, sheet.Inserted, sheet.Skipped, sheet.Errors)
		if len(sheet.Unmapped) > 0 {
			fmt.Printf("    Unmapped headers: %s\n", strings.Join(sheet.Unmapped, ", "))
		}
		for _, sample := range sheet.Samples {
			fmt.Printf("      Row %d: %s\n", sample.Row, sample.Message)
		}
	}

	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
}
