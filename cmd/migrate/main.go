// Command migrate applies the schema migrations and can seed the first
// administrator account.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"itassets-dashboard/internal/auth"
	"itassets-dashboard/internal/config"
	"itassets-dashboard/internal/database"
	"itassets-dashboard/internal/logging"
	"itassets-dashboard/internal/models"
	"itassets-dashboard/internal/store"
)

func main() {
	var (
		adminEmail    = flag.String("admin-email", "", "Create an admin account with this e-mail")
		adminPassword = flag.String("admin-password", "", "Password for --admin-email")
		adminName     = flag.String("admin-name", "", "Full name for --admin-email")
	)
	flag.Parse()

	cfg := config.Load()
	if cfg.DatabaseDSN == "" {
		log.Fatal("DB_DSN environment variable is required")
	}
	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		log.Fatalf("Logging setup failed: %v", err)
	}

	if err := database.Migrate(cfg.DatabaseDSN, logger); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if *adminEmail == "" {
		return
	}
	if len(*adminPassword) < 8 {
		log.Fatal("--admin-password must have at least 8 characters")
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.DatabaseDSN, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	hash, err := auth.HashPassword(*adminPassword)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	p := &models.Profile{Email: *adminEmail, PasswordHash: hash, Role: models.RoleAdmin}
	if *adminName != "" {
		p.FullName = adminName
	}

	err = store.NewPGProfiles(pool).Create(ctx, p)
	switch {
	case errors.Is(err, store.ErrConflict):
		fmt.Printf("Admin %s already exists\n", *adminEmail)
	case err != nil:
		log.Fatalf("Failed to create admin: %v", err)
	default:
		fmt.Printf("Admin %s created (user_id=%s)\n", p.Email, p.UserID)
	}
}
