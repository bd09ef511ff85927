package main

import (
	"database/sql"
	"errors"
	"os"

	"github.com/Miraines/storefront-auth/internal/infra/migrate"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	cmd.Println("Running migrations...")
	if err := migrate.Up(db); err != nil {
		return err
	}

	v, dirty, err := migrate.Version(db)
	if err != nil {
		return err
	}
	cmd.Printf("Schema at version %d (dirty=%t)\n", v, dirty)
	return nil
}
