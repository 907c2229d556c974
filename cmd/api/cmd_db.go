package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wecamp-service/internal/app"

	"github.com/spf13/cobra"
)

// wecamp migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := boot()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()
		return app.Migrate(ctx, cfg, logger)
	},
}

var (
	adminEmail    string
	adminPassword string
	adminName     string
)

// wecamp create-admin
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create or promote an admin account",
	Long:  "Create an admin account, or promote an existing user. Flags fall back to ADMIN_EMAIL, ADMIN_PASSWORD and ADMIN_NAME.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := boot()
		if err != nil {
			return err
		}
		defer logger.Sync()

		email := firstNonEmpty(adminEmail, cfg.AdminEmail)
		if email == "" {
			return errors.New("an admin email is required (--email or ADMIN_EMAIL)")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		if err := app.CreateAdmin(ctx, cfg, logger,
			email,
			firstNonEmpty(adminPassword, cfg.AdminPassword),
			firstNonEmpty(adminName, cfg.AdminName),
		); err != nil {
			return err
		}
		fmt.Printf("admin %s is ready\n", email)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password (min 6 characters)")
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "display name")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
