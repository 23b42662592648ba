package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prostore/prostore-backend/config"
	"github.com/prostore/prostore-backend/internal/app/model"
	"github.com/prostore/prostore-backend/internal/app/repository"
	"github.com/prostore/prostore-backend/internal/scheduler"
	"github.com/prostore/prostore-backend/pkg/util"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// dbOpener returns a database handle and the func that releases it.
type dbOpener func() (*gorm.DB, func(), error)

func newRootCmd(open dbOpener, schedCfg config.SchedulerConfig) *cobra.Command {
	root := &cobra.Command{
		Use:   "prostore-admin",
		Short: "Maintenance tasks for the Prostore database",
		Long: `Run the nightly maintenance jobs on demand and manage admin accounts.

Available subcommands:
  recalc-ratings - Recompute product ratings from review rows
  purge-carts    - Delete abandoned anonymous carts
  create-admin   - Create an admin user or promote an existing one`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newRecalcRatingsCmd(open, schedCfg),
		newPurgeCartsCmd(open, schedCfg),
		newCreateAdminCmd(open),
	)
	return root
}

// withMaintenance opens the database and hands a scheduler bound to it to fn.
func withMaintenance(open dbOpener, schedCfg config.SchedulerConfig, fn func(*scheduler.MaintenanceScheduler) error) error {
	database, release, err := open()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer release()

	return fn(scheduler.NewMaintenanceScheduler(
		repository.NewReviewRepository(database),
		repository.NewCartRepository(database),
		schedCfg,
	))
}

func newRecalcRatingsCmd(open dbOpener, schedCfg config.SchedulerConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "recalc-ratings",
		Short: "Recompute every product's rating and review count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMaintenance(open, schedCfg, func(s *scheduler.MaintenanceScheduler) error {
				if err := s.ReconcileRatings(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Ratings reconciled.")
				return nil
			})
		},
	}
}

func newPurgeCartsCmd(open dbOpener, schedCfg config.SchedulerConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge-carts",
		Short: "Delete anonymous carts untouched for longer than --older-than",
		Args:  cobra.NoArgs,
	}
	olderThan := cmd.Flags().Duration("older-than", schedCfg.StaleCartAge, "minimum idle time of a purged cart")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg := schedCfg
		cfg.StaleCartAge = *olderThan
		return withMaintenance(open, cfg, func(s *scheduler.MaintenanceScheduler) error {
			if err := s.PurgeStaleCarts(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Stale carts purged.")
			return nil
		})
	}
	return cmd
}

func newCreateAdminCmd(open dbOpener) *cobra.Command {
	var email, name, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin user or promote an existing one",
		Long: `Create an admin account with the given email and password.

If a user with the email already exists it is promoted to admin and the
password flag is ignored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email = strings.ToLower(strings.TrimSpace(email))
			if email == "" {
				return errors.New("--email is required")
			}

			database, release, err := open()
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer release()

			users := repository.NewUserRepository(database)
			existing, err := users.FindByEmail(email)
			switch {
			case err == nil:
				if err := users.UpdateFields(existing.ID, map[string]interface{}{"role": model.RoleAdmin}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Promoted %s to admin.\n", email)
				return nil
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return err
			}

			if len(password) < 6 {
				return errors.New("--password must be at least 6 characters")
			}
			hash, err := util.HashPassword(password)
			if err != nil {
				return err
			}
			if name == "" {
				name = model.PlaceholderName
			}
			user := &model.User{Name: name, Email: email, PasswordHash: hash, Role: model.RoleAdmin}
			if err := users.Create(user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (id %d).\n", email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email address")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "password for a new account")
	return cmd
}
