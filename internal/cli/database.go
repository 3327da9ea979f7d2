package cli

import (
	"fmt"
	"strings"

	"github.com/budgetbook/backend/internal/auth"
	"github.com/budgetbook/backend/internal/models"
	"github.com/budgetbook/backend/internal/registry"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the database schema",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := connect(a.cfg.DatabaseURL); err != nil {
				return err
			}
			defer closeDB()

			log.Info().Msg("database schema is up to date")
			return nil
		},
	}
}

func newSeedCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default expense categories",
		Long:  "Creates all default expense categories and subcategories that do not exist yet. Existing ones are kept.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := connect(a.cfg.DatabaseURL); err != nil {
				return err
			}
			defer closeDB()

			created, err := registry.Seed(cmd.Context(), models.DB, registry.DefaultTaxonomy)
			if err != nil {
				return err
			}

			reg := registry.New(models.DB)
			if err := reg.Load(cmd.Context()); err != nil {
				return err
			}

			log.Info().
				Int("created", created).
				Int("categories", len(reg.MainCategories())).
				Int("subcategories", len(reg.Subcategories())).
				Msg("seeded expense categories")
			return nil
		},
	}
}

func newAdminCommand(a *app) *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrators",
	}

	var role string
	grant := &cobra.Command{
		Use:   "grant <email>",
		Short: "Make a user an administrator",
		Long:  "Grants administrative rights to the user with the email address. Use it to set up the first super administrator.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := connect(a.cfg.DatabaseURL); err != nil {
				return err
			}
			defer closeDB()

			email := strings.ToLower(strings.TrimSpace(args[0]))

			var user models.User
			err := models.DB.WithContext(cmd.Context()).Where("email = ?", email).First(&user).Error
			if err != nil {
				return fmt.Errorf("user %s: %w", email, err)
			}

			granted, err := auth.NewAdmins(models.DB).Grant(cmd.Context(), user.ID, models.AdminRole(role))
			if err != nil {
				return err
			}

			log.Info().Str("email", email).Str("role", string(granted.Role)).Msg("administrator granted")
			return nil
		},
	}
	grant.Flags().StringVar(&role, "role", string(models.AdminRoleAdmin), "role to grant: admin or super_admin")

	admin.AddCommand(grant)
	return admin
}
