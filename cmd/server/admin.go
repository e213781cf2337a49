package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"natesa/backend/internal/dto"
	"natesa/backend/internal/model"
	"natesa/backend/internal/policy"
	"natesa/backend/internal/repository"
	"natesa/backend/internal/service"
	"natesa/backend/internal/validation"
)

// bootstrapIdentity acts for the operator running the CLI.
var bootstrapIdentity = policy.Identity{Role: model.RoleAdmin}

type adminOptions struct {
	name       string
	email      string
	password   string
	branch     string
	university string
	province   string
}

func newCreateAdminCommand(configPath *string) *cobra.Command {
	var opts adminOptions

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create the first admin account",
		Long: `Self-registration can only create members and alumni, so the first
admin is created here. The branch is created when it does not exist yet.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			return createAdmin(ctx, a, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.name, "name", "Administrator", "display name")
	f.StringVar(&opts.email, "email", "", "login email")
	f.StringVar(&opts.password, "password", "", "initial password")
	f.StringVar(&opts.branch, "branch", "National Office", "branch the admin belongs to")
	f.StringVar(&opts.university, "university", "NaTeSA", "university of a newly created branch")
	f.StringVar(&opts.province, "province", "Gauteng", "province of a newly created branch")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func createAdmin(ctx context.Context, a *app, opts adminOptions) error {
	repo := repository.NewRepository(a.db)
	v := validation.New()
	branches := service.NewBranchService(repo, v, a.logger)
	users := service.NewUserService(repo, v, a.cfg.Auth.BcryptCost, a.logger)

	var branchID uint
	existing, err := repo.Branch.GetByName(ctx, opts.branch)
	switch {
	case err == nil:
		branchID = existing.ID
	case errors.Is(err, gorm.ErrRecordNotFound):
		created, err := branches.Create(ctx, bootstrapIdentity, &dto.CreateBranchRequest{
			Name:       opts.branch,
			University: opts.university,
			Province:   opts.province,
		})
		if err != nil {
			return fmt.Errorf("create branch: %w", err)
		}
		branchID = created.ID
	default:
		return fmt.Errorf("look up branch: %w", err)
	}

	user, err := users.Create(ctx, bootstrapIdentity, &dto.CreateUserRequest{
		Name:     opts.name,
		Email:    opts.email,
		Password: opts.password,
		Role:     model.RoleAdmin,
		BranchID: &branchID,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	a.logger.Info("admin created", zap.Uint("id", user.ID), zap.String("email", user.Email), zap.Uint("branch_id", branchID))
	return nil
}
