// Package cli implements mkoctl, the operator command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/t3ch-N/mAGICAL-clone-sub001/config"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/authz"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/event"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/repository"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/service"
	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/database"
	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/jwt"
	applogger "github.com/t3ch-N/mAGICAL-clone-sub001/pkg/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
}

// operator is the actor recorded for changes made from the command line.
var operator = authz.Actor{ID: "system", Role: authz.RoleAdmin, Status: authz.StatusApproved}

// NewRootCommand creates the mkoctl root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "mkoctl",
		Short:         "Magical Kenya Open accreditation operator tool",
		Long:          "Schema migrations, bootstrap accounts, reference data seeding and permission table inspection.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default ./config/config.yaml)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewCreateWebmasterCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewPolicyCommand())

	return cmd
}

// env is what a database-backed command needs.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

func openEnv(opts *RootOptions) (*env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return &env{cfg: cfg, logger: logger, db: db}, nil
}

// services builds the service layer without token revocation or event fan-out.
func (e *env) services() *service.Service {
	return service.NewService(e.cfg, repository.NewRepository(e.db), authz.DefaultPolicy(),
		jwt.NewManager(&e.cfg.Auth), nil, event.Nop{}, e.logger)
}

func (e *env) Close() {
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = e.logger.Sync()
}
