// Package cli contains the commands of the budgetbook binary.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/budgetbook/backend/internal/config"
	"github.com/budgetbook/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app is the state shared by all commands of one invocation.
type app struct {
	v       *viper.Viper
	envFile string
	cfg     config.Config
}

// NewRootCommand returns the budgetbook command with all subcommands.
func NewRootCommand() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:           "budgetbook",
		Short:         "Personal finance backend",
		Long:          "budgetbook serves the budgeting API and manages its database.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.OutOrStdout())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.envFile, "env-file", ".env", "file to load environment variables from")
	flags.String("database-url", "", "sqlite file path or postgres:// URL (env "+config.KeyDatabaseURL+")")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (env "+config.KeyLogLevel+")")
	flags.String("log-format", "", "log format: human or json (env "+config.KeyLogFormat+")")

	_ = a.v.BindPFlag(config.KeyDatabaseURL, flags.Lookup("database-url"))
	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyLogFormat, flags.Lookup("log-format"))

	root.AddCommand(
		newServeCommand(a),
		newMigrateCommand(a),
		newSeedCommand(a),
		newAdminCommand(a),
	)

	return root
}

// Execute runs the root command until it returns or the process receives
// SIGINT or SIGTERM, and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		return 1
	}
	return 0
}

func (a *app) setup(out io.Writer) error {
	if a.envFile != "" {
		if err := config.LoadEnvFiles(a.envFile); err != nil {
			return err
		}
	}

	a.cfg = config.Load(a.v)
	return setupLogging(a.cfg, out)
}

// setupLogging configures gin and the global logger.
func setupLogging(cfg config.Config, out io.Writer) error {
	switch cfg.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.GinMode)
	default:
		return fmt.Errorf("%s %q must be one of debug, release, test", config.KeyGinMode, cfg.GinMode)
	}

	// Human readable output is the default for development only
	output := out
	if (cfg.LogFormat == "" && gin.IsDebugging()) || cfg.LogFormat == "human" {
		output = zerolog.ConsoleWriter{Out: out}
	}

	level := zerolog.InfoLevel
	if gin.IsDebugging() {
		level = zerolog.DebugLevel
	}

	if cfg.LogLevel != "" {
		parsed, err := zerolog.ParseLevel(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("%s: %w", config.KeyLogLevel, err)
		}
		level = parsed
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(output).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger

	return nil
}

// connect opens the database, creating the directory of sqlite files.
// The schema is migrated on every connect.
func connect(dsn string) error {
	if dsn == "" {
		return errors.New(config.KeyDatabaseURL + " must not be empty")
	}

	if !models.IsPostgres(dsn) {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("create data directory: %w", err)
			}
		}
	}

	return models.Connect(dsn)
}

// closeDB closes the connection opened by connect.
func closeDB() {
	if models.DB == nil {
		return
	}

	sqlDB, err := models.DB.DB()
	if err != nil {
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Warn().Err(err).Msg("closing the database failed")
	}
}
