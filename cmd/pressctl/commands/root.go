package commands

import (
	"fmt"
	"os"

	"github.com/pressroom/internal/config"
	"github.com/pressroom/internal/db"
	"github.com/pressroom/internal/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// globalOptions are the flags shared by every subcommand.
type globalOptions struct {
	driver string
	dsn    string
}

// NewRootCmd builds the pressctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "pressctl",
		Short: "Pressroom management commands",
		Long: `pressctl manages a Pressroom blog database.

Commands:
  seed           - Populate the blog with sample data
  create-user    - Create an account or promote it to staff
  delete-user    - Delete an account with its posts and comments
  comments       - Approve or disapprove comments in bulk`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.driver, "db-driver", "", "Database driver: sqlite or postgres (defaults to DATABASE_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&opts.dsn, "db", "", "Database path or DSN (defaults to DATABASE_PATH)")

	rootCmd.AddCommand(
		newSeedCmd(opts),
		newCreateUserCmd(opts),
		newDeleteUserCmd(opts),
		newCommentsCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// open connects with flags taking precedence over configuration.
func (o *globalOptions) open() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.GinMode, cfg.Log.ToLoggerOptions())

	driver := cfg.DatabaseDriver
	if o.driver != "" {
		driver = o.driver
	}
	dsn := cfg.DatabasePath
	if o.dsn != "" {
		dsn = o.dsn
	}

	return db.Init(db.Options{
		Driver: driver,
		DSN:    dsn,
		Logger: logger.NewGormLogger(gormlogger.Warn),
	})
}

func closeDB(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.Close()
	}
}
