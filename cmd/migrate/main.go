// Command migrate applies and inspects the versioned schema history.
package main

import (
	"fmt"
	"os"

	"ai-companion-be/internal/config"
	"ai-companion-be/internal/pkg/logger"
	"ai-companion-be/pkg/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// dsn overrides DB_CONNECTION_STRING when set by the --dsn flag.
	dsn string
	// driver overrides DB_DRIVER when set by the --driver flag.
	driver string

	db     *gorm.DB
	sysLog logger.ILogger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the conversation database schema",
	Long: `migrate applies the ordered, guarded schema migrations and reports
which versions are recorded in schema_migrations.

Every migration is safe to re-apply, so running "up" against a database
that already has the changes is a no-op.`,
	SilenceUsage:      true,
	PersistentPreRunE: openDatabase,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeDatabase()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "database connection string (default: DB_CONNECTION_STRING)")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "database driver: postgres or sqlite (default: DB_DRIVER)")

	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(statusCmd)
}

func openDatabase(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	sysLog = logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	opts := database.Options{
		Driver:   cfg.Database.Driver,
		DSN:      cfg.Database.Connection,
		LogLevel: cfg.Database.LogLevel,
	}
	if dsn != "" {
		opts.DSN = dsn
	}
	if driver != "" {
		opts.Driver = driver
	}
	if opts.DSN == "" {
		return fmt.Errorf("no database configured: set DB_CONNECTION_STRING or pass --dsn")
	}

	var err error
	db, err = database.Open(opts)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	return nil
}

func closeDatabase() error {
	if sysLog != nil {
		_ = sysLog.Sync()
	}
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
