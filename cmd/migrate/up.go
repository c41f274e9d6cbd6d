package main

import (
	"fmt"

	"ai-companion-be/pkg/database/migrations"

	"github.com/spf13/cobra"
)

var upTarget string

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Long: `Up applies every pending migration in version order, each inside its
own transaction, and records it in schema_migrations.

Example:
  migrate up
  migrate up --to 20250215-000000`,
	Args: cobra.NoArgs,
	RunE: runUp,
}

func init() {
	upCmd.Flags().StringVar(&upTarget, "to", "", "stop after this version (YYYYMMDD-HHmmss)")
}

func runUp(cmd *cobra.Command, args []string) error {
	pending, err := migrations.Pending(db)
	if err != nil {
		return fmt.Errorf("read pending migrations: %w", err)
	}
	if len(pending) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
		return nil
	}

	if err := migrations.RunUntil(cmd.Context(), db, sysLog, upTarget); err != nil {
		return err
	}

	applied := 0
	for _, m := range pending {
		if upTarget != "" && m.Version > upTarget {
			break
		}
		fmt.Fprintf(cmd.OutOrStdout(), "applied %s  %s\n", m.Version, m.Description)
		applied++
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d migration(s) applied\n", applied)
	return nil
}
