package main

import (
	"fmt"
	"text/tabwriter"

	"ai-companion-be/internal/model"
	"ai-companion-be/pkg/database/migrations"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	Long: `Status lists every known migration with the time it was applied, and
prints the documentation recorded on conversations.deleted_at together with
the definition of the live-row partial index.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	applied, err := migrations.Applied(db)
	if err != nil {
		return fmt.Errorf("read applied migrations: %w", err)
	}
	appliedAt := make(map[string]string, len(applied))
	for _, a := range applied {
		appliedAt[a.Version] = a.AppliedAt.Format("2006-01-02 15:04:05")
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tDESCRIPTION\tAPPLIED AT")
	for _, m := range migrations.Registered() {
		at, ok := appliedAt[m.Version]
		if !ok {
			at = "pending"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.Version, m.Description, at)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	comment, err := migrations.ColumnComment(db)
	if err != nil {
		return fmt.Errorf("read column comment: %w", err)
	}
	indexDef, err := migrations.IndexDefinition(db, model.LiveIndexName)
	if err != nil {
		return fmt.Errorf("read index definition: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "conversations.deleted_at: %s\n", orMissing(comment))
	fmt.Fprintf(out, "%s: %s\n", model.LiveIndexName, orMissing(indexDef))
	return nil
}

func orMissing(s string) string {
	if s == "" {
		return "(missing)"
	}
	return s
}
