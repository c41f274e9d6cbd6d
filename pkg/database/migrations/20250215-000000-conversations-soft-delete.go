package migrations

import (
	"ai-companion-be/internal/model"

	"gorm.io/gorm"
)

// Adds the nullable deletion marker. Existing rows get NULL and therefore
// stay live; no default is set, so adding the column does not rewrite the table.
// The column has no time zone; writers always stamp UTC.
func init() {
	Register(Migration{
		Version:     "20250215-000000",
		Description: "Add soft delete to conversations",
		Up: func(tx *gorm.DB) error {
			if IsPostgres(tx) {
				return execGuarded(tx,
					`ALTER TABLE conversations ADD COLUMN IF NOT EXISTS deleted_at TIMESTAMP WITHOUT TIME ZONE`,
					`CREATE INDEX IF NOT EXISTS `+model.LiveIndexName+` ON conversations (deleted_at) WHERE deleted_at IS NULL`,
					`COMMENT ON COLUMN conversations.deleted_at IS '`+model.DeletedAtComment+`'`,
				)
			}

			// SQLite has neither ADD COLUMN IF NOT EXISTS nor column comments.
			if !tx.Migrator().HasColumn("conversations", "deleted_at") {
				if err := execGuarded(tx, `ALTER TABLE conversations ADD COLUMN deleted_at DATETIME`); err != nil {
					return err
				}
			}
			return execGuarded(tx,
				`CREATE INDEX IF NOT EXISTS `+model.LiveIndexName+` ON conversations (deleted_at) WHERE deleted_at IS NULL`,
			)
		},
	})
}
