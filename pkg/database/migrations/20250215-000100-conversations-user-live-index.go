package migrations

import "gorm.io/gorm"

// Per-user listings of live conversations ordered by recency.
func init() {
	Register(Migration{
		Version:     "20250215-000100",
		Description: "Add per-user partial index for live conversations",
		Up: func(tx *gorm.DB) error {
			return execGuarded(tx,
				`CREATE INDEX IF NOT EXISTS idx_conversations_user_live ON conversations (user_id, updated_at DESC) WHERE deleted_at IS NULL`,
			)
		},
	})
}
