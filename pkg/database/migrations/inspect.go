package migrations

import (
	"database/sql"

	"ai-companion-be/internal/model"

	"gorm.io/gorm"
)

// ColumnComment returns the documentation attached to conversations.deleted_at.
// SQLite cannot store column comments, so the model's documented text is
// reported there instead.
func ColumnComment(db *gorm.DB) (string, error) {
	if !IsPostgres(db) {
		if !db.Migrator().HasColumn("conversations", "deleted_at") {
			return "", nil
		}
		return model.DeletedAtComment, nil
	}

	var comment sql.NullString
	err := db.Raw(`SELECT col_description('conversations'::regclass, a.attnum)
		FROM pg_attribute a
		WHERE a.attrelid = 'conversations'::regclass AND a.attname = 'deleted_at' AND NOT a.attisdropped`).
		Scan(&comment).Error
	if err != nil {
		return "", err
	}
	return comment.String, nil
}

// IndexDefinition returns the DDL of a named index, or "" if it does not exist.
func IndexDefinition(db *gorm.DB, name string) (string, error) {
	var def sql.NullString
	var err error
	if IsPostgres(db) {
		err = db.Raw(`SELECT indexdef FROM pg_indexes WHERE indexname = ?`, name).Scan(&def).Error
	} else {
		err = db.Raw(`SELECT sql FROM sqlite_master WHERE type = 'index' AND name = ?`, name).Scan(&def).Error
	}
	if err != nil {
		return "", err
	}
	return def.String, nil
}
