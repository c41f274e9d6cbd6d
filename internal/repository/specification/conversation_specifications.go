package specification

import (
	"strings"

	"gorm.io/gorm"
)

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// TitleContains is a case-insensitive substring match on title.
type TitleContains struct {
	Query string
}

func (s TitleContains) Apply(db *gorm.DB) *gorm.DB {
	q := strings.ToLower(strings.TrimSpace(s.Query))
	if q == "" {
		return db
	}
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(q)
	return db.Where(`LOWER(title) LIKE ? ESCAPE '\'`, "%"+escaped+"%")
}
