package repositories

import (
	"strings"

	"gorm.io/gorm"
)

// inEnvironment keeps rows scoped to environmentID plus global rows. An empty
// environmentID leaves the query unfiltered.
func inEnvironment(column, environmentID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if environmentID == "" {
			return db
		}
		return db.Where("("+column+" = ? OR "+column+" IS NULL)", environmentID)
	}
}

// containsFold matches any of columns against term, ignoring case
func containsFold(term string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		parts := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			parts[i] = "LOWER(" + col + ") LIKE ? ESCAPE '\\'"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(parts, " OR ")+")", args...)
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
