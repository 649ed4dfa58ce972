package repository

import (
	"strings"

	"gorm.io/gorm"
)

// Paginate applies OFFSET/LIMIT. A limit of 0 returns every row.
func Paginate(offset, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		if offset < 0 {
			offset = 0
		}
		return db.Offset(offset).Limit(limit)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards so the term matches literally.
// PostgreSQL uses backslash as the default LIKE escape character.
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// ContainsPattern is "%term%" with the term escaped.
func ContainsPattern(term string) string {
	return "%" + EscapeLike(term) + "%"
}

// Search matches term case-insensitively against any of columns.
// An empty term leaves the query unchanged.
func Search(term string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := ContainsPattern(term)
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			clauses[i] = col + " ILIKE ?"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}
