package repository

import (
	"strings"

	"gorm.io/gorm"
)

// ScopeGroup restricts a query to one client group. Every contribution and
// logistics query goes through it.
func ScopeGroup(group string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("group_name = ?", group)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds a LIKE pattern matching fragment anywhere in the
// column. Wildcards in the fragment are escaped, use with ESCAPE '\'.
func ContainsPattern(fragment string) string {
	return "%" + likeEscaper.Replace(fragment) + "%"
}

// ScopeMemberContains filters member_name by case-sensitive substring.
// SQLite connections are opened with _cslike so LIKE matches case.
func ScopeMemberContains(fragment string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(`member_name LIKE ? ESCAPE '\'`, ContainsPattern(fragment))
	}
}
