package repository

import (
	"strings"

	"gorm.io/gorm"
)

// Specification is a composable filter applied to a query as a gorm scope.
type Specification func(*gorm.DB) *gorm.DB

// And combines specs into their conjunction. Nil entries are ignored.
func And(specs ...Specification) Specification {
	return func(db *gorm.DB) *gorm.DB {
		for _, s := range specs {
			if s != nil {
				db = s(db)
			}
		}
		return db
	}
}

// Equal matches column = value.
func Equal(column string, value any) Specification {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", value)
	}
}

// LessOrEqual matches column <= value.
func LessOrEqual(column string, value any) Specification {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" <= ?", value)
	}
}

// ContainsFold matches rows whose column contains value, ignoring case.
func ContainsFold(column, value string) Specification {
	pattern := "%" + escapeLike(strings.ToLower(value)) + "%"
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER("+column+") LIKE ? ESCAPE '\\'", pattern)
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
