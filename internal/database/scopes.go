package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/user-task-api/internal/utils"
)

// Paginate applies skip/top pagination to a GORM query
func Paginate(page utils.Pagination) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(page.Skip).Limit(page.Top)
	}
}
