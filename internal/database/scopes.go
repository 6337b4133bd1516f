package database

import "gorm.io/gorm"

// Newest orders rows by creation time, most recent first.
func Newest(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}
