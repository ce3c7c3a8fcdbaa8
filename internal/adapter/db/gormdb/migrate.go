package gormdb

import (
	"fmt"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the tables backing every repository in
// this package.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&ProductSchema{}, &UserSchema{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
