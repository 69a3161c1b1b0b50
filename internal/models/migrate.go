package models

import (
	"RescueHub/pkg/middleware"

	"gorm.io/gorm"
)

// AutoMigrate creates or upgrades all tables the service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Account{},
		&RescueTeam{},
		&RescueRequest{},
		&RequestCounter{},
		&Assignment{},
		&middleware.OperationLog{},
	)
}
