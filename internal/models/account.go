package models

import (
	"time"

	"github.com/google/uuid"
)

// Account mirrors the directory service's account record. Authentication
// lives upstream; this row only anchors foreign keys and the role used for
// channel subscription.
type Account struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username  string    `json:"username" gorm:"size:255;uniqueIndex"`
	Role      string    `json:"role" gorm:"size:20"` // CITIZEN, RESCUER, ADMIN
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
