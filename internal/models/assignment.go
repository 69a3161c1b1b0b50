package models

import (
	"time"

	"RescueHub/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task status codes. ARRIVED is optional: a team may complete straight
// from IN_PROGRESS when the situation resolves before arrival is logged.
const (
	TaskAssigned   = "ASSIGNED"
	TaskInProgress = "IN_PROGRESS"
	TaskArrived    = "ARRIVED"
	TaskCompleted  = "COMPLETED"
)

type Assignment struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	RescueRequestID uuid.UUID  `json:"rescueRequestId" gorm:"type:uuid;index"`
	RescueTeamID    uuid.UUID  `json:"rescueTeamId" gorm:"type:uuid;index"`
	AssignedBy      uuid.UUID  `json:"assignedBy" gorm:"type:uuid"`
	Status          string     `json:"status" gorm:"size:20;index;default:ASSIGNED"`
	AssignedAt      time.Time  `json:"assignedAt"`
	AcceptedAt      *time.Time `json:"acceptedAt"`
	CompletedAt     *time.Time `json:"completedAt"`
	Result          string     `json:"result"`
	CreatedAt       time.Time  `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `json:"updatedAt" gorm:"autoUpdateTime"`
}

// GetAssignment fetches one assignment by id.
func GetAssignment(db *gorm.DB, id uuid.UUID) (*Assignment, error) {
	var assignment Assignment
	if err := db.First(&assignment, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.WithCode(errors.CodeNotFound, "assignment not found")
		}
		return nil, errors.Wrap(errors.CodeStore, err, "storage failure")
	}
	return &assignment, nil
}

// ListTeamAssignments returns a team's assignments, newest first.
func ListTeamAssignments(db *gorm.DB, teamID uuid.UUID) ([]Assignment, error) {
	var assignments []Assignment
	err := db.Where("rescue_team_id = ?", teamID).
		Order("assigned_at DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, errors.Wrap(errors.CodeStore, err, "storage failure")
	}
	return assignments, nil
}

// OpenAssignmentForTeam returns the team's current non-completed
// assignment, or nil if none exists.
func OpenAssignmentForTeam(db *gorm.DB, teamID uuid.UUID) (*Assignment, error) {
	var assignment Assignment
	err := db.Where("rescue_team_id = ? AND status <> ?", teamID, TaskCompleted).
		Order("assigned_at DESC").
		First(&assignment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.CodeStore, err, "storage failure")
	}
	return &assignment, nil
}
