package models

import (
	"time"

	"RescueHub/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Team status codes. BUSY holds exactly while the team has one open
// assignment; only the dispatch engine toggles AVAILABLE/BUSY.
const (
	TeamAvailable = "AVAILABLE"
	TeamBusy      = "BUSY"
	TeamOffline   = "OFFLINE"
)

type RescueTeam struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	AccountID    uuid.UUID  `json:"accountId" gorm:"type:uuid;uniqueIndex"` // one team per rescuer account
	Name         string     `json:"name" gorm:"size:255"`
	Leader       string     `json:"leader" gorm:"size:255"`
	ContactPhone string     `json:"contactPhone" gorm:"size:20"`
	Hotline      string     `json:"hotline" gorm:"size:20"`
	Type         string     `json:"type" gorm:"size:100"`         // boat, medic, supply...
	CoverageArea string     `json:"coverageArea" gorm:"size:255"`
	Latitude     *float64   `json:"latitude"`  // nil until the team reports a location
	Longitude    *float64   `json:"longitude"`
	Status       string     `json:"status" gorm:"size:20;index;default:AVAILABLE"`
	LocatedAt    *time.Time `json:"locatedAt"` // last location report
	CreatedAt    time.Time  `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updatedAt" gorm:"autoUpdateTime"`
}

// GetTeamByAccount resolves a rescuer's own team.
func GetTeamByAccount(db *gorm.DB, accountID uuid.UUID) (*RescueTeam, error) {
	var team RescueTeam
	if err := db.First(&team, "account_id = ?", accountID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.WithCode(errors.CodeNotFound, "this account is not a rescue team")
		}
		return nil, errors.Wrap(errors.CodeStore, err, "storage failure")
	}
	return &team, nil
}

// GetTeam fetches one team by id.
func GetTeam(db *gorm.DB, id uuid.UUID) (*RescueTeam, error) {
	var team RescueTeam
	if err := db.First(&team, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.WithCode(errors.CodeNotFound, "rescue team not found")
		}
		return nil, errors.Wrap(errors.CodeStore, err, "storage failure")
	}
	return &team, nil
}

// ListTeams returns all teams, newest first.
func ListTeams(db *gorm.DB) ([]RescueTeam, error) {
	var teams []RescueTeam
	if err := db.Order("created_at DESC").Find(&teams).Error; err != nil {
		return nil, errors.Wrap(errors.CodeStore, err, "storage failure")
	}
	return teams, nil
}

// UpdateTeamLocation records a fresh location report. Location moves
// independently of the assignment flow and is immediately visible to the
// geo index.
func UpdateTeamLocation(db *gorm.DB, id uuid.UUID, lat, lng float64) (*RescueTeam, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, errors.WithCode(errors.CodeInvalidCoordinates, "coordinates out of range")
	}

	team, err := GetTeam(db, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	team.Latitude = &lat
	team.Longitude = &lng
	team.LocatedAt = &now
	if err := db.Save(team).Error; err != nil {
		return nil, errors.Wrap(errors.CodeStore, err, "storage failure")
	}
	return team, nil
}

// MarkStaleTeamsOffline sweeps AVAILABLE teams whose last location report
// is older than the cutoff to OFFLINE. BUSY teams are never touched: their
// status belongs to the dispatch engine until the mission completes.
func MarkStaleTeamsOffline(db *gorm.DB, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	result := db.Model(&RescueTeam{}).
		Where("status = ?", TeamAvailable).
		Where("located_at IS NOT NULL AND located_at < ?", cutoff).
		Update("status", TeamOffline)
	if result.Error != nil {
		return 0, errors.Wrap(errors.CodeStore, result.Error, "storage failure")
	}
	return result.RowsAffected, nil
}
