// Package store holds the row-locking helpers the dispatch engine builds
// its transactions from. Lock order is always team before request so two
// concurrent assigns cannot deadlock.
package store

import (
	"RescueHub/internal/models"
	"RescueHub/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockTeam loads a team under SELECT ... FOR UPDATE.
func LockTeam(tx *gorm.DB, id uuid.UUID) (*models.RescueTeam, error) {
	var team models.RescueTeam
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&team, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.WithCode(errors.CodeNotFound, "rescue team not found")
		}
		return nil, errors.Wrap(errors.CodeStore, err, "storage failure")
	}
	return &team, nil
}

// LockRequest loads a request under SELECT ... FOR UPDATE.
func LockRequest(tx *gorm.DB, id uuid.UUID) (*models.RescueRequest, error) {
	var request models.RescueRequest
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&request, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.WithCode(errors.CodeNotFound, "rescue request not found")
		}
		return nil, errors.Wrap(errors.CodeStore, err, "storage failure")
	}
	return &request, nil
}

// LockAssignmentInStatus loads the team's assignment under lock, but only
// when it sits in one of the given statuses. The filtered lookup doubles as
// the concurrency guard: a racing transition that already moved the row
// makes this read come back empty.
func LockAssignmentInStatus(tx *gorm.DB, id, teamID uuid.UUID, statuses ...string) (*models.Assignment, error) {
	var assignment models.Assignment
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND rescue_team_id = ? AND status IN ?", id, teamID, statuses).
		First(&assignment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.WithCode(errors.CodeInvalidState, "assignment not found in an actionable state")
		}
		return nil, errors.Wrap(errors.CodeStore, err, "storage failure")
	}
	return &assignment, nil
}
