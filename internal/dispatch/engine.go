// Package dispatch owns every status transition of requests, teams and
// assignments. All writes go through one transaction per operation; events
// go out only after the commit.
package dispatch

import (
	"context"
	"time"

	"RescueHub/internal/models"
	"RescueHub/internal/store"
	constants "RescueHub/pkg/constant"
	"RescueHub/pkg/errors"
	"RescueHub/pkg/logger"
	"RescueHub/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Caller is the resolved identity performing an operation.
type Caller struct {
	AccountID uuid.UUID
	Role      string
}

// Engine applies dispatch transitions. It holds no per-request state and
// is safe for concurrent use.
type Engine struct {
	db  *gorm.DB
	pub Publisher
}

func NewEngine(db *gorm.DB, pub Publisher) *Engine {
	return &Engine{db: db, pub: pub}
}

// Assign creates an assignment binding a PENDING request to an AVAILABLE
// team. Admin only. The team goes BUSY and the request ASSIGNED in the
// same transaction.
func (e *Engine) Assign(ctx context.Context, caller Caller, requestID, teamID uuid.UUID) (*models.Assignment, error) {
	if caller.Role != constants.RoleAdmin {
		return nil, e.fail("assign", errors.WithCode(errors.CodePermissionDenied, "only admins can assign teams"))
	}

	var (
		assignment *models.Assignment
		request    *models.RescueRequest
		team       *models.RescueTeam
	)
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		// team first, then request: fixed lock order across all operations
		team, err = store.LockTeam(tx, teamID)
		if err != nil {
			return err
		}
		if team.Status != models.TeamAvailable {
			return errors.WithCodef(errors.CodeInvalidState, "team %s is %s, not AVAILABLE", team.Name, team.Status)
		}

		request, err = store.LockRequest(tx, requestID)
		if err != nil {
			return err
		}
		if request.Status != models.RequestPending {
			return errors.WithCodef(errors.CodeInvalidState, "request %s already handled (status %s)", request.Code, request.Status)
		}

		assignment = &models.Assignment{
			ID:              uuid.New(),
			RescueRequestID: request.ID,
			RescueTeamID:    team.ID,
			AssignedBy:      caller.AccountID,
			Status:          models.TaskAssigned,
			AssignedAt:      time.Now().UTC(),
		}
		if err := tx.Create(assignment).Error; err != nil {
			return err
		}

		if err := tx.Model(team).Update("status", models.TeamBusy).Error; err != nil {
			return err
		}
		return tx.Model(request).Update("status", models.RequestAssigned).Error
	})
	if err != nil {
		return nil, e.fail("assign", err)
	}

	metrics.DispatchTransitions.WithLabelValues("assign", "ok").Inc()
	e.publishAfterCommit(newTaskEvent(assignment, request, team))
	return assignment, nil
}

// ConfirmStart moves the rescuer's own ASSIGNED task to IN_PROGRESS and
// stamps AcceptedAt. The linked request follows to IN_PROGRESS.
func (e *Engine) ConfirmStart(ctx context.Context, caller Caller, assignmentID uuid.UUID) (*models.Assignment, error) {
	return e.teamTransition(ctx, "confirm_start", caller, assignmentID,
		[]string{models.TaskAssigned},
		func(tx *gorm.DB, assignment *models.Assignment, request *models.RescueRequest) error {
			now := time.Now().UTC()
			assignment.Status = models.TaskInProgress
			assignment.AcceptedAt = &now
			if err := tx.Save(assignment).Error; err != nil {
				return err
			}
			return tx.Model(request).Update("status", models.RequestInProgress).Error
		},
		func(assignment *models.Assignment, request *models.RescueRequest, team *models.RescueTeam) event {
			return taskUpdateEvent(assignment, request, team)
		})
}

// ConfirmArrived marks an IN_PROGRESS task ARRIVED. The request status is
// untouched: on-scene is a task milestone, not a request one.
func (e *Engine) ConfirmArrived(ctx context.Context, caller Caller, assignmentID uuid.UUID) (*models.Assignment, error) {
	return e.teamTransition(ctx, "confirm_arrived", caller, assignmentID,
		[]string{models.TaskInProgress},
		func(tx *gorm.DB, assignment *models.Assignment, request *models.RescueRequest) error {
			assignment.Status = models.TaskArrived
			return tx.Save(assignment).Error
		},
		func(assignment *models.Assignment, request *models.RescueRequest, team *models.RescueTeam) event {
			return taskUpdateEvent(assignment, request, team)
		})
}

// Complete closes the task from IN_PROGRESS or ARRIVED, records the result
// note, frees the team back to AVAILABLE and marks the request COMPLETED.
func (e *Engine) Complete(ctx context.Context, caller Caller, assignmentID uuid.UUID, result string) (*models.Assignment, error) {
	return e.teamTransition(ctx, "complete", caller, assignmentID,
		[]string{models.TaskInProgress, models.TaskArrived},
		func(tx *gorm.DB, assignment *models.Assignment, request *models.RescueRequest) error {
			now := time.Now().UTC()
			assignment.Status = models.TaskCompleted
			assignment.CompletedAt = &now
			assignment.Result = result
			if err := tx.Save(assignment).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.RescueTeam{}).
				Where("id = ?", assignment.RescueTeamID).
				Update("status", models.TeamAvailable).Error; err != nil {
				return err
			}
			return tx.Model(request).Update("status", models.RequestCompleted).Error
		},
		func(assignment *models.Assignment, request *models.RescueRequest, team *models.RescueTeam) event {
			return taskCompletedEvent(assignment, request, team)
		})
}

// teamTransition runs the shared shape of the rescuer-side operations:
// resolve the caller's team, lock the assignment in an actionable status,
// mutate, then publish after commit.
func (e *Engine) teamTransition(
	ctx context.Context,
	op string,
	caller Caller,
	assignmentID uuid.UUID,
	fromStatuses []string,
	mutate func(tx *gorm.DB, assignment *models.Assignment, request *models.RescueRequest) error,
	buildEvent func(assignment *models.Assignment, request *models.RescueRequest, team *models.RescueTeam) event,
) (*models.Assignment, error) {
	if caller.Role != constants.RoleRescuer {
		return nil, e.fail(op, errors.WithCode(errors.CodePermissionDenied, "only rescue teams can update their tasks"))
	}

	var (
		assignment *models.Assignment
		request    *models.RescueRequest
		team       *models.RescueTeam
	)
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		team, err = models.GetTeamByAccount(tx, caller.AccountID)
		if err != nil {
			return err
		}

		assignment, err = store.LockAssignmentInStatus(tx, assignmentID, team.ID, fromStatuses...)
		if err != nil {
			return err
		}

		request, err = store.LockRequest(tx, assignment.RescueRequestID)
		if err != nil {
			return err
		}

		return mutate(tx, assignment, request)
	})
	if err != nil {
		return nil, e.fail(op, err)
	}

	metrics.DispatchTransitions.WithLabelValues(op, "ok").Inc()
	e.publishAfterCommit(buildEvent(assignment, request, team))
	return assignment, nil
}

// fail coerces uncoded errors to CodeStore and counts the outcome.
func (e *Engine) fail(op string, err error) error {
	if errors.Code(err) == 0 {
		err = errors.Wrap(errors.CodeStore, err, "storage failure")
	}
	outcome := "rejected"
	if errors.IsCode(err, errors.CodeStore) {
		outcome = "error"
		logger.Error("dispatch operation failed", zap.String("op", op), zap.Error(err))
	}
	metrics.DispatchTransitions.WithLabelValues(op, outcome).Inc()
	return err
}

// publishAfterCommit fans the event out asynchronously. Delivery is best
// effort: a panicking publisher must never reach the request path.
func (e *Engine) publishAfterCommit(ev event) {
	if e.pub == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("event publish panicked", zap.Any("panic", r), zap.String("event", ev.name))
			}
		}()
		e.pub.Publish(ev.channels, ev.name, ev.payload)
	}()
}
