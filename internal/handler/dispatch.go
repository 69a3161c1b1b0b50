package handler

import (
	"RescueHub/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type assignInput struct {
	RequestID string `json:"request_id" binding:"required,uuid"`
	TeamID    string `json:"team_id" binding:"required,uuid"`
}

// Assign binds a pending request to an available team. Admin only; the
// route group enforces the role, the engine re-checks it.
func (h *Handlers) Assign(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		response.FailWithStatus(c, 401, "authentication required")
		return
	}

	var input assignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, "invalid assign payload", err.Error())
		return
	}

	requestID, _ := uuid.Parse(input.RequestID)
	teamID, _ := uuid.Parse(input.TeamID)

	assignment, err := h.engine.Assign(c.Request.Context(), identity, requestID, teamID)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, h.i18n.T(lang(c), "dispatch.assigned", nil), assignment)
}

type taskInput struct {
	AssignmentID string `json:"assignment_id" binding:"required,uuid"`
	Result       string `json:"result"`
}

func (h *Handlers) taskTransition(c *gin.Context, messageKey string, run func(input taskInput) (interface{}, error)) {
	var input taskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, "invalid task payload", err.Error())
		return
	}

	result, err := run(input)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, h.i18n.T(lang(c), messageKey, nil), result)
}

// ConfirmStart moves the caller's assigned task to IN_PROGRESS.
func (h *Handlers) ConfirmStart(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		response.FailWithStatus(c, 401, "authentication required")
		return
	}
	h.taskTransition(c, "dispatch.started", func(input taskInput) (interface{}, error) {
		assignmentID, _ := uuid.Parse(input.AssignmentID)
		return h.engine.ConfirmStart(c.Request.Context(), identity, assignmentID)
	})
}

// ConfirmArrived marks the caller's task on-scene.
func (h *Handlers) ConfirmArrived(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		response.FailWithStatus(c, 401, "authentication required")
		return
	}
	h.taskTransition(c, "dispatch.arrived", func(input taskInput) (interface{}, error) {
		assignmentID, _ := uuid.Parse(input.AssignmentID)
		return h.engine.ConfirmArrived(c.Request.Context(), identity, assignmentID)
	})
}

// Complete closes the caller's task with a result note.
func (h *Handlers) Complete(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		response.FailWithStatus(c, 401, "authentication required")
		return
	}
	h.taskTransition(c, "dispatch.completed", func(input taskInput) (interface{}, error) {
		assignmentID, _ := uuid.Parse(input.AssignmentID)
		return h.engine.Complete(c.Request.Context(), identity, assignmentID, input.Result)
	})
}
