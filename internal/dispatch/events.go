package dispatch

import (
	"time"

	"RescueHub/internal/models"
	"RescueHub/pkg/websocket"
)

// event is a fully-built fanout message: name, payload and the channels
// it targets.
type event struct {
	name     string
	channels []string
	payload  map[string]interface{}
}

// taskChannels targets the admin board, the assigned team, and the
// requester when the request is not anonymous.
func taskChannels(assignment *models.Assignment, request *models.RescueRequest) []string {
	channels := []string{
		websocket.ChannelAdmin,
		websocket.TeamChannel(assignment.RescueTeamID.String()),
	}
	if request.AccountID != nil {
		channels = append(channels, websocket.UserChannel(request.AccountID.String()))
	}
	return channels
}

func taskPayload(assignment *models.Assignment, request *models.RescueRequest, team *models.RescueTeam) map[string]interface{} {
	payload := map[string]interface{}{
		"assignment_id":  assignment.ID.String(),
		"request_id":     request.ID.String(),
		"request_code":   request.Code,
		"team_id":        assignment.RescueTeamID.String(),
		"team_name":      team.Name,
		"status":         assignment.Status,
		"request_status": request.Status,
		"assigned_at":    assignment.AssignedAt.UTC().Format(time.RFC3339),
	}
	if assignment.AcceptedAt != nil {
		payload["accepted_at"] = assignment.AcceptedAt.UTC().Format(time.RFC3339)
	}
	if assignment.CompletedAt != nil {
		payload["completed_at"] = assignment.CompletedAt.UTC().Format(time.RFC3339)
		payload["result"] = assignment.Result
	}
	return payload
}

func newTaskEvent(assignment *models.Assignment, request *models.RescueRequest, team *models.RescueTeam) event {
	return event{
		name:     websocket.EventNewTask,
		channels: taskChannels(assignment, request),
		payload:  taskPayload(assignment, request, team),
	}
}

func taskUpdateEvent(assignment *models.Assignment, request *models.RescueRequest, team *models.RescueTeam) event {
	return event{
		name:     websocket.EventTaskUpdate,
		channels: taskChannels(assignment, request),
		payload:  taskPayload(assignment, request, team),
	}
}

func taskCompletedEvent(assignment *models.Assignment, request *models.RescueRequest, team *models.RescueTeam) event {
	return event{
		name:     websocket.EventTaskCompleted,
		channels: taskChannels(assignment, request),
		payload:  taskPayload(assignment, request, team),
	}
}

// NewRequestPayload is the admin-board notification for a fresh citizen
// submission. Published by the request handler, not the engine.
func NewRequestPayload(request *models.RescueRequest) map[string]interface{} {
	return map[string]interface{}{
		"request_id":   request.ID.String(),
		"request_code": request.Code,
		"name":         request.Name,
		"address":      request.Address,
		"latitude":     request.Latitude,
		"longitude":    request.Longitude,
		"adults":       request.Adults,
		"children":     request.Children,
		"elderly":      request.Elderly,
		"status":       request.Status,
		"created_at":   request.CreatedAt.UTC().Format(time.RFC3339),
	}
}
