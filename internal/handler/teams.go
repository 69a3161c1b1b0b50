package handler

import (
	"RescueHub/internal/geo"
	"RescueHub/internal/models"
	constants "RescueHub/pkg/constant"
	"RescueHub/pkg/response"
	"RescueHub/pkg/websocket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// FindTeams ranks AVAILABLE teams near a point. Default radius 20km.
func (h *Handlers) FindTeams(c *gin.Context) {
	lat := cast.ToFloat64(c.Query("latitude"))
	lng := cast.ToFloat64(c.Query("longitude"))
	radius := cast.ToFloat64(c.DefaultQuery("radius_km", "20"))

	teams, err := geo.FindNearest(h.db, lat, lng, radius)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, "ok", teams)
}

// ListTeams returns every team with localized status labels for the
// admin board.
func (h *Handlers) ListTeams(c *gin.Context) {
	teams, err := models.ListTeams(h.db)
	if err != nil {
		failWithError(c, err)
		return
	}

	languageTag := lang(c)
	items := make([]gin.H, 0, len(teams))
	for _, team := range teams {
		items = append(items, gin.H{
			"team":         team,
			"status_label": h.i18n.StatusLabel(languageTag, "team", team.Status),
		})
	}
	response.Success(c, "ok", items)
}

// Coordinates are pointers so `required` means present, not non-zero;
// latitude 0 and longitude 0 are valid positions.
type locationInput struct {
	Latitude  *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
}

// ReportLocation records a team position ping and mirrors it to the admin
// board so the dispatch map tracks moving teams live. Rescuers may only
// report for their own team; admins may update any.
func (h *Handlers) ReportLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, "invalid team id", nil)
		return
	}

	identity, ok := caller(c)
	if !ok {
		response.FailWithStatus(c, 401, "authentication required")
		return
	}
	if identity.Role == constants.RoleRescuer {
		own, err := models.GetTeamByAccount(h.db, identity.AccountID)
		if err != nil {
			failWithError(c, err)
			return
		}
		if own.ID != id {
			response.FailWithStatus(c, 403, "cannot report location for another team")
			return
		}
	}

	var input locationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, "invalid location payload", err.Error())
		return
	}

	team, err := models.UpdateTeamLocation(h.db, id, *input.Latitude, *input.Longitude)
	if err != nil {
		failWithError(c, err)
		return
	}

	if h.pub != nil {
		h.pub.Publish([]string{websocket.ChannelAdmin}, websocket.EventTeamLocation, map[string]interface{}{
			"team_id":   team.ID.String(),
			"name":      team.Name,
			"latitude":  *input.Latitude,
			"longitude": *input.Longitude,
			"status":    team.Status,
		})
	}
	response.Success(c, "ok", team)
}

// MyAssignments lists the calling rescuer's task history.
func (h *Handlers) MyAssignments(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		response.FailWithStatus(c, 401, "authentication required")
		return
	}

	team, err := models.GetTeamByAccount(h.db, identity.AccountID)
	if err != nil {
		failWithError(c, err)
		return
	}

	assignments, err := models.ListTeamAssignments(h.db, team.ID)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, "ok", gin.H{"team": team, "assignments": assignments})
}
