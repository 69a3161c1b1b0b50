package handler

import (
	"context"
	"fmt"
	"time"

	"RescueHub/internal/dispatch"
	"RescueHub/internal/models"
	constants "RescueHub/pkg/constant"
	"RescueHub/pkg/response"
	"RescueHub/pkg/websocket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// CreateRequest accepts a citizen submission. Anonymous callers are
// allowed; a logged-in citizen gets the request attached to their account
// so they receive task updates on their own channel.
func (h *Handlers) CreateRequest(c *gin.Context) {
	var input models.CreateRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, "invalid request payload", err.Error())
		return
	}

	var accountID *uuid.UUID
	if value, exists := c.Get(constants.AccountIDField); exists {
		if parsed, err := uuid.Parse(cast.ToString(value)); err == nil {
			accountID = &parsed
		}
	}

	request, err := models.CreateRescueRequest(h.db, input, h.cfg.ProvinceCode, accountID)
	if err != nil {
		failWithError(c, err)
		return
	}

	// only the admin board needs to know about fresh submissions
	if h.pub != nil {
		h.pub.Publish([]string{websocket.ChannelAdmin}, websocket.EventNewRequest, dispatch.NewRequestPayload(request))
	}

	response.Success(c, h.i18n.T(lang(c), "request.created", nil), request)
}

// GetRequest returns one request with its localized status label.
func (h *Handlers) GetRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, "invalid request id", nil)
		return
	}

	var request models.RescueRequest
	if err := h.db.First(&request, "id = ?", id).Error; err != nil {
		response.FailWithStatus(c, 404, "rescue request not found")
		return
	}

	response.Success(c, "ok", gin.H{
		"request":      request,
		"status_label": h.i18n.StatusLabel(lang(c), "request", request.Status),
	})
}

// ListRequests returns requests filtered by optional status, newest first.
func (h *Handlers) ListRequests(c *gin.Context) {
	query := h.db.Model(&models.RescueRequest{}).Order("created_at DESC").Limit(200)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.RescueRequest
	if err := query.Find(&requests).Error; err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, "ok", requests)
}

// MapPoints serves the viewport query behind a short-lived cache: the map
// polls aggressively during a flood event and the picture barely changes
// between polls.
func (h *Handlers) MapPoints(c *gin.Context) {
	minLat := cast.ToFloat64(c.Query("min_lat"))
	maxLat := cast.ToFloat64(c.Query("max_lat"))
	minLng := cast.ToFloat64(c.Query("min_lng"))
	maxLng := cast.ToFloat64(c.Query("max_lng"))
	zoom := cast.ToInt(c.DefaultQuery("zoom", "10"))

	if minLat == 0 && maxLat == 0 && minLng == 0 && maxLng == 0 {
		response.Fail(c, "viewport bounds are required", nil)
		return
	}

	key := fmt.Sprintf("map-points:%.4f:%.4f:%.4f:%.4f:%d", minLat, maxLat, minLng, maxLng, zoom)
	if h.cache != nil {
		if cached, found := h.cache.Get(context.Background(), key); found {
			response.Success(c, "ok", cached)
			return
		}
	}

	points, err := models.MapPoints(h.db, minLat, maxLat, minLng, maxLng, zoom)
	if err != nil {
		failWithError(c, err)
		return
	}

	if h.cache != nil {
		_ = h.cache.Set(context.Background(), key, points, 10*time.Second)
	}
	response.Success(c, "ok", points)
}
