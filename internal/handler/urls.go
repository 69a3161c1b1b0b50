package handler

import (
	"net/http"

	"RescueHub/internal/models"
	constants "RescueHub/pkg/constant"
	"RescueHub/pkg/metrics"
	"RescueHub/pkg/middleware"
	"RescueHub/pkg/websocket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChannelsForAccount resolves the websocket channels an identity may
// subscribe to: admins get the board feed, rescuers their team feed, and
// citizens their own request updates.
func (h *Handlers) ChannelsForAccount(accountID, role string) []string {
	switch role {
	case constants.RoleAdmin:
		return []string{websocket.ChannelAdmin}
	case constants.RoleRescuer:
		parsed, err := uuid.Parse(accountID)
		if err != nil {
			return nil
		}
		team, err := models.GetTeamByAccount(h.db, parsed)
		if err != nil {
			return nil
		}
		return []string{websocket.TeamChannel(team.ID.String())}
	case constants.RoleCitizen:
		return []string{websocket.UserChannel(accountID)}
	}
	return nil
}

// RegisterRoutes wires the full HTTP surface onto the router.
func (h *Handlers) RegisterRoutes(router *gin.Engine, submitRate string) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metrics.Handler())

	wsHandler := websocket.NewHandler(h.hub, h.ChannelsForAccount)
	router.GET("/ws/map", wsHandler.HandleWebSocket)
	router.GET("/ws/stats", middleware.RequireRole(constants.RoleAdmin), wsHandler.GetStats)

	api := router.Group("/api")
	{
		// public surface: submission is rate limited per client ip
		api.POST("/requests", middleware.RateLimit(submitRate), h.CreateRequest)
		api.GET("/requests", h.ListRequests)
		api.GET("/requests/:id", h.GetRequest)
		api.GET("/map-points", h.MapPoints)
		api.GET("/rescue-teams", h.ListTeams)
		api.GET("/rescue-teams/find-teams", h.FindTeams)
	}

	admin := api.Group("/rescue-teams/dispatch", middleware.RequireRole(constants.RoleAdmin), middleware.OperationLogMiddleware())
	{
		admin.POST("/assign", h.Assign)
	}

	team := api.Group("/team", middleware.RequireRole(constants.RoleRescuer), middleware.OperationLogMiddleware())
	{
		team.POST("/confirm-start", h.ConfirmStart)
		team.POST("/confirm-arrived", h.ConfirmArrived)
		team.POST("/complete", h.Complete)
		team.GET("/assignments", h.MyAssignments)
	}

	api.PATCH("/rescue-teams/:id/location", middleware.RequireRole(constants.RoleRescuer, constants.RoleAdmin), h.ReportLocation)
}
