package websocket

import (
	"net/http"

	constants "RescueHub/pkg/constant"
	"RescueHub/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ChannelResolver maps a resolved identity to the topic channels it may
// subscribe to. Wired by the caller so this package stays ignorant of the
// entity store.
type ChannelResolver func(accountID, role string) []string

// Handler serves the realtime endpoint.
type Handler struct {
	hub     *Hub
	resolve ChannelResolver
}

func NewHandler(hub *Hub, resolve ChannelResolver) *Handler {
	return &Handler{hub: hub, resolve: resolve}
}

// HandleWebSocket upgrades an authenticated client. Connections without a
// resolvable identity are rejected before the upgrade.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	accountID, exists := c.Get(constants.AccountIDField)
	if !exists {
		response.FailWithStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}
	accountIDStr, ok := accountID.(string)
	if !ok || accountIDStr == "" {
		response.FailWithStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}

	role, _ := c.Get(constants.RoleField)
	roleStr, _ := role.(string)

	channels := h.resolve(accountIDStr, roleStr)
	if len(channels) == 0 {
		logrus.Warnf("no channels resolvable for account %s role %s", accountIDStr, roleStr)
		response.FailWithStatus(c, http.StatusForbidden, "no subscribable channels")
		return
	}

	HandleWebSocket(h.hub, c.Writer, c.Request, accountIDStr, channels)
}

// GetStats reports hub occupancy.
func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"total_connections":  h.hub.GetConnectionCount(),
		"max_connections":    h.hub.config.MaxConnections,
		"heartbeat_interval": h.hub.config.HeartbeatInterval.String(),
		"connection_timeout": h.hub.config.ConnectionTimeout.String(),
		"admin_subscribers":  h.hub.GetChannelConnections(ChannelAdmin),
	})
}
