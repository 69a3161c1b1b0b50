// Package handler is the HTTP surface. Handlers parse and authorize, then
// delegate to the dispatch engine, geo index or models; no business rule
// lives here.
package handler

import (
	"net/http"

	"RescueHub/internal/dispatch"
	"RescueHub/pkg/cache"
	"RescueHub/pkg/config"
	constants "RescueHub/pkg/constant"
	"RescueHub/pkg/errors"
	"RescueHub/pkg/i18n"
	"RescueHub/pkg/response"
	"RescueHub/pkg/websocket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Handlers struct {
	db     *gorm.DB
	engine *dispatch.Engine
	hub    *websocket.Hub
	pub    dispatch.Publisher
	cache  cache.Cache
	i18n   *i18n.I18nSupport
	cfg    *config.Config
}

func NewHandlers(db *gorm.DB, engine *dispatch.Engine, hub *websocket.Hub, pub dispatch.Publisher, c cache.Cache, translator *i18n.I18nSupport, cfg *config.Config) *Handlers {
	return &Handlers{
		db:     db,
		engine: engine,
		hub:    hub,
		pub:    pub,
		cache:  c,
		i18n:   translator,
		cfg:    cfg,
	}
}

// caller builds the engine identity from the context set by the identity
// middleware. ok is false when the account id is missing or malformed.
func caller(c *gin.Context) (dispatch.Caller, bool) {
	accountID, _ := c.Get(constants.AccountIDField)
	accountIDStr, _ := accountID.(string)
	parsed, err := uuid.Parse(accountIDStr)
	if err != nil {
		return dispatch.Caller{}, false
	}

	role, _ := c.Get(constants.RoleField)
	roleStr, _ := role.(string)
	return dispatch.Caller{AccountID: parsed, Role: roleStr}, true
}

func lang(c *gin.Context) string {
	value, _ := c.Get(constants.LangField)
	languageTag, _ := value.(string)
	if languageTag == "" {
		return "vi"
	}
	return languageTag
}

// failWithError maps the error taxonomy onto HTTP statuses.
func failWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errors.Code(err) {
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeInvalidState, errors.CodeInvalidCoordinates:
		status = http.StatusBadRequest
	case errors.CodePermissionDenied:
		status = http.StatusForbidden
	}
	response.FailWithStatus(c, status, errors.Message(err))
}
