package middleware

import (
	"time"

	constants "RescueHub/pkg/constant"
	"RescueHub/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/mssola/user_agent"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OperationLog records who performed a dispatch mutation and from where.
type OperationLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;not null" json:"id"`
	AccountID string    `gorm:"size:64;index" json:"account_id"`
	Role      string    `gorm:"size:20" json:"role"`
	Action    string    `gorm:"not null" json:"action"` // HTTP method
	Target    string    `gorm:"not null" json:"target"` // API path
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	Device    string    `json:"device"`
	Browser   string    `json:"browser"`
	OS        string    `json:"os"`
	CreatedAt time.Time `json:"created_at"`
}

// WithDB stores the database handle on the context for middlewares that
// persist rows, like the operation log.
func WithDB(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constants.DbField, db)
		c.Next()
	}
}

// OperationLogMiddleware persists an audit row for each mutating call that
// passes through it. Audit failure never aborts the request.
func OperationLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, _ := c.Get(constants.DbField)
		db, ok := value.(*gorm.DB)
		if !ok {
			c.Next()
			return
		}

		accountID, _ := c.Get(constants.AccountIDField)
		role, _ := c.Get(constants.RoleField)
		accountIDStr, _ := accountID.(string)
		roleStr, _ := role.(string)

		ua := user_agent.New(c.GetHeader("User-Agent"))
		browser, version := ua.Browser()

		entry := OperationLog{
			AccountID: accountIDStr,
			Role:      roleStr,
			Action:    c.Request.Method,
			Target:    c.Request.URL.Path,
			IPAddress: c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
			Device:    ua.Platform(),
			Browser:   browser + version,
			OS:        ua.OS(),
		}
		if err := db.Create(&entry).Error; err != nil {
			logger.Warn("operation log write failed", zap.Error(err))
		}

		c.Next()
	}
}
