package activitylog

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/paketdefter/paketdefter-backend/pkg/database"
	"gorm.io/gorm"
)

// Logger handles activity logging for the audit trail
type Logger struct {
	db *gorm.DB
}

// NewLogger creates a new activity logger
func NewLogger(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

// LogActivity creates an activity log entry
func (l *Logger) LogActivity(c *gin.Context, action, entityType string, entityID *uuid.UUID, details interface{}) error {
	userIDStr := c.GetString("user_id")
	userID, _ := uuid.Parse(userIDStr)

	detailsJSON := ""
	if details != nil {
		if jsonBytes, err := json.Marshal(details); err == nil {
			detailsJSON = string(jsonBytes)
		}
	}

	log := database.ActivityLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    detailsJSON,
		IPAddress:  c.ClientIP(),
	}

	return l.db.Create(&log).Error
}

// LogCreate logs a create action
func (l *Logger) LogCreate(c *gin.Context, entityType string, entityID uuid.UUID, newData interface{}) error {
	return l.LogActivity(c, "create", entityType, &entityID, map[string]interface{}{
		"new": newData,
	})
}

// LogUpdate logs an update action with old and new values
func (l *Logger) LogUpdate(c *gin.Context, entityType string, entityID uuid.UUID, oldData, newData interface{}) error {
	return l.LogActivity(c, "update", entityType, &entityID, map[string]interface{}{
		"old": oldData,
		"new": newData,
	})
}

// LogDelete logs a delete (deactivate) action
func (l *Logger) LogDelete(c *gin.Context, entityType string, entityID uuid.UUID, oldData interface{}) error {
	return l.LogActivity(c, "delete", entityType, &entityID, map[string]interface{}{
		"deleted": oldData,
	})
}

// LogPost logs an append-only posting (ledger, expense, production)
func (l *Logger) LogPost(c *gin.Context, entityType string, entityID uuid.UUID, data interface{}) error {
	return l.LogActivity(c, "post", entityType, &entityID, data)
}
