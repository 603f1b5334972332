package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paketdefter/paketdefter-backend/pkg/activitylog"
	"github.com/paketdefter/paketdefter-backend/pkg/database"
	"github.com/paketdefter/paketdefter-backend/pkg/entrydate"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Handler struct {
	db     *gorm.DB
	logger *activitylog.Logger
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		db:     db,
		logger: activitylog.NewLogger(db),
	}
}

type CreateStaffInput struct {
	Name string `json:"name" binding:"required"`
	Role string `json:"role" binding:"required,oneof=ADMIN STAFF STAFF_CASH"`
	Pin  string `json:"pin" binding:"required,min=4"`
}

type UpdateStaffInput struct {
	Name     string `json:"name"`
	Role     string `json:"role" binding:"omitempty,oneof=ADMIN STAFF STAFF_CASH"`
	Pin      string `json:"pin" binding:"omitempty,min=4"`
	IsActive *bool  `json:"is_active"`
}

// ListStaff returns all users
func (h *Handler) ListStaff(c *gin.Context) {
	var staff []database.User
	if err := h.db.Order("created_at ASC").Find(&staff).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": staff})
}

// CreateStaff adds a new user with a PIN
func (h *Handler) CreateStaff(c *gin.Context) {
	var input CreateStaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Pin), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash PIN"})
		return
	}

	staff := database.User{
		Name:     input.Name,
		Role:     input.Role,
		PinHash:  string(hash),
		IsActive: true,
	}
	if err := h.db.Create(&staff).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	h.logger.LogCreate(c, "user", staff.ID, gin.H{"name": staff.Name, "role": staff.Role})

	c.JSON(http.StatusCreated, gin.H{"data": staff})
}

// UpdateStaff modifies a user's name, role, PIN or active flag
func (h *Handler) UpdateStaff(c *gin.Context) {
	id := c.Param("id")

	var staff database.User
	if err := h.db.Where("id = ?", id).First(&staff).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var input UpdateStaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	oldValues := gin.H{"name": staff.Name, "role": staff.Role, "is_active": staff.IsActive}

	if input.Name != "" {
		staff.Name = input.Name
	}
	if input.Role != "" {
		staff.Role = input.Role
	}
	if input.Pin != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Pin), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash PIN"})
			return
		}
		staff.PinHash = string(hash)
	}
	if input.IsActive != nil {
		staff.IsActive = *input.IsActive
	}

	if err := h.db.Save(&staff).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	h.logger.LogUpdate(c, "user", staff.ID, oldValues, gin.H{
		"name": staff.Name, "role": staff.Role, "is_active": staff.IsActive,
	})

	c.JSON(http.StatusOK, gin.H{"data": staff})
}

// DeleteStaff deactivates a user. Historical entries keep referencing the
// user id, so rows are never removed.
func (h *Handler) DeleteStaff(c *gin.Context) {
	id := c.Param("id")

	if id == c.GetString("user_id") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot deactivate yourself"})
		return
	}

	var staff database.User
	if err := h.db.Where("id = ? AND is_active = ?", id, true).First(&staff).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := h.db.Model(&staff).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate user"})
		return
	}

	h.logger.LogDelete(c, "user", staff.ID, gin.H{"name": staff.Name})

	c.JSON(http.StatusOK, gin.H{"message": "User deactivated"})
}

type activityLogQuery struct {
	From  string `form:"from"`
	To    string `form:"to"`
	Limit int    `form:"limit"`
}

// GetActivityLogs returns the audit trail, newest first
func (h *Handler) GetActivityLogs(c *gin.Context) {
	var req activityLogQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Limit <= 0 || req.Limit > 500 {
		req.Limit = 100
	}

	query := h.db.Preload("User")
	if req.From != "" && req.To != "" {
		if !entrydate.Valid(req.From) || !entrydate.Valid(req.To) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from/to must be YYYY-MM-DD"})
			return
		}
		query = query.Where("DATE(created_at) BETWEEN ? AND ?", req.From, req.To)
	}

	var logs []database.ActivityLog
	if err := query.Order("created_at DESC").Limit(req.Limit).Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": logs})
}
