package branch

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paketdefter/paketdefter-backend/pkg/activitylog"
	"github.com/paketdefter/paketdefter-backend/pkg/database"
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

type UpdateBranchInput struct {
	Name string `json:"name" binding:"required"`
}

// Update renames an active branch
func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")

	var branch database.Branch
	if err := h.db.Where("id = ? AND is_active = ?", id, true).First(&branch).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Branch not found"})
		return
	}

	var input UpdateBranchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	oldName := branch.Name
	branch.Name = input.Name
	if err := h.db.Save(&branch).Error; err != nil {
		if database.IsDuplicate(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Branch name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update branch"})
		return
	}

	h.logger.LogUpdate(c, "branch", branch.ID, gin.H{"name": oldName}, gin.H{"name": branch.Name})

	c.JSON(http.StatusOK, gin.H{"data": branch})
}

// Delete soft-deletes a branch; its ledger history stays visible
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")

	var branch database.Branch
	if err := h.db.Where("id = ? AND is_active = ?", id, true).First(&branch).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Branch not found"})
		return
	}

	if err := h.db.Model(&branch).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete branch"})
		return
	}

	h.logger.LogDelete(c, "branch", branch.ID, gin.H{"name": branch.Name})

	c.JSON(http.StatusOK, gin.H{"message": "Branch deleted"})
}
