package balance

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paketdefter/paketdefter-backend/pkg/database"
	"gorm.io/gorm"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// Company returns a company's all-time balance: the sum of signed amounts
// over its ledger entries. Inactive companies keep a readable balance since
// their history survives soft delete.
func (h *Handler) Company(c *gin.Context) {
	id := c.Param("id")

	var company database.Company
	if err := h.db.Where("id = ?", id).First(&company).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	var balance float64
	if err := h.db.Model(&database.LedgerEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("company_id = ?", company.ID).
		Scan(&balance).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// Branch returns a branch's all-time balance
func (h *Handler) Branch(c *gin.Context) {
	id := c.Param("id")

	var branch database.Branch
	if err := h.db.Where("id = ?", id).First(&branch).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Branch not found"})
		return
	}

	var balance float64
	if err := h.db.Model(&database.LedgerEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("branch_id = ?", branch.ID).
		Scan(&balance).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}
