package company

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/paketdefter/paketdefter-backend/pkg/activitylog"
	"github.com/paketdefter/paketdefter-backend/pkg/database"
	"gorm.io/gorm"
)

// DefaultBranchName is created alongside every new company
const DefaultBranchName = "Main"

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

type CompanyInput struct {
	Name         string  `json:"name" binding:"required"`
	Phone        string  `json:"phone"`
	PricePerPack float64 `json:"price_per_pack" binding:"gte=0"`
}

type CompanyRow struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	PricePerPack float64   `json:"price_per_pack"`
	Balance      float64   `json:"balance"`
}

// List returns active companies annotated with their current balance.
// Balance is recomputed from the ledger on every read, never stored.
func (h *Handler) List(c *gin.Context) {
	var rows []CompanyRow
	if err := h.db.Model(&database.Company{}).
		Select(`companies.id, companies.name, companies.phone, companies.price_per_pack,
			COALESCE((SELECT SUM(amount) FROM ledger_entries WHERE ledger_entries.company_id = companies.id), 0) AS balance`).
		Where("companies.is_active = ?", true).
		Order("companies.name ASC").
		Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch companies"})
		return
	}

	if rows == nil {
		rows = []CompanyRow{}
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// Create adds a new company with a default branch. A name matching an
// inactive company reactivates that record instead of inserting a new row.
func (h *Handler) Create(c *gin.Context) {
	var input CompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing database.Company
	if err := h.db.Where("name = ?", input.Name).First(&existing).Error; err == nil {
		if existing.IsActive {
			c.JSON(http.StatusConflict, gin.H{"error": "Company name already exists"})
			return
		}

		existing.Phone = input.Phone
		existing.PricePerPack = input.PricePerPack
		existing.IsActive = true
		if err := h.db.Save(&existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reactivate company"})
			return
		}

		h.logger.LogCreate(c, "company", existing.ID, gin.H{"name": existing.Name, "reactivated": true})
		c.JSON(http.StatusCreated, gin.H{"data": existing})
		return
	}

	company := database.Company{
		Name:         input.Name,
		Phone:        input.Phone,
		PricePerPack: input.PricePerPack,
		IsActive:     true,
	}
	if err := h.db.Create(&company).Error; err != nil {
		if database.IsDuplicate(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Company name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create company"})
		return
	}

	branch := database.Branch{
		CompanyID: company.ID,
		Name:      DefaultBranchName,
		IsActive:  true,
	}
	if err := h.db.Create(&branch).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create default branch"})
		return
	}

	h.logger.LogCreate(c, "company", company.ID, gin.H{
		"name":           company.Name,
		"phone":          company.Phone,
		"price_per_pack": company.PricePerPack,
	})

	c.JSON(http.StatusCreated, gin.H{"data": company})
}

// Update modifies an active company. Price changes affect future postings
// only; existing entries keep the unit price captured when they were posted.
func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")

	var company database.Company
	if err := h.db.Where("id = ? AND is_active = ?", id, true).First(&company).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	var input CompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	oldValues := gin.H{"name": company.Name, "phone": company.Phone, "price_per_pack": company.PricePerPack}

	company.Name = input.Name
	company.Phone = input.Phone
	company.PricePerPack = input.PricePerPack
	if err := h.db.Save(&company).Error; err != nil {
		if database.IsDuplicate(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Company name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update company"})
		return
	}

	h.logger.LogUpdate(c, "company", company.ID, oldValues, gin.H{
		"name": company.Name, "phone": company.Phone, "price_per_pack": company.PricePerPack,
	})

	c.JSON(http.StatusOK, gin.H{"data": company})
}

// Delete soft-deletes a company. Ledger history stays untouched; the company
// just disappears from new-entry target lists.
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")

	var company database.Company
	if err := h.db.Where("id = ? AND is_active = ?", id, true).First(&company).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	if err := h.db.Model(&company).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete company"})
		return
	}

	h.logger.LogDelete(c, "company", company.ID, gin.H{"name": company.Name})

	c.JSON(http.StatusOK, gin.H{"message": "Company deleted"})
}

type BranchInput struct {
	Name string `json:"name" binding:"required"`
}

// ListBranches returns the active branches of a company
func (h *Handler) ListBranches(c *gin.Context) {
	id := c.Param("id")

	var company database.Company
	if err := h.db.Where("id = ? AND is_active = ?", id, true).First(&company).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	var branches []database.Branch
	if err := h.db.Where("company_id = ? AND is_active = ?", company.ID, true).
		Order("name ASC").
		Find(&branches).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch branches"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": branches})
}

// CreateBranch adds a branch to an active company. A name matching an
// inactive branch of the same company reactivates it.
func (h *Handler) CreateBranch(c *gin.Context) {
	id := c.Param("id")

	var company database.Company
	if err := h.db.Where("id = ? AND is_active = ?", id, true).First(&company).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	var input BranchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing database.Branch
	if err := h.db.Where("company_id = ? AND name = ?", company.ID, input.Name).First(&existing).Error; err == nil {
		if existing.IsActive {
			c.JSON(http.StatusConflict, gin.H{"error": "Branch name already exists"})
			return
		}

		existing.IsActive = true
		if err := h.db.Save(&existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reactivate branch"})
			return
		}

		h.logger.LogCreate(c, "branch", existing.ID, gin.H{"name": existing.Name, "reactivated": true})
		c.JSON(http.StatusCreated, gin.H{"data": existing})
		return
	}

	branch := database.Branch{
		CompanyID: company.ID,
		Name:      input.Name,
		IsActive:  true,
	}
	if err := h.db.Create(&branch).Error; err != nil {
		if database.IsDuplicate(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Branch name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create branch"})
		return
	}

	h.logger.LogCreate(c, "branch", branch.ID, gin.H{"name": branch.Name, "company_id": company.ID})

	c.JSON(http.StatusCreated, gin.H{"data": branch})
}
