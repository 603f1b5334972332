package production

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/paketdefter/paketdefter-backend/pkg/activitylog"
	"github.com/paketdefter/paketdefter-backend/pkg/database"
	"github.com/paketdefter/paketdefter-backend/pkg/entrydate"
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

type CreateProductionRequest struct {
	Packs     int    `json:"packs" binding:"required,gt=0"`
	Note      string `json:"note"`
	EntryDate string `json:"entry_date"`
}

// Create records produced packs
func (h *Handler) Create(c *gin.Context) {
	var req CreateProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Production packs must be positive"})
		return
	}

	date, err := entrydate.Resolve(c.GetString("role"), req.EntryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	createdBy, _ := uuid.Parse(c.GetString("user_id"))

	entry := database.ProductionEntry{
		Packs:     req.Packs,
		Note:      req.Note,
		CreatedBy: createdBy,
		EntryDate: date,
	}
	if err := h.db.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create production entry"})
		return
	}

	h.logger.LogPost(c, "production", entry.ID, gin.H{"packs": entry.Packs, "entry_date": entry.EntryDate})

	c.JSON(http.StatusCreated, gin.H{"data": entry})
}

type ListRequest struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// List returns production entries, optionally filtered by date range
func (h *Handler) List(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := h.db.Model(&database.ProductionEntry{})
	if req.From != "" && req.To != "" {
		if !entrydate.Valid(req.From) || !entrydate.Valid(req.To) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from/to must be YYYY-MM-DD"})
			return
		}
		query = query.Where("entry_date BETWEEN ? AND ?", req.From, req.To)
	}

	var entries []database.ProductionEntry
	if err := query.Order("entry_date DESC, created_at DESC").Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch production entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}
