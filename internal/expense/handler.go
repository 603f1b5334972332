package expense

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

type CreateExpenseRequest struct {
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Note      string  `json:"note"`
	EntryDate string  `json:"entry_date"`
}

// Create records an expense. Expenses are not tied to a company; they feed
// aggregate reports only.
func (h *Handler) Create(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expense amount must be positive"})
		return
	}

	date, err := entrydate.Resolve(c.GetString("role"), req.EntryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	createdBy, _ := uuid.Parse(c.GetString("user_id"))

	expense := database.ExpenseEntry{
		Amount:    req.Amount,
		Note:      req.Note,
		CreatedBy: createdBy,
		EntryDate: date,
	}
	if err := h.db.Create(&expense).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create expense"})
		return
	}

	h.logger.LogPost(c, "expense", expense.ID, gin.H{"amount": expense.Amount, "entry_date": expense.EntryDate})

	c.JSON(http.StatusCreated, gin.H{"data": expense})
}

type ListRequest struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// List returns expenses, optionally filtered by date range, newest first
func (h *Handler) List(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := h.db.Model(&database.ExpenseEntry{})
	if req.From != "" && req.To != "" {
		if !entrydate.Valid(req.From) || !entrydate.Valid(req.To) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from/to must be YYYY-MM-DD"})
			return
		}
		query = query.Where("entry_date BETWEEN ? AND ?", req.From, req.To)
	}

	var expenses []database.ExpenseEntry
	if err := query.Order("entry_date DESC, created_at DESC").Find(&expenses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expenses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": expenses})
}
