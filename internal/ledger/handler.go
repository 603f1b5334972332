package ledger

import (
	"math"
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

type PostEntryRequest struct {
	CompanyID uuid.UUID  `json:"company_id" binding:"required"`
	BranchID  *uuid.UUID `json:"branch_id"`
	Type      string     `json:"type" binding:"required"`
	Packs     int        `json:"packs"`
	Amount    float64    `json:"amount"`
	Note      string     `json:"note"`
	EntryDate string     `json:"entry_date"`
}

// Post validates and appends one ledger entry, or the sale+payment pair for
// a cash sale. All validation happens before any write; a cash sale writes
// both legs inside one transaction so a failure keeps neither.
func (h *Handler) Post(c *gin.Context) {
	var req PostEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !database.ValidEntryKind(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry type"})
		return
	}

	var company database.Company
	if err := h.db.Where("id = ? AND is_active = ?", req.CompanyID, true).First(&company).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	if req.BranchID != nil {
		var branch database.Branch
		if err := h.db.Where("id = ? AND is_active = ?", req.BranchID, true).First(&branch).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Branch not found"})
			return
		}
		if branch.CompanyID != company.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Branch does not belong to company"})
			return
		}
	}

	date, err := entrydate.Resolve(c.GetString("role"), req.EntryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	createdBy, _ := uuid.Parse(c.GetString("user_id"))

	newEntry := func(entryType string, packs int, unitPrice, amount float64) database.LedgerEntry {
		return database.LedgerEntry{
			CompanyID: company.ID,
			BranchID:  req.BranchID,
			EntryType: entryType,
			Packs:     packs,
			UnitPrice: unitPrice,
			Amount:    amount,
			Note:      req.Note,
			CreatedBy: createdBy,
			EntryDate: date,
		}
	}

	var entries []database.LedgerEntry

	switch req.Type {
	case database.EntryPayment:
		if req.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment amount must be positive"})
			return
		}
		entries = []database.LedgerEntry{newEntry(database.EntryPayment, 0, 0, -math.Abs(req.Amount))}

	case database.EntryDebit:
		if req.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Debit amount must be positive"})
			return
		}
		entries = []database.LedgerEntry{newEntry(database.EntryDebit, 0, 0, math.Abs(req.Amount))}

	case database.EntryCreditSale, database.EntryCashSale, database.EntryReturn:
		if req.Packs <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Packs must be positive"})
			return
		}
		if company.PricePerPack <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Company has no pack price configured"})
			return
		}

		gross := float64(req.Packs) * company.PricePerPack
		switch req.Type {
		case database.EntryCreditSale:
			entries = []database.LedgerEntry{newEntry(database.EntryCreditSale, req.Packs, company.PricePerPack, gross)}
		case database.EntryReturn:
			entries = []database.LedgerEntry{newEntry(database.EntryReturn, req.Packs, company.PricePerPack, -gross)}
		case database.EntryCashSale:
			// Sale leg keeps the CASH_SALE kind so reports can split credit
			// vs cash sales; the payment leg settles it immediately. Packs
			// are recorded on the sale leg only. Net balance effect is zero.
			entries = []database.LedgerEntry{
				newEntry(database.EntryCashSale, req.Packs, company.PricePerPack, gross),
				newEntry(database.EntryPayment, 0, 0, -gross),
			}
		}
	}

	if len(entries) == 1 {
		if err := h.db.Create(&entries[0]).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ledger entry"})
			return
		}
	} else {
		err := h.db.Transaction(func(tx *gorm.DB) error {
			for i := range entries {
				if err := tx.Create(&entries[i]).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ledger entries"})
			return
		}
	}

	for _, e := range entries {
		h.logger.LogPost(c, "ledger_entry", e.ID, gin.H{
			"entry_type": e.EntryType,
			"company_id": e.CompanyID,
			"amount":     e.Amount,
			"packs":      e.Packs,
		})
	}

	c.JSON(http.StatusCreated, gin.H{"data": entries})
}

type ListRequest struct {
	BranchID string `form:"branch_id"`
	From     string `form:"from"`
	To       string `form:"to"`
}

// List returns a company's ledger entries, newest first
func (h *Handler) List(c *gin.Context) {
	companyID := c.Param("id")

	var company database.Company
	if err := h.db.Where("id = ?", companyID).First(&company).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := h.db.Where("company_id = ?", company.ID)
	if req.BranchID != "" {
		query = query.Where("branch_id = ?", req.BranchID)
	}
	if req.From != "" && req.To != "" {
		if !entrydate.Valid(req.From) || !entrydate.Valid(req.To) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from/to must be YYYY-MM-DD"})
			return
		}
		query = query.Where("entry_date BETWEEN ? AND ?", req.From, req.To)
	}

	var entries []database.LedgerEntry
	if err := query.Order("entry_date DESC, created_at DESC").Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ledger entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}
