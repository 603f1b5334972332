package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ledger entry kinds. The set is closed; anything else is rejected at posting time.
const (
	EntryCreditSale = "CREDIT_SALE" // +(packs * unit price)
	EntryCashSale   = "CASH_SALE"   // sale leg of a cash sale, +(packs * unit price)
	EntryPayment    = "PAYMENT"     // -amount
	EntryReturn     = "RETURN"      // -(packs * unit price)
	EntryDebit      = "DEBIT"       // +amount, manual receivable
)

// User roles
const (
	RoleAdmin     = "ADMIN"
	RoleStaff     = "STAFF"
	RoleStaffCash = "STAFF_CASH"
)

// EntryKinds lists every valid ledger entry kind.
var EntryKinds = []string{EntryCreditSale, EntryCashSale, EntryPayment, EntryReturn, EntryDebit}

// ValidEntryKind reports whether kind belongs to the closed entry kind set.
func ValidEntryKind(kind string) bool {
	for _, k := range EntryKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Base model for mutable entities
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// User represents a system user authenticated by PIN
type User struct {
	BaseModel
	Name     string `gorm:"not null" json:"name"`
	Role     string `gorm:"not null;default:'STAFF'" json:"role"` // ADMIN, STAFF, STAFF_CASH
	PinHash  string `json:"-"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

// Company represents a customer firm buying packs on credit
type Company struct {
	BaseModel
	Name         string   `gorm:"uniqueIndex;not null" json:"name"`
	Phone        string   `json:"phone"`
	PricePerPack float64  `gorm:"default:0" json:"price_per_pack"`
	IsActive     bool     `gorm:"default:true" json:"is_active"`
	Branches     []Branch `gorm:"foreignKey:CompanyID" json:"branches,omitempty"`
}

// Branch represents an outlet of a company; names are unique per company
type Branch struct {
	BaseModel
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_branches_company_name" json:"company_id"`
	Company   Company   `gorm:"foreignKey:CompanyID" json:"-"`
	Name      string    `gorm:"not null;uniqueIndex:idx_branches_company_name" json:"name"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
}

// LedgerEntry is one immutable signed-amount transaction record.
// Balance = SUM(amount) over a company's (or branch's) entries. There is no
// update or delete path anywhere; corrections are posted as new entries.
type LedgerEntry struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	Company   Company    `gorm:"foreignKey:CompanyID" json:"-"`
	BranchID  *uuid.UUID `gorm:"type:uuid;index" json:"branch_id"`
	Branch    *Branch    `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	EntryType string     `gorm:"not null;index" json:"entry_type"`
	Packs     int        `gorm:"default:0" json:"packs"`
	UnitPrice float64    `gorm:"default:0" json:"unit_price"` // captured at post time
	Amount    float64    `gorm:"not null" json:"amount"`      // signed
	Note      string     `json:"note"`
	CreatedBy uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	EntryDate string     `gorm:"size:10;not null;index" json:"entry_date"` // YYYY-MM-DD
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (e *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// ExpenseEntry is a standalone cost record; not linked to any company
type ExpenseEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Amount    float64   `gorm:"not null" json:"amount"` // always positive
	Note      string    `json:"note"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	EntryDate string    `gorm:"size:10;not null;index" json:"entry_date"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (e *ExpenseEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// ProductionEntry tracks manufacturing output independent of sales
type ProductionEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Packs     int       `gorm:"not null" json:"packs"`
	Note      string    `json:"note"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	EntryDate string    `gorm:"size:10;not null;index" json:"entry_date"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (p *ProductionEntry) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ActivityLog tracks user actions for the audit trail
type ActivityLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User       User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action     string     `gorm:"not null" json:"action"` // login, create, update, delete, post
	EntityType string     `json:"entity_type"`            // company, branch, ledger_entry, expense, production, user
	EntityID   *uuid.UUID `gorm:"type:uuid" json:"entity_id"`
	Details    string     `gorm:"type:text" json:"details"` // JSON details
	IPAddress  string     `json:"ip_address"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Migrate runs database migrations
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Company{},
		&Branch{},
		&LedgerEntry{},
		&ExpenseEntry{},
		&ProductionEntry{},
		&ActivityLog{},
	)
}
