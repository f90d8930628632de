package models

import (
	"time"

	"teamfund/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Directory Tables
// ============================================================

// Team represents teams table. AdminID is set at creation and never
// reassigned; the admin is always present in team_members.
type Team struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null;index" json:"name"`
	JoinPassword string    `gorm:"size:255;not null" json:"-"`
	AdminID      uint      `gorm:"not null" json:"admin_id"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Members []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

func (Team) TableName() string {
	return "teams"
}

// TeamMember represents team_members table (membership rows, append-only)
type TeamMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TeamID    uint      `gorm:"not null;uniqueIndex:idx_team_user" json:"team_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_team_user" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (TeamMember) TableName() string {
	return "team_members"
}

// TeamResponse DTO
type TeamResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	AdminID   uint      `json:"admin_id"`
	MemberIDs []uint    `json:"member_ids"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *Team) ToResponse() *TeamResponse {
	resp := &TeamResponse{
		ID:        t.ID,
		Name:      t.Name,
		AdminID:   t.AdminID,
		MemberIDs: make([]uint, 0, len(t.Members)),
		CreatedAt: t.CreatedAt,
	}
	for _, m := range t.Members {
		resp.MemberIDs = append(resp.MemberIDs, m.UserID)
	}
	return resp
}

// Branch represents branches table, a team's payable account record.
// Append-only per team; branch names are not unique on purpose.
type Branch struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TeamID        uint      `gorm:"not null;index" json:"team_id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	HolderName    string    `gorm:"size:100;not null" json:"holder_name"`
	AccountNumber string    `gorm:"size:50;not null" json:"account_number"`
	IFSC          string    `gorm:"size:20;not null" json:"ifsc"`
	UPIID         string    `gorm:"size:100" json:"upi_id,omitempty"`
	ManagerName   string    `gorm:"size:100" json:"manager_name,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Branch) TableName() string {
	return "branches"
}

// ============================================================
// Bill Tables
// ============================================================

// Bill represents bills table, the central lifecycle entity.
// UserName is a display snapshot taken at submission; it is historical
// data, not a live reference.
type Bill struct {
	ID          uint                `gorm:"primaryKey" json:"id"`
	TeamID      uint                `gorm:"not null;index" json:"team_id"`
	UserID      uint                `gorm:"not null;index" json:"user_id"`
	UserName    string              `gorm:"size:100;not null" json:"user_name"`
	Title       string              `gorm:"size:200;not null" json:"title"`
	Amount      float64             `gorm:"type:decimal(15,2);not null" json:"amount"`
	Category    domain.BillCategory `gorm:"size:20;not null" json:"category"`
	Description string              `gorm:"type:text" json:"description"`
	ImageURL    string              `gorm:"type:mediumtext" json:"image_url,omitempty"`
	BranchID    uint                `gorm:"not null" json:"branch_id"`
	Status      domain.BillStatus   `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	Version     uint                `gorm:"not null;default:1" json:"version"`

	// Transition-dependent fields: RejectionReason set iff REJECTED,
	// PaidAt/PaymentMethod set iff PAID.
	RejectionReason      *string               `gorm:"type:text" json:"rejection_reason,omitempty"`
	PaidAt               *time.Time            `json:"paid_at,omitempty"`
	TransactionID        string                `gorm:"size:100" json:"transaction_id,omitempty"`
	PaymentScreenshotURL string                `gorm:"type:mediumtext" json:"payment_screenshot_url,omitempty"`
	PaymentMethod        *domain.PaymentMethod `gorm:"size:10" json:"payment_method,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Submitter *User   `gorm:"foreignKey:UserID" json:"submitter,omitempty"`
	Branch    *Branch `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
}

func (Bill) TableName() string {
	return "bills"
}

// BillResponse DTO
type BillResponse struct {
	ID                   uint                  `json:"id"`
	TeamID               uint                  `json:"team_id"`
	UserID               uint                  `json:"user_id"`
	UserName             string                `json:"user_name"`
	Title                string                `json:"title"`
	Amount               float64               `json:"amount"`
	Category             domain.BillCategory   `json:"category"`
	Description          string                `json:"description"`
	ImageURL             string                `json:"image_url,omitempty"`
	BranchID             uint                  `json:"branch_id"`
	BranchName           string                `json:"branch_name,omitempty"`
	Status               domain.BillStatus     `json:"status"`
	RejectionReason      *string               `json:"rejection_reason,omitempty"`
	PaidAt               *time.Time            `json:"paid_at,omitempty"`
	TransactionID        string                `json:"transaction_id,omitempty"`
	PaymentScreenshotURL string                `json:"payment_screenshot_url,omitempty"`
	PaymentMethod        *domain.PaymentMethod `json:"payment_method,omitempty"`
	CreatedAt            time.Time             `json:"created_at"`
}

func (b *Bill) ToResponse() *BillResponse {
	resp := &BillResponse{
		ID:                   b.ID,
		TeamID:               b.TeamID,
		UserID:               b.UserID,
		UserName:             b.UserName,
		Title:                b.Title,
		Amount:               b.Amount,
		Category:             b.Category,
		Description:          b.Description,
		ImageURL:             b.ImageURL,
		BranchID:             b.BranchID,
		Status:               b.Status,
		RejectionReason:      b.RejectionReason,
		PaidAt:               b.PaidAt,
		TransactionID:        b.TransactionID,
		PaymentScreenshotURL: b.PaymentScreenshotURL,
		PaymentMethod:        b.PaymentMethod,
		CreatedAt:            b.CreatedAt,
	}

	if b.Branch != nil {
		resp.BranchName = b.Branch.Name
	}

	return resp
}

// ============================================================
// Notification Table
// ============================================================

// Notification represents notifications table. Created only as a side
// effect of bill transitions; never mutated except the read flag, never
// deleted. UserID carries no foreign key check, a notification to an
// unknown recipient is accepted.
type Notification struct {
	ID            uint                    `gorm:"primaryKey" json:"id"`
	UserID        uint                    `gorm:"not null;index" json:"user_id"`
	Title         string                  `gorm:"size:200;not null" json:"title"`
	Message       string                  `gorm:"type:text;not null" json:"message"`
	Type          domain.NotificationType `gorm:"size:10;not null" json:"type"`
	IsRead        bool                    `gorm:"not null;default:false" json:"is_read"`
	RelatedBillID *uint                   `json:"related_bill_id,omitempty"`
	CreatedAt     time.Time               `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Team{},
		&TeamMember{},
		&Branch{},
		&Bill{},
		&Notification{},
	)
}
