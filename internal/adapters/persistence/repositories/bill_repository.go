package repositories

import (
	"context"

	"teamfund/internal/adapters/persistence/models"
	"teamfund/internal/core/domain"

	"gorm.io/gorm"
)

// BillRepository handles bill data access
type BillRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) *BillRepository {
	return &BillRepository{db: db}
}

// Create creates a new bill
func (r *BillRepository) Create(ctx context.Context, bill *models.Bill) error {
	return r.db.WithContext(ctx).Create(bill).Error
}

// GetByID gets a bill by ID with relations
func (r *BillRepository) GetByID(ctx context.Context, id uint) (*models.Bill, error) {
	var bill models.Bill
	err := r.db.WithContext(ctx).
		Preload("Submitter").
		Preload("Branch").
		First(&bill, id).Error
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

// ListByTeam lists a team's bills newest-first with pagination and an
// optional status filter
func (r *BillRepository) ListByTeam(ctx context.Context, teamID uint, status *domain.BillStatus, offset, limit int) ([]*models.Bill, int64, error) {
	var bills []*models.Bill
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Bill{}).Where("team_id = ?", teamID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Branch").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&bills).Error

	return bills, total, err
}

// ListByUser lists a user's own bills newest-first
func (r *BillRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Bill, error) {
	var bills []*models.Bill
	err := r.db.WithContext(ctx).
		Preload("Branch").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&bills).Error
	return bills, err
}

// TransitionFromPending applies the given field updates to a bill only
// while it is still PENDING, bumping its version in the same statement.
// Returns the number of rows touched: 0 means the bill is gone or no
// longer PENDING; the caller decides which.
func (r *BillRepository) TransitionFromPending(ctx context.Context, billID uint, updates map[string]interface{}) (int64, error) {
	updates["version"] = gorm.Expr("version + 1")
	res := r.db.WithContext(ctx).
		Model(&models.Bill{}).
		Where("id = ? AND status = ?", billID, domain.BillStatusPending).
		Updates(updates)
	return res.RowsAffected, res.Error
}
