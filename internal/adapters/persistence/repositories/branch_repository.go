package repositories

import (
	"context"

	"teamfund/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// BranchRepository handles branch data access
type BranchRepository struct {
	db *gorm.DB
}

// NewBranchRepository creates a new branch repository
func NewBranchRepository(db *gorm.DB) *BranchRepository {
	return &BranchRepository{db: db}
}

// Create creates a new branch
func (r *BranchRepository) Create(ctx context.Context, branch *models.Branch) error {
	return r.db.WithContext(ctx).Create(branch).Error
}

// GetByID gets a branch by ID
func (r *BranchRepository) GetByID(ctx context.Context, id uint) (*models.Branch, error) {
	var branch models.Branch
	err := r.db.WithContext(ctx).First(&branch, id).Error
	if err != nil {
		return nil, err
	}
	return &branch, nil
}

// ListByTeam lists branches of a team, oldest first
func (r *BranchRepository) ListByTeam(ctx context.Context, teamID uint) ([]*models.Branch, error) {
	var branches []*models.Branch
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("id ASC").
		Find(&branches).Error
	return branches, err
}
