package services

import (
	"context"

	"teamfund/internal/adapters/persistence/models"
	"teamfund/internal/adapters/persistence/repositories"
	"teamfund/internal/core/domain"

	"gorm.io/gorm"
)

// DashboardService aggregates team spending statistics
type DashboardService struct {
	db       *gorm.DB
	teamRepo *repositories.TeamRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB, teamRepo *repositories.TeamRepository) *DashboardService {
	return &DashboardService{
		db:       db,
		teamRepo: teamRepo,
	}
}

// TeamStats represents the dashboard summary for a team
type TeamStats struct {
	TotalAmount    float64                `json:"total_amount"`
	PendingAmount  float64                `json:"pending_amount"`
	PaidAmount     float64                `json:"paid_amount"`
	PendingCount   int64                  `json:"pending_count"`
	RejectedCount  int64                  `json:"rejected_count"`
	PaidCount      int64                  `json:"paid_count"`
	CategoryTotals map[string]float64     `json:"category_totals"`
	StatusCounts   map[string]int64       `json:"status_counts"`
	RecentBills    []*models.BillResponse `json:"recent_bills"`
}

type statusAggregate struct {
	Status domain.BillStatus
	Count  int64
	Total  float64
}

type categoryAggregate struct {
	Category domain.BillCategory
	Total    float64
}

// GetTeamStats computes the dashboard summary for a team. Only team
// members may view it.
func (s *DashboardService) GetTeamStats(ctx context.Context, teamID, callerID uint) (*TeamStats, error) {
	isMember, err := s.teamRepo.IsMember(ctx, teamID, callerID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotTeamMember
	}

	stats := &TeamStats{
		CategoryTotals: make(map[string]float64),
		StatusCounts:   make(map[string]int64),
	}

	var byStatus []statusAggregate
	err = s.db.WithContext(ctx).
		Model(&models.Bill{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("team_id = ?", teamID).
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, err
	}

	for _, agg := range byStatus {
		stats.TotalAmount += agg.Total
		stats.StatusCounts[string(agg.Status)] = agg.Count

		switch agg.Status {
		case domain.BillStatusPending:
			stats.PendingAmount = agg.Total
			stats.PendingCount = agg.Count
		case domain.BillStatusRejected:
			stats.RejectedCount = agg.Count
		case domain.BillStatusPaid:
			stats.PaidAmount = agg.Total
			stats.PaidCount = agg.Count
		}
	}

	var byCategory []categoryAggregate
	err = s.db.WithContext(ctx).
		Model(&models.Bill{}).
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Where("team_id = ?", teamID).
		Group("category").
		Scan(&byCategory).Error
	if err != nil {
		return nil, err
	}

	for _, agg := range byCategory {
		stats.CategoryTotals[string(agg.Category)] = agg.Total
	}

	var recent []models.Bill
	err = s.db.WithContext(ctx).
		Preload("Submitter").
		Preload("Branch").
		Where("team_id = ?", teamID).
		Order("created_at DESC, id DESC").
		Limit(10).
		Find(&recent).Error
	if err != nil {
		return nil, err
	}

	stats.RecentBills = make([]*models.BillResponse, 0, len(recent))
	for i := range recent {
		stats.RecentBills = append(stats.RecentBills, recent[i].ToResponse())
	}

	return stats, nil
}
