package repositories

import (
	"context"

	"teamfund/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// TeamRepository handles team and membership data access
type TeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create creates a new team together with its initial admin membership row
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}
		member := &models.TeamMember{TeamID: team.ID, UserID: team.AdminID}
		if err := tx.Create(member).Error; err != nil {
			return err
		}
		team.Members = append(team.Members, *member)
		return nil
	})
}

// GetByID gets a team by ID with memberships
func (r *TeamRepository) GetByID(ctx context.Context, id uint) (*models.Team, error) {
	var team models.Team
	err := r.db.WithContext(ctx).Preload("Members").First(&team, id).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// GetByName gets all teams with the given name. Team names are not
// unique, so the join secret decides which one matches.
func (r *TeamRepository) GetByName(ctx context.Context, name string) ([]*models.Team, error) {
	var teams []*models.Team
	err := r.db.WithContext(ctx).Preload("Members").Where("name = ?", name).Find(&teams).Error
	return teams, err
}

// AddMember appends a membership row. Joining twice is a no-op.
func (r *TeamRepository) AddMember(ctx context.Context, teamID, userID uint) error {
	member := &models.TeamMember{TeamID: teamID, UserID: userID}
	return r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		FirstOrCreate(member).Error
}

// IsMember checks whether the user belongs to the team
func (r *TeamRepository) IsMember(ctx context.Context, teamID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	return count > 0, err
}

// MemberIDs returns the user IDs of all team members in join order
func (r *TeamRepository) MemberIDs(ctx context.Context, teamID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.TeamMember{}).
		Where("team_id = ?", teamID).
		Order("id ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}

// ListByMember lists the teams a user belongs to
func (r *TeamRepository) ListByMember(ctx context.Context, userID uint) ([]*models.Team, error) {
	var teams []*models.Team
	err := r.db.WithContext(ctx).
		Preload("Members").
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", userID).
		Order("teams.created_at DESC").
		Find(&teams).Error
	return teams, err
}
