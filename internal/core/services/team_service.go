package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"teamfund/internal/adapters/persistence/models"
	"teamfund/internal/adapters/persistence/repositories"
	"teamfund/internal/pkg/password"

	"gorm.io/gorm"
)

// Directory errors
var (
	ErrTeamNotFound           = errors.New("team not found")
	ErrTeamNameRequired       = errors.New("team name is required")
	ErrJoinPasswordRequired   = errors.New("join password is required")
	ErrInvalidTeamCredentials = errors.New("invalid team name or password")
	ErrNotTeamMember          = errors.New("user is not a member of the team")
	ErrNotTeamAdmin           = errors.New("only the team admin may perform this action")
	ErrBranchNameRequired     = errors.New("branch name is required")
	ErrBranchNotFound         = errors.New("branch not found")
)

// TeamService handles the team/branch directory
type TeamService struct {
	teamRepo   *repositories.TeamRepository
	branchRepo *repositories.BranchRepository
	userRepo   repositories.UserRepository
}

// NewTeamService creates a new team service
func NewTeamService(
	teamRepo *repositories.TeamRepository,
	branchRepo *repositories.BranchRepository,
	userRepo repositories.UserRepository,
) *TeamService {
	return &TeamService{
		teamRepo:   teamRepo,
		branchRepo: branchRepo,
		userRepo:   userRepo,
	}
}

// CreateTeamInput represents create team input
type CreateTeamInput struct {
	Name         string `json:"name"`
	JoinPassword string `json:"join_password"`
}

// CreateTeam creates a team with the creator as its sole initial member
// and permanent admin
func (s *TeamService) CreateTeam(ctx context.Context, input *CreateTeamInput, adminID uint) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}
	if input.JoinPassword == "" {
		return nil, ErrJoinPasswordRequired
	}

	// Admin must be an existing user
	if _, err := s.userRepo.GetByID(ctx, adminID); err != nil {
		return nil, ErrInvalidTeamCredentials
	}

	secretHash, err := password.Hash(input.JoinPassword)
	if err != nil {
		return nil, err
	}

	team := &models.Team{
		Name:         name,
		JoinPassword: secretHash,
		AdminID:      adminID,
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}

	log.Printf("✅ Team created: %s (admin: %d)", team.Name, adminID)
	return team, nil
}

// JoinTeam looks up a team by name and join secret and appends the user.
// Joining a team the user already belongs to is a no-op, not an error.
func (s *TeamService) JoinTeam(ctx context.Context, userID uint, name, joinPassword string) (*models.Team, error) {
	teams, err := s.teamRepo.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}

	var team *models.Team
	for _, t := range teams {
		if password.Verify(joinPassword, t.JoinPassword) {
			team = t
			break
		}
	}
	if team == nil {
		return nil, ErrInvalidTeamCredentials
	}

	if err := s.teamRepo.AddMember(ctx, team.ID, userID); err != nil {
		return nil, err
	}

	// Re-read so the response reflects the new membership
	return s.teamRepo.GetByID(ctx, team.ID)
}

// GetByID gets a team, restricted to its members
func (s *TeamService) GetByID(ctx context.Context, teamID, callerID uint) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	if err := s.requireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	return team, nil
}

// ListMyTeams lists the teams the caller belongs to
func (s *TeamService) ListMyTeams(ctx context.Context, userID uint) ([]*models.Team, error) {
	return s.teamRepo.ListByMember(ctx, userID)
}

// ListMembers resolves a team's member ids to full user records. Member
// rows pointing at users that no longer resolve are silently dropped.
func (s *TeamService) ListMembers(ctx context.Context, teamID, callerID uint) ([]*models.User, error) {
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	if err := s.requireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	ids, err := s.teamRepo.MemberIDs(ctx, teamID)
	if err != nil {
		return nil, err
	}

	return s.userRepo.GetByIDs(ctx, ids)
}

// AddBranchInput represents add branch input
type AddBranchInput struct {
	Name          string `json:"name"`
	HolderName    string `json:"holder_name"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`
	UPIID         string `json:"upi_id,omitempty"`
	ManagerName   string `json:"manager_name,omitempty"`
}

// AddBranch appends a payable branch to a team. Admin only. Branch
// names are not required to be unique within a team.
func (s *TeamService) AddBranch(ctx context.Context, teamID uint, input *AddBranchInput, callerID uint) (*models.Branch, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	if team.AdminID != callerID {
		return nil, ErrNotTeamAdmin
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrBranchNameRequired
	}

	branch := &models.Branch{
		TeamID:        teamID,
		Name:          strings.TrimSpace(input.Name),
		HolderName:    input.HolderName,
		AccountNumber: input.AccountNumber,
		IFSC:          input.IFSC,
		UPIID:         input.UPIID,
		ManagerName:   input.ManagerName,
	}

	if err := s.branchRepo.Create(ctx, branch); err != nil {
		return nil, err
	}

	return branch, nil
}

// ListBranches lists a team's branches, restricted to its members
func (s *TeamService) ListBranches(ctx context.Context, teamID, callerID uint) ([]*models.Branch, error) {
	if err := s.requireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}
	return s.branchRepo.ListByTeam(ctx, teamID)
}

// requireMember fails with ErrNotTeamMember unless the user belongs to
// the team
func (s *TeamService) requireMember(ctx context.Context, teamID, userID uint) error {
	ok, err := s.teamRepo.IsMember(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotTeamMember
	}
	return nil
}
