package services

import (
	"context"
	"path/filepath"
	"testing"

	"teamfund/internal/adapters/persistence/models"
	"teamfund/internal/adapters/persistence/repositories"
	"teamfund/internal/config"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway sqlite database and migrates the schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, models.AutoMigrate(db))

	return db
}

// testEnv bundles the repositories and services under test
type testEnv struct {
	db *gorm.DB

	userRepo  repositories.UserRepository
	teamRepo  *repositories.TeamRepository
	billRepo  *repositories.BillRepository
	notifRepo *repositories.NotificationRepository

	auth      *AuthService
	teams     *TeamService
	bills     *BillService
	notify    *NotificationService
	dashboard *DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)

	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	teamRepo := repositories.NewTeamRepository(db)
	branchRepo := repositories.NewBranchRepository(db)
	billRepo := repositories.NewBillRepository(db)
	notifRepo := repositories.NewNotificationRepository(db)

	cfg := &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}

	notify := NewNotificationService(notifRepo)

	return &testEnv{
		db:        db,
		userRepo:  userRepo,
		teamRepo:  teamRepo,
		billRepo:  billRepo,
		notifRepo: notifRepo,
		auth:      NewAuthService(userRepo, refreshTokenRepo, cfg),
		teams:     NewTeamService(teamRepo, branchRepo, userRepo),
		bills:     NewBillService(billRepo, branchRepo, teamRepo, userRepo, notify),
		notify:    notify,
		dashboard: NewDashboardService(db, teamRepo),
	}
}

// createUser inserts a user directly, bypassing registration
func (e *testEnv) createUser(t *testing.T, name, email string) *models.User {
	t.Helper()

	user := &models.User{Name: name, Email: email, Password: "x"}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

// createTeam creates a team through the service so the admin membership
// row and hashed join password are in place
func (e *testEnv) createTeam(t *testing.T, name, joinPassword string, adminID uint) *models.Team {
	t.Helper()

	team, err := e.teams.CreateTeam(context.Background(), &CreateTeamInput{
		Name:         name,
		JoinPassword: joinPassword,
	}, adminID)
	require.NoError(t, err)
	return team
}

// createBranch adds a branch as the team admin
func (e *testEnv) createBranch(t *testing.T, teamID, adminID uint, name string) *models.Branch {
	t.Helper()

	branch, err := e.teams.AddBranch(context.Background(), teamID, &AddBranchInput{
		Name:          name,
		HolderName:    "Holder",
		AccountNumber: "1234567890",
		IFSC:          "TEST0001",
	}, adminID)
	require.NoError(t, err)
	return branch
}
