package services

import (
	"context"
	"testing"

	"teamfund/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTeamStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.createUser(t, "Alice", "alice@example.com")
	member := env.createUser(t, "Bob", "bob@example.com")
	team := env.createTeam(t, "Field Ops", "secret123", admin.ID)
	_, err := env.teams.JoinTeam(ctx, member.ID, "Field Ops", "secret123")
	require.NoError(t, err)
	branch := env.createBranch(t, team.ID, admin.ID, "North Office")

	submit := func(title string, amount float64, category domain.BillCategory) uint {
		bill, err := env.bills.Submit(ctx, &SubmitBillInput{
			TeamID:   team.ID,
			Title:    title,
			Amount:   amount,
			Category: category,
			BranchID: branch.ID,
		}, member.ID)
		require.NoError(t, err)
		return bill.ID
	}

	lunch := submit("Lunch", 50, domain.CategoryFood)
	fuel := submit("Fuel", 120, domain.CategoryPetrol)
	submit("Parking", 30, domain.CategoryTravel)

	_, err = env.bills.MarkPaid(ctx, fuel, &PaymentDetails{ScreenshotURL: "https://img/p.png"}, admin.ID)
	require.NoError(t, err)
	_, err = env.bills.Reject(ctx, lunch, "over budget", admin.ID)
	require.NoError(t, err)

	stats, err := env.dashboard.GetTeamStats(ctx, team.ID, member.ID)
	require.NoError(t, err)

	assert.InDelta(t, 200, stats.TotalAmount, 0.001)
	assert.InDelta(t, 30, stats.PendingAmount, 0.001)
	assert.InDelta(t, 120, stats.PaidAmount, 0.001)
	assert.EqualValues(t, 1, stats.PendingCount)
	assert.EqualValues(t, 1, stats.RejectedCount)
	assert.EqualValues(t, 1, stats.PaidCount)

	assert.InDelta(t, 50, stats.CategoryTotals["Food"], 0.001)
	assert.InDelta(t, 120, stats.CategoryTotals["Petrol"], 0.001)
	assert.InDelta(t, 30, stats.CategoryTotals["Travel"], 0.001)

	assert.EqualValues(t, 1, stats.StatusCounts["PENDING"])
	assert.EqualValues(t, 1, stats.StatusCounts["REJECTED"])
	assert.EqualValues(t, 1, stats.StatusCounts["PAID"])

	require.Len(t, stats.RecentBills, 3)
	assert.Equal(t, "Parking", stats.RecentBills[0].Title)
}

func TestGetTeamStatsEmptyTeam(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.createUser(t, "Alice", "alice@example.com")
	team := env.createTeam(t, "Field Ops", "secret123", admin.ID)

	stats, err := env.dashboard.GetTeamStats(ctx, team.ID, admin.ID)
	require.NoError(t, err)

	assert.Zero(t, stats.TotalAmount)
	assert.Zero(t, stats.PendingCount)
	assert.Empty(t, stats.CategoryTotals)
	assert.Empty(t, stats.RecentBills)
}

func TestGetTeamStatsMemberOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.createUser(t, "Alice", "alice@example.com")
	outsider := env.createUser(t, "Eve", "eve@example.com")
	team := env.createTeam(t, "Field Ops", "secret123", admin.ID)

	_, err := env.dashboard.GetTeamStats(ctx, team.ID, outsider.ID)
	assert.ErrorIs(t, err, ErrNotTeamMember)
}

func TestGetTeamStatsRecentBillsCap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.createUser(t, "Alice", "alice@example.com")
	team := env.createTeam(t, "Field Ops", "secret123", admin.ID)
	branch := env.createBranch(t, team.ID, admin.ID, "North Office")

	for i := 0; i < 12; i++ {
		_, err := env.bills.Submit(ctx, &SubmitBillInput{
			TeamID:   team.ID,
			Title:    "Bill",
			Amount:   1,
			Category: domain.CategoryOther,
			BranchID: branch.ID,
		}, admin.ID)
		require.NoError(t, err)
	}

	stats, err := env.dashboard.GetTeamStats(ctx, team.ID, admin.ID)
	require.NoError(t, err)
	assert.Len(t, stats.RecentBills, 10)
	assert.EqualValues(t, 12, stats.StatusCounts["PENDING"])
}
