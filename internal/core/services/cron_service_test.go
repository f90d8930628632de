package services

import (
	"context"
	"testing"
	"time"

	"teamfund/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemindStalePendingBills(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.createUser(t, "Alice", "alice@example.com")
	member := env.createUser(t, "Bob", "bob@example.com")
	team := env.createTeam(t, "Field Ops", "secret123", admin.ID)
	_, err := env.teams.JoinTeam(ctx, member.ID, "Field Ops", "secret123")
	require.NoError(t, err)
	branch := env.createBranch(t, team.ID, admin.ID, "North Office")

	submit := func(title string, amount float64) uint {
		bill, err := env.bills.Submit(ctx, &SubmitBillInput{
			TeamID:   team.ID,
			Title:    title,
			Amount:   amount,
			Category: domain.CategoryOther,
			BranchID: branch.ID,
		}, member.ID)
		require.NoError(t, err)
		return bill.ID
	}

	stale1 := submit("Old one", 40)
	stale2 := submit("Old two", 60)
	rejected := submit("Old rejected", 99)
	submit("Fresh", 10)

	// Backdate three bills past the reminder threshold
	old := time.Now().Add(-72 * time.Hour)
	for _, id := range []uint{stale1, stale2, rejected} {
		require.NoError(t, env.db.Exec("UPDATE bills SET created_at = ? WHERE id = ?", old, id).Error)
	}
	// Terminal bills are not reminded about
	_, err = env.bills.Reject(ctx, rejected, "dup", admin.ID)
	require.NoError(t, err)

	// Clear the submission notifications so only the reminder remains
	require.NoError(t, env.db.Exec("DELETE FROM notifications").Error)

	cronSvc := NewCronService(env.db, env.notify)
	require.NoError(t, cronSvc.RemindStalePendingBills(ctx))

	out, err := env.notify.ListForUser(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, out.Notifications, 1)
	assert.Equal(t, "Pending Bills Reminder", out.Notifications[0].Title)
	assert.Equal(t, domain.NotifyWarning, out.Notifications[0].Type)
	assert.Contains(t, out.Notifications[0].Message, "2 pending bill(s)")
	assert.Contains(t, out.Notifications[0].Message, "100")

	// The submitter is not the reminder audience
	out, err = env.notify.ListForUser(ctx, member.ID)
	require.NoError(t, err)
	assert.Empty(t, out.Notifications)
}

func TestRemindStalePendingBillsNothingStale(t *testing.T) {
	env := newTestEnv(t)

	cronSvc := NewCronService(env.db, env.notify)
	require.NoError(t, cronSvc.RemindStalePendingBills(context.Background()))

	out, err := env.notify.ListForUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, out.Notifications)
}
