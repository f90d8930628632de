package services

import (
	"context"
	"testing"
	"time"

	"teamfund/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyAndList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, "Bob", "bob@example.com")
	other := env.createUser(t, "Carol", "carol@example.com")

	_, err := env.notify.Notify(ctx, user.ID, "First", "first message", domain.NotifyInfo, nil)
	require.NoError(t, err)
	billID := uint(42)
	_, err = env.notify.Notify(ctx, user.ID, "Second", "second message", domain.NotifySuccess, &billID)
	require.NoError(t, err)
	_, err = env.notify.Notify(ctx, other.ID, "Elsewhere", "not yours", domain.NotifyInfo, nil)
	require.NoError(t, err)

	out, err := env.notify.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, out.Notifications, 2)
	assert.EqualValues(t, 2, out.UnreadCount)

	// Newest first
	assert.Equal(t, "Second", out.Notifications[0].Title)
	assert.Equal(t, "First", out.Notifications[1].Title)
	require.NotNil(t, out.Notifications[0].RelatedBillID)
	assert.EqualValues(t, 42, *out.Notifications[0].RelatedBillID)
}

func TestNotifyUnknownRecipient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Recipients are not validated, a notification to a user id that
	// does not resolve is stored and simply never listed by anyone real
	_, err := env.notify.Notify(ctx, 9999, "Orphan", "nobody home", domain.NotifyInfo, nil)
	require.NoError(t, err)

	out, err := env.notify.ListForUser(ctx, 9999)
	require.NoError(t, err)
	assert.Len(t, out.Notifications, 1)
}

func TestMarkAllRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, "Bob", "bob@example.com")
	other := env.createUser(t, "Carol", "carol@example.com")

	for i := 0; i < 3; i++ {
		_, err := env.notify.Notify(ctx, user.ID, "Ping", "msg", domain.NotifyInfo, nil)
		require.NoError(t, err)
	}
	_, err := env.notify.Notify(ctx, other.ID, "Ping", "msg", domain.NotifyInfo, nil)
	require.NoError(t, err)

	require.NoError(t, env.notify.MarkAllRead(ctx, user.ID))

	out, err := env.notify.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, out.UnreadCount)
	for _, n := range out.Notifications {
		assert.True(t, n.IsRead)
	}

	// Other users' notifications are untouched
	out, err = env.notify.ListForUser(ctx, other.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, out.UnreadCount)

	// Idempotent
	require.NoError(t, env.notify.MarkAllRead(ctx, user.ID))
	require.NoError(t, env.notify.MarkAllRead(ctx, 9999))
}

func TestSubscribe(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, "Bob", "bob@example.com")

	sub := env.notify.Subscribe(user.ID)
	defer env.notify.Unsubscribe(user.ID, sub)

	_, err := env.notify.Notify(ctx, user.ID, "Live", "streamed", domain.NotifyInfo, nil)
	require.NoError(t, err)

	select {
	case n := <-sub:
		assert.Equal(t, "Live", n.Title)
	case <-time.After(time.Second):
		t.Fatal("expected a pushed notification")
	}

	// Other users' events are not delivered here
	_, err = env.notify.Notify(ctx, user.ID+1, "NotYours", "other", domain.NotifyInfo, nil)
	require.NoError(t, err)

	select {
	case n := <-sub:
		t.Fatalf("unexpected notification: %s", n.Title)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	env := newTestEnv(t)

	sub := env.notify.Subscribe(7)
	env.notify.Unsubscribe(7, sub)

	_, open := <-sub
	assert.False(t, open)
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sub := env.notify.Subscribe(7)
	defer env.notify.Unsubscribe(7, sub)

	// Overflow the buffer without consuming, Notify must not block and
	// every record must still be stored
	for i := 0; i < subscriberBuffer+5; i++ {
		_, err := env.notify.Notify(ctx, 7, "Burst", "msg", domain.NotifyInfo, nil)
		require.NoError(t, err)
	}

	out, err := env.notify.ListForUser(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, out.Notifications, subscriberBuffer+5)
	assert.Len(t, sub, subscriberBuffer)
}
