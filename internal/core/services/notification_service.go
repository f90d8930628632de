package services

import (
	"context"
	"sync"

	"teamfund/internal/adapters/persistence/models"
	"teamfund/internal/adapters/persistence/repositories"
	"teamfund/internal/core/domain"
)

// subscriberBuffer is the per-subscriber channel capacity. A slow
// consumer loses pushes, not records; the stored list stays complete.
const subscriberBuffer = 16

// NotificationService creates and serves per-user notification records
// and fans lifecycle events out to live subscribers.
type NotificationService struct {
	notificationRepo *repositories.NotificationRepository

	mu          sync.Mutex
	subscribers map[uint][]chan *models.Notification
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo *repositories.NotificationRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		subscribers:      make(map[uint][]chan *models.Notification),
	}
}

// Notify appends a notification record for exactly one recipient and
// pushes it to any live subscribers. The recipient is not validated
// against the user table.
func (s *NotificationService) Notify(ctx context.Context, userID uint, title, message string, notifType domain.NotificationType, relatedBillID *uint) (*models.Notification, error) {
	notification := &models.Notification{
		UserID:        userID,
		Title:         title,
		Message:       message,
		Type:          notifType,
		IsRead:        false,
		RelatedBillID: relatedBillID,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, err
	}

	s.publish(notification)

	return notification, nil
}

// ListNotificationsOutput represents a user's notification listing
type ListNotificationsOutput struct {
	Notifications []*models.Notification `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}

// ListForUser returns all notifications for the recipient, newest first
func (s *NotificationService) ListForUser(ctx context.Context, userID uint) (*ListNotificationsOutput, error) {
	notifications, err := s.notificationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	unread, err := s.notificationRepo.CountUnreadByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ListNotificationsOutput{
		Notifications: notifications,
		UnreadCount:   unread,
	}, nil
}

// MarkAllRead flips the read flag on every notification of the user.
// Re-invoking when all are already read is a no-op.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

// Subscribe registers a live event stream for the user. The caller must
// Unsubscribe when done.
func (s *NotificationService) Subscribe(userID uint) <-chan *models.Notification {
	ch := make(chan *models.Notification, subscriberBuffer)

	s.mu.Lock()
	s.subscribers[userID] = append(s.subscribers[userID], ch)
	s.mu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel
func (s *NotificationService) Unsubscribe(userID uint, sub <-chan *models.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	channels := s.subscribers[userID]
	for i, ch := range channels {
		if ch == sub {
			s.subscribers[userID] = append(channels[:i], channels[i+1:]...)
			close(ch)
			break
		}
	}
	if len(s.subscribers[userID]) == 0 {
		delete(s.subscribers, userID)
	}
}

// publish delivers a notification to the recipient's live subscribers
// without blocking on slow consumers
func (s *NotificationService) publish(notification *models.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subscribers[notification.UserID] {
		select {
		case ch <- notification:
		default:
		}
	}
}
