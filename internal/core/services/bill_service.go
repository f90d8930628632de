package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"teamfund/internal/adapters/persistence/models"
	"teamfund/internal/adapters/persistence/repositories"
	"teamfund/internal/core/domain"

	"gorm.io/gorm"
)

// Bill lifecycle errors
var (
	ErrBillNotFound         = errors.New("bill not found")
	ErrBillNotPending       = errors.New("bill is no longer pending")
	ErrBillTitleRequired    = errors.New("bill title is required")
	ErrInvalidAmount        = errors.New("amount must be greater than 0")
	ErrInvalidCategory      = errors.New("invalid bill category")
	ErrBranchRequired       = errors.New("branch is required")
	ErrScreenshotRequired   = errors.New("payment screenshot is required")
	ErrInvalidPaymentMethod = errors.New("payment method must be UPI or BANK")
)

// BillService enforces the bill state machine: PENDING → REJECTED | PAID.
// REJECTED and PAID are terminal. Transitions are applied with a
// status-guarded update so two admins acting at once cannot both win.
type BillService struct {
	billRepo      *repositories.BillRepository
	branchRepo    *repositories.BranchRepository
	teamRepo      *repositories.TeamRepository
	userRepo      repositories.UserRepository
	notifyService *NotificationService
}

// NewBillService creates a new bill service
func NewBillService(
	billRepo *repositories.BillRepository,
	branchRepo *repositories.BranchRepository,
	teamRepo *repositories.TeamRepository,
	userRepo repositories.UserRepository,
	notifyService *NotificationService,
) *BillService {
	return &BillService{
		billRepo:      billRepo,
		branchRepo:    branchRepo,
		teamRepo:      teamRepo,
		userRepo:      userRepo,
		notifyService: notifyService,
	}
}

// SubmitBillInput represents bill submission input
type SubmitBillInput struct {
	TeamID      uint                `json:"team_id"`
	Title       string              `json:"title"`
	Amount      float64             `json:"amount"`
	Category    domain.BillCategory `json:"category"`
	Description string              `json:"description,omitempty"`
	ImageURL    string              `json:"image_url,omitempty"`
	BranchID    uint                `json:"branch_id"`
}

// Submit creates a PENDING bill and notifies the team's admin
func (s *BillService) Submit(ctx context.Context, input *SubmitBillInput, submitterID uint) (*models.Bill, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrBillTitleRequired
	}
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if input.BranchID == 0 {
		return nil, ErrBranchRequired
	}

	category := input.Category
	if category == "" {
		category = domain.CategoryOther
	}
	if !category.IsValid() {
		return nil, ErrInvalidCategory
	}

	team, err := s.teamRepo.GetByID(ctx, input.TeamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	isMember, err := s.teamRepo.IsMember(ctx, input.TeamID, submitterID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotTeamMember
	}

	branch, err := s.branchRepo.GetByID(ctx, input.BranchID)
	if err != nil || branch.TeamID != input.TeamID {
		return nil, ErrBranchNotFound
	}

	submitter, err := s.userRepo.GetByID(ctx, submitterID)
	if err != nil {
		return nil, err
	}

	bill := &models.Bill{
		TeamID:      input.TeamID,
		UserID:      submitterID,
		UserName:    submitter.Name, // display snapshot, survives renames
		Title:       strings.TrimSpace(input.Title),
		Amount:      input.Amount,
		Category:    category,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		BranchID:    input.BranchID,
		Status:      domain.BillStatusPending,
		Version:     1,
	}

	if err := s.billRepo.Create(ctx, bill); err != nil {
		return nil, err
	}

	s.notify(ctx, team.AdminID,
		"New Expense Request",
		fmt.Sprintf("%s uploaded a new bill for $%s.", submitter.Name, formatAmount(bill.Amount)),
		domain.NotifyInfo,
		bill.ID,
	)

	return bill, nil
}

// Reject transitions a PENDING bill to REJECTED and notifies the
// submitter. The reason is stored verbatim and may be empty.
func (s *BillService) Reject(ctx context.Context, billID uint, reason string, callerID uint) (*models.Bill, error) {
	bill, err := s.getForTransition(ctx, billID, callerID)
	if err != nil {
		return nil, err
	}

	rows, err := s.billRepo.TransitionFromPending(ctx, billID, map[string]interface{}{
		"status":           domain.BillStatusRejected,
		"rejection_reason": reason,
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrBillNotPending
	}

	displayReason := reason
	if displayReason == "" {
		displayReason = "N/A"
	}

	s.notify(ctx, bill.UserID,
		"Bill Rejected",
		fmt.Sprintf("Your expense %q was rejected. Reason: %s", bill.Title, displayReason),
		domain.NotifyWarning,
		bill.ID,
	)

	return s.billRepo.GetByID(ctx, billID)
}

// PaymentDetails represents the admin's payment attestation. The
// screenshot is the only hard precondition; transaction id and method
// are kept only when supplied.
type PaymentDetails struct {
	TransactionID string `json:"transaction_id,omitempty"`
	ScreenshotURL string `json:"screenshot_url"`
	PaymentMethod string `json:"payment_method,omitempty"`
}

// MarkPaid transitions a PENDING bill to PAID with the supplied payment
// evidence and notifies the submitter. Payment is a manual attestation,
// not a verified transfer; the record is the audit trail.
func (s *BillService) MarkPaid(ctx context.Context, billID uint, details *PaymentDetails, callerID uint) (*models.Bill, error) {
	if details == nil || strings.TrimSpace(details.ScreenshotURL) == "" {
		return nil, ErrScreenshotRequired
	}

	var method *domain.PaymentMethod
	if details.PaymentMethod != "" {
		m := domain.PaymentMethod(details.PaymentMethod)
		if !m.IsValid() {
			return nil, ErrInvalidPaymentMethod
		}
		method = &m
	}

	bill, err := s.getForTransition(ctx, billID, callerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status":                 domain.BillStatusPaid,
		"paid_at":                time.Now(),
		"payment_screenshot_url": details.ScreenshotURL,
	}
	if details.TransactionID != "" {
		updates["transaction_id"] = details.TransactionID
	}
	if method != nil {
		updates["payment_method"] = *method
	}

	rows, err := s.billRepo.TransitionFromPending(ctx, billID, updates)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrBillNotPending
	}

	methodName := "Bank Transfer"
	if method != nil {
		methodName = method.Display()
	}

	s.notify(ctx, bill.UserID,
		"Bill Paid!",
		fmt.Sprintf("Your expense %q ($%s) has been paid via %s.", bill.Title, formatAmount(bill.Amount), methodName),
		domain.NotifySuccess,
		bill.ID,
	)

	return s.billRepo.GetByID(ctx, billID)
}

// GetByID gets a bill, restricted to members of its team
func (s *BillService) GetByID(ctx context.Context, billID, callerID uint) (*models.Bill, error) {
	bill, err := s.billRepo.GetByID(ctx, billID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBillNotFound
		}
		return nil, err
	}

	isMember, err := s.teamRepo.IsMember(ctx, bill.TeamID, callerID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotTeamMember
	}

	return bill, nil
}

// List lists a team's bills newest-first with an optional status filter
func (s *BillService) List(ctx context.Context, teamID uint, status *domain.BillStatus, offset, limit int, callerID uint) ([]*models.Bill, int64, error) {
	isMember, err := s.teamRepo.IsMember(ctx, teamID, callerID)
	if err != nil {
		return nil, 0, err
	}
	if !isMember {
		return nil, 0, ErrNotTeamMember
	}

	return s.billRepo.ListByTeam(ctx, teamID, status, offset, limit)
}

// ListMine lists the caller's own bills newest-first
func (s *BillService) ListMine(ctx context.Context, userID uint) ([]*models.Bill, error) {
	return s.billRepo.ListByUser(ctx, userID)
}

// getForTransition loads a bill and checks the caller is the admin of
// its team. Only the team admin may transition a bill, so the submitter
// cannot self-approve.
func (s *BillService) getForTransition(ctx context.Context, billID, callerID uint) (*models.Bill, error) {
	bill, err := s.billRepo.GetByID(ctx, billID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBillNotFound
		}
		return nil, err
	}

	team, err := s.teamRepo.GetByID(ctx, bill.TeamID)
	if err != nil {
		return nil, err
	}
	if team.AdminID != callerID {
		return nil, ErrNotTeamAdmin
	}

	return bill, nil
}

// notify dispatches fire-and-forget: a failed dispatch never fails the
// transition that triggered it
func (s *BillService) notify(ctx context.Context, userID uint, title, message string, notifType domain.NotificationType, billID uint) {
	related := billID
	if _, err := s.notifyService.Notify(ctx, userID, title, message, notifType, &related); err != nil {
		log.Printf("⚠️ Notification dispatch failed for user %d: %v", userID, err)
	}
}

// formatAmount renders an amount the way the UI shows it: no trailing
// zeros, no thousands separators
func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
