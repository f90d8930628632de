package handlers

import (
	"errors"
	"strings"

	"teamfund/internal/core/domain"
	"teamfund/internal/core/services"
	"teamfund/internal/pkg/pagination"
	"teamfund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BillHandler handles bill lifecycle endpoints
type BillHandler struct {
	billService *services.BillService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billService *services.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// RejectBillRequest represents rejection request body
type RejectBillRequest struct {
	Reason string `json:"reason"`
}

// Submit handles bill submission
// @Summary Submit bill
// @Description Submit a new expense bill for reimbursement
// @Tags Bills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SubmitBillInput true "Bill data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /bills [post]
func (h *BillHandler) Submit(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.SubmitBillInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	bill, err := h.billService.Submit(c.Context(), &req, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBillTitleRequired):
			return response.BadRequest(c, "Bill title is required")
		case errors.Is(err, services.ErrInvalidAmount):
			return response.BadRequest(c, "Amount must be greater than zero")
		case errors.Is(err, services.ErrInvalidCategory):
			return response.BadRequest(c, "Invalid bill category")
		case errors.Is(err, services.ErrBranchRequired):
			return response.BadRequest(c, "Branch is required")
		case errors.Is(err, services.ErrBranchNotFound):
			return response.BadRequest(c, "Branch does not belong to this team")
		case errors.Is(err, services.ErrTeamNotFound):
			return response.NotFound(c, "Team not found")
		case errors.Is(err, services.ErrNotTeamMember):
			return response.Forbidden(c, "You are not a member of this team")
		default:
			return response.InternalServerError(c, "Failed to submit bill")
		}
	}

	return response.Created(c, "Bill submitted successfully", bill.ToResponse())
}

// List returns a team's bills with pagination and optional status filter
// @Summary List team bills
// @Description List a team's bills, newest first, members only
// @Tags Bills
// @Produce json
// @Security BearerAuth
// @Param team_id query int true "Team ID"
// @Param status query string false "Filter by status"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /bills [get]
func (h *BillHandler) List(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	teamID := c.QueryInt("team_id")
	if teamID <= 0 {
		return response.BadRequest(c, "team_id query parameter is required")
	}

	var status *domain.BillStatus
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		s := domain.BillStatus(strings.ToUpper(raw))
		switch s {
		case domain.BillStatusPending, domain.BillStatusApproved, domain.BillStatusRejected, domain.BillStatusPaid:
			status = &s
		default:
			return response.BadRequest(c, "Invalid status filter")
		}
	}

	params := pagination.GetParams(c)

	bills, total, err := h.billService.List(c.Context(), uint(teamID), status, params.Offset, params.Limit, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotTeamMember):
			return response.Forbidden(c, "You are not a member of this team")
		default:
			return response.InternalServerError(c, "Failed to list bills")
		}
	}

	result := make([]interface{}, 0, len(bills))
	for _, b := range bills {
		result = append(result, b.ToResponse())
	}

	return response.Success(c, "Bills retrieved successfully", fiber.Map{
		"bills":      result,
		"pagination": pagination.GetMeta(params, total),
	})
}

// ListMine returns the caller's own bills across all teams
// @Summary List my bills
// @Description List all bills submitted by the caller, newest first
// @Tags Bills
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /bills/mine [get]
func (h *BillHandler) ListMine(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	bills, err := h.billService.ListMine(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list bills")
	}

	result := make([]interface{}, 0, len(bills))
	for _, b := range bills {
		result = append(result, b.ToResponse())
	}

	return response.Success(c, "Bills retrieved successfully", result)
}

// Get returns a single bill
// @Summary Get bill
// @Description Get a bill by ID, team members only
// @Tags Bills
// @Produce json
// @Security BearerAuth
// @Param id path int true "Bill ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /bills/{id} [get]
func (h *BillHandler) Get(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	billID, err := c.ParamsInt("id")
	if err != nil || billID <= 0 {
		return response.BadRequest(c, "Invalid bill ID")
	}

	bill, err := h.billService.GetByID(c.Context(), uint(billID), userID)
	if err != nil {
		return h.billError(c, err, "Failed to get bill")
	}

	return response.Success(c, "Bill retrieved successfully", bill.ToResponse())
}

// Reject handles bill rejection
// @Summary Reject bill
// @Description Reject a pending bill with a reason, admin only
// @Tags Bills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Bill ID"
// @Param body body RejectBillRequest true "Rejection reason"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /bills/{id}/reject [post]
func (h *BillHandler) Reject(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	billID, err := c.ParamsInt("id")
	if err != nil || billID <= 0 {
		return response.BadRequest(c, "Invalid bill ID")
	}

	var req RejectBillRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	bill, err := h.billService.Reject(c.Context(), uint(billID), req.Reason, userID)
	if err != nil {
		return h.billError(c, err, "Failed to reject bill")
	}

	return response.Success(c, "Bill rejected", bill.ToResponse())
}

// Pay handles marking a bill as paid
// @Summary Mark bill paid
// @Description Mark a pending bill as paid with payment evidence, admin only
// @Tags Bills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Bill ID"
// @Param body body services.PaymentDetails true "Payment evidence"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /bills/{id}/pay [post]
func (h *BillHandler) Pay(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	billID, err := c.ParamsInt("id")
	if err != nil || billID <= 0 {
		return response.BadRequest(c, "Invalid bill ID")
	}

	var req services.PaymentDetails
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	bill, err := h.billService.MarkPaid(c.Context(), uint(billID), &req, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrScreenshotRequired):
			return response.BadRequest(c, "Payment screenshot is required")
		case errors.Is(err, services.ErrInvalidPaymentMethod):
			return response.BadRequest(c, "Invalid payment method")
		default:
			return h.billError(c, err, "Failed to mark bill paid")
		}
	}

	return response.Success(c, "Bill marked as paid", bill.ToResponse())
}

// billError maps common bill service errors to HTTP responses
func (h *BillHandler) billError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrBillNotFound):
		return response.NotFound(c, "Bill not found")
	case errors.Is(err, services.ErrBillNotPending):
		return response.Conflict(c, "Bill is no longer pending")
	case errors.Is(err, services.ErrNotTeamMember):
		return response.Forbidden(c, "You are not a member of this team")
	case errors.Is(err, services.ErrNotTeamAdmin):
		return response.Forbidden(c, "Only the team admin can do this")
	default:
		return response.InternalServerError(c, fallback)
	}
}
