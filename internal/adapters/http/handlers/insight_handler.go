package handlers

import (
	"errors"
	"strings"

	"teamfund/internal/core/services"
	"teamfund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// InsightHandler handles AI insight endpoints
type InsightHandler struct {
	insightService *services.InsightService
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(insightService *services.InsightService) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// AnalyzeRequest represents an analysis question
type AnalyzeRequest struct {
	TeamID   uint   `json:"team_id"`
	Question string `json:"question"`
}

// SuggestCategoryRequest represents a category suggestion request
type SuggestCategoryRequest struct {
	Title string `json:"title"`
}

// Analyze answers a question about a team's bills
// @Summary Analyze team bills
// @Description Ask a free-form question about a team's spending
// @Tags Insights
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AnalyzeRequest true "Question"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /insights/analyze [post]
func (h *InsightHandler) Analyze(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.TeamID == 0 {
		return response.BadRequest(c, "team_id is required")
	}
	if strings.TrimSpace(req.Question) == "" {
		return response.BadRequest(c, "Question is required")
	}

	answer, err := h.insightService.AnalyzeBills(c.Context(), req.TeamID, userID, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotTeamMember):
			return response.Forbidden(c, "You are not a member of this team")
		default:
			return response.InternalServerError(c, "Failed to analyze bills")
		}
	}

	return response.Success(c, "Analysis complete", fiber.Map{
		"answer": answer,
	})
}

// SuggestCategory suggests a category for a bill title
// @Summary Suggest bill category
// @Description Suggest a bill category from the title text
// @Tags Insights
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SuggestCategoryRequest true "Bill title"
// @Success 200 {object} response.Response
// @Router /insights/suggest-category [post]
func (h *InsightHandler) SuggestCategory(c *fiber.Ctx) error {
	if _, ok := c.Locals("userID").(uint); !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req SuggestCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if strings.TrimSpace(req.Title) == "" {
		return response.BadRequest(c, "Title is required")
	}

	category := h.insightService.SuggestCategory(c.Context(), req.Title)

	return response.Success(c, "Category suggested", fiber.Map{
		"category": category,
	})
}
