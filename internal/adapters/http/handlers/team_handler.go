package handlers

import (
	"errors"

	"teamfund/internal/core/services"
	"teamfund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// TeamHandler handles team directory endpoints
type TeamHandler struct {
	teamService *services.TeamService
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// JoinTeamRequest represents join request body
type JoinTeamRequest struct {
	Name         string `json:"name"`
	JoinPassword string `json:"join_password"`
}

// Create handles team creation
// @Summary Create team
// @Description Create a new team with the caller as admin
// @Tags Teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateTeamInput true "Team data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /teams [post]
func (h *TeamHandler) Create(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.CreateTeamInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	team, err := h.teamService.CreateTeam(c.Context(), &req, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTeamNameRequired):
			return response.BadRequest(c, "Team name is required")
		case errors.Is(err, services.ErrJoinPasswordRequired):
			return response.BadRequest(c, "Join password is required")
		default:
			return response.InternalServerError(c, "Failed to create team")
		}
	}

	return response.Created(c, "Team created successfully", team.ToResponse())
}

// Join handles joining an existing team
// @Summary Join team
// @Description Join a team by name and join password
// @Tags Teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body JoinTeamRequest true "Team credentials"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /teams/join [post]
func (h *TeamHandler) Join(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req JoinTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	team, err := h.teamService.JoinTeam(c.Context(), userID, req.Name, req.JoinPassword)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidTeamCredentials):
			return response.Unauthorized(c, "Invalid team name or password")
		default:
			return response.InternalServerError(c, "Failed to join team")
		}
	}

	return response.Success(c, "Joined team successfully", team.ToResponse())
}

// List returns the caller's teams
// @Summary List my teams
// @Description List all teams the caller belongs to
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /teams [get]
func (h *TeamHandler) List(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	teams, err := h.teamService.ListMyTeams(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list teams")
	}

	result := make([]interface{}, 0, len(teams))
	for _, t := range teams {
		result = append(result, t.ToResponse())
	}

	return response.Success(c, "Teams retrieved successfully", result)
}

// Get returns a single team
// @Summary Get team
// @Description Get a team by ID, members only
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /teams/{id} [get]
func (h *TeamHandler) Get(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	teamID, err := c.ParamsInt("id")
	if err != nil || teamID <= 0 {
		return response.BadRequest(c, "Invalid team ID")
	}

	team, err := h.teamService.GetByID(c.Context(), uint(teamID), userID)
	if err != nil {
		return h.teamError(c, err, "Failed to get team")
	}

	return response.Success(c, "Team retrieved successfully", team.ToResponse())
}

// Members returns a team's member directory
// @Summary List team members
// @Description List the full user records of a team's members
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /teams/{id}/members [get]
func (h *TeamHandler) Members(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	teamID, err := c.ParamsInt("id")
	if err != nil || teamID <= 0 {
		return response.BadRequest(c, "Invalid team ID")
	}

	members, err := h.teamService.ListMembers(c.Context(), uint(teamID), userID)
	if err != nil {
		return h.teamError(c, err, "Failed to list members")
	}

	result := make([]interface{}, 0, len(members))
	for _, m := range members {
		result = append(result, m.ToResponse())
	}

	return response.Success(c, "Members retrieved successfully", result)
}

// AddBranch handles adding a payable branch to a team
// @Summary Add branch
// @Description Add a payable branch with bank details, admin only
// @Tags Teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Param body body services.AddBranchInput true "Branch data"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /teams/{id}/branches [post]
func (h *TeamHandler) AddBranch(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	teamID, err := c.ParamsInt("id")
	if err != nil || teamID <= 0 {
		return response.BadRequest(c, "Invalid team ID")
	}

	var req services.AddBranchInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	branch, err := h.teamService.AddBranch(c.Context(), uint(teamID), &req, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBranchNameRequired):
			return response.BadRequest(c, "Branch name is required")
		default:
			return h.teamError(c, err, "Failed to add branch")
		}
	}

	return response.Created(c, "Branch added successfully", branch)
}

// Branches returns a team's branches
// @Summary List branches
// @Description List a team's payable branches, members only
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /teams/{id}/branches [get]
func (h *TeamHandler) Branches(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	teamID, err := c.ParamsInt("id")
	if err != nil || teamID <= 0 {
		return response.BadRequest(c, "Invalid team ID")
	}

	branches, err := h.teamService.ListBranches(c.Context(), uint(teamID), userID)
	if err != nil {
		return h.teamError(c, err, "Failed to list branches")
	}

	return response.Success(c, "Branches retrieved successfully", branches)
}

// teamError maps common team service errors to HTTP responses
func (h *TeamHandler) teamError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrTeamNotFound):
		return response.NotFound(c, "Team not found")
	case errors.Is(err, services.ErrNotTeamMember):
		return response.Forbidden(c, "You are not a member of this team")
	case errors.Is(err, services.ErrNotTeamAdmin):
		return response.Forbidden(c, "Only the team admin can do this")
	default:
		return response.InternalServerError(c, fallback)
	}
}
