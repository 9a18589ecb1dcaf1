package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/services"
)

// GoalHandler handles savings goal requests.
type GoalHandler struct {
	goalService  services.SavingsGoalServicer
	auditService services.AuditServicer
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService services.SavingsGoalServicer, auditService services.AuditServicer) *GoalHandler {
	return &GoalHandler{goalService: goalService, auditService: auditService}
}

// CreateGoalRequest represents the request payload for creating a savings goal.
type CreateGoalRequest struct {
	Name          string           `json:"name" binding:"required,max=100"`
	TargetAmount  *decimal.Decimal `json:"target_amount" binding:"required" swaggertype:"string" example:"1000"`
	CurrentAmount *decimal.Decimal `json:"current_amount" swaggertype:"string"`
	Deadline      string           `json:"deadline" binding:"required" example:"2024-12-31"`
}

// UpdateGoalRequest represents the request payload for updating a savings goal.
type UpdateGoalRequest struct {
	Name         *string          `json:"name" binding:"omitempty,max=100"`
	TargetAmount *decimal.Decimal `json:"target_amount" swaggertype:"string"`
	Deadline     *string          `json:"deadline"`
}

// AddFundsRequest represents the request payload for contributing to a goal.
type AddFundsRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"100"`
}

// GoalResponse pairs a goal with its derived progress.
type GoalResponse struct {
	Goal     models.SavingsGoal    `json:"goal"`
	Progress services.GoalProgress `json:"progress"`
}

func (h *GoalHandler) response(goal *models.SavingsGoal) GoalResponse {
	return GoalResponse{Goal: *goal, Progress: h.goalService.Progress(*goal)}
}

// CreateGoal handles the creation of a new savings goal.
// @Summary     Create a savings goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} GoalResponse "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	goal, err := h.goalService.CreateGoal(c.Request.Context(), services.GoalInput{
		Name:          req.Name,
		TargetAmount:  *req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Deadline:      req.Deadline,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("CREATE_GOAL", "savings_goal", goal.ID, c.ClientIP(),
		map[string]any{"name": goal.Name, "target_amount": goal.TargetAmount.String()})

	c.JSON(http.StatusCreated, h.response(goal))
}

// ListGoals handles the retrieval of all savings goals with their progress.
// @Summary     List savings goals
// @Tags        goals
// @Produce     json
// @Success     200 {array} GoalResponse "Goals with progress"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals [get]
func (h *GoalHandler) ListGoals(c *gin.Context) {
	goals, err := h.goalService.ListGoals(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	out := make([]GoalResponse, 0, len(goals))
	for i := range goals {
		out = append(out, h.response(&goals[i]))
	}
	c.JSON(http.StatusOK, gin.H{"goals": out})
}

// GetGoal handles the retrieval of a single savings goal.
// @Summary     Get savings goal by ID
// @Tags        goals
// @Produce     json
// @Param       id path int true "Goal ID"
// @Success     200 {object} GoalResponse "Goal with progress"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id} [get]
func (h *GoalHandler) GetGoal(c *gin.Context) {
	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.GetGoalByID(c.Request.Context(), goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.response(goal))
}

// UpdateGoal handles updating a savings goal.
// @Summary     Update savings goal
// @Description Change a goal's name, target or deadline. Lowering the target clamps the saved amount.
// @Tags        goals
// @Accept      json
// @Produce     json
// @Param       id path int true "Goal ID"
// @Param       request body UpdateGoalRequest true "Fields to change"
// @Success     200 {object} GoalResponse "Updated goal"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id} [put]
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	goal, err := h.goalService.UpdateGoal(c.Request.Context(), goalID, services.GoalPatch{
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Deadline:     req.Deadline,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_GOAL", "savings_goal", goalID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, h.response(goal))
}

// AddFunds handles contributing money to a savings goal.
// @Summary     Add funds to a goal
// @Description Contribute a positive amount. The saved amount never exceeds the target.
// @Tags        goals
// @Accept      json
// @Produce     json
// @Param       id path int true "Goal ID"
// @Param       request body AddFundsRequest true "Contribution"
// @Success     200 {object} GoalResponse "Goal after the contribution"
// @Failure     400 {object} ErrorResponse "Invalid amount"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id}/funds [post]
func (h *GoalHandler) AddFunds(c *gin.Context) {
	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	goal, err := h.goalService.AddFunds(c.Request.Context(), goalID, *req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("ADD_FUNDS", "savings_goal", goalID, c.ClientIP(),
		map[string]any{"amount": req.Amount.String()})

	c.JSON(http.StatusOK, h.response(goal))
}

// DeleteGoal handles deleting a savings goal.
// @Summary     Delete savings goal
// @Tags        goals
// @Produce     json
// @Param       id path int true "Goal ID"
// @Success     200 {object} MessageResponse "Goal deleted"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteGoal(c.Request.Context(), goalID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_GOAL", "savings_goal", goalID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Savings goal deleted successfully"})
}
