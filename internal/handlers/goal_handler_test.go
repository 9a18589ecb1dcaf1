package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

// --- mock savings goal service ---

type mockGoalService struct {
	listGoalsFn   func() ([]models.SavingsGoal, error)
	getGoalByIDFn func(goalID uint) (*models.SavingsGoal, error)
	createGoalFn  func(input services.GoalInput) (*models.SavingsGoal, error)
	updateGoalFn  func(goalID uint, patch services.GoalPatch) (*models.SavingsGoal, error)
	addFundsFn    func(goalID uint, amount decimal.Decimal) (*models.SavingsGoal, error)
	deleteGoalFn  func(goalID uint) error
}

func (m *mockGoalService) ListGoals(_ context.Context) ([]models.SavingsGoal, error) {
	if m.listGoalsFn != nil {
		return m.listGoalsFn()
	}
	return nil, nil
}

func (m *mockGoalService) GetGoalByID(_ context.Context, goalID uint) (*models.SavingsGoal, error) {
	if m.getGoalByIDFn != nil {
		return m.getGoalByIDFn(goalID)
	}
	return &models.SavingsGoal{}, nil
}

func (m *mockGoalService) CreateGoal(_ context.Context, input services.GoalInput) (*models.SavingsGoal, error) {
	if m.createGoalFn != nil {
		return m.createGoalFn(input)
	}
	return &models.SavingsGoal{}, nil
}

func (m *mockGoalService) UpdateGoal(_ context.Context, goalID uint, patch services.GoalPatch) (*models.SavingsGoal, error) {
	if m.updateGoalFn != nil {
		return m.updateGoalFn(goalID, patch)
	}
	return &models.SavingsGoal{}, nil
}

func (m *mockGoalService) AddFunds(_ context.Context, goalID uint, amount decimal.Decimal) (*models.SavingsGoal, error) {
	if m.addFundsFn != nil {
		return m.addFundsFn(goalID, amount)
	}
	return &models.SavingsGoal{}, nil
}

func (m *mockGoalService) DeleteGoal(_ context.Context, goalID uint) error {
	if m.deleteGoalFn != nil {
		return m.deleteGoalFn(goalID)
	}
	return nil
}

func (m *mockGoalService) GetGoalProgress(_ context.Context, goalID uint) (*services.GoalProgress, error) {
	return &services.GoalProgress{GoalID: goalID}, nil
}

func (m *mockGoalService) Progress(goal models.SavingsGoal) services.GoalProgress {
	return services.GoalProgress{
		GoalID:      goal.ID,
		IsCompleted: goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount),
	}
}

var _ services.SavingsGoalServicer = (*mockGoalService)(nil)

func setupGoalRouter(handler *GoalHandler) *gin.Engine {
	r := gin.New()
	r.POST("/goals", handler.CreateGoal)
	r.GET("/goals", handler.ListGoals)
	r.GET("/goals/:id", handler.GetGoal)
	r.PUT("/goals/:id", handler.UpdateGoal)
	r.DELETE("/goals/:id", handler.DeleteGoal)
	r.POST("/goals/:id/funds", handler.AddFunds)
	return r
}

func TestGoalHandler_CreateGoal(t *testing.T) {
	t.Run("returns 201 with progress", func(t *testing.T) {
		goalSvc := &mockGoalService{
			createGoalFn: func(input services.GoalInput) (*models.SavingsGoal, error) {
				if input.CurrentAmount != nil {
					t.Errorf("expected nil current amount, got %v", input.CurrentAmount)
				}
				return &models.SavingsGoal{
					Base:         models.Base{ID: 1},
					Name:         input.Name,
					TargetAmount: input.TargetAmount,
					Deadline:     models.MustParseDate(input.Deadline),
				}, nil
			},
		}
		r := setupGoalRouter(NewGoalHandler(goalSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/goals", `{"name":"Emergency Fund","target_amount":"1000","deadline":"2024-12-31"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		goal := result["goal"].(map[string]interface{})
		if goal["name"] != "Emergency Fund" || goal["deadline"] != "2024-12-31" {
			t.Errorf("unexpected goal %v", goal)
		}
		if _, ok := result["progress"].(map[string]interface{}); !ok {
			t.Errorf("expected progress object, got %v", result)
		}
	})

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing name", `{"target_amount":"1000","deadline":"2024-12-31"}`, "name"},
		{"missing target", `{"name":"Trip","deadline":"2024-12-31"}`, "target_amount"},
		{"missing deadline", `{"name":"Trip","target_amount":"1000"}`, "deadline"},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupGoalRouter(NewGoalHandler(&mockGoalService{}, &mockAuditService{}))

			rec := doRequest(r, "POST", "/goals", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorField(t, parseJSON(t, rec), tt.field)
		})
	}
}

func TestGoalHandler_ListGoals(t *testing.T) {
	goalSvc := &mockGoalService{
		listGoalsFn: func() ([]models.SavingsGoal, error) {
			return []models.SavingsGoal{
				{Base: models.Base{ID: 1}, TargetAmount: decimal.NewFromInt(10), CurrentAmount: decimal.NewFromInt(10)},
				{Base: models.Base{ID: 2}, TargetAmount: decimal.NewFromInt(10)},
			}, nil
		},
	}
	r := setupGoalRouter(NewGoalHandler(goalSvc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/goals", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	goals := parseJSON(t, rec)["goals"].([]interface{})
	if len(goals) != 2 {
		t.Fatalf("expected 2 goals, got %d", len(goals))
	}
	first := goals[0].(map[string]interface{})["progress"].(map[string]interface{})
	if first["goal_id"] != float64(1) || first["is_completed"] != true {
		t.Errorf("unexpected progress for first goal %v", first)
	}
}

func TestGoalHandler_AddFunds(t *testing.T) {
	t.Run("passes amount to service", func(t *testing.T) {
		var captured decimal.Decimal
		goalSvc := &mockGoalService{
			addFundsFn: func(id uint, amount decimal.Decimal) (*models.SavingsGoal, error) {
				captured = amount
				return &models.SavingsGoal{
					Base:          models.Base{ID: id},
					TargetAmount:  decimal.NewFromInt(1000),
					CurrentAmount: decimal.NewFromInt(1000),
				}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupGoalRouter(NewGoalHandler(goalSvc, audit))

		rec := doRequest(r, "POST", "/goals/1/funds", `{"amount":"1200"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !captured.Equal(decimal.NewFromInt(1200)) {
			t.Errorf("expected 1200, got %s", captured)
		}
		goal := parseJSON(t, rec)["goal"].(map[string]interface{})
		if goal["current_amount"] != "1000" {
			t.Errorf("expected clamped current amount, got %v", goal["current_amount"])
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "ADD_FUNDS" {
			t.Errorf("expected ADD_FUNDS audit entry, got %v", audit.entries)
		}
	})

	t.Run("returns 400 on missing amount", func(t *testing.T) {
		r := setupGoalRouter(NewGoalHandler(&mockGoalService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/goals/1/funds", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorField(t, parseJSON(t, rec), "amount")
	})

	t.Run("renders non-positive amount error", func(t *testing.T) {
		goalSvc := &mockGoalService{
			addFundsFn: func(uint, decimal.Decimal) (*models.SavingsGoal, error) {
				return nil, apperrors.Validation("amount", "amount must be greater than zero")
			},
		}
		r := setupGoalRouter(NewGoalHandler(goalSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/goals/1/funds", `{"amount":"0"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorField(t, parseJSON(t, rec), "amount")
	})

	t.Run("returns 404 for unknown goal", func(t *testing.T) {
		goalSvc := &mockGoalService{
			addFundsFn: func(uint, decimal.Decimal) (*models.SavingsGoal, error) {
				return nil, apperrors.ErrGoalNotFound
			},
		}
		r := setupGoalRouter(NewGoalHandler(goalSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/goals/77/funds", `{"amount":"5"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "GOAL_NOT_FOUND")
	})
}

func TestGoalHandler_UpdateAndDelete(t *testing.T) {
	t.Run("update passes patch", func(t *testing.T) {
		var captured services.GoalPatch
		goalSvc := &mockGoalService{
			updateGoalFn: func(_ uint, patch services.GoalPatch) (*models.SavingsGoal, error) {
				captured = patch
				return &models.SavingsGoal{}, nil
			},
		}
		r := setupGoalRouter(NewGoalHandler(goalSvc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/goals/1", `{"deadline":"2025-06-30"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if captured.Deadline == nil || *captured.Deadline != "2025-06-30" || captured.Name != nil || captured.TargetAmount != nil {
			t.Errorf("unexpected patch %+v", captured)
		}
	})

	t.Run("delete returns 404 when missing", func(t *testing.T) {
		goalSvc := &mockGoalService{
			deleteGoalFn: func(uint) error { return apperrors.ErrGoalNotFound },
		}
		r := setupGoalRouter(NewGoalHandler(goalSvc, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/goals/1", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
