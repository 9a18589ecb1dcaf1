package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func goalInput(name, target, deadline string) GoalInput {
	return GoalInput{
		Name:         name,
		TargetAmount: decimal.RequireFromString(target),
		Deadline:     deadline,
	}
}

func TestCreateGoal(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		backends(t, func(t *testing.T, env *testEnv) {
			goal, err := env.goals.CreateGoal(ctx, goalInput("Emergency Fund", "1000", "2024-12-31"))
			testutil.AssertNoError(t, err)

			if goal.ID == 0 {
				t.Fatal("expected non-zero goal ID")
			}
			testutil.AssertDecimal(t, "current", goal.CurrentAmount, "0")
			if goal.Deadline.String() != "2024-12-31" {
				t.Errorf("expected deadline 2024-12-31, got %s", goal.Deadline)
			}

			got, err := env.goals.GetGoalByID(ctx, goal.ID)
			testutil.AssertNoError(t, err)
			if got.Name != "Emergency Fund" || got.Deadline != goal.Deadline {
				t.Errorf("unexpected stored goal: %+v", got)
			}
		})
	})

	t.Run("current_clamped_to_target", func(t *testing.T) {
		env := newMemoryEnv(t)
		in := goalInput("Bike", "500", "2024-06-01")
		in.CurrentAmount = ptr(decimal.NewFromInt(800))

		goal, err := env.goals.CreateGoal(ctx, in)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "current", goal.CurrentAmount, "500")
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(in *GoalInput)
			field  string
		}{
			{"empty_name", func(in *GoalInput) { in.Name = "" }, "name"},
			{"zero_target", func(in *GoalInput) { in.TargetAmount = decimal.Zero }, "target_amount"},
			{"negative_current", func(in *GoalInput) { in.CurrentAmount = ptr(decimal.NewFromInt(-1)) }, "current_amount"},
			{"sub_cent_target", func(in *GoalInput) { in.TargetAmount = decimal.RequireFromString("100.001") }, "target_amount"},
			{"sub_cent_current", func(in *GoalInput) { in.CurrentAmount = ptr(decimal.RequireFromString("0.004")) }, "current_amount"},
			{"bad_deadline", func(in *GoalInput) { in.Deadline = "someday" }, "deadline"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				env := newMemoryEnv(t)
				in := goalInput("Trip", "100", "2024-08-01")
				tt.mutate(&in)

				_, err := env.goals.CreateGoal(ctx, in)
				testutil.AssertValidationField(t, err, tt.field)
			})
		}
	})
}

func TestUpdateGoal(t *testing.T) {
	ctx := context.Background()

	t.Run("lowered_target_clamps_current", func(t *testing.T) {
		backends(t, func(t *testing.T, env *testEnv) {
			goal := testutil.CreateTestGoal(t, env.set.Goals, "1000", "600", "2024-12-31")

			updated, err := env.goals.UpdateGoal(ctx, goal.ID, GoalPatch{TargetAmount: ptr(decimal.NewFromInt(400))})
			testutil.AssertNoError(t, err)
			testutil.AssertDecimal(t, "target", updated.TargetAmount, "400")
			testutil.AssertDecimal(t, "current", updated.CurrentAmount, "400")
		})
	})

	t.Run("rename_and_move_deadline", func(t *testing.T) {
		env := newMemoryEnv(t)
		goal := testutil.CreateTestGoal(t, env.set.Goals, "1000", "0", "2024-12-31")

		updated, err := env.goals.UpdateGoal(ctx, goal.ID, GoalPatch{Name: ptr("House"), Deadline: ptr("2025-06-30")})
		testutil.AssertNoError(t, err)
		if updated.Name != "House" || updated.Deadline.String() != "2025-06-30" {
			t.Errorf("unexpected update: %+v", updated)
		}
	})

	t.Run("invalid_patch_is_rejected", func(t *testing.T) {
		env := newMemoryEnv(t)
		goal := testutil.CreateTestGoal(t, env.set.Goals, "1000", "10", "2024-12-31")

		_, err := env.goals.UpdateGoal(ctx, goal.ID, GoalPatch{TargetAmount: ptr(decimal.NewFromInt(-3))})
		testutil.AssertValidationField(t, err, "target_amount")

		got, _ := env.goals.GetGoalByID(ctx, goal.ID)
		testutil.AssertDecimal(t, "target", got.TargetAmount, "1000")
	})

	t.Run("not_found", func(t *testing.T) {
		env := newMemoryEnv(t)
		_, err := env.goals.UpdateGoal(ctx, 8, GoalPatch{Name: ptr("X")})
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})
}

func TestAddFunds(t *testing.T) {
	ctx := context.Background()

	t.Run("emergency_fund_scenario", func(t *testing.T) {
		backends(t, func(t *testing.T, env *testEnv) {
			goal, err := env.goals.CreateGoal(ctx, goalInput("Emergency Fund", "1000", "2024-12-31"))
			testutil.AssertNoError(t, err)

			updated, err := env.goals.AddFunds(ctx, goal.ID, decimal.NewFromInt(1200))
			testutil.AssertNoError(t, err)
			testutil.AssertDecimal(t, "current", updated.CurrentAmount, "1000")

			progress, err := env.goals.GetGoalProgress(ctx, goal.ID)
			testutil.AssertNoError(t, err)
			if !progress.IsCompleted {
				t.Error("expected goal to be completed")
			}
			if progress.Status != TierSuccess || progress.Percentage != 100 {
				t.Errorf("expected success at 100%%, got %s at %v", progress.Status, progress.Percentage)
			}
		})
	})

	t.Run("repeated_overshoot_stays_at_target", func(t *testing.T) {
		env := newMemoryEnv(t)
		goal := testutil.CreateTestGoal(t, env.set.Goals, "300", "0", "2024-12-31")

		for i := 0; i < 5; i++ {
			updated, err := env.goals.AddFunds(ctx, goal.ID, decimal.NewFromInt(100))
			testutil.AssertNoError(t, err)
			if updated.CurrentAmount.GreaterThan(updated.TargetAmount) {
				t.Fatalf("current %s overshot target %s", updated.CurrentAmount, updated.TargetAmount)
			}
		}
		got, _ := env.goals.GetGoalByID(ctx, goal.ID)
		testutil.AssertDecimal(t, "current", got.CurrentAmount, "300")
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		env := newMemoryEnv(t)
		goal := testutil.CreateTestGoal(t, env.set.Goals, "300", "0", "2024-12-31")

		for _, amount := range []string{"0", "-50", "0.004"} {
			_, err := env.goals.AddFunds(ctx, goal.ID, decimal.RequireFromString(amount))
			testutil.AssertValidationField(t, err, "amount")
		}
	})

	t.Run("unknown_goal", func(t *testing.T) {
		env := newMemoryEnv(t)
		_, err := env.goals.AddFunds(ctx, 404, decimal.NewFromInt(10))
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})
}

func TestDeleteGoal(t *testing.T) {
	ctx := context.Background()
	env := newMemoryEnv(t)
	goal := testutil.CreateTestGoal(t, env.set.Goals, "300", "0", "2024-12-31")

	testutil.AssertNoError(t, env.goals.DeleteGoal(ctx, goal.ID))
	_, err := env.goals.GetGoalByID(ctx, goal.ID)
	testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	testutil.AssertAppError(t, env.goals.DeleteGoal(ctx, goal.ID), "GOAL_NOT_FOUND")
}

func TestComputeGoalProgress(t *testing.T) {
	today := models.MustParseDate("2024-03-15")

	tests := []struct {
		name          string
		target        string
		current       string
		deadline      string
		wantTier      Tier
		wantPct       float64
		wantDays      int
		wantCompleted bool
	}{
		{"empty", "1000", "0", "2024-03-25", TierDanger, 0, 10, false},
		{"half", "1000", "500", "2024-03-15", TierWarning, 50, 0, false},
		{"three_quarters", "1000", "750", "2024-04-15", TierPrimary, 75, 31, false},
		{"almost", "1000", "999.99", "2025-03-15", TierPrimary, 100, 365, false},
		{"complete", "1000", "1000", "2024-03-01", TierSuccess, 100, -14, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ComputeGoalProgress(models.SavingsGoal{
				Name:          "Goal",
				TargetAmount:  decimal.RequireFromString(tt.target),
				CurrentAmount: decimal.RequireFromString(tt.current),
				Deadline:      models.MustParseDate(tt.deadline),
			}, today)

			if p.Status != tt.wantTier {
				t.Errorf("expected tier %s, got %s", tt.wantTier, p.Status)
			}
			if p.Percentage != tt.wantPct {
				t.Errorf("expected percentage %v, got %v", tt.wantPct, p.Percentage)
			}
			if p.DaysRemaining != tt.wantDays {
				t.Errorf("expected %d days remaining, got %d", tt.wantDays, p.DaysRemaining)
			}
			if p.IsCompleted != tt.wantCompleted {
				t.Errorf("expected completed %v, got %v", tt.wantCompleted, p.IsCompleted)
			}
		})
	}
}
