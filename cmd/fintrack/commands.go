package main

import (
	"context"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"fintrack/internal/analytics"
	"fintrack/internal/app"
	"fintrack/internal/money"
	"fintrack/internal/seed"
	"fintrack/internal/services"
)

var hundred = decimal.NewFromInt(100)

// opener builds the application for a single command run.
type opener func(ctx context.Context) (*app.App, error)

func newRootCmd(open opener, out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fintrack",
		Short:         "Personal finance ledger reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.AddCommand(
		newReportCmd(open, out),
		newBudgetsCmd(open, out),
		newGoalsCmd(open, out),
		newSeedCmd(open, out),
	)
	return rootCmd
}

// withApp opens the application, runs fn and closes it again.
func withApp(cmd *cobra.Command, open opener, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	return fn(ctx, a)
}

func newReportCmd(open opener, out io.Writer) *cobra.Command {
	var rangeFlag string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Expenses by category and month summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := analytics.ParseRange(rangeFlag)
			if err != nil {
				return err
			}
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				report, err := a.Analytics.CategoryBreakdown(ctx, r)
				if err != nil {
					return err
				}
				dashboard, err := a.Dashboard.GetDashboard(ctx)
				if err != nil {
					return err
				}
				rendered, err := renderReport(report, dashboard.Month, a.Config.Currency)
				if err != nil {
					return err
				}
				fmt.Fprint(out, rendered)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&rangeFlag, "range", "r", string(analytics.ThisMonth),
		"Reporting window: thisWeek, thisMonth, last3Months or thisYear")
	return cmd
}

func newBudgetsCmd(open opener, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "budgets",
		Short: "Budget progress per category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				budgets, err := a.Budgets.ListBudgets(ctx)
				if err != nil {
					return err
				}
				progress := make([]services.BudgetProgress, 0, len(budgets))
				for _, b := range budgets {
					progress = append(progress, services.ComputeBudgetProgress(b))
				}
				rendered, err := renderBudgets(progress, a.Config.Currency)
				if err != nil {
					return err
				}
				fmt.Fprint(out, rendered)
				return nil
			})
		},
	}
}

func newGoalsCmd(open opener, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "goals",
		Short: "Savings goal progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				goals, err := a.Goals.ListGoals(ctx)
				if err != nil {
					return err
				}
				progress := make([]services.GoalProgress, 0, len(goals))
				for _, g := range goals {
					progress = append(progress, a.Goals.Progress(g))
				}
				rendered, err := renderGoals(progress, a.Config.Currency)
				if err != nil {
					return err
				}
				fmt.Fprint(out, rendered)
				return nil
			})
		},
	}
}

func newSeedCmd(open opener, out io.Writer) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the default categories that do not exist yet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cats := seed.Defaults()
			if file != "" {
				var err error
				if cats, err = seed.ReadFile(file); err != nil {
					return err
				}
			}
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				n, err := seed.Apply(ctx, a.Categories, cats)
				if err != nil {
					return err
				}
				fmt.Fprint(out, pterm.Success.Sprintfln("Seeded %d of %d categories", n, len(cats)))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML category file (default: built-in categories)")
	return cmd
}

func tierStyle(t services.Tier) pterm.Color {
	switch t {
	case services.TierDanger:
		return pterm.FgRed
	case services.TierWarning:
		return pterm.FgYellow
	case services.TierPrimary:
		return pterm.FgCyan
	default:
		return pterm.FgGreen
	}
}

func renderTable(data pterm.TableData) (string, error) {
	rendered, err := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(data).
		Srender()
	if err != nil {
		return "", fmt.Errorf("render table: %w", err)
	}
	return rendered + "\n", nil
}

func renderReport(report *services.BreakdownReport, month analytics.MonthSummary, currency string) (string, error) {
	f := money.Formatter{Currency: currency}
	header := pterm.DefaultSection.Sprintf("Expenses %s (%s to %s)", report.Range, report.From, report.To)

	if len(report.Categories) == 0 {
		return header + pterm.Info.Sprintfln("No expenses in this range"), nil
	}

	data := pterm.TableData{{"Category", "Amount", "Share"}}
	for _, c := range report.Categories {
		share := "0%"
		if report.Total.IsPositive() {
			share = c.Amount.Div(report.Total).Mul(hundred).StringFixed(1) + "%"
		}
		data = append(data, []string{c.Icon + " " + c.Category, f.Format(c.Amount), share})
	}
	data = append(data, []string{"Total", report.FormattedTotal, ""})

	summary := fmt.Sprintf("This month: income %s, expenses %s, savings %s\n",
		f.Format(month.Income), f.Format(month.Expenses), f.Format(month.Savings))
	table, err := renderTable(data)
	if err != nil {
		return "", err
	}
	return header + table + summary, nil
}

func renderBudgets(progress []services.BudgetProgress, currency string) (string, error) {
	if len(progress) == 0 {
		return pterm.Info.Sprintfln("No budgets defined"), nil
	}
	f := money.Formatter{Currency: currency}
	data := pterm.TableData{{"Category", "Limit", "Spent", "Remaining", "Used", "Status"}}
	for _, p := range progress {
		data = append(data, []string{
			p.Category,
			f.Format(p.Limit),
			f.Format(p.Spent),
			f.Format(p.Remaining),
			fmt.Sprintf("%.2f%%", p.Percentage),
			tierStyle(p.Status).Sprint(string(p.Status)),
		})
	}
	return renderTable(data)
}

func renderGoals(progress []services.GoalProgress, currency string) (string, error) {
	if len(progress) == 0 {
		return pterm.Info.Sprintfln("No savings goals defined"), nil
	}
	f := money.Formatter{Currency: currency}
	data := pterm.TableData{{"Goal", "Saved", "Target", "Progress", "Days left", "Status"}}
	for _, p := range progress {
		status := string(p.Status)
		if p.IsCompleted {
			status = "completed"
		}
		data = append(data, []string{
			p.Name,
			f.Format(p.CurrentAmount),
			f.Format(p.TargetAmount),
			fmt.Sprintf("%.0f%%", p.Percentage),
			fmt.Sprint(p.DaysRemaining),
			tierStyle(p.Status).Sprint(status),
		})
	}
	return renderTable(data)
}
