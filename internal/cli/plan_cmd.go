package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate, check and summarize annual plans",
	}
	cmd.AddCommand(
		newPlanGenerateCmd(app),
		newPlanValidateCmd(app),
		newPlanProgressCmd(app),
	)
	return cmd
}

func planArg(args []string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(args[0])
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid plan id %q", args[0])
	}
	return id, nil
}

func newPlanGenerateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <plan-id>",
		Short: "Create the weekly periodization and daily assignments of a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planID, err := planArg(args)
			if err != nil {
				return err
			}
			res, err := app.Plans.GeneratePlan(cmd.Context(), app.Actor, planID)
			if err != nil {
				return err
			}
			out := struct {
				PlanID       string `json:"planId"`
				WeeksCreated int    `json:"weeksCreated"`
				DaysCreated  int    `json:"daysCreated"`
			}{planID.Hex(), res.WeeksCreated, res.DaysCreated}
			return app.render(cmd.OutOrStdout(), out, func(tw io.Writer) {
				fmt.Fprintln(tw, "PLAN\tWEEKS\tDAYS")
				fmt.Fprintf(tw, "%s\t%d\t%d\n", out.PlanID, out.WeeksCreated, out.DaysCreated)
			})
		},
	}
}

func newPlanValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <plan-id>",
		Short: "List everything that keeps a plan from review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planID, err := planArg(args)
			if err != nil {
				return err
			}
			report, err := app.Review.ValidatePlan(cmd.Context(), app.Actor, planID)
			if err != nil {
				return err
			}
			return app.render(cmd.OutOrStdout(), report, func(tw io.Writer) {
				if report.Ready {
					fmt.Fprintln(tw, "ready for review")
					return
				}
				fmt.Fprintln(tw, "ISSUE")
				for _, issue := range report.Issues {
					fmt.Fprintln(tw, issue)
				}
			})
		},
	}
}

func newPlanProgressCmd(app *App) *cobra.Command {
	var (
		week  int
		month string
	)
	cmd := &cobra.Command{
		Use:   "progress <plan-id>",
		Short: "Summarize one week or one calendar month of a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planID, err := planArg(args)
			if err != nil {
				return err
			}
			if (week == 0) == (month == "") {
				return errors.New("pass exactly one of --week or --month")
			}

			var summary *domain.ProgressSummary
			if week != 0 {
				summary, err = app.Progress.WeekSummary(cmd.Context(), app.Actor, planID, week)
			} else {
				m, perr := time.Parse("2006-01", month)
				if perr != nil {
					return fmt.Errorf("invalid --month %q: expected YYYY-MM", month)
				}
				summary, err = app.Progress.MonthSummary(cmd.Context(), app.Actor, planID, m.Year(), m.Month())
			}
			if err != nil {
				return err
			}
			return app.render(cmd.OutOrStdout(), summary, func(tw io.Writer) {
				fmt.Fprintln(tw, "FROM\tTO\tTOTAL\tDONE\tSKIPPED\tRATE\tPLANNED MIN\tACTUAL MIN")
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%.0f%%\t%d\t%d\n",
					summary.From.Format(domain.DateLayout), summary.To.Format(domain.DateLayout),
					summary.Total, summary.Completed, summary.Skipped, summary.CompletionRate,
					summary.PlannedMinutes, summary.ActualMinutes)
				if len(summary.CompletedByType) > 0 {
					parts := make([]string, 0, len(summary.CompletedByType))
					for t, n := range summary.CompletedByType {
						parts = append(parts, fmt.Sprintf("%s=%d", t, n))
					}
					sort.Strings(parts)
					fmt.Fprintf(tw, "completed by type: %s\n", strings.Join(parts, " "))
				}
			})
		},
	}
	cmd.Flags().IntVar(&week, "week", 0, "Week number, starting at 1")
	cmd.Flags().StringVar(&month, "month", "", "Calendar month as YYYY-MM")
	return cmd
}
