package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/renovadesk/renova/internal/cli"
	"github.com/renovadesk/renova/internal/common"
	"github.com/renovadesk/renova/internal/metrics"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the renewal dashboard",
		Long: `Compute the dashboard aggregates from a fresh snapshot: lead counts,
closed renewals by insurer, premium totals, weighted commission and goal
attainment. Non-admin users see only their own records.`,
		RunE: runDashboard,
	}
	cmd.Flags().String("from", "", "only count leads created on or after this date")
	cmd.Flags().String("to", "", "only count leads created on or before this date")
	return cmd
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	fromFlag, _ := cmd.Flags().GetString("from")
	toFlag, _ := cmd.Flags().GetString("to")
	from, to, err := parseRangeFlags(fromFlag, toFlag)
	if err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	actor, err := app.resumeSession(ctx)
	if err != nil {
		return err
	}
	if err := app.refreshCollections(ctx); err != nil {
		return fmt.Errorf("failed to refresh collections: %w", err)
	}

	summary := metrics.Compute(metrics.Input{
		Open:     app.engine.OpenLeads(),
		Closed:   app.engine.ClosedLeads(),
		Goal:     app.client.FetchGoal(ctx),
		Progress: app.client.FetchProgress(ctx),
		From:     from,
		To:       to,
		Actor:    actor,
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Leads em aberto:       %d\n", summary.OpenInRange)
	fmt.Fprintf(&b, "Leads perdidos:        %d\n", summary.Lost)
	fmt.Fprintf(&b, "Renovações fechadas:   %d\n", summary.ClosedCount)
	for _, insurer := range metrics.TrackedInsurers {
		fmt.Fprintf(&b, "  %-20s %d\n", insurer+":", summary.ByInsurer[insurer])
	}
	fmt.Fprintf(&b, "Prêmio líquido total:  R$ %.2f\n", summary.PremiumSum)
	fmt.Fprintf(&b, "Comissão média:        %.2f%%\n", summary.WeightedCommissionPct)
	fmt.Fprintf(&b, "Meta:                  %.0f (%.1f%%)\n", summary.Goal, summary.GoalPercent)
	fmt.Fprintf(&b, "Progresso da célula:   %.0f", summary.Progress)

	fmt.Println(cli.RenderBox(cli.ChartIcon+" Painel de renovações", b.String()))
	return nil
}

func goalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal <value>",
		Short: "Set the renewal goal (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE:  runGoal,
	}
	return cmd
}

func runGoal(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	actor, err := app.resumeSession(ctx)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return common.NewUserError("apenas administradores podem alterar a meta", common.ErrNotPermitted)
	}

	var value float64
	if _, err := fmt.Sscanf(args[0], "%f", &value); err != nil {
		return fmt.Errorf("invalid goal value %q", args[0])
	}

	if err := app.client.SetGoal(ctx, value); err != nil {
		return fmt.Errorf("failed to set goal: %w", err)
	}
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Meta atualizada para %.0f", value)))
	return nil
}
