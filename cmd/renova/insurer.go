package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renovadesk/renova/internal/cli"
)

func insurerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insurer",
		Short: "Manage insurer data on leads",
	}
	cmd.AddCommand(insurerSetCmd())
	cmd.AddCommand(insurerConfirmCmd())
	return cmd
}

func insurerSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <lead-id> <insurer>",
		Short: "Change an open lead's insurer",
		Long: `Change the insurer on an open lead. The previously quoted premium,
commission and policy period are cleared: a different insurer invalidates
those terms.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			leadID, err := parseID(args[0])
			if err != nil {
				return err
			}

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := app.resumeSession(ctx); err != nil {
				return err
			}
			if err := app.refreshCollections(ctx); err != nil {
				return fmt.Errorf("failed to refresh collections: %w", err)
			}

			if err := app.engine.UpdateInsurerOnOpen(leadID, args[1]); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Lead #%d agora cotando com %s", leadID, args[1])))
			fmt.Println(cli.SubtleStyle.Render("Prêmio, comissão e vigência anteriores foram limpos"))
			return nil
		},
	}
}

func insurerConfirmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "confirm <closed-lead-id>",
		Short: "Confirm the final insurer terms on a closed lead",
		Long: `Record the confirmed insurer, premium, commission, installments and
policy period on a closed lead. The change applies locally first, then is
written to the backend; a confirmed write triggers a reconciliation poll.`,
		Args: cobra.ExactArgs(1),
		RunE: runInsurerConfirm,
	}
	cmd.Flags().String("insurer", "", "insurer name")
	cmd.Flags().String("premium", "", "net premium (sheet formatting, e.g. 1.234,56)")
	cmd.Flags().String("commission", "", "commission percentage")
	cmd.Flags().String("installments", "", "installment plan")
	cmd.Flags().String("period-start", "", "policy period start")
	cmd.Flags().String("period-end", "", "policy period end")
	_ = cmd.MarkFlagRequired("insurer")
	return cmd
}

func runInsurerConfirm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	leadID, err := parseID(args[0])
	if err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if _, err := app.resumeSession(ctx); err != nil {
		return err
	}
	if err := app.refreshCollections(ctx); err != nil {
		return fmt.Errorf("failed to refresh collections: %w", err)
	}

	insurer, _ := cmd.Flags().GetString("insurer")
	premium, _ := cmd.Flags().GetString("premium")
	commission, _ := cmd.Flags().GetString("commission")
	installments, _ := cmd.Flags().GetString("installments")
	periodStart, _ := cmd.Flags().GetString("period-start")
	periodEnd, _ := cmd.Flags().GetString("period-end")

	app.sess.SetEditing(true)
	defer app.sess.SetEditing(false)

	if err := app.engine.ConfirmInsurer(ctx, leadID, insurer, premium, commission, installments, periodEnd, periodStart); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Seguradora %s confirmada no lead fechado #%d", insurer, leadID)))
	return nil
}
