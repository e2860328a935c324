package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renovadesk/renova/internal/cli"
	"github.com/renovadesk/renova/internal/dates"
	"github.com/renovadesk/renova/internal/model"
)

func statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Confirm or reopen a lead's status",
	}
	cmd.AddCommand(statusSetCmd())
	cmd.AddCommand(statusScheduleCmd())
	cmd.AddCommand(statusReopenCmd())
	return cmd
}

func statusSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <lead-id> <status>",
		Short: "Confirm a status transition",
		Long: `Confirm a status for an open lead. Accepted statuses: "Em contato",
"Sem contato", "Fechado", "Perdido". Use "status schedule" for Agendado.
Confirming "Fechado" promotes the lead into the closed collection.`,
		Args: cobra.ExactArgs(2),
		RunE: runStatusSet,
	}
	cmd.Flags().String("phone", "", "lead phone number (defaults to the lead's own)")
	return cmd
}

func runStatusSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	leadID, err := parseID(args[0])
	if err != nil {
		return err
	}
	status := model.ParseStatus(args[1])

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

	phoneNumber, _ := cmd.Flags().GetString("phone")
	if phoneNumber == "" {
		phoneNumber = findLeadPhone(app.engine.OpenLeads(), leadID)
	}

	app.sess.SetEditing(true)
	defer app.sess.SetEditing(false)

	if err := app.engine.ConfirmStatus(ctx, leadID, status, phoneNumber); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Lead #%d agora é %q", leadID, status)))
	if status.IsClosed() {
		fmt.Println(cli.SubtleStyle.Render("Lead promovido para a lista de fechados"))
	}
	return nil
}

func statusScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule <lead-id> <date>",
		Short: "Schedule a lead (Agendado) for a date",
		Args:  cobra.ExactArgs(2),
		RunE:  runStatusSchedule,
	}
	cmd.Flags().String("phone", "", "lead phone number (defaults to the lead's own)")
	return cmd
}

func runStatusSchedule(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	leadID, err := parseID(args[0])
	if err != nil {
		return err
	}
	date, ok := dates.Parse(args[1])
	if !ok {
		return fmt.Errorf("invalid date %q (use 2006-01-02 or 02/01/2006)", args[1])
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

	phoneNumber, _ := cmd.Flags().GetString("phone")
	if phoneNumber == "" {
		phoneNumber = findLeadPhone(app.engine.OpenLeads(), leadID)
	}

	app.sess.SetEditing(true)
	defer app.sess.SetEditing(false)

	if err := app.engine.Schedule(ctx, leadID, date, phoneNumber); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Lead #%d agendado para %s", leadID, dates.FormatSlash(date))))
	return nil
}

func statusReopenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reopen <lead-id>",
		Short: "Unlock a confirmed status for reselection",
		Args:  cobra.ExactArgs(1),
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

			app.engine.Reopen(leadID)
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Lead #%d reaberto para seleção de status", leadID)))
			return nil
		},
	}
}

func findLeadPhone(leads []model.Lead, leadID int) string {
	for _, lead := range leads {
		if lead.ID == leadID {
			return lead.Phone
		}
	}
	return ""
}
