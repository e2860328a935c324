package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/renovadesk/renova/internal/cli"
	"github.com/renovadesk/renova/internal/dates"
	"github.com/renovadesk/renova/internal/model"
)

func leadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "List and manage open leads",
	}
	cmd.AddCommand(leadsListCmd())
	cmd.AddCommand(leadsAddCmd())
	cmd.AddCommand(leadsAssignCmd())
	cmd.AddCommand(leadsNoteCmd())
	return cmd
}

func leadsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the open leads",
		RunE:  runLeadsList,
	}
	cmd.Flags().Bool("closed", false, "list the closed collection instead")
	return cmd
}

func runLeadsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

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

	showClosed, _ := cmd.Flags().GetBool("closed")
	if showClosed {
		printClosedTable(app.engine.ClosedLeads())
		return nil
	}
	printOpenTable(app.engine.OpenLeads())
	return nil
}

func printOpenTable(leads []model.Lead) {
	header := fmt.Sprintf("%-5s %-24s %-16s %-14s %-18s %-14s %-9s",
		"ID", "Nome", "Telefone", "Cidade", "Status", "Seguradora", "Criado")
	fmt.Println(cli.TableHeaderStyle.Render(header))
	for _, lead := range leads {
		status := string(lead.Status)
		if lead.Status.IsUnset() {
			status = "-"
		}
		created := lead.CreatedAt
		if t, ok := dates.Parse(lead.CreatedAt); ok {
			created = dates.FormatShort(t)
		}
		fmt.Println(cli.TableCellStyle.Render(fmt.Sprintf("%-5d %-24s %-16s %-14s %-18s %-14s %-9s",
			lead.ID, clip(lead.Name, 24), lead.Phone, clip(lead.City, 14),
			clip(status, 18), clip(lead.Insurer, 14), clip(created, 9))))
	}
	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("%d leads", len(leads))))
}

func printClosedTable(leads []model.ClosedLead) {
	header := fmt.Sprintf("%-5s %-24s %-16s %-14s %-12s %-10s",
		"ID", "Nome", "Telefone", "Seguradora", "Prêmio", "Comissão")
	fmt.Println(cli.TableHeaderStyle.Render(header))
	for _, lead := range leads {
		fmt.Println(cli.TableCellStyle.Render(fmt.Sprintf("%-5d %-24s %-16s %-14s %-12s %-10s",
			lead.ID, clip(lead.Name, 24), lead.Phone, clip(lead.Insurer, 14),
			clip(lead.NetPremium, 12), clip(lead.CommissionPct, 10))))
	}
	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("%d renovações fechadas", len(leads))))
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func leadsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a lead manually",
		RunE:  runLeadsAdd,
	}
	cmd.Flags().String("name", "", "customer name")
	cmd.Flags().String("phone", "", "phone number (join key, required)")
	cmd.Flags().String("model", "", "vehicle model")
	cmd.Flags().String("year", "", "vehicle year/model")
	cmd.Flags().String("city", "", "city")
	cmd.Flags().String("type", "", "insurance type")
	_ = cmd.MarkFlagRequired("phone")
	return cmd
}

func runLeadsAdd(cmd *cobra.Command, _ []string) error {
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
	if err := app.refreshCollections(ctx); err != nil {
		return fmt.Errorf("failed to refresh collections: %w", err)
	}

	name, _ := cmd.Flags().GetString("name")
	phoneNumber, _ := cmd.Flags().GetString("phone")
	vehicleModel, _ := cmd.Flags().GetString("model")
	year, _ := cmd.Flags().GetString("year")
	city, _ := cmd.Flags().GetString("city")
	insuranceType, _ := cmd.Flags().GetString("type")

	if strings.TrimSpace(phoneNumber) == "" {
		return fmt.Errorf("phone cannot be blank")
	}

	lead := model.Lead{
		ID:               nextLeadID(app.engine.OpenLeads()),
		Name:             name,
		Phone:            phoneNumber,
		VehicleModel:     vehicleModel,
		VehicleYearModel: year,
		City:             city,
		InsuranceType:    insuranceType,
		AssigneeID:       actor.ID,
		AssigneeName:     actor.DisplayName,
		CreatedAt:        dates.FormatSlash(nowLocal()),
	}
	app.engine.AddLead(lead)

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Lead #%d criado para %s", lead.ID, lead.Phone)))
	return nil
}

func nextLeadID(leads []model.Lead) int {
	max := 0
	for _, lead := range leads {
		if lead.ID > max {
			max = lead.ID
		}
	}
	return max + 1
}

func leadsAssignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign <lead-id>",
		Short: "Transfer a lead to another user",
		Args:  cobra.ExactArgs(1),
		RunE:  runLeadsAssign,
	}
	cmd.Flags().Int("user", 0, "target user id")
	cmd.Flags().Bool("clear", false, "clear the assignment instead")
	return cmd
}

func runLeadsAssign(cmd *cobra.Command, args []string) error {
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

	clearFlag, _ := cmd.Flags().GetBool("clear")
	if clearFlag {
		app.engine.TransferAssignee(leadID, nil)
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Lead #%d sem responsável", leadID)))
		return nil
	}

	userID, _ := cmd.Flags().GetInt("user")
	if userID == 0 {
		return fmt.Errorf("either --user or --clear is required")
	}
	app.engine.TransferAssignee(leadID, &userID)
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Lead #%d transferido", leadID)))
	return nil
}

func leadsNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "note <lead-id> <text>",
		Short: "Save a note on a lead",
		Args:  cobra.MinimumNArgs(2),
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

			note := strings.Join(args[1:], " ")
			app.engine.SaveNote(ctx, leadID, note)
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Observação salva no lead #%d", leadID)))
			return nil
		},
	}
}
