package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/renovadesk/renova/internal/cli"
)

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Pull a fresh snapshot of every collection",
		Long: `Fetch the open leads, closed leads and user sheet from the script
endpoint, along with the two dashboard scalars, and refresh the local
session cache.`,
		RunE: runSync,
	}
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if _, err := app.resumeSession(ctx); err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle("Sincronizando com a planilha"))

	bar := progressbar.NewOptions(3,
		progressbar.OptionSetDescription("sincronizando"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	// Users were already fetched while resuming the session.
	_ = bar.Add(1)

	if err := app.refreshCollections(ctx); err != nil {
		return fmt.Errorf("failed to refresh collections: %w", err)
	}
	_ = bar.Add(1)

	goal := app.client.FetchGoal(ctx)
	progress := app.client.FetchProgress(ctx)
	_ = bar.Add(1)

	open := app.engine.OpenLeads()
	closed := app.engine.ClosedLeads()
	users := app.engine.Users()

	fmt.Println(cli.FormatSuccess(fmt.Sprintf(
		"%d leads abertos, %d fechados, %d usuários (meta %.0f, progresso %.0f)",
		len(open), len(closed), len(users), goal, progress)))
	return nil
}
