package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renovadesk/renova/internal/cli"
)

func usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List desk users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := app.resumeSession(ctx); err != nil {
				return err
			}

			header := fmt.Sprintf("%-5s %-16s %-24s %-10s %-8s", "ID", "Usuário", "Nome", "Status", "Perfil")
			fmt.Println(cli.TableHeaderStyle.Render(header))
			for _, u := range app.engine.Users() {
				line := fmt.Sprintf("%-5d %-16s %-24s %-10s %-8s",
					u.ID, u.Username, u.DisplayName, u.Status, u.Role)
				if !u.IsActive() {
					line = cli.SubtleStyle.Render(line)
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}
