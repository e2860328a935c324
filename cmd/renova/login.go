package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/renovadesk/renova/internal/cli"
)

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Authenticate against the user sheet",
		Args:  cobra.ExactArgs(1),
		RunE:  runLogin,
	}
	cmd.Flags().String("password", "", "password (prompted when omitted)")
	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	username := args[0]

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		fmt.Print("Senha: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimSpace(line)
	}

	users, err := app.loadUsers(ctx)
	if err != nil {
		return err
	}

	if err := app.sess.Login(users, username, password); err != nil {
		return err
	}
	if err := app.store.SaveSession(ctx, username); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	user, _ := app.sess.User()
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Bem-vindo, %s!", user.DisplayName)))
	return nil
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the local session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.store.ClearSession(cmd.Context()); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Sessão encerrada"))
			return nil
		},
	}
}
