package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/digitaltreasurer/treasurer-api/internal/auth"
	"github.com/digitaltreasurer/treasurer-api/internal/domain"
	"github.com/digitaltreasurer/treasurer-api/internal/repository"
	"github.com/digitaltreasurer/treasurer-api/internal/service"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin accounts",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create an admin account",
	Long: `Create an admin account. The password is read from --password or, when
omitted, from the first line of standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdminCreate,
}

var adminPassword string

func init() {
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "Password for the new account")
	adminCmd.AddCommand(adminCreateCmd)
}

func runAdminCreate(cmd *cobra.Command, args []string) error {
	password := adminPassword
	if password == "" {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("no password given")
		}
		password = strings.TrimRight(line, "\r\n")
	}

	db, closeDB, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB()

	// the CLI never issues tokens, any signing key will do
	tokens := auth.NewTokenManager("treasurerctl", 0, cfg.Auth.Issuer)
	svc := service.NewAuthService(repository.NewUserRepository(db), tokens, log)

	user, err := svc.Register(context.Background(), &domain.RegisterRequest{Username: args[0], Password: password})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "admin %q created\n", user.Username)
	return nil
}
