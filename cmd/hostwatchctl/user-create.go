package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/hostwatch/pkg/fleet"
)

// userCreateCmd represents the user create command
var userCreateCmd = &cobra.Command{
	Use:   "create [email]",
	Short: "Create an owner account",
	Long: `Create an owner account.

The password is read from HOSTWATCH_USER_PASSWORD, or from the first line
of stdin when the variable is unset. The new account's install token is
printed to STDOUT; agents use it to enroll.

Example:
  HOSTWATCH_USER_PASSWORD=secret hostwatchctl user create ops@example.com`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		password, err := readPassword()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read password: %v\n", err)
			os.Exit(1)
		}

		token, err := createUser(cmd.Context(), args[0], password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create user: %v\n", err)
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "Created owner '%s'\n", strings.TrimSpace(args[0]))
		fmt.Printf("Install token: %s\n", token)
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
}

func readPassword() (string, error) {
	if pw, ok := os.LookupEnv("HOSTWATCH_USER_PASSWORD"); ok {
		return pw, nil
	}
	var pw string
	if _, err := fmt.Fscanln(os.Stdin, &pw); err != nil {
		return "", err
	}
	return pw, nil
}

func withFleet(ctx context.Context, fn func(ctx context.Context, svc *fleet.Service) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cipher, err := loadCipher()
	if err != nil {
		return err
	}
	st, err := openStores(cfg, cipher, nil)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, fleet.NewService(st.Users, st.Servers))
}

func createUser(ctx context.Context, email, password string) (string, error) {
	var token string
	err := withFleet(ctx, func(ctx context.Context, svc *fleet.Service) error {
		u, err := svc.CreateOwner(ctx, email, password)
		if err != nil {
			return err
		}
		token = u.InstallToken
		return nil
	})
	return token, err
}
