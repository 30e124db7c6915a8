package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/hostwatch/pkg/fleet"
	"github.com/doodlesbykumbi/hostwatch/pkg/model"
)

// userRotateTokenCmd represents the user rotate-token command
var userRotateTokenCmd = &cobra.Command{
	Use:   "rotate-token [email]",
	Short: "Replace an owner's install token",
	Long: `Replace an owner's install token and print the new one.

The previous token stops working immediately. Servers that already
enrolled keep their secrets.

Example:
  hostwatchctl user rotate-token ops@example.com`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		token, err := rotateUserToken(cmd.Context(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to rotate token: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Install token: %s\n", token)
	},
}

func init() {
	userCmd.AddCommand(userRotateTokenCmd)
}

func rotateUserToken(ctx context.Context, email string) (string, error) {
	var token string
	err := withFleet(ctx, func(ctx context.Context, svc *fleet.Service) error {
		u, err := svc.FindOwner(ctx, model.NormalizeEmail(email))
		if err != nil {
			return err
		}
		token, err = svc.RotateToken(ctx, u.ID)
		return err
	})
	return token, err
}
