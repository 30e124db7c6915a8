package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/hostwatch/pkg/session"
)

var sessionKeyCmd = &cobra.Command{
	Use:   "session-key",
	Short: "Manage the session signing key",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'session-key' requires a subcommand generate")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var sessionKeyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a session signing key",
	Long: `Generate a Base64-encoded key for signing owner sessions.

Rotating this key signs every owner out.

Example:

$ export HOSTWATCH_SESSION_KEY="$(hostwatchctl session-key generate)"
`,
	Run: func(cmd *cobra.Command, args []string) {
		key, err := session.GenerateKey()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate key: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s", key)
	},
}

func init() {
	rootCmd.AddCommand(sessionKeyCmd)
	sessionKeyCmd.AddCommand(sessionKeyGenerateCmd)
}
