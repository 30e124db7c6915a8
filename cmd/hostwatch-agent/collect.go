package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/hostwatch/pkg/agent"
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Print one snapshot as JSON",
	Long:  `Collect one snapshot and print it without contacting a server.`,
	Run: func(cmd *cobra.Command, args []string) {
		snap, err := agent.Collect(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to collect: %v\n", err)
			os.Exit(1)
		}
		out, _ := json.MarshalIndent(snap, "", "  ")
		fmt.Println(string(out))
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
}
