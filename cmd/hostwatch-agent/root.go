package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hostwatch-agent",
	Short: "Push signed host metrics to a hostwatch server",
	Long: `hostwatch-agent enrolls the host with an install token on first run and
then pushes an HMAC-signed metrics snapshot at a fixed interval.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
