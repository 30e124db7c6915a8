package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hostwatchctl",
	Short: "Run and administer the hostwatch server",
	Long: `hostwatchctl runs the hostwatch ingestion server and provides the
administrative commands around it: schema migrations, key generation,
owner accounts and configuration inspection.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
