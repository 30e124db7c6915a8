package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/hostwatch"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and its release notes",
	Long: `Print the version. With --notes, also print the release notes of that
version, or of the version given with --release.

Example:
  hostwatchctl version
  hostwatchctl version --notes --release 0.1.0`,
	Run: func(cmd *cobra.Command, args []string) {
		notes, _ := cmd.Flags().GetBool("notes")
		version, _ := cmd.Flags().GetString("release")
		if version == "" {
			version = hostwatch.Version()
		}

		fmt.Println(version)
		if !notes {
			return
		}

		r, ok := hostwatch.Changelog().Find(version)
		if !ok {
			fmt.Fprintf(os.Stderr, "No release notes for %s\n", version)
			os.Exit(1)
		}
		fmt.Println()
		if r.Date != "" {
			fmt.Printf("## [%s] - %s\n\n", r.Version, r.Date)
		}
		fmt.Println(r.Notes)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("notes", false, "print release notes")
	versionCmd.Flags().String("release", "", "release to describe (default: this build)")
}
