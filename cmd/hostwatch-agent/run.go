package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/hostwatch/pkg/agent"
	"github.com/doodlesbykumbi/hostwatch/pkg/logging"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Enroll if needed and push metrics until stopped",
	Long: `Enroll if needed and push metrics until stopped.

Without a credentials file the agent needs --token to enroll. The server id
and secret it receives are written to --config with mode 0600 and reused on
every later start.

Example:
  hostwatch-agent run --server https://hostwatch.example.com --token 9f2c...
  hostwatch-agent run --server https://hostwatch.example.com`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runAgent(cmd); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("server", "s", envOr("HOSTWATCH_SERVER", "http://localhost:8000"), "hostwatch server URL")
	runCmd.Flags().StringP("token", "t", os.Getenv("HOSTWATCH_INSTALL_TOKEN"), "install token for the first run")
	runCmd.Flags().StringP("config", "c", "agent_config.json", "credentials file")
	runCmd.Flags().String("ip", "", "address to enroll with (default: first non-loopback address)")
	runCmd.Flags().Duration("interval", agent.DefaultInterval, "time between pushes")
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func runAgent(cmd *cobra.Command) error {
	logger, err := logging.New(logging.FromEnv())
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	serverURL, _ := cmd.Flags().GetString("server")
	token, _ := cmd.Flags().GetString("token")
	path, _ := cmd.Flags().GetString("config")
	ip, _ := cmd.Flags().GetString("ip")
	interval, _ := cmd.Flags().GetDuration("interval")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := agent.NewClient(serverURL, nil)
	creds, err := agent.EnsureCredentials(ctx, client, path, token, ip, logger)
	if err != nil {
		return err
	}

	a := &agent.Agent{
		Client:   client,
		Creds:    creds,
		Collect:  agent.Collect,
		Interval: interval,
		Logger:   logger,
	}
	return a.Run(ctx)
}
