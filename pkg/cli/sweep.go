package cli

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/samseatt/vitaledge-pi-iot/pkg/config"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Retry every undelivered reading once and exit",
	RunE:  runSweep,
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.RequireCredentials(); err != nil {
		return err
	}

	agent, err := newCore(cfg)
	if err != nil {
		return err
	}
	defer agent.Close()
	agent.wireDelivery()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := agent.Iot.Sweep(ctx)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(result); encErr != nil {
		return encErr
	}
	return err
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
