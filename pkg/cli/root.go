package cli

import (
	"github.com/spf13/cobra"

	"github.com/samseatt/vitaledge-pi-iot/pkg/common"
	"github.com/samseatt/vitaledge-pi-iot/pkg/config"
)

var envFile string

// rootCmd runs the agent loop when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "vitaledge",
	Short: "VitalEdge bedside telemetry agent",
	Long: `Captures vital signs on the device, buffers every reading in a local sqlite
store and forwards it to the VitalEdge collector. Readings that cannot be
delivered stay buffered and are retried on every cycle.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadEnvFile(envFile)
	},
	RunE: runAgent,
}

func Execute() error {
	defer common.Sync()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading IOT_* variables")
}
