package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/samseatt/vitaledge-pi-iot/pkg/config"
	"github.com/samseatt/vitaledge-pi-iot/pkg/models"
)

type StatusOutput struct {
	DeviceID          string              `json:"deviceId"`
	PatientID         string              `json:"patientId"`
	Records           models.StatusCounts `json:"records"`
	OldestUndelivered string              `json:"oldestUndelivered,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print buffered record counts as JSON",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	agent, err := newCore(cfg)
	if err != nil {
		return err
	}
	defer agent.Close()

	ctx := cmd.Context()
	counts, err := agent.Iot.Store.CountByStatus(ctx)
	if err != nil {
		return err
	}

	out := StatusOutput{DeviceID: cfg.DeviceID, PatientID: cfg.PatientID, Records: counts}

	oldest, err := agent.Iot.Store.PeekUndelivered(ctx, 1)
	if err != nil {
		return err
	}
	if len(oldest) > 0 {
		out.OldestUndelivered = oldest[0].Timestamp
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
