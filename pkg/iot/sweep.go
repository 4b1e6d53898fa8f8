package iot

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/samseatt/vitaledge-pi-iot/pkg/common"
	"github.com/samseatt/vitaledge-pi-iot/pkg/transmit"
)

type SweepResult struct {
	Pending   int `json:"pending"`
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// Sweep replays every undelivered record, oldest first. One record failing never
// stops the others; once authentication is down the remaining records fail without
// touching the network.
func (i *IOT) Sweep(ctx context.Context) (SweepResult, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTSweep),
	)

	var result SweepResult

	if i.Store == nil {
		return result, errStoreUnavailable
	}

	records, err := i.Store.FetchUndelivered(ctx)
	if err != nil {
		logger.Error("Failed to load undelivered records", zap.Error(err))
		return result, err
	}

	result.Pending = len(records)
	if result.Pending == 0 {
		return result, nil
	}

	logger.Info("Sweeping undelivered records", zap.Int("pending", result.Pending))

	authDown := false
	for idx := range records {
		record := &records[idx]

		if err := ctx.Err(); err != nil {
			logger.Warn("Sweep interrupted", zap.Reflect("result", result))
			return result, err
		}

		if authDown {
			result.Failed++
			logger.Warn("Skipping record, no session token", zap.Uint("record_id", record.ID))
			continue
		}

		reading, err := record.ToReading()
		if err != nil {
			result.Skipped++
			logger.Error("Skipping malformed record", zap.Uint("record_id", record.ID), zap.Error(err))
			continue
		}

		if err := i.Deliver(ctx, reading, record.ID); err != nil {
			result.Failed++
			if errors.Is(err, transmit.ErrAuthentication) {
				authDown = true
			}
			logger.Error("Retry failed", zap.Uint("record_id", record.ID), zap.Error(err))
			continue
		}

		result.Delivered++
	}

	logger.Info("Sweep finished", zap.Reflect("result", result))
	return result, nil
}
