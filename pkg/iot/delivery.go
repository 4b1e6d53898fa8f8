package iot

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/samseatt/vitaledge-pi-iot/pkg/common"
	"github.com/samseatt/vitaledge-pi-iot/pkg/models"
)

var (
	errStoreUnavailable       = errors.New("store service not available")
	errTransmitterUnavailable = errors.New("transmitter service not available")

	// ErrMarkDelivered means the collector accepted the reading but the row is still
	// unsent locally; the next sweep will send it again.
	ErrMarkDelivered = errors.New("delivered but not marked")
)

func deliveryLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryDelivery),
	)
}

// Deliver sends one reading and, when recordID names a buffered row, marks that row
// delivered. recordID 0 means the reading never made it into the buffer.
func (i *IOT) Deliver(ctx context.Context, reading *models.Reading, recordID uint) error {
	logger := deliveryLogger().With(zap.Uint("record_id", recordID))

	if i.Transmitter == nil {
		return errTransmitterUnavailable
	}

	if err := i.Transmitter.Send(ctx, reading); err != nil {
		logger.Error("Delivery failed, record stays buffered", zap.Error(err))
		return err
	}

	if recordID == 0 {
		logger.Warn("Delivered a reading that is not buffered")
		return nil
	}

	if i.Store == nil {
		return errStoreUnavailable
	}

	// the collector already has it; a shutdown now must not leave the row unsent
	if err := i.Store.MarkDelivered(context.WithoutCancel(ctx), recordID); err != nil {
		logger.Error("Delivered but could not mark record", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrMarkDelivered, err)
	}

	logger.Info("Record delivered")
	return nil
}
