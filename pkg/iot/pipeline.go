package iot

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/samseatt/vitaledge-pi-iot/pkg/common"
	"github.com/samseatt/vitaledge-pi-iot/pkg/models"
)

const DefaultCaptureTimeout = 5 * time.Second

type CycleReport struct {
	CycleID      string      `json:"cycleId"`
	StartedAt    time.Time   `json:"startedAt"`
	RecordID     uint        `json:"recordId"`
	Persisted    bool        `json:"persisted"`
	Delivered    bool        `json:"delivered"`
	InstantAlert string      `json:"instantAlert,omitempty"`
	TrendAlert   string      `json:"trendAlert,omitempty"`
	Sweep        SweepResult `json:"sweep"`
	Duration     string      `json:"duration"`
}

func cycleLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTCycle),
	)
}

// capture never fails: a broken sensor yields a reading that only carries its ids and timestamp.
func (i *IOT) capture(ctx context.Context) *models.Reading {
	reading := &models.Reading{
		DeviceID:  i.Settings.DeviceID,
		PatientID: i.Settings.PatientID,
		Timestamp: i.now().UTC(),
		Status:    models.DefaultReadingStatus,
	}

	if i.Sensor == nil {
		cycleLogger().Warn("No sensor configured, capturing an empty reading")
		return reading
	}

	readCtx, cancel := context.WithTimeout(ctx, i.captureTimeout())
	defer cancel()

	sample, err := i.Sensor.Read(readCtx)
	if err != nil {
		cycleLogger().Error("Sensor read failed, capturing an empty reading", zap.Error(err))
		return reading
	}
	if sample != nil {
		reading.Sample = *sample
	}
	return reading
}

func (i *IOT) raise(ctx context.Context, alertType models.AlertType, message string, reading *models.Reading) {
	if message == "" {
		return
	}

	alert := models.Alert{
		Type:      alertType,
		Message:   message,
		DeviceID:  reading.DeviceID,
		PatientID: reading.PatientID,
		Timestamp: reading.Timestamp,
	}

	logger := common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTAlert),
	)
	logger.Warn("Alert", zap.String("type", string(alertType)), zap.String("message", message))

	if i.Notifier == nil {
		return
	}
	if err := i.Notifier.Notify(ctx, alert); err != nil {
		logger.Error("Failed to notify alert", zap.Error(err))
	}
}

// RunCycle captures one reading and pushes it through persist, alert, deliver and sweep.
func (i *IOT) RunCycle(ctx context.Context) CycleReport {
	started := i.now()
	report := CycleReport{
		CycleID:   uuid.NewString(),
		StartedAt: started.UTC(),
	}
	logger := cycleLogger().With(zap.String("cycle_id", report.CycleID))

	reading := i.capture(ctx)

	if i.Store == nil {
		logger.Error("Store service not available, reading is not buffered")
	} else if id, err := i.Store.Insert(ctx, reading); err != nil {
		logger.Error("Assertion failed: reading was not persisted", zap.Error(err))
	} else {
		report.RecordID = id
		report.Persisted = true
	}

	if i.Alert != nil {
		report.InstantAlert = i.Alert.CheckReading(reading)
		i.raise(ctx, models.AlertTypeInstant, report.InstantAlert, reading)

		trend, err := i.Alert.AnalyzeRecentTrends(ctx, i.trendWindow())
		if err != nil {
			logger.Error("Trend analysis failed", zap.Error(err))
		}
		report.TrendAlert = trend
		i.raise(ctx, models.AlertTypeTrend, report.TrendAlert, reading)
	}

	if err := i.Deliver(ctx, reading, report.RecordID); err == nil {
		report.Delivered = true
	}

	if ctx.Err() == nil {
		sweep, err := i.Sweep(ctx)
		if err != nil {
			logger.Error("Sweep failed", zap.Error(err))
		}
		report.Sweep = sweep
	}

	report.Duration = i.now().Sub(started).String()
	logger.Info("Cycle finished", zap.Reflect("report", report))
	i.publishReport(report)
	return report
}

// Run repeats RunCycle every interval until ctx is done.
func (i *IOT) Run(ctx context.Context, interval time.Duration) error {
	logger := cycleLogger()
	logger.Info("Starting capture loop", zap.Duration("interval", interval))

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Capture loop stopped")
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-timer.C:
		}

		i.RunCycle(ctx)
		timer.Reset(interval)
	}
}
