package iot

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/samseatt/vitaledge-pi-iot/pkg/common"
	"github.com/samseatt/vitaledge-pi-iot/pkg/models"
)

const (
	HeartRateHighThreshold    = 120.0
	TemperatureHighThreshold  = 38.5
	OxygenLowThreshold        = 90.0
	AverageHeartRateThreshold = 100.0

	MinTrendSamples    = 3
	DefaultTrendWindow = 5 * time.Minute
)

const (
	AlertHighHeartRate       = "High heart rate alert"
	AlertHighTemperature     = "High temperature alert"
	AlertLowOxygen           = "Low oxygen level alert"
	AlertRisingHeartRate     = "Rising trend in heart rate detected"
	AlertRisingTemperature   = "Rising trend in temperature detected"
	AlertElevatedAverageRate = "Elevated average heart rate detected"
)

// present treats a zero reading the same as a missing one.
func present(v *float64) bool {
	return v != nil && *v != 0
}

// EvaluateInstant returns the first threshold breached by a single sample, or "".
func EvaluateInstant(sample *models.Sample) string {
	switch {
	case present(sample.HeartRate) && *sample.HeartRate > HeartRateHighThreshold:
		return AlertHighHeartRate
	case present(sample.Temperature) && *sample.Temperature > TemperatureHighThreshold:
		return AlertHighTemperature
	case present(sample.OxygenLevel) && *sample.OxygenLevel < OxygenLowThreshold:
		return AlertLowOxygen
	}
	return ""
}

// IsIncreasingTrend reports whether values, oldest first, rise strictly across at least MinTrendSamples points.
func IsIncreasingTrend(values []float64) bool {
	if len(values) < MinTrendSamples {
		return false
	}
	for idx := 1; idx < len(values); idx++ {
		if values[idx-1] >= values[idx] {
			return false
		}
	}
	return true
}

// EvaluateTrend inspects samples ordered newest first and returns at most one alert.
func EvaluateTrend(samples []models.TrendSample) string {
	if len(samples) < MinTrendSamples {
		return ""
	}

	chronological := slices.Clone(samples)
	slices.Reverse(chronological)

	heartRates := common.Mapper(
		common.Filter(chronological, func(s models.TrendSample) bool { return s.HeartRate != nil }),
		func(s models.TrendSample) float64 { return *s.HeartRate },
	)
	temperatures := common.Mapper(
		common.Filter(chronological, func(s models.TrendSample) bool { return s.Temperature != nil }),
		func(s models.TrendSample) float64 { return *s.Temperature },
	)

	if IsIncreasingTrend(heartRates) {
		return AlertRisingHeartRate
	}
	if IsIncreasingTrend(temperatures) {
		return AlertRisingTemperature
	}

	if len(heartRates) > 0 {
		sum := common.Reducer(heartRates, func(acc float64, v float64) float64 { return acc + v }, 0.0)
		if sum/float64(len(heartRates)) > AverageHeartRateThreshold {
			return AlertElevatedAverageRate
		}
	}

	return ""
}

func (i *IOT) analyzeRecentTrends(ctx context.Context, window time.Duration) (string, error) {
	if i.Store == nil {
		return "", errStoreUnavailable
	}

	samples, err := i.Store.FetchRecentWithin(ctx, window)
	if err != nil {
		return "", err
	}

	common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTAlert),
	).Debug("Trend window loaded", zap.Int("samples", len(samples)), zap.Duration("window", window))

	return EvaluateTrend(samples), nil
}

type IAlertImpl struct {
	iot *IOT
}

func (ia *IAlertImpl) CheckReading(reading *models.Reading) string {
	return EvaluateInstant(&reading.Sample)
}

func (ia *IAlertImpl) AnalyzeRecentTrends(ctx context.Context, window time.Duration) (string, error) {
	return ia.iot.analyzeRecentTrends(ctx, window)
}

func (i *IOT) GetIAlert() IAlert {
	return &IAlertImpl{iot: i}
}
