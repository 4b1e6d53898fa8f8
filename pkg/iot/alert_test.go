package iot

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zapcore"

	"github.com/samseatt/vitaledge-pi-iot/pkg/common"
	"github.com/samseatt/vitaledge-pi-iot/pkg/models"
	_ "github.com/samseatt/vitaledge-pi-iot/pkg/testing"
)

func TestEvaluateInstant(t *testing.T) {
	tests := []struct {
		name   string
		sample models.Sample
		want   string
	}{
		{"heart rate wins over temperature", models.Sample{HeartRate: models.Float(130), Temperature: models.Float(39)}, AlertHighHeartRate},
		{"temperature", models.Sample{HeartRate: models.Float(80), Temperature: models.Float(38.6)}, AlertHighTemperature},
		{"temperature wins over oxygen", models.Sample{Temperature: models.Float(39), OxygenLevel: models.Float(85)}, AlertHighTemperature},
		{"low oxygen", models.Sample{OxygenLevel: models.Float(89.9)}, AlertLowOxygen},
		{"thresholds are exclusive", models.Sample{HeartRate: models.Float(120), Temperature: models.Float(38.5), OxygenLevel: models.Float(90)}, ""},
		{"zero oxygen means absent", models.Sample{OxygenLevel: models.Float(0)}, ""},
		{"empty sample", models.Sample{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateInstant(&tt.sample))
		})
	}
}

func TestIsIncreasingTrend(t *testing.T) {
	assert.True(t, IsIncreasingTrend([]float64{70, 75, 82}))
	assert.True(t, IsIncreasingTrend([]float64{36.5, 36.6, 36.7, 36.9}))
	assert.False(t, IsIncreasingTrend([]float64{70, 82, 75}))
	assert.False(t, IsIncreasingTrend([]float64{70, 70, 82}))
	assert.False(t, IsIncreasingTrend([]float64{70, 75}))
	assert.False(t, IsIncreasingTrend(nil))
}

// trend builds samples newest first from values listed oldest first.
func trend(heartRates []*float64, temperatures []*float64) []models.TrendSample {
	n := max(len(heartRates), len(temperatures))
	samples := make([]models.TrendSample, n)
	for idx := range n {
		s := &samples[n-1-idx]
		if idx < len(heartRates) {
			s.HeartRate = heartRates[idx]
		}
		if idx < len(temperatures) {
			s.Temperature = temperatures[idx]
		}
	}
	return samples
}

func floats(values ...float64) []*float64 {
	return common.Mapper(values, models.Float)
}

func TestEvaluateTrend(t *testing.T) {
	tests := []struct {
		name    string
		samples []models.TrendSample
		want    string
	}{
		{"rising heart rate", trend(floats(70, 75, 82), nil), AlertRisingHeartRate},
		{"not monotonic", trend(floats(70, 82, 75), nil), ""},
		{"fewer than three records", trend(floats(70, 75), floats(36.5, 36.9)), ""},
		{"rising temperature", trend(floats(80, 80, 80), floats(36.5, 36.8, 37.2)), AlertRisingTemperature},
		{"heart rate takes priority", trend(floats(70, 75, 82), floats(36.5, 36.8, 37.2)), AlertRisingHeartRate},
		{"elevated average", trend(floats(110, 105, 110), nil), AlertElevatedAverageRate},
		{"average at threshold", trend(floats(100, 100, 100), nil), ""},
		{
			"nulls are dropped before the trend check",
			trend([]*float64{models.Float(70), nil, models.Float(75)}, floats(37, 37, 37)),
			"",
		},
		{
			"nulls keep order of the remaining values",
			trend([]*float64{models.Float(70), nil, models.Float(75), models.Float(80)}, nil),
			AlertRisingHeartRate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateTrend(tt.samples))
		})
	}
}

func TestEvaluateTrendDoesNotReorderInput(t *testing.T) {
	samples := trend(floats(70, 75, 82), nil)
	newest := *samples[0].HeartRate

	EvaluateTrend(samples)
	assert.Equal(t, newest, *samples[0].HeartRate)
}

func TestAnalyzeRecentTrendsFromStore(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _, _ := GetMockIOTWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	iotObj.Clock = fixedClock(now)

	insertReadings(t, iotObj,
		newReading(now.Add(-10*time.Minute), models.Float(200), nil),
		newReading(now.Add(-3*time.Minute), models.Float(70), nil),
		newReading(now.Add(-150*time.Second), nil, nil),
		newReading(now.Add(-2*time.Minute), models.Float(75), nil),
		newReading(now.Add(-1*time.Minute), models.Float(82), nil),
	)

	samples, err := iotObj.Store.FetchRecentWithin(context.Background(), DefaultTrendWindow)
	require.NoError(t, err)
	require.Len(t, samples, 3)
	assert.Equal(t, 82.0, *samples[0].HeartRate)

	alert, err := iotObj.Alert.AnalyzeRecentTrends(context.Background(), DefaultTrendWindow)
	require.NoError(t, err)
	assert.Equal(t, AlertRisingHeartRate, alert)

	alert, err = iotObj.Alert.AnalyzeRecentTrends(context.Background(), 90*time.Second)
	require.NoError(t, err)
	assert.Empty(t, alert)
}

func TestAnalyzeRecentTrendsStoreError(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, mockStore, _, _ := GetMockIOTWithMemorySqliteDialector(t, true, false)
	defer ctrl.Finish()

	boom := errors.New("disk I/O error")
	mockStore.EXPECT().FetchRecentWithin(gomock.Any(), time.Minute).Return(nil, boom)

	alert, err := iotObj.Alert.AnalyzeRecentTrends(context.Background(), time.Minute)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, alert)
}

func TestAnalyzeRecentTrendsLogs(t *testing.T) {
	var buf bytes.Buffer
	common.SetTestCaptureLogger(&buf, zapcore.DebugLevel)

	ctrl, iotObj, _, _, _ := GetMockIOTWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	_, err := iotObj.Alert.AnalyzeRecentTrends(context.Background(), DefaultTrendWindow)
	require.NoError(t, err)

	found := false
	for _, entry := range ParseLogs(&buf) {
		fields := entry.(map[string]any)
		if fields["msg"] == "Trend window loaded" {
			found = true
			assert.Equal(t, common.LoggerNameIOTCore, fields["logger"])
			assert.Equal(t, common.LoggerCategoryIOTAlert, fields["category"])
			assert.EqualValues(t, 0, fields["samples"])
		}
	}
	assert.True(t, found, "expected trend window log entry")
}
