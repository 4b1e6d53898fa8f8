package iot

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zapcore"

	"github.com/samseatt/vitaledge-pi-iot/pkg/common"
	"github.com/samseatt/vitaledge-pi-iot/pkg/models"
	"github.com/samseatt/vitaledge-pi-iot/pkg/sensor"
	_ "github.com/samseatt/vitaledge-pi-iot/pkg/testing"
)

func fixedSensor(sample models.Sample) sensor.Sensor {
	return sensor.Func(func(context.Context) (*models.Sample, error) {
		s := sample
		return &s, nil
	})
}

func TestRunCycleHappyPath(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _, mockTransmitter := GetMockIOTWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	iotObj.Clock = fixedClock(now)
	notifier := &recordingNotifier{}
	iotObj.WithServices(ServiceOpts{
		Sensor:   fixedSensor(models.Sample{HeartRate: models.Float(130), Temperature: models.Float(39)}),
		Notifier: notifier,
	})

	var observed []CycleReport
	iotObj.OnCycle(func(r CycleReport) { observed = append(observed, r) })

	var sent *models.Reading
	mockTransmitter.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r *models.Reading) error {
			sent = r
			return nil
		},
	).Times(1)

	report := iotObj.RunCycle(context.Background())

	assert.NotEmpty(t, report.CycleID)
	assert.True(t, report.Persisted)
	assert.NotZero(t, report.RecordID)
	assert.True(t, report.Delivered)
	assert.Equal(t, AlertHighHeartRate, report.InstantAlert)
	assert.Empty(t, report.TrendAlert)
	assert.Equal(t, SweepResult{}, report.Sweep)

	require.NotNil(t, sent)
	assert.Equal(t, testDeviceID, sent.DeviceID)
	assert.Equal(t, testPatientID, sent.PatientID)
	assert.Equal(t, now, sent.Timestamp)
	assert.Equal(t, models.DefaultReadingStatus, sent.Status)

	alerts := notifier.received()
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertTypeInstant, alerts[0].Type)
	assert.Equal(t, AlertHighHeartRate, alerts[0].Message)
	assert.Equal(t, testPatientID, alerts[0].PatientID)

	require.Len(t, observed, 1)
	assert.Equal(t, report, observed[0])
	last, ok := iotObj.LastReport()
	assert.True(t, ok)
	assert.Equal(t, report.CycleID, last.CycleID)
}

func TestRunCycleSensorFailureStillBuffersReading(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _, mockTransmitter := GetMockIOTWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	iotObj.Sensor = sensor.Func(func(context.Context) (*models.Sample, error) {
		return nil, errors.New("i2c bus timeout")
	})
	mockTransmitter.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("offline")).Times(2)

	report := iotObj.RunCycle(context.Background())
	assert.True(t, report.Persisted)
	assert.False(t, report.Delivered)
	assert.Empty(t, report.InstantAlert)
	assert.Equal(t, SweepResult{Pending: 1, Failed: 1}, report.Sweep)

	var record models.SensorRecord
	require.NoError(t, iotObj.Db.Conn.First(&record, report.RecordID).Error)
	assert.Nil(t, record.HeartRate)
	assert.Nil(t, record.Temperature)
	assert.Equal(t, testDeviceID, record.DeviceID)
	assert.Equal(t, models.TransmitStatusUnsent, record.TransmitStatus)
}

func TestRunCycleDoesNotWaitForSilentSensor(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _, mockTransmitter := GetMockIOTWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	iotObj.Settings.CaptureTimeout = 50 * time.Millisecond
	iotObj.Sensor = sensor.Func(func(ctx context.Context) (*models.Sample, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	mockTransmitter.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	started := time.Now()
	report := iotObj.RunCycle(context.Background())

	assert.Less(t, time.Since(started), 2*time.Second)
	assert.True(t, report.Persisted)
	assert.True(t, report.Delivered)
	assert.Equal(t, SweepResult{}, report.Sweep)
}

func TestRunCycleRetriesFreshReadingInSweep(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _, mockTransmitter := GetMockIOTWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	iotObj.Sensor = fixedSensor(models.Sample{HeartRate: models.Float(72)})
	gomock.InOrder(
		mockTransmitter.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("timeout")),
		mockTransmitter.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil),
	)

	report := iotObj.RunCycle(context.Background())
	assert.False(t, report.Delivered)
	assert.Equal(t, SweepResult{Pending: 1, Delivered: 1}, report.Sweep)
	assert.Empty(t, undeliveredIDs(t, iotObj))
}

func TestRunCyclePersistenceFailure(t *testing.T) {
	var buf bytes.Buffer
	common.SetTestCaptureLogger(&buf, zapcore.ErrorLevel)

	ctrl, iotObj, mockStore, mockAlert, mockTransmitter := GetMockIOTWithMemorySqliteDialector(t, true, true)
	defer ctrl.Finish()

	iotObj.Sensor = fixedSensor(models.Sample{HeartRate: models.Float(72)})

	mockStore.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(uint(0), errors.New("disk full"))
	mockAlert.EXPECT().CheckReading(gomock.Any()).Return("")
	mockAlert.EXPECT().AnalyzeRecentTrends(gomock.Any(), DefaultTrendWindow).Return("", nil)
	mockTransmitter.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)
	mockStore.EXPECT().FetchUndelivered(gomock.Any()).Return(nil, nil)

	report := iotObj.RunCycle(context.Background())
	assert.False(t, report.Persisted)
	assert.Zero(t, report.RecordID)
	assert.True(t, report.Delivered)

	found := false
	for _, entry := range ParseLogs(&buf) {
		fields := entry.(map[string]any)
		if fields["msg"] == "Assertion failed: reading was not persisted" {
			found = true
			assert.Equal(t, "error", fields["level"])
			assert.Equal(t, common.LoggerCategoryIOTCycle, fields["category"])
		}
	}
	assert.True(t, found)
}

func TestRunCycleRaisesTrendAlert(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _, mockTransmitter := GetMockIOTWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	iotObj.Clock = fixedClock(now)
	iotObj.Settings.TrendWindow = 3 * time.Minute
	notifier := &recordingNotifier{err: errors.New("broker gone")}
	iotObj.Notifier = notifier

	ids := insertReadings(t, iotObj,
		newReading(now.Add(-2*time.Minute), models.Float(70), nil),
		newReading(now.Add(-1*time.Minute), models.Float(75), nil),
	)
	for _, id := range ids {
		require.NoError(t, iotObj.Store.MarkDelivered(context.Background(), id))
	}

	iotObj.Sensor = fixedSensor(models.Sample{HeartRate: models.Float(82)})
	mockTransmitter.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)

	report := iotObj.RunCycle(context.Background())
	assert.Empty(t, report.InstantAlert)
	assert.Equal(t, AlertRisingHeartRate, report.TrendAlert)
	assert.True(t, report.Delivered)

	alerts := notifier.received()
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertTypeTrend, alerts[0].Type)
}

func TestRunStopsWhenContextIsDone(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _, mockTransmitter := GetMockIOTWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	iotObj.Sensor = fixedSensor(models.Sample{HeartRate: models.Float(72)})
	mockTransmitter.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cycles atomic.Int32
	iotObj.OnCycle(func(CycleReport) {
		if cycles.Add(1) == 3 {
			cancel()
		}
	})

	done := make(chan error, 1)
	go func() { done <- iotObj.Run(ctx, 5*time.Millisecond) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run loop did not stop")
	}

	assert.EqualValues(t, 3, cycles.Load())

	counts, err := iotObj.Store.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StatusCounts{Sent: 3}, counts)
}
