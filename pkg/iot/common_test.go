package iot

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/samseatt/vitaledge-pi-iot/pkg/db"
	"github.com/samseatt/vitaledge-pi-iot/pkg/iot/mocks"
	"github.com/samseatt/vitaledge-pi-iot/pkg/models"
)

const (
	testDeviceID  = "pi-device-1"
	testPatientID = "patient-1"
)

// GetMockIOTWithMemorySqliteDialector builds an IOT over a private in-memory store. The
// transmitter is always the mock; store and alert are real unless asked otherwise.
func GetMockIOTWithMemorySqliteDialector(t *testing.T, useMockIStore, useMockIAlert bool) (
	*gomock.Controller,
	*IOT,
	*mocks.MockIStore,
	*mocks.MockIAlert,
	*mocks.MockITransmitter,
) {
	ctrl := gomock.NewController(t)

	mockIStore := mocks.NewMockIStore(ctrl)
	mockIAlert := mocks.NewMockIAlert(ctrl)
	mockITransmitter := mocks.NewMockITransmitter(ctrl)

	dbInstance, err := db.Open(db.UseMemorySqliteDialector())
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbInstance.Close() })

	iotInstance := &IOT{
		Db: *dbInstance,
		Settings: Settings{
			DeviceID:  testDeviceID,
			PatientID: testPatientID,
		},
	}

	storeService := iotInstance.GetIStore()
	if useMockIStore {
		storeService = mockIStore
	}

	alertService := iotInstance.GetIAlert()
	if useMockIAlert {
		alertService = mockIAlert
	}

	iotInstance.WithServices(ServiceOpts{
		Store:       storeService,
		Alert:       alertService,
		Transmitter: mockITransmitter,
	})

	return ctrl, iotInstance, mockIStore, mockIAlert, mockITransmitter
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func newReading(at time.Time, heartRate, temperature *float64) *models.Reading {
	return &models.Reading{
		DeviceID:  testDeviceID,
		PatientID: testPatientID,
		Timestamp: at,
		Status:    models.DefaultReadingStatus,
		Sample: models.Sample{
			HeartRate:   heartRate,
			Temperature: temperature,
		},
	}
}

func insertReadings(t *testing.T, iotObj *IOT, readings ...*models.Reading) []uint {
	ids := make([]uint, 0, len(readings))
	for _, r := range readings {
		id, err := iotObj.Store.Insert(context.Background(), r)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func undeliveredIDs(t *testing.T, iotObj *IOT) []uint {
	records, err := iotObj.GetIStore().FetchUndelivered(context.Background())
	require.NoError(t, err)

	ids := make([]uint, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []models.Alert
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, alert models.Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert)
	return n.err
}

func (n *recordingNotifier) received() []models.Alert {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.Alert{}, n.alerts...)
}
