package iot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/samseatt/vitaledge-pi-iot/pkg/common"
	"github.com/samseatt/vitaledge-pi-iot/pkg/models"
	_ "github.com/samseatt/vitaledge-pi-iot/pkg/testing"
)

func TestDeliverMarksRecordOnSuccess(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _, mockTransmitter := GetMockIOTWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	reading := newReading(time.Now().UTC(), models.Float(72), nil)
	ids := insertReadings(t, iotObj, reading)

	mockTransmitter.EXPECT().Send(gomock.Any(), reading).Return(nil).Times(1)

	require.NoError(t, iotObj.Deliver(context.Background(), reading, ids[0]))
	assert.Empty(t, undeliveredIDs(t, iotObj))
}

func TestDeliverFailureLeavesRecordUnsent(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _, mockTransmitter := GetMockIOTWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	reading := newReading(time.Now().UTC(), models.Float(72), nil)
	ids := insertReadings(t, iotObj, reading)

	offline := errors.New("network unreachable")
	mockTransmitter.EXPECT().Send(gomock.Any(), reading).Return(offline)

	assert.ErrorIs(t, iotObj.Deliver(context.Background(), reading, ids[0]), offline)
	assert.Equal(t, ids, undeliveredIDs(t, iotObj))
}

func TestDeliverMarksExactlyOnce(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, mockStore, _, mockTransmitter := GetMockIOTWithMemorySqliteDialector(t, true, false)
	defer ctrl.Finish()

	reading := newReading(time.Now().UTC(), models.Float(72), nil)
	mockTransmitter.EXPECT().Send(gomock.Any(), reading).Return(nil)
	mockStore.EXPECT().MarkDelivered(gomock.Any(), uint(7)).Return(nil).Times(1)

	require.NoError(t, iotObj.Deliver(context.Background(), reading, 7))
}

func TestDeliverUnbufferedReadingTouchesNoRecord(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _, mockTransmitter := GetMockIOTWithMemorySqliteDialector(t, true, false)
	defer ctrl.Finish()

	reading := newReading(time.Now().UTC(), models.Float(72), nil)
	mockTransmitter.EXPECT().Send(gomock.Any(), reading).Return(nil)

	// the mock store has no expectations, any call fails the test
	require.NoError(t, iotObj.Deliver(context.Background(), reading, 0))
}

func TestDeliverReportsMarkFailure(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, mockStore, _, mockTransmitter := GetMockIOTWithMemorySqliteDialector(t, true, false)
	defer ctrl.Finish()

	reading := newReading(time.Now().UTC(), models.Float(72), nil)
	locked := errors.New("database is locked")
	mockTransmitter.EXPECT().Send(gomock.Any(), reading).Return(nil)
	mockStore.EXPECT().MarkDelivered(gomock.Any(), uint(3)).Return(locked)

	err := iotObj.Deliver(context.Background(), reading, 3)
	assert.ErrorIs(t, err, ErrMarkDelivered)
	assert.ErrorIs(t, err, locked)
}

func TestDeliverWithoutTransmitter(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _, _ := GetMockIOTWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()
	iotObj.Transmitter = nil

	reading := newReading(time.Now().UTC(), models.Float(72), nil)
	ids := insertReadings(t, iotObj, reading)

	assert.Error(t, iotObj.Deliver(context.Background(), reading, ids[0]))
	assert.Equal(t, ids, undeliveredIDs(t, iotObj))
}
