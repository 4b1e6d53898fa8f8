package models

import (
	"fmt"
	"time"

	"github.com/relvacode/iso8601"
)

type TransmitStatus string

const (
	TransmitStatusUnsent TransmitStatus = "unsent"
	TransmitStatusSent   TransmitStatus = "sent"
)

type AlertType string

const (
	AlertTypeInstant AlertType = "instant"
	AlertTypeTrend   AlertType = "trend"
)

const (
	DefaultReadingStatus = "active"

	// fixed width so that lexical order of the stored column equals chronological order
	TimestampLayout = "2006-01-02T15:04:05.000000Z"
)

// Sample is what a sensor produces. Every field is optional.
type Sample struct {
	HeartRate      *float64
	Temperature    *float64
	OxygenLevel    *float64
	StepsCount     *float64
	CaloriesBurned *float64
	BatteryLevel   *float64
	SignalStrength *int
}

// Reading is a captured Sample stamped with its identity. It is never modified after capture.
type Reading struct {
	DeviceID  string
	PatientID string
	Timestamp time.Time
	Status    string
	Sample
}

// SensorRecord is one row of the sensor_data table.
type SensorRecord struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	DeviceID       string         `json:"deviceId"`
	PatientID      string         `json:"patientId"`
	Timestamp      string         `json:"timestamp"`
	HeartRate      *float64       `json:"heartRate"`
	Temperature    *float64       `json:"temperature"`
	OxygenLevel    *float64       `json:"oxygenLevel"`
	StepsCount     *float64       `json:"stepsCount"`
	CaloriesBurned *float64       `json:"caloriesBurned"`
	BatteryLevel   *float64       `json:"batteryLevel"`
	SignalStrength *int           `json:"signalStrength"`
	Status         *string        `json:"status"`
	TransmitStatus TransmitStatus `json:"transmitStatus"`
}

func (SensorRecord) TableName() string {
	return "sensor_data"
}

// TrendSample is the projection used by the windowed trend analysis.
type TrendSample struct {
	Timestamp   string
	HeartRate   *float64
	Temperature *float64
}

type StatusCounts struct {
	Sent   int64 `json:"sent"`
	Unsent int64 `json:"unsent"`
}

type Alert struct {
	Type      AlertType `json:"type"`
	Message   string    `json:"message"`
	DeviceID  string    `json:"deviceId"`
	PatientID string    `json:"patientId"`
	Timestamp time.Time `json:"timestamp"`
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts any ISO-8601 instant; rows without a zone are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := iso8601.ParseString(s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func NewSensorRecord(reading *Reading) SensorRecord {
	record := SensorRecord{
		DeviceID:       reading.DeviceID,
		PatientID:      reading.PatientID,
		Timestamp:      FormatTimestamp(reading.Timestamp),
		HeartRate:      reading.HeartRate,
		Temperature:    reading.Temperature,
		OxygenLevel:    reading.OxygenLevel,
		StepsCount:     reading.StepsCount,
		CaloriesBurned: reading.CaloriesBurned,
		BatteryLevel:   reading.BatteryLevel,
		SignalStrength: reading.SignalStrength,
		TransmitStatus: TransmitStatusUnsent,
	}
	if reading.Status != "" {
		status := reading.Status
		record.Status = &status
	}
	return record
}

// ToReading rebuilds the captured Reading from a stored row.
func (r *SensorRecord) ToReading() (*Reading, error) {
	ts, err := ParseTimestamp(r.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("record %d has malformed timestamp %q: %w", r.ID, r.Timestamp, err)
	}

	reading := &Reading{
		DeviceID:  r.DeviceID,
		PatientID: r.PatientID,
		Timestamp: ts,
		Sample: Sample{
			HeartRate:      r.HeartRate,
			Temperature:    r.Temperature,
			OxygenLevel:    r.OxygenLevel,
			StepsCount:     r.StepsCount,
			CaloriesBurned: r.CaloriesBurned,
			BatteryLevel:   r.BatteryLevel,
			SignalStrength: r.SignalStrength,
		},
	}
	if r.Status != nil {
		reading.Status = *r.Status
	}
	return reading, nil
}

func Float(v float64) *float64 {
	return &v
}

func Int(v int) *int {
	return &v
}
