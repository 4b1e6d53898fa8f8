package iot

import (
	"context"
	"sync"
	"time"

	"github.com/samseatt/vitaledge-pi-iot/pkg/db"
	"github.com/samseatt/vitaledge-pi-iot/pkg/models"
	"github.com/samseatt/vitaledge-pi-iot/pkg/notify"
	"github.com/samseatt/vitaledge-pi-iot/pkg/sensor"
)

//go:generate mockgen -source=iot.go -destination=mocks/iot_mocks.go -package=mocks

type IStore interface {
	Insert(ctx context.Context, reading *models.Reading) (uint, error)
	MarkDelivered(ctx context.Context, id uint) error
	FetchUndelivered(ctx context.Context) ([]models.SensorRecord, error)
	PeekUndelivered(ctx context.Context, limit int) ([]models.SensorRecord, error)
	FetchRecentWithin(ctx context.Context, window time.Duration) ([]models.TrendSample, error)
	CountByStatus(ctx context.Context) (models.StatusCounts, error)
}

type IAlert interface {
	CheckReading(reading *models.Reading) string
	AnalyzeRecentTrends(ctx context.Context, window time.Duration) (string, error)
}

type ITransmitter interface {
	Send(ctx context.Context, reading *models.Reading) error
}

type Settings struct {
	DeviceID    string
	PatientID   string
	TrendWindow time.Duration

	// CaptureTimeout bounds one sensor read; zero means DefaultCaptureTimeout.
	CaptureTimeout time.Duration
}

type IOT struct {
	Db          db.DB
	Settings    Settings
	Store       IStore
	Alert       IAlert
	Transmitter ITransmitter
	Sensor      sensor.Sensor
	Notifier    notify.Notifier

	// Clock is overridable in tests; defaults to time.Now.
	Clock func() time.Time

	mu         sync.RWMutex
	observers  []func(CycleReport)
	lastReport *CycleReport
}

type ServiceOpts struct {
	Store       IStore
	Alert       IAlert
	Transmitter ITransmitter
	Sensor      sensor.Sensor
	Notifier    notify.Notifier
}

func (i *IOT) WithServices(opts ServiceOpts) *IOT {
	if opts.Store != nil {
		i.Store = opts.Store
	}
	if opts.Alert != nil {
		i.Alert = opts.Alert
	}
	if opts.Transmitter != nil {
		i.Transmitter = opts.Transmitter
	}
	if opts.Sensor != nil {
		i.Sensor = opts.Sensor
	}
	if opts.Notifier != nil {
		i.Notifier = opts.Notifier
	}
	return i
}

func (i *IOT) now() time.Time {
	if i.Clock != nil {
		return i.Clock()
	}
	return time.Now()
}

func (i *IOT) trendWindow() time.Duration {
	if i.Settings.TrendWindow > 0 {
		return i.Settings.TrendWindow
	}
	return DefaultTrendWindow
}

func (i *IOT) captureTimeout() time.Duration {
	if i.Settings.CaptureTimeout > 0 {
		return i.Settings.CaptureTimeout
	}
	return DefaultCaptureTimeout
}

// OnCycle registers fn to receive every finished cycle's report.
func (i *IOT) OnCycle(fn func(CycleReport)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.observers = append(i.observers, fn)
}

func (i *IOT) LastReport() (CycleReport, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.lastReport == nil {
		return CycleReport{}, false
	}
	return *i.lastReport, true
}

func (i *IOT) publishReport(report CycleReport) {
	i.mu.Lock()
	i.lastReport = &report
	observers := append([]func(CycleReport){}, i.observers...)
	i.mu.Unlock()

	for _, fn := range observers {
		fn(report)
	}
}
