package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/samseatt/vitaledge-pi-iot/pkg/common"
	"github.com/samseatt/vitaledge-pi-iot/pkg/config"
	"github.com/samseatt/vitaledge-pi-iot/pkg/db"
	"github.com/samseatt/vitaledge-pi-iot/pkg/iot"
	"github.com/samseatt/vitaledge-pi-iot/pkg/notify"
	"github.com/samseatt/vitaledge-pi-iot/pkg/sensor"
	"github.com/samseatt/vitaledge-pi-iot/pkg/transmit"
)

// Agent is the wired process: store, core and whatever collaborators the command needs.
type Agent struct {
	Config *config.Config
	DB     *db.DB
	Iot    *iot.IOT
	Client *transmit.Client

	closers []func()
}

func openStore(cfg *config.Config) (*db.DB, error) {
	if cfg.DBType == config.DBTypeMemory {
		return db.Open(db.UseMemorySqliteDialector())
	}
	return db.Open(db.UseSqliteFileDialector(cfg.DbPath))
}

// newCore opens the store and wires the store and alert services.
func newCore(cfg *config.Config) (*Agent, error) {
	dbInstance, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	iotCore := &iot.IOT{
		Db: *dbInstance,
		Settings: iot.Settings{
			DeviceID:    cfg.DeviceID,
			PatientID:   cfg.PatientID,
			TrendWindow: cfg.TrendWindow,
		},
	}
	iotCore.WithServices(iot.ServiceOpts{
		Store: iotCore.GetIStore(),
		Alert: iotCore.GetIAlert(),
	})

	agent := &Agent{Config: cfg, DB: dbInstance, Iot: iotCore}
	agent.closers = append(agent.closers, func() { _ = dbInstance.Close() })
	return agent, nil
}

func (a *Agent) wireDelivery() {
	tokens := transmit.NewTokenManager(
		a.Config.AuthEndpoint,
		transmit.Credentials{Username: a.Config.Username, Password: a.Config.Password},
		a.Config.DeliveryTimeout,
	)
	a.Client = transmit.NewClient(transmit.ClientOpts{
		BackendURL: a.Config.BackendURL,
		Timeout:    a.Config.DeliveryTimeout,
		Tokens:     tokens,
		Limiters:   transmit.NewRateLimiterStore(a.Config.DeliveryRate, a.Config.DeliveryBurst),
	})
	a.Iot.WithServices(iot.ServiceOpts{Transmitter: a.Client})
}

func buildSensor(cfg *config.Config) (sensor.Sensor, func(), error) {
	if cfg.SensorMode == config.SensorModeHardware {
		h, err := sensor.OpenHardware(cfg.SerialPort, cfg.SerialBaud)
		if err != nil {
			return nil, nil, err
		}
		return h, func() { _ = h.Close() }, nil
	}
	return sensor.NewSimulated(nil), func() {}, nil
}

// buildNotifier falls back to log-only alerts when the broker cannot be reached.
func buildNotifier(cfg *config.Config) (notify.Notifier, func()) {
	if cfg.MqttBroker == "" {
		return notify.LogNotifier{}, func() {}
	}

	n, err := notify.NewMQTTNotifier(notify.MQTTOptions{
		BrokerURL: cfg.MqttBroker,
		ClientID:  "vitaledge-" + cfg.DeviceID,
		Topic:     cfg.MqttTopic,
		QoS:       1,
	})
	if err != nil {
		common.GetLoggerWith(common.LoggerNameNotifier).Warn("Alert broker unavailable, alerts are only logged",
			zap.String("broker", cfg.MqttBroker), zap.Error(err))
		return notify.LogNotifier{}, func() {}
	}
	return n, n.Close
}

// NewAgent wires everything the capture loop needs.
func NewAgent(cfg *config.Config) (*Agent, error) {
	agent, err := newCore(cfg)
	if err != nil {
		return nil, err
	}
	agent.wireDelivery()

	s, closeSensor, err := buildSensor(cfg)
	if err != nil {
		agent.Close()
		return nil, err
	}
	agent.closers = append(agent.closers, closeSensor)

	n, closeNotifier := buildNotifier(cfg)
	agent.closers = append(agent.closers, closeNotifier)

	agent.Iot.WithServices(iot.ServiceOpts{Sensor: s, Notifier: n})
	return agent, nil
}

// Close releases collaborators in reverse order of creation.
func (a *Agent) Close() {
	for idx := len(a.closers) - 1; idx >= 0; idx-- {
		a.closers[idx]()
	}
	a.closers = nil
}
