package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	z "github.com/Oudwins/zog"
	"github.com/joho/godotenv"
	"github.com/sosodev/duration"
	"go.uber.org/zap"

	"github.com/samseatt/vitaledge-pi-iot/pkg/common"
	"github.com/samseatt/vitaledge-pi-iot/pkg/db"
)

const (
	DBTypeFile   = "file"
	DBTypeMemory = "memory"

	SensorModeSimulated = "simulated"
	SensorModeHardware  = "hardware"

	DefaultDeviceID        = "PI-DEVICE-001"
	DefaultBackendURL      = "http://localhost:8080"
	DefaultSerialPort      = "/dev/ttyUSB0"
	DefaultSerialBaud      = 9600
	DefaultMqttTopic       = "vitaledge/alerts"
	DefaultTrendWindow     = 5 * time.Minute
	DefaultCycleInterval   = 5 * time.Second
	DefaultDeliveryTimeout = 10 * time.Second
)

var ErrMissingCredentials = errors.New("IOT_USERNAME and IOT_PASSWORD must be set")

type Config struct {
	DBType string
	DbPath string

	DeviceID  string
	PatientID string

	BackendURL   string
	AuthEndpoint string
	Username     string
	Password     string

	TrendWindow     time.Duration
	CycleInterval   time.Duration
	DeliveryTimeout time.Duration
	DeliveryRate    float64
	DeliveryBurst   int

	SensorMode string
	SerialPort string
	SerialBaud int

	HttpHostPort string
	GrpcHostPort string

	MqttBroker string
	MqttTopic  string
}

// Load always fills DeliveryBurst and SerialBaud, so a zero there came from the
// environment; Required keeps zog from skipping their checks on zero values.
var configSchema = z.Struct(z.Shape{
	"DBType":        z.String().OneOf([]string{DBTypeFile, DBTypeMemory}).Required(),
	"DeviceID":      z.String().Min(1).Required(),
	"PatientID":     z.String().Min(1).Required(),
	"BackendURL":    z.String().URL().Required(),
	"AuthEndpoint":  z.String().URL().Required(),
	"DeliveryRate":  z.Float64().GTE(0),
	"DeliveryBurst": z.Int().GTE(1).Required(),
	"SensorMode":    z.String().OneOf([]string{SensorModeSimulated, SensorModeHardware}).Required(),
	"SerialBaud":    z.Int().GT(0).Required(),
})

// LoadEnvFile loads a dotenv file into the process environment. A missing file is not
// fatal: the agent is usually configured by systemd on the device.
func LoadEnvFile(path string) {
	logger := common.GetLogger()
	if err := godotenv.Load(path); err != nil {
		logger.Warn("No env file loaded, using process environment", zap.String("path", path), zap.Error(err))
		return
	}
	logger.Info("Loaded env file", zap.String("path", path))
}

// Load reads the IOT_* environment, fills defaults and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		DBType:       envOr(common.EnvKeyIOTDBType, DBTypeFile),
		DbPath:       envOr(common.EnvKeyIOTDbPath, db.DefaultDbPath),
		DeviceID:     envOr(common.EnvKeyIOTDeviceID, DefaultDeviceID),
		PatientID:    envOr(common.EnvKeyIOTPatientID, ""),
		BackendURL:   strings.TrimRight(envOr(common.EnvKeyIOTBackendURL, DefaultBackendURL), "/"),
		Username:     envOr(common.EnvKeyIOTUsername, ""),
		Password:     os.Getenv(common.EnvKeyIOTPassword),
		SensorMode:   envOr(common.EnvKeyIOTSensorMode, SensorModeSimulated),
		SerialPort:   envOr(common.EnvKeyIOTSerialPort, DefaultSerialPort),
		HttpHostPort: envOr(common.EnvKeyIOTHttpHostPort, ""),
		GrpcHostPort: envOr(common.EnvKeyIOTGrpcHostPort, ""),
		MqttBroker:   envOr(common.EnvKeyIOTMqttBroker, ""),
		MqttTopic:    envOr(common.EnvKeyIOTMqttTopic, DefaultMqttTopic),
	}
	cfg.AuthEndpoint = envOr(common.EnvKeyIOTAuthEndpoint, cfg.BackendURL+"/authenticate")

	var err error
	if cfg.TrendWindow, err = envDuration(common.EnvKeyIOTTrendWindow, DefaultTrendWindow); err != nil {
		return nil, err
	}
	if cfg.CycleInterval, err = envDuration(common.EnvKeyIOTCycleInterval, DefaultCycleInterval); err != nil {
		return nil, err
	}
	if cfg.DeliveryTimeout, err = envDuration(common.EnvKeyIOTDeliveryTimeout, DefaultDeliveryTimeout); err != nil {
		return nil, err
	}
	if cfg.DeliveryRate, err = envFloat(common.EnvKeyIOTDeliveryRate, 0); err != nil {
		return nil, err
	}
	if cfg.DeliveryBurst, err = envInt(common.EnvKeyIOTDeliveryBurst, 1); err != nil {
		return nil, err
	}
	if cfg.SerialBaud, err = envInt(common.EnvKeyIOTSerialBaud, DefaultSerialBaud); err != nil {
		return nil, err
	}

	if issues := configSchema.Validate(cfg); issues != nil {
		return nil, fmt.Errorf("invalid configuration: %v", issues)
	}

	return cfg, nil
}

// RequireCredentials is checked by the commands that talk to the collector.
func (c *Config) RequireCredentials() error {
	if c.Username == "" || c.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// ParseDuration accepts ISO-8601 ("PT5M") as well as Go syntax ("5m"). Only positive
// durations are valid.
func ParseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)

	var d time.Duration
	if strings.HasPrefix(strings.ToUpper(value), "P") {
		iso, err := duration.Parse(strings.ToUpper(value))
		if err != nil {
			return 0, fmt.Errorf("invalid ISO-8601 duration %q: %w", value, err)
		}
		d = iso.ToTimeDuration()
	} else {
		var err error
		if d, err = time.ParseDuration(value); err != nil {
			return 0, err
		}
	}

	if d <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", value)
	}
	return d, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := envOr(key, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	raw := envOr(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s, should be a float64 value: %w", key, err)
	}
	return v, nil
}

func envInt(key string, fallback int) (int, error) {
	raw := envOr(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s, should be an int value: %w", key, err)
	}
	return v, nil
}
