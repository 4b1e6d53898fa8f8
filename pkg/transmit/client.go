package transmit

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/samseatt/vitaledge-pi-iot/pkg/common"
	"github.com/samseatt/vitaledge-pi-iot/pkg/models"
)

const (
	DefaultTimeout  = 10 * time.Second
	deviceDataRoute = "/api/patients/{patientId}/device-data"
)

// DeviceData is the collector's wire schema. Absent numbers are sent as null.
type DeviceData struct {
	DeviceID       string   `json:"deviceId"`
	PatientID      string   `json:"patientId"`
	Timestamp      string   `json:"timestamp"`
	HeartRate      *float64 `json:"heartRate"`
	StepsCount     *float64 `json:"stepsCount"`
	CaloriesBurned *float64 `json:"caloriesBurned"`
	OxygenLevel    *float64 `json:"oxygenLevel"`
	Temperature    *float64 `json:"temperature"`
}

func NewDeviceData(reading *models.Reading) DeviceData {
	return DeviceData{
		DeviceID:       reading.DeviceID,
		PatientID:      reading.PatientID,
		Timestamp:      models.FormatTimestamp(reading.Timestamp),
		HeartRate:      reading.HeartRate,
		StepsCount:     reading.StepsCount,
		CaloriesBurned: reading.CaloriesBurned,
		OxygenLevel:    reading.OxygenLevel,
		Temperature:    reading.Temperature,
	}
}

type ClientOpts struct {
	BackendURL string
	Timeout    time.Duration
	Tokens     *TokenManager
	Limiters   *RateLimiterStore
}

// Client posts readings to the collector. Each call is a single attempt.
type Client struct {
	httpClient *resty.Client
	tokens     *TokenManager
	limiters   *RateLimiterStore
	logger     *zap.Logger
}

func NewClient(opts ClientOpts) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Limiters == nil {
		opts.Limiters = NewRateLimiterStore(0, 1)
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(opts.BackendURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient: client,
		tokens:     opts.Tokens,
		limiters:   opts.Limiters,
		logger: common.GetLoggerWith(
			common.LoggerNameTransmitter,
			zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryDelivery),
		),
	}
}

func (c *Client) Tokens() *TokenManager {
	return c.tokens
}

func (c *Client) Send(ctx context.Context, reading *models.Reading) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	if err := c.limiters.Wait(ctx, reading.PatientID); err != nil {
		return fmt.Errorf("wait for delivery slot: %w", err)
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetPathParam("patientId", reading.PatientID).
		SetBody(NewDeviceData(reading)).
		Post(deviceDataRoute)
	if err != nil {
		c.logger.Error("Delivery request failed", zap.Error(err))
		return fmt.Errorf("post device data: %w", err)
	}

	switch status := resp.StatusCode(); {
	case resp.IsSuccess():
		c.logger.Debug("Reading accepted", zap.Int("status_code", status))
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		c.tokens.Invalidate(token)
		return fmt.Errorf("%w: status %d", ErrUnauthorized, status)
	default:
		c.logger.Error("Reading rejected", zap.Int("status_code", status), zap.String("body", resp.String()))
		return fmt.Errorf("%w: status %d", ErrRejected, status)
	}
}
