package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/samseatt/vitaledge-pi-iot/pkg/common"
	"github.com/samseatt/vitaledge-pi-iot/pkg/models"
)

type Notifier interface {
	Notify(ctx context.Context, alert models.Alert) error
}

// LogNotifier only writes the alert to the notifier log.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, alert models.Alert) error {
	common.GetLoggerWith(common.LoggerNameNotifier).Warn("Alert raised",
		zap.String("type", string(alert.Type)),
		zap.String("message", alert.Message),
		zap.String("device_id", alert.DeviceID),
		zap.String("patient_id", alert.PatientID),
		zap.Time("timestamp", alert.Timestamp),
	)
	return nil
}
