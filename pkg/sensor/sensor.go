package sensor

import (
	"context"

	"github.com/samseatt/vitaledge-pi-iot/pkg/models"
)

const (
	ModeSimulated = "simulated"
	ModeHardware  = "hardware"
)

type Sensor interface {
	Read(ctx context.Context) (*models.Sample, error)
}

// Func adapts a plain function into a Sensor.
type Func func(ctx context.Context) (*models.Sample, error)

func (f Func) Read(ctx context.Context) (*models.Sample, error) {
	return f(ctx)
}
