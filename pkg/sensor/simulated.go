package sensor

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/samseatt/vitaledge-pi-iot/pkg/models"
)

// Simulated produces plausible resting vitals: heart rate 60-100 bpm, temperature
// 36.5-37.5 C and oxygen saturation 90-100 %.
type Simulated struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSimulated(rnd *rand.Rand) *Simulated {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulated{rnd: rnd}
}

func (s *Simulated) Read(ctx context.Context) (*models.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	heartRate := float64(60 + s.rnd.Intn(41))
	temperature := math.Round((36.5+s.rnd.Float64())*10) / 10
	oxygen := float64(90 + s.rnd.Intn(11))

	return &models.Sample{
		HeartRate:   &heartRate,
		Temperature: &temperature,
		OxygenLevel: &oxygen,
	}, nil
}
