package sensor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tarm/serial"
	"go.uber.org/zap"

	"github.com/samseatt/vitaledge-pi-iot/pkg/common"
	"github.com/samseatt/vitaledge-pi-iot/pkg/models"
)

const (
	DefaultBaud = 9600

	// serialReadTimeout bounds a single read on the port, so a silent device surfaces
	// as ErrNoData instead of a read that never returns.
	serialReadTimeout = 2 * time.Second
	rescanDelay       = 250 * time.Millisecond
)

var ErrNoData = errors.New("sensor produced no data")

type scanResult struct {
	line string
	err  error
}

// Hardware reads one line per sample from a serial device. The line format is
// heart_rate,temperature[,oxygen_level[,steps,calories,battery,signal]].
//
// A background goroutine owns the port. Read waits for its next line or for ctx,
// whichever comes first.
type Hardware struct {
	port    io.ReadCloser
	results chan scanResult
	done    chan struct{}
	closed  sync.Once
}

func OpenHardware(name string, baud int) (*Hardware, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	port, err := serial.OpenPort(&serial.Config{Name: name, Baud: baud, ReadTimeout: serialReadTimeout})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}
	common.GetLoggerWith(common.LoggerNameSensor).Info("Opened serial sensor",
		zap.String("port", name), zap.Int("baud", baud))
	return NewHardware(port), nil
}

func NewHardware(port io.ReadCloser) *Hardware {
	h := &Hardware{
		port:    port,
		results: make(chan scanResult),
		done:    make(chan struct{}),
	}
	go h.scan()
	return h
}

// scan feeds lines to Read. A scanner is dead after EOF or an error, so a fresh one
// is built after a short pause and the port is read again.
func (h *Hardware) scan() {
	for {
		scanner := bufio.NewScanner(h.port)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			select {
			case h.results <- scanResult{line: line}:
			case <-h.done:
				return
			}
		}

		err := ErrNoData
		if scanErr := scanner.Err(); scanErr != nil {
			err = fmt.Errorf("read serial sensor: %w", scanErr)
		}

		// only a waiting Read hears about it; nobody wants a stale error later
		select {
		case h.results <- scanResult{err: err}:
		case <-h.done:
			return
		default:
		}

		select {
		case <-time.After(rescanDelay):
		case <-h.done:
			return
		}
	}
}

func (h *Hardware) Read(ctx context.Context) (*models.Sample, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-h.done:
		return nil, ErrNoData
	case res := <-h.results:
		if res.err != nil {
			return nil, res.err
		}
		return ParseLine(res.line)
	}
}

func (h *Hardware) Close() error {
	var err error
	h.closed.Do(func() {
		close(h.done)
		err = h.port.Close()
	})
	return err
}

// ParseLine decodes one CSV sample. Blank fields stay absent.
func ParseLine(line string) (*models.Sample, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 2 || len(fields) > 7 {
		return nil, fmt.Errorf("unexpected field count %d in %q", len(fields), line)
	}

	floats := make([]*float64, 6)
	for idx, field := range fields[:min(len(fields), len(floats))] {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("field %d of %q: %w", idx+1, line, err)
		}
		floats[idx] = &v
	}

	sample := &models.Sample{
		HeartRate:      floats[0],
		Temperature:    floats[1],
		OxygenLevel:    floats[2],
		StepsCount:     floats[3],
		CaloriesBurned: floats[4],
		BatteryLevel:   floats[5],
	}

	if len(fields) == 7 {
		if raw := strings.TrimSpace(fields[6]); raw != "" {
			signal, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("signal strength of %q: %w", line, err)
			}
			sample.SignalStrength = &signal
		}
	}

	return sample, nil
}
