package aemet

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/lanecodes/aemet-wind/internal/models"
)

// DataSource is the read surface of the OpenData client used by the
// service layer, implemented by *Client and *BreakerSource.
type DataSource interface {
	StationInventory(ctx context.Context) ([]models.Station, error)
	DailyClimate(ctx context.Context, q ClimateQuery) ([]models.ClimateRecord, error)
}

type BreakerConfig struct {
	TimeInterval time.Duration
	TimeTimeOut  time.Duration
	RepeatNumber uint32
}

// BreakerSource guards a DataSource with a circuit breaker so a
// misbehaving upstream stops being hammered.
type BreakerSource struct {
	name    string
	cb      *gobreaker.CircuitBreaker
	wrapped DataSource
}

func NewBreakerSource(name string, cfg BreakerConfig, wrapped DataSource) *BreakerSource {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.TimeInterval,
		Timeout:     cfg.TimeTimeOut,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.RepeatNumber
		},
	}
	return &BreakerSource{
		name:    name,
		cb:      gobreaker.NewCircuitBreaker(settings),
		wrapped: wrapped,
	}
}

func (b *BreakerSource) StationInventory(ctx context.Context) ([]models.Station, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.wrapped.StationInventory(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("%s unavailable: %w", b.name, err)
	}
	stations, ok := result.([]models.Station)
	if !ok {
		return nil, fmt.Errorf("%s returned unexpected result", b.name)
	}
	return stations, nil
}

func (b *BreakerSource) DailyClimate(ctx context.Context, q ClimateQuery) ([]models.ClimateRecord, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.wrapped.DailyClimate(ctx, q)
	})
	if err != nil {
		return nil, fmt.Errorf("%s unavailable: %w", b.name, err)
	}
	records, ok := result.([]models.ClimateRecord)
	if !ok {
		return nil, fmt.Errorf("%s returned unexpected result", b.name)
	}
	return records, nil
}
