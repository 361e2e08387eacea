package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// markerTTL comfortably outlives any realistic sweep window while keeping
// keys from accumulating forever.
const markerTTL = time.Hour

// SweepMarker records which services the reconciliation sweeper has already
// processed. Key format: sweep:<service_id>.
type SweepMarker struct {
	client *redis.Client
}

// NewSweepMarker creates a SweepMarker wrapping the given Redis client.
func NewSweepMarker(client *redis.Client) *SweepMarker {
	return &SweepMarker{client: client}
}

// TryAcquire atomically claims a service for this sweep. Returns true when
// the caller won the claim, false when another sweep got there first.
func (m *SweepMarker) TryAcquire(ctx context.Context, serviceID string) (bool, error) {
	ok, err := m.client.SetNX(ctx, m.key(serviceID), "1", markerTTL).Result()
	if err != nil {
		return false, fmt.Errorf("sweep marker: %w", err)
	}
	return ok, nil
}

func (m *SweepMarker) key(serviceID string) string {
	return "sweep:" + serviceID
}
