package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/daytrack-server/internal/testutil"
)

type flakyPinger struct {
	down atomic.Bool
}

func (p *flakyPinger) Ping(context.Context) error {
	if p.down.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func currentStatus(c *Checker) healthpb.HealthCheckResponse_ServingStatus {
	resp, err := c.Server().Check(context.Background(), &healthpb.HealthCheckRequest{})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN
	}
	return resp.GetStatus()
}

func TestChecker_Check(t *testing.T) {
	t.Parallel()

	pinger := &flakyPinger{}
	c := NewChecker(pinger, time.Second, testutil.MakeNoopLogger())

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, c.Check(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, currentStatus(c))

	pinger.down.Store(true)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, c.Check(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, currentStatus(c))
}

func TestChecker_Run(t *testing.T) {
	t.Parallel()

	pinger := &flakyPinger{}
	c := NewChecker(pinger, 10*time.Millisecond, testutil.MakeNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return currentStatus(c) == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 5*time.Millisecond)

	pinger.down.Store(true)
	require.Eventually(t, func() bool {
		return currentStatus(c) == healthpb.HealthCheckResponse_NOT_SERVING
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, currentStatus(c))
}
