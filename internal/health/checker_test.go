package health_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/contactly/contactly/internal/health"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(context.Context) error { return p.err }

func newChecker(p health.Pinger) *health.Checker {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return health.NewChecker(p, logger, prometheus.NewRegistry())
}

func TestLiveness_AlwaysUp(t *testing.T) {
	c := newChecker(&fakePinger{err: errors.New("db down")})

	if got := c.Liveness(context.Background()); got.Status != "up" {
		t.Errorf("liveness = %q, want up", got.Status)
	}
}

func TestReadiness_DBUp(t *testing.T) {
	c := newChecker(&fakePinger{})

	res := c.Readiness(context.Background())
	if res.Status != "up" {
		t.Errorf("status = %q, want up", res.Status)
	}
	if res.Checks["postgres"].Status != "up" {
		t.Errorf("postgres check = %q, want up", res.Checks["postgres"].Status)
	}
}

func TestReadiness_DBDown(t *testing.T) {
	c := newChecker(&fakePinger{err: errors.New("connection refused")})

	res := c.Readiness(context.Background())
	if res.Status != "down" {
		t.Errorf("status = %q, want down", res.Status)
	}
	if res.Checks["postgres"].Error == "" {
		t.Error("postgres check missing error detail")
	}
}
