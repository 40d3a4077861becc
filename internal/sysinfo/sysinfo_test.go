package sysinfo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Lin-Jiong-HDU/jarvis/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(v string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return v, nil }
}

func TestCollector_Order(t *testing.T) {
	c := NewCollectorWithProbes([]Probe{
		{Name: "slow", Read: func(ctx context.Context) (string, error) {
			time.Sleep(20 * time.Millisecond)
			return "1", nil
		}},
		{Name: "fast", Read: fixed("2")},
	}, nil)

	facts, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.Fact{{Name: "slow", Value: "1"}, {Name: "fast", Value: "2"}}, facts)
}

func TestCollector_PartialFailure(t *testing.T) {
	c := NewCollectorWithProbes([]Probe{
		{Name: "ok", Read: fixed("fine")},
		{Name: "broken", Read: func(context.Context) (string, error) { return "", errors.New("boom") }},
	}, nil)

	facts, err := c.Collect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken: boom")
	assert.Equal(t, []core.Fact{{Name: "ok", Value: "fine"}}, facts)
}

func TestCollector_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCollectorWithProbes([]Probe{{Name: "ok", Read: fixed("fine")}}, nil)
	_, err := c.Collect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollector_Host(t *testing.T) {
	c := NewCollector(10*time.Millisecond, nil)

	facts, _ := c.Collect(context.Background())
	// Some probes may be unavailable in sandboxes, but memory is always readable.
	names := make([]string, 0, len(facts))
	for _, f := range facts {
		names = append(names, f.Name)
		assert.NotEmpty(t, f.Value)
	}
	assert.Contains(t, names, "Memory Usage")
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "50.0% (4.0GB / 8.0GB)", usage(50, 4*gib, 8*gib))
	assert.Equal(t, "↑1.5MB ↓10.0MB", network(3*mib/2, 10*mib))
	assert.Equal(t, "26h 5m", uptime(26*time.Hour+5*time.Minute+30*time.Second))
}
