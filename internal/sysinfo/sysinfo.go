// Package sysinfo reports host statistics.
package sysinfo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lin-Jiong-HDU/jarvis/internal/core"
	"github.com/Lin-Jiong-HDU/jarvis/internal/logger"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
	"golang.org/x/sync/errgroup"
)

const (
	gib = 1 << 30
	mib = 1 << 20
)

// Probe reads one statistic and formats it for display
type Probe struct {
	Name string
	Read func(ctx context.Context) (string, error)
}

// Collector gathers statistics from its probes concurrently
type Collector struct {
	probes []Probe
	log    logger.Logger
}

// NewCollector creates a collector over the host probes. CPU usage is
// sampled over cpuInterval.
func NewCollector(cpuInterval time.Duration, log logger.Logger) *Collector {
	return NewCollectorWithProbes(HostProbes(cpuInterval, "/"), log)
}

// NewCollectorWithProbes creates a collector over probes, reported in order
func NewCollectorWithProbes(probes []Probe, log logger.Logger) *Collector {
	if log == nil {
		log = logger.Discard()
	}
	return &Collector{probes: probes, log: log.With("component", "sysinfo")}
}

// Collect runs every probe and returns the facts that could be read, in
// probe order. Failed probes are skipped and their errors joined.
func (c *Collector) Collect(ctx context.Context) ([]core.Fact, error) {
	values := make([]string, len(c.probes))
	errs := make([]error, len(c.probes))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range c.probes {
		i, p := i, p
		g.Go(func() error {
			v, err := p.Read(gctx)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", p.Name, err)
				return nil
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	facts := make([]core.Fact, 0, len(c.probes))
	for i, p := range c.probes {
		if errs[i] != nil {
			c.log.Warn("probe failed", "probe", p.Name, "err", errs[i])
			continue
		}
		facts = append(facts, core.Fact{Name: p.Name, Value: values[i]})
	}
	return facts, errors.Join(errs...)
}

// HostProbes returns the CPU, memory, disk, network and uptime probes
func HostProbes(cpuInterval time.Duration, diskPath string) []Probe {
	return []Probe{
		{Name: "CPU Usage", Read: func(ctx context.Context) (string, error) {
			pct, err := cpu.PercentWithContext(ctx, cpuInterval, false)
			if err != nil {
				return "", err
			}
			if len(pct) == 0 {
				return "", errors.New("no cpu samples")
			}
			return fmt.Sprintf("%.1f%%", pct[0]), nil
		}},
		{Name: "Memory Usage", Read: func(ctx context.Context) (string, error) {
			vm, err := mem.VirtualMemoryWithContext(ctx)
			if err != nil {
				return "", err
			}
			return usage(vm.UsedPercent, vm.Used, vm.Total), nil
		}},
		{Name: "Disk Usage", Read: func(ctx context.Context) (string, error) {
			du, err := disk.UsageWithContext(ctx, diskPath)
			if err != nil {
				return "", err
			}
			return usage(du.UsedPercent, du.Used, du.Total), nil
		}},
		{Name: "Network", Read: func(ctx context.Context) (string, error) {
			counters, err := net.IOCountersWithContext(ctx, false)
			if err != nil {
				return "", err
			}
			if len(counters) == 0 {
				return "", errors.New("no network counters")
			}
			return network(counters[0].BytesSent, counters[0].BytesRecv), nil
		}},
		{Name: "Uptime", Read: func(ctx context.Context) (string, error) {
			secs, err := host.UptimeWithContext(ctx)
			if err != nil {
				return "", err
			}
			return uptime(time.Duration(secs) * time.Second), nil
		}},
	}
}

func usage(percent float64, used, total uint64) string {
	return fmt.Sprintf("%.1f%% (%.1fGB / %.1fGB)", percent, float64(used)/gib, float64(total)/gib)
}

func network(sent, recv uint64) string {
	return fmt.Sprintf("↑%.1fMB ↓%.1fMB", float64(sent)/mib, float64(recv)/mib)
}

func uptime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

var _ core.SystemInfo = (*Collector)(nil)
