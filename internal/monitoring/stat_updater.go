package monitoring

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Snapshot is a point-in-time view of host and process resource usage.
type Snapshot struct {
	Status         string    `json:"status"`
	CPUPercent     float64   `json:"cpuPercent"`
	MemUsedPercent float64   `json:"memUsedPercent"`
	Goroutines     int       `json:"goroutines"`
	UptimeSeconds  int64     `json:"uptimeSeconds"`
	SampledAt      time.Time `json:"sampledAt"`
}

// Monitor periodically samples host resource usage for the health endpoint.
type Monitor struct {
	mu       sync.RWMutex
	snapshot Snapshot
	cron     *cron.Cron
	started  time.Time
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{started: time.Now()}
}

// Run samples once immediately, then keeps sampling on the given interval
// until Stop is called.
func (m *Monitor) Run(interval time.Duration) error {
	log.Info().Dur("interval", interval).Msg("Starting background resource monitor...")
	m.sample()

	m.cron = cron.New()
	_, err := m.cron.AddFunc(fmt.Sprintf("@every %s", interval), m.sample)
	if err != nil {
		return err
	}
	m.cron.Start()
	return nil
}

// Stop halts the periodic sampling.
func (m *Monitor) Stop() {
	if m.cron != nil {
		log.Info().Msg("Stopping background resource monitor.")
		m.cron.Stop()
	}
}

// Snapshot returns the most recent sample.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := m.snapshot
	snap.UptimeSeconds = int64(time.Since(m.started).Seconds())
	return snap
}

func (m *Monitor) sample() {
	snap := Snapshot{
		Status:     "ok",
		Goroutines: runtime.NumGoroutine(),
		SampledAt:  time.Now().UTC(),
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		snap.CPUPercent = percents[0]
	} else if err != nil {
		log.Warn().Err(err).Msg("Monitor: failed to sample CPU usage")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		snap.MemUsedPercent = vm.UsedPercent
	} else {
		log.Warn().Err(err).Msg("Monitor: failed to sample memory usage")
	}

	m.mu.Lock()
	m.snapshot = snap
	m.mu.Unlock()

	log.Debug().
		Float64("cpu_percent", snap.CPUPercent).
		Float64("mem_used_percent", snap.MemUsedPercent).
		Int("goroutines", snap.Goroutines).
		Msg("Sampled host resources")
}
