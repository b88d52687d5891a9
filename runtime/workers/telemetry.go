package workers

import (
	"context"
	"log/slog"
	"meeting-lab/observability"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// TelemetryWorker logs the process footprint and the meeting counters every metricInterval.
type TelemetryWorker struct {
	log            *slog.Logger
	metricInterval time.Duration
	monitor        *observability.MonitoringManager
	pid            int32
}

func NewTelemetryWorker(log *slog.Logger, metricInterval time.Duration, monitor *observability.MonitoringManager) *TelemetryWorker {
	return &TelemetryWorker{
		log:            log,
		metricInterval: metricInterval,
		monitor:        monitor,
		pid:            int32(os.Getpid()),
	}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(w.pid)
	if err != nil {
		return err
	}
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping telemetry")
			return nil
		case <-ticker.C:
			w.report(p)
		}
	}
}

func (w *TelemetryWorker) report(p *process.Process) {
	stats := w.monitor.Refresh()
	attrs := []any{
		"sessions", stats.ActiveSessions,
		"attending", stats.Attending,
		"quorum", stats.QuorumSize,
		"messages", stats.MessagesPosted,
		"messages_per_sec", stats.MessagesPerSec,
		"rejected", stats.PostsRejected,
		"outbox_drops", stats.OutboxDrops,
		"goroutines", stats.NumGoroutine,
	}
	if mem, err := p.MemoryInfo(); err == nil {
		attrs = append(attrs, "rss_mb", mem.RSS/1024/1024)
	} else {
		w.log.Debug("Error while reading process memory", "err", err)
	}
	if cpu, err := p.CPUPercent(); err == nil {
		attrs = append(attrs, "cpu_percent", cpu)
	} else {
		w.log.Debug("Error while reading process cpu usage", "err", err)
	}
	w.log.Info("Telemetry", attrs...)
}
