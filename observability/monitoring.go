package observability

import (
	"context"
	"log/slog"
	"meeting-lab/domain/event"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// RecentRedaction is one moderation removal shown by the inspector.
type RecentRedaction struct {
	Room      string `json:"room"`
	MessageID string `json:"message_id"`
	By        string `json:"by"`
	Timestamp string `json:"timestamp"`
}

// MonitoringStats aggregates the meeting metrics for the inspector and the telemetry log.
type MonitoringStats struct {
	MessagesPosted   uint64            `json:"messages_posted"`
	PostsRejected    uint64            `json:"posts_rejected"`
	Redactions       uint64            `json:"redactions"`
	OutboxDrops      uint64            `json:"outbox_drops"`
	SessionsOpened   uint64            `json:"sessions_opened"`
	SessionsClosed   uint64            `json:"sessions_closed"`
	MessagesPerSec   float64           `json:"messages_per_sec"`
	ActiveSessions   int               `json:"active_sessions"`
	Attending        int               `json:"attending"`
	QuorumSize       int               `json:"quorum_size"`
	AllocMemMb       uint64            `json:"alloc_mem_mb"`
	NumGC            uint32            `json:"num_gc"`
	NumGoroutine     int               `json:"num_goroutine"`
	RecentRedactions []RecentRedaction `json:"recent_redactions"`
}

// Gauges reads the live sizes owned by other components.
type Gauges func() (sessions, attending, quorum int)

// MonitoringManager collects counters with atomics and publishes a snapshot every interval.
// It is also an EventSink of the fan-out so domain events feed the counters.
type MonitoringManager struct {
	log         *slog.Logger
	mu          sync.RWMutex
	latestStats MonitoringStats
	gauges      Gauges

	messagesPosted uint64
	postsRejected  uint64
	redactions     uint64
	outboxDrops    uint64
	sessionsOpened uint64
	sessionsClosed uint64
	sinceCheck     uint64
	lastCheck      time.Time
}

func NewMonitoringManager(log *slog.Logger) *MonitoringManager {
	return &MonitoringManager{
		log:       log,
		lastCheck: time.Now(),
		latestStats: MonitoringStats{
			RecentRedactions: make([]RecentRedaction, 0),
		},
	}
}

// WithGauges plugs the live size readers. Called once before Listen.
func (mm *MonitoringManager) WithGauges(g Gauges) *MonitoringManager {
	mm.gauges = g
	return mm
}

func (mm *MonitoringManager) IncrOutboxDrops() {
	atomic.AddUint64(&mm.outboxDrops, 1)
}

func (mm *MonitoringManager) IncrSessionsOpened() {
	atomic.AddUint64(&mm.sessionsOpened, 1)
}

func (mm *MonitoringManager) IncrSessionsClosed() {
	atomic.AddUint64(&mm.sessionsClosed, 1)
}

func (mm *MonitoringManager) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessagePosted:
		atomic.AddUint64(&mm.messagesPosted, 1)
		atomic.AddUint64(&mm.sinceCheck, 1)
	case event.PostRejected:
		atomic.AddUint64(&mm.postsRejected, 1)
	case event.MessageRedacted:
		atomic.AddUint64(&mm.redactions, 1)
		mm.addRedaction(evt)
	}
	return nil
}

func (mm *MonitoringManager) addRedaction(evt event.MessageRedacted) {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	redaction := RecentRedaction{
		Room:      string(evt.Room),
		MessageID: evt.MessageID,
		By:        evt.By,
		Timestamp: evt.At.Format("15:04:05"),
	}
	mm.latestStats.RecentRedactions = append([]RecentRedaction{redaction}, mm.latestStats.RecentRedactions...)
	if len(mm.latestStats.RecentRedactions) > 20 {
		mm.latestStats.RecentRedactions = mm.latestStats.RecentRedactions[:20]
	}
}

// Listen refreshes the snapshot every interval until ctx is done.
func (mm *MonitoringManager) Listen(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			mm.log.Info("Monitoring manager stopped")
			return
		case <-ticker.C:
			mm.Refresh()
		}
	}
}

// Refresh computes the snapshot from the counters and the gauges.
func (mm *MonitoringManager) Refresh() MonitoringStats {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	now := time.Now()
	if duration := now.Sub(mm.lastCheck).Seconds(); duration > 0 {
		posted := atomic.SwapUint64(&mm.sinceCheck, 0)
		mm.latestStats.MessagesPerSec = float64(posted) / duration
	}
	mm.lastCheck = now

	mm.latestStats.MessagesPosted = atomic.LoadUint64(&mm.messagesPosted)
	mm.latestStats.PostsRejected = atomic.LoadUint64(&mm.postsRejected)
	mm.latestStats.Redactions = atomic.LoadUint64(&mm.redactions)
	mm.latestStats.OutboxDrops = atomic.LoadUint64(&mm.outboxDrops)
	mm.latestStats.SessionsOpened = atomic.LoadUint64(&mm.sessionsOpened)
	mm.latestStats.SessionsClosed = atomic.LoadUint64(&mm.sessionsClosed)
	if mm.gauges != nil {
		mm.latestStats.ActiveSessions, mm.latestStats.Attending, mm.latestStats.QuorumSize = mm.gauges()
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	mm.latestStats.AllocMemMb = m.Alloc / 1024 / 1024
	mm.latestStats.NumGC = m.NumGC
	mm.latestStats.NumGoroutine = runtime.NumGoroutine()

	mm.log.Debug("Stats updated",
		"messages", mm.latestStats.MessagesPosted,
		"sessions", mm.latestStats.ActiveSessions,
		"mem_mb", mm.latestStats.AllocMemMb,
	)
	return mm.copyLocked()
}

func (mm *MonitoringManager) GetLatest() MonitoringStats {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	return mm.copyLocked()
}

func (mm *MonitoringManager) copyLocked() MonitoringStats {
	stats := mm.latestStats
	stats.RecentRedactions = append([]RecentRedaction(nil), mm.latestStats.RecentRedactions...)
	return stats
}
