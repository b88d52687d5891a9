package internal

import (
	"fmt"
	"meeting-lab/runtime"
	"strings"
	"time"
)

const (
	DriverBadger = "badger"
	DriverSQLite = "sqlite"
)

type Config struct {
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`
	GRPCPort       int    `env:"GRPC_PORT,default=8080"`
	HTTPPort       int    `env:"HTTP_PORT,default=8090"`
	DebugPort      int    `env:"DEBUG_PORT,default=0"`
	MeetingFile    string `env:"MEETING_FILE,default=meeting.yaml"`
	StoreDriver    string `env:"STORE_DRIVER,default=badger"`
	BadgerFilepath string `env:"BADGER_FILEPATH,default=data/badger"`
	SQLiteFilepath string `env:"SQLITE_FILEPATH,default=data/meeting.db"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,default=data/index"`

	TickInterval       time.Duration `env:"TICK_INTERVAL,default=250ms"`
	PresenceEvery      int           `env:"PRESENCE_EVERY,default=10"`
	PresenceForceEvery int           `env:"PRESENCE_FORCE_EVERY,default=30"`
	PresenceTimeout    time.Duration `env:"PRESENCE_TIMEOUT,default=10s"`
	ThrottleMax        int           `env:"THROTTLE_MAX,default=5"`
	ThrottleWindow     time.Duration `env:"THROTTLE_WINDOW,default=1s"`
	OutboxCapacity     int           `env:"OUTBOX_CAPACITY,default=0"`
	OutboxOverflow     string        `env:"OUTBOX_OVERFLOW,default=drop-oldest"`
	InviteTTL          time.Duration `env:"INVITE_TTL,default=0s"`
	SweepInterval      time.Duration `env:"SWEEP_INTERVAL,default=1m"`
	EventBufferSize    int           `env:"EVENT_BUFFER_SIZE,default=256"`
	SinkTimeout        time.Duration `env:"SINK_TIMEOUT,default=2s"`
	MetricInterval     time.Duration `env:"METRIC_INTERVAL,default=30s"`
	RestartInterval    time.Duration `env:"RESTART_INTERVAL,default=200ms"`

	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=12h"`
	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	CensoredWords     string        `env:"CENSORED_WORDS"`
	CharReplacement   string        `env:"CHARACTER_REPLACEMENT,default=*"`
}

// Validate checks the values the env tags cannot express.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverBadger, DriverSQLite:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverBadger, DriverSQLite, c.StoreDriver)
	}
	switch runtime.OverflowPolicy(c.OutboxOverflow) {
	case runtime.DropOldest, runtime.Reject:
	default:
		return fmt.Errorf("OUTBOX_OVERFLOW must be %q or %q, got %q", runtime.DropOldest, runtime.Reject, c.OutboxOverflow)
	}
	if c.ThrottleMax <= 0 || c.ThrottleWindow <= 0 {
		return fmt.Errorf("THROTTLE_MAX and THROTTLE_WINDOW must be positive")
	}
	if c.PresenceForceEvery < c.PresenceEvery {
		return fmt.Errorf("PRESENCE_FORCE_EVERY (%d) must not be lower than PRESENCE_EVERY (%d)", c.PresenceForceEvery, c.PresenceEvery)
	}
	_, err := CharacterRune(c.CharReplacement)
	return err
}

// Runtime converts the environment into the meeting configuration.
func (c Config) Runtime(inviteURL string) runtime.Config {
	return runtime.Config{
		Tick:               c.TickInterval,
		PresenceEvery:      c.PresenceEvery,
		PresenceForceEvery: c.PresenceForceEvery,
		PresenceTimeout:    c.PresenceTimeout,
		Flood:              runtime.FloodPolicy{Max: c.ThrottleMax, Window: c.ThrottleWindow},
		OutboxCapacity:     c.OutboxCapacity,
		Overflow:           runtime.OverflowPolicy(c.OutboxOverflow),
		InviteTTL:          c.InviteTTL,
		SweepInterval:      c.SweepInterval,
		MetricInterval:     c.MetricInterval,
		RestartInterval:    c.RestartInterval,
		SinkTimeout:        c.SinkTimeout,
		EventBufferSize:    c.EventBufferSize,
		InviteURL:          inviteURL,
	}
}

// Words splits CENSORED_WORDS on commas.
func (c Config) Words() []string {
	var words []string
	for _, w := range strings.Split(c.CensoredWords, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
