package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// MEETING_ADDR is the gRPC address of a running server; the suite is skipped without it.
	MeetingAddr   string `envconfig:"MEETING_ADDR"`
	AdminLogin    string `envconfig:"E2E_ADMIN_LOGIN" default:"alice"`
	AdminPassword string `envconfig:"E2E_ADMIN_PASSWORD"`
	Room          string `envconfig:"E2E_ROOM" default:"lobby"`
	// E2E_DEBUG_JSON allows dumping full gRPC request/response bodies as JSON
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
