package internal

import (
	"meeting-lab/runtime"
	"testing"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func TestConfig_DefaultsFromEnviron(t *testing.T) {
	req := require.New(t)

	// Given only the required secret is set
	t.Setenv("JWT_SECRET", "a-secret-long-enough-for-tests-0001")

	// When the environment is read
	var config Config
	_, err := env.UnmarshalFromEnviron(&config)
	req.NoError(err)

	// Then every other value takes its default
	req.Equal(DriverBadger, config.StoreDriver)
	req.Equal(250*time.Millisecond, config.TickInterval)
	req.Equal(10, config.PresenceEvery)
	req.Equal(30, config.PresenceForceEvery)
	req.Equal(5, config.ThrottleMax)
	req.Equal(time.Second, config.ThrottleWindow)
	req.Equal("drop-oldest", config.OutboxOverflow)
	req.NoError(config.Validate())
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		StoreDriver:        DriverSQLite,
		OutboxOverflow:     "reject",
		ThrottleMax:        5,
		ThrottleWindow:     time.Second,
		PresenceEvery:      10,
		PresenceForceEvery: 30,
		CharReplacement:    "#",
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{name: "valid", mutate: func(c *Config) {}, ok: true},
		{name: "unknown driver", mutate: func(c *Config) { c.StoreDriver = "postgres" }},
		{name: "unknown overflow policy", mutate: func(c *Config) { c.OutboxOverflow = "block" }},
		{name: "zero throttle", mutate: func(c *Config) { c.ThrottleMax = 0 }},
		{name: "force below cadence", mutate: func(c *Config) { c.PresenceForceEvery = 5 }},
		{name: "multi character replacement", mutate: func(c *Config) { c.CharReplacement = "**" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestConfig_Runtime(t *testing.T) {
	req := require.New(t)
	config := Config{
		TickInterval:   100 * time.Millisecond,
		ThrottleMax:    3,
		ThrottleWindow: 2 * time.Second,
		OutboxCapacity: 64,
		OutboxOverflow: "reject",
		InviteTTL:      time.Hour,
	}

	rc := config.Runtime("https://meet.example.org/invite/")

	req.Equal(100*time.Millisecond, rc.Tick)
	req.Equal(runtime.FloodPolicy{Max: 3, Window: 2 * time.Second}, rc.Flood)
	req.Equal(64, rc.OutboxCapacity)
	req.Equal(runtime.Reject, rc.Overflow)
	req.Equal(time.Hour, rc.InviteTTL)
	req.Equal("https://meet.example.org/invite/", rc.InviteURL)
}

func TestConfig_Words(t *testing.T) {
	req := require.New(t)
	config := Config{CensoredWords: " darn, heck ,, drat"}
	req.Equal([]string{"darn", "heck", "drat"}, config.Words())
	req.Empty(Config{}.Words())
}

func TestCharacterRune(t *testing.T) {
	req := require.New(t)
	r, err := CharacterRune("é")
	req.NoError(err)
	req.Equal('é', r)

	_, err = CharacterRune("")
	req.Error(err)
}
