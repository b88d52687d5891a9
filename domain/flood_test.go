package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFloodWindow_ThrottleMaxWithinOneSecond(t *testing.T) {
	req := require.New(t)
	var window FloodWindow
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	// Given 5 accepted posts within the same second
	for i := 0; i < 5; i++ {
		now := start.Add(time.Duration(i) * 100 * time.Millisecond)
		req.True(window.Allow(now, 5, time.Second))
		window.Record(now)
	}

	// When a 6th post arrives within that second
	// Then it is rejected
	req.False(window.Allow(start.Add(900*time.Millisecond), 5, time.Second))

	// When waiting past the window
	// Then the 6th post succeeds
	req.True(window.Allow(start.Add(1500*time.Millisecond), 5, time.Second))
}

func TestFloodWindow_EvictsOldestAtCapacity(t *testing.T) {
	req := require.New(t)
	var window FloodWindow
	start := time.Now()

	for i := 0; i < FloodWindowCapacity+10; i++ {
		window.Record(start.Add(time.Duration(i) * time.Millisecond))
	}

	req.Equal(FloodWindowCapacity, window.Len())
	req.Equal(start.Add(10*time.Millisecond), window.stamps[0])
}

func TestFloodWindow_DisabledWhenMaxIsZero(t *testing.T) {
	req := require.New(t)
	var window FloodWindow
	now := time.Now()
	for i := 0; i < 10; i++ {
		window.Record(now)
	}

	req.True(window.Allow(now, 0, time.Second))
}

func TestRequiredQuorum(t *testing.T) {
	req := require.New(t)

	req.Equal(0, RequiredQuorum(0))
	req.Equal(1, RequiredQuorum(1))
	req.Equal(1, RequiredQuorum(3))
	req.Equal(2, RequiredQuorum(4))
	req.Equal(34, RequiredQuorum(100))
}

func TestParseAction(t *testing.T) {
	req := require.New(t)

	action, err := ParseAction(" Ban ")
	req.NoError(err)
	req.Equal(ActionBan, action)

	_, err = ParseAction("kick")
	req.Error(err)
}

func TestInvite_Expired(t *testing.T) {
	req := require.New(t)
	now := time.Now()
	invite := Invite{Code: "x", CreatedAt: now.Add(-2 * time.Hour)}

	req.False(invite.Expired(now, 0))
	req.True(invite.Expired(now, time.Hour))
	req.False(invite.Expired(now, 3*time.Hour))
}
