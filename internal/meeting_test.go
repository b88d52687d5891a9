package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const meetingYAML = `
title: Annual assembly
invite_url: https://meet.example.org/invite/
admins: [alice]
rooms:
  - id: lobby
    title: Lobby
    topic: Say hello
  - id: board
    title: Board
members:
  - login: alice
    name: Alice Liddell
    password_hash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA"
  - login: bob
    name: Bob Marley
`

func TestLoadMeetingFile(t *testing.T) {
	req := require.New(t)

	// Given a meeting file on disk
	path := filepath.Join(t.TempDir(), "meeting.yaml")
	req.NoError(os.WriteFile(path, []byte(meetingYAML), 0o600))

	// When it is loaded
	file, err := LoadMeetingFile(path)
	req.NoError(err)

	// Then rooms keep their declared order
	specs := file.RoomSpecs()
	req.Len(specs, 2)
	req.EqualValues("lobby", specs[0].ID)
	req.Equal("Say hello", specs[0].Topic)
	req.EqualValues("board", specs[1].ID)

	// And the roster knows members and admins
	roster := file.Roster()
	req.Equal(2, roster.Total())
	req.True(roster.IsAdmin("alice"))
	req.False(roster.IsAdmin("bob"))
	member, ok := roster.Member("alice")
	req.True(ok)
	req.Equal("Alice Liddell", member.Name)
	req.NotEmpty(member.PasswordHash)
}

func TestLoadMeetingFile_Missing(t *testing.T) {
	_, err := LoadMeetingFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestParseMeetingFile_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "no rooms",
			yaml: "title: x\nmembers:\n  - {login: a, name: A}\n",
		},
		{
			name: "duplicate room",
			yaml: "title: x\nrooms:\n  - {id: r, title: R}\n  - {id: r, title: R2}\nmembers:\n  - {login: a, name: A}\n",
		},
		{
			name: "duplicate member",
			yaml: "title: x\nrooms:\n  - {id: r, title: R}\nmembers:\n  - {login: a, name: A}\n  - {login: a, name: B}\n",
		},
		{
			name: "admin is not a member",
			yaml: "title: x\nadmins: [zed]\nrooms:\n  - {id: r, title: R}\nmembers:\n  - {login: a, name: A}\n",
		},
		{
			name: "member with guest prefix",
			yaml: "title: x\nrooms:\n  - {id: r, title: R}\nmembers:\n  - {login: guest_1, name: A}\n",
		},
		{
			name: "room id with a slash",
			yaml: "title: x\nrooms:\n  - {id: a/b, title: R}\nmembers:\n  - {login: a, name: A}\n",
		},
		{
			name: "not yaml",
			yaml: "rooms: [",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMeetingFile([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}
