package services

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"log/slog"
	"meeting-lab/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func untar(t *testing.T, data []byte) map[string]string {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	tr := tar.NewReader(gz)
	files := make(map[string]string)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		content, err := io.ReadAll(tr)
		require.NoError(t, err)
		files[header.Name] = string(content)
	}
	return files
}

func TestExportService_Export(t *testing.T) {
	req := require.New(t)
	meeting, _ := newMeeting(t)
	svc := NewExportService(meeting, slog.Default())
	ctx := context.Background()

	// Given attendance and a multi-line message
	_, err := meeting.Quorum.Add(ctx, "bob")
	req.NoError(err)
	_, err = meeting.Quorum.Add(ctx, "alice")
	req.NoError(err)
	_, err = meeting.Rooms.Post(ctx, "lobby", "bob", "Bob Marley", "first line\nsecond line")
	req.NoError(err)

	// When bob exports
	archive, err := svc.Export(ctx, bob)

	// Then the tarball holds one attendance file and one log per room
	req.NoError(err)
	req.Equal(ArchiveName, archive.Name)
	req.Equal("application/gzip", archive.ContentType)
	files := untar(t, archive.Data)
	req.Len(files, 3)
	req.Equal("alice\nbob", files["attendance.txt"])
	req.Equal(
		"[Fri Mar 14 09:00:00 2025] Bob Marley (bob): first line\n"+
			"[Fri Mar 14 09:00:00 2025] Bob Marley (bob): second line\n",
		files["chat-lobby.txt"])
	req.Empty(files["chat-board.txt"])
}

func TestExportService_RefusesGuests(t *testing.T) {
	req := require.New(t)
	meeting, _ := newMeeting(t)
	svc := NewExportService(meeting, slog.Default())

	_, err := svc.Export(context.Background(), guest)

	req.ErrorIs(err, errors.ErrGuest)
}
