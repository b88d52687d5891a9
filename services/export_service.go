package services

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"log/slog"
	"meeting-lab/domain"
	"meeting-lab/domain/mimetypes"
	"meeting-lab/errors"
	"meeting-lab/runtime"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MsgGuestExport = "Guests cannot export data"
	ArchiveName    = "meeting.tgz"
	ctimeLayout    = "Mon Jan _2 15:04:05 2006"
)

// Archive is the export payload ready to be sent to the caller.
type Archive struct {
	Name        string
	ContentType string
	Data        []byte
}

type ExportService struct {
	meeting *runtime.Meeting
	log     *slog.Logger
}

func NewExportService(meeting *runtime.Meeting, log *slog.Logger) *ExportService {
	return &ExportService{meeting: meeting, log: log}
}

// Export packs the attendance list and one chat log per room into a gzipped tarball.
// Redacted messages are not part of the logs.
func (s *ExportService) Export(_ context.Context, identity domain.Identity) (Archive, error) {
	if identity.Guest || domain.IsGuest(identity.Login) {
		return Archive{}, errors.ErrGuest
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	now := s.meeting.Clock().Now()

	attendance := strings.Join(s.meeting.Quorum.Members(), "\n")
	if err := addFile(tw, "attendance.txt", []byte(attendance), now); err != nil {
		return Archive{}, err
	}
	for _, room := range s.meeting.Rooms.ListRooms() {
		history, err := s.meeting.Rooms.History(room.ID)
		if err != nil {
			return Archive{}, err
		}
		if err := addFile(tw, fmt.Sprintf("chat-%s.txt", room.ID), chatLog(history), now); err != nil {
			return Archive{}, err
		}
	}
	if err := tw.Close(); err != nil {
		return Archive{}, err
	}
	if err := gz.Close(); err != nil {
		return Archive{}, err
	}

	data := buf.Bytes()
	s.log.Info("Meeting exported", "identity", identity.Login, "bytes", len(data))
	detected := mimetype.Detect(data).String()
	if _, ok := mimetypes.Matches(detected, mimetypes.ApplicationGzip); !ok {
		s.log.Warn("Unexpected archive type", "detected", detected)
		detected = string(mimetypes.OctetStream)
	}
	return Archive{Name: ArchiveName, ContentType: detected, Data: data}, nil
}

func chatLog(history []domain.Message) []byte {
	var sb strings.Builder
	for _, m := range history {
		stamp := m.At.UTC().Format(ctimeLayout)
		for _, line := range strings.Split(m.Body, "\n") {
			fmt.Fprintf(&sb, "[%s] %s (%s): %s\n", stamp, m.RealName, m.Sender, line)
		}
	}
	return []byte(sb.String())
}

func addFile(tw *tar.Writer, name string, content []byte, modTime time.Time) error {
	header := &tar.Header{
		Name:    name,
		Mode:    0o644,
		Size:    int64(len(content)),
		ModTime: modTime,
	}
	if err := tw.WriteHeader(header); err != nil {
		return err
	}
	_, err := tw.Write(content)
	return err
}
