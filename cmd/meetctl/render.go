package main

import (
	"fmt"
	"io"
	"meeting-lab/domain"
	"meeting-lab/infrastructure/grpc/api"
	"strconv"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"google.golang.org/grpc/status"
)

type painter struct {
	enabled bool
}

func newPainter(enabled bool) painter {
	return painter{enabled: enabled}
}

func (p painter) paint(c color.Color, s string) string {
	if !p.enabled {
		return s
	}
	return c.Render(s)
}

func (p painter) frame(f *api.Frame) string {
	switch domain.FrameKind(f.Kind) {
	case domain.FrameRoom:
		if f.Room == nil {
			return ""
		}
		header := fmt.Sprintf("== #%s %s ==", f.Room.ID, f.Room.Title)
		if f.Room.Topic != "" {
			header += " " + f.Room.Topic
		}
		return p.paint(color.FgGreen, header)
	case domain.FrameHistory:
		return p.paint(color.FgDarkGray, p.line(f.Message))
	case domain.FrameMessage:
		return p.line(f.Message)
	case domain.FramePresence:
		if f.Presence == nil {
			return ""
		}
		s := f.Presence
		text := fmt.Sprintf("* %d attending (max %d), quorum %d/%d: %s",
			s.Attendees, s.Seen, len(s.Quorum), s.Required, strings.Join(s.Current, ", "))
		if len(s.Blocked) > 0 || len(s.Banned) > 0 {
			text += fmt.Sprintf(" [blocked: %s] [banned: %s]", strings.Join(s.Blocked, ", "), strings.Join(s.Banned, ", "))
		}
		return p.paint(color.FgYellow, text)
	default:
		return "? " + f.Kind
	}
}

func (p painter) line(m *api.Message) string {
	if m == nil {
		return ""
	}
	at := secondsToTime(m.Timestamp).Local().Format("15:04:05")
	name := m.RealName
	if name == "" {
		name = m.Sender
	}
	return fmt.Sprintf("%s [%s] %s: %s", at, m.Channel, p.paint(color.FgCyan, name), m.Body)
}

func secondsToTime(seconds float64) time.Time {
	sec := int64(seconds)
	return time.Unix(sec, int64((seconds-float64(sec))*1e9))
}

func commandText(ok bool, message string) string {
	p := newPainter(viper.GetBool(colorKey))
	if ok {
		return p.paint(color.FgGreen, message)
	}
	return p.paint(color.FgRed, message)
}

// errorText prefers the server-side message of a gRPC status.
func errorText(err error) string {
	if st, ok := status.FromError(err); ok {
		return commandText(false, st.Message())
	}
	return commandText(false, err.Error())
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	return table
}

func renderMe(w io.Writer, me *api.MeResponse) {
	table := newTable(w, []string{"Login", "Name", "Admin", "Guest", "Quorum"})
	quorum := fmt.Sprintf("%d/%d", len(me.Quorum.Present), me.Quorum.Required)
	if me.Quorum.Reached {
		quorum += " reached"
	}
	table.Append([]string{me.Login, me.Name, strconv.FormatBool(me.Admin), strconv.FormatBool(me.Guest), quorum})
	table.Render()
}

func renderHits(w io.Writer, res *api.SearchResponse) {
	table := newTable(w, []string{"Time", "Room", "Sender", "Lang", "Message"})
	for _, h := range res.Hits {
		table.Append([]string{
			secondsToTime(h.Timestamp).Local().Format("2006-01-02 15:04"),
			h.Room, h.Sender, h.Lang, h.Body,
		})
	}
	table.SetFooter([]string{"", "", "", "total", strconv.FormatUint(res.Total, 10)})
	table.Render()
}
