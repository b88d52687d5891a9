package internal

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

//go:embed inspect.html
var templatesFS embed.FS

const DefaultPrefix = "row:messages:"

type InspectRow struct {
	Key       string
	Table     string
	Timestamp string
	EntityID  string
	Actor     string
	Detail    string
}

type RowMapper func(key string, val []byte) InspectRow
type StatsProvider func() any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  any
}

// DebugServer exposes the raw badger rows and the live counters over plain HTTP.
// It is meant for operators on a trusted network and carries no authentication.
type DebugServer struct {
	db     *badger.DB
	mapper RowMapper
	stats  StatsProvider
	tmpl   *template.Template
	server *http.Server
	log    *slog.Logger
}

func NewDebugServer(db *badger.DB, port int, mapper RowMapper, stats StatsProvider, log *slog.Logger) *DebugServer {
	if mapper == nil {
		mapper = DefaultMapper
	}
	d := &DebugServer{
		db:     db,
		mapper: mapper,
		stats:  stats,
		tmpl:   template.Must(template.ParseFS(templatesFS, "inspect.html")),
		log:    log,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/inspect", d.inspect)
	mux.HandleFunc("/stats", d.statsJSON)
	d.server = &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return d
}

func (d *DebugServer) Handler() http.Handler {
	return d.server.Handler
}

// ListenAndServe blocks until Shutdown is called.
func (d *DebugServer) ListenAndServe() error {
	d.log.Info("Debug inspector listening", "addr", d.server.Addr)
	if err := d.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (d *DebugServer) Shutdown(ctx context.Context) error {
	return d.server.Shutdown(ctx)
}

// Rows returns every row under prefix, mapped for display.
func (d *DebugServer) Rows(prefix string) ([]InspectRow, error) {
	var rows []InspectRow
	err := d.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				rows = append(rows, d.mapper(string(item.Key()), val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return rows, err
}

func (d *DebugServer) inspect(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	data := PageData{Prefix: prefix}
	if d.stats != nil {
		data.Stats = d.stats()
	}
	items, err := d.Rows(prefix)
	if err != nil {
		d.log.Error("Inspect scan failed", "prefix", prefix, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	data.Items = items

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := d.tmpl.Execute(w, data); err != nil {
		d.log.Error("Inspect template failed", "error", err)
	}
}

func (d *DebugServer) statsJSON(w http.ResponseWriter, _ *http.Request) {
	var stats any = map[string]any{}
	if d.stats != nil {
		stats = d.stats()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(stats)
}

// DefaultMapper reads keys shaped row:{table}:{seq}:{pk} holding structpb rows.
// Anything else is shown as raw bytes.
func DefaultMapper(key string, val []byte) InspectRow {
	row := InspectRow{
		Key:       key,
		Table:     "raw",
		Timestamp: "--:--:--",
		EntityID:  "--------",
		Actor:     "-",
		Detail:    "Size: " + strconv.Itoa(len(val)) + " bytes",
	}

	parts := strings.SplitN(key, ":", 4)
	if len(parts) < 4 || parts[0] != "row" {
		return row
	}
	row.Table = parts[1]
	row.EntityID = parts[3]
	if len(row.EntityID) > 8 {
		row.EntityID = row.EntityID[:8]
	}

	var value structpb.Struct
	if err := proto.Unmarshal(val, &value); err != nil {
		return row
	}
	fields := value.AsMap()
	if ts, ok := fields["timestamp"].(float64); ok {
		sec := int64(ts)
		row.Timestamp = time.Unix(sec, int64((ts-float64(sec))*1e9)).UTC().Format("15:04:05")
	}
	for _, k := range []string{"sender", "identity"} {
		if v, ok := fields[k].(string); ok {
			row.Actor = v
			break
		}
	}
	switch {
	case fields["message"] != nil:
		row.Detail = fmt.Sprintf("[%v] %v", fields["room"], fields["message"])
	case fields["action"] != nil:
		row.Detail = fmt.Sprint(fields["action"])
	}
	return row
}
