//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"meeting-lab/domain"
	"meeting-lab/domain/event"
	"reflect"
	"time"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Row is a flat record of the durable store. Values are strings or float64.
type Row map[string]any

// Schema describes a table for both the key/value and the SQL drivers.
type Schema struct {
	Table      string
	Columns    []string
	PrimaryKey string
	DDL        string
}

// TableStore is the durable store collaborator: an append-only table log.
// FetchAll returns rows in insertion order; filter matches string columns by equality.
type TableStore interface {
	FetchAll(ctx context.Context, table string, filter map[string]string) ([]Row, error)
	Insert(ctx context.Context, table string, row Row) error
	TableExists(ctx context.Context, table string) (bool, error)
	CreateTable(ctx context.Context, schema Schema) error
}

// FrameSink receives the frames of one live session, in order.
type FrameSink interface {
	Send(ctx context.Context, frame domain.Frame) error
}

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

type IBroker interface {
	Subscribe() string
	Unsubscribe(handle string)
	Publish(message domain.Message)
	Drain(handle string) []domain.Message
}

type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
