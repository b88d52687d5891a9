package repositories

import (
	"context"
	"meeting-lab/contract"
)

const (
	TableMessages = "messages"
	TableAudit    = "auditlog"
	TableQuorum   = "quorum"
)

var MessagesSchema = contract.Schema{
	Table:      TableMessages,
	Columns:    []string{"uid", "timestamp", "room", "sender", "realname", "message"},
	PrimaryKey: "uid",
	DDL: `CREATE TABLE "messages" (
    "uid"	TEXT NOT NULL,
    "timestamp"	REAL NOT NULL,
    "room"	TEXT NOT NULL,
    "sender"	TEXT NOT NULL,
    "realname"	TEXT NOT NULL,
    "message"	TEXT NOT NULL,
    PRIMARY KEY("uid")
);`,
}

var AuditSchema = contract.Schema{
	Table:      TableAudit,
	Columns:    []string{"uid", "timestamp", "action"},
	PrimaryKey: "uid",
	DDL: `CREATE TABLE "auditlog" (
    "uid"	TEXT NOT NULL,
    "timestamp"	REAL NOT NULL,
    "action"	TEXT NOT NULL,
    PRIMARY KEY("uid")
);`,
}

var QuorumSchema = contract.Schema{
	Table:      TableQuorum,
	Columns:    []string{"uid", "timestamp", "identity"},
	PrimaryKey: "uid",
	DDL: `CREATE TABLE "quorum" (
    "uid"	TEXT NOT NULL,
    "timestamp"	REAL NOT NULL,
    "identity"	TEXT NOT NULL,
    PRIMARY KEY("uid")
);`,
}

// EnsureSchema creates every missing table. It runs once at boot.
func EnsureSchema(ctx context.Context, store contract.TableStore, schemas ...contract.Schema) error {
	if len(schemas) == 0 {
		schemas = []contract.Schema{MessagesSchema, AuditSchema, QuorumSchema}
	}
	for _, schema := range schemas {
		exists, err := store.TableExists(ctx, schema.Table)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := store.CreateTable(ctx, schema); err != nil {
			return err
		}
	}
	return nil
}

func stringOf(row contract.Row, column string) string {
	s, _ := row[column].(string)
	return s
}

func floatOf(row contract.Row, column string) float64 {
	f, _ := row[column].(float64)
	return f
}
