package main

import (
	"fmt"
	"log"
	"meeting-lab/internal"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// viewer serves the badger inspector on a store owned by a running server.
func main() {
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if config.DebugPort <= 0 {
		log.Fatalf("DEBUG_PORT must be set for the viewer")
	}

	// BypassLockGuard lets the viewer open the store while the server holds the lock.
	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	started := time.Now()
	stats := func() any {
		return map[string]any{
			"Status": "read-only viewer",
			"Uptime": time.Since(started).Round(time.Second).String(),
		}
	}

	fmt.Printf("Viewer started at http://localhost:%d/inspect\n", config.DebugPort)
	server := internal.NewDebugServer(db, config.DebugPort, nil, stats, logs.GetLoggerFromString(config.LogLevel))
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Viewer stopped: %v", err)
	}
}
