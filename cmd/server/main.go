package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"meeting-lab/auth"
	"meeting-lab/contract"
	grpcserver "meeting-lab/infrastructure/grpc/server"
	"meeting-lab/infrastructure/grpc/api"
	"meeting-lab/infrastructure/http"
	"meeting-lab/infrastructure/storage"
	"meeting-lab/internal"
	"meeting-lab/moderation"
	"meeting-lab/repositories"
	"meeting-lab/runtime"
	"meeting-lab/search"
	"meeting-lab/services"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const shutdownTimeout = 10 * time.Second

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Meeting server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// Returning instead of exiting lets every defer (store, index) run before the process ends.
func run() (int, error) {
	// 1. Configuration & Logger
	// A missing .env file is fine: the real environment wins anyway.
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, err
	}
	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}
	meetingFile, err := internal.LoadMeetingFile(config.MeetingFile)
	if err != nil {
		return exitConfig, err
	}
	tokens, err := auth.NewTokenManager(config.JWTSecret, config.AuthTokenDuration)
	if err != nil {
		return exitConfig, fmt.Errorf("token manager: %w", err)
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Durable store
	var (
		store contract.TableStore
		db    *badger.DB
	)
	switch config.StoreDriver {
	case internal.DriverSQLite:
		sqlStore, err := storage.OpenSQLStore(config.SQLiteFilepath, logger)
		if err != nil {
			return exitRuntime, fmt.Errorf("sqlite opening failed: %w", err)
		}
		defer func() {
			logger.Info("Closing SQLite...")
			_ = sqlStore.Close()
		}()
		store = sqlStore
	default:
		db, err = badger.Open(buildBadgerOpts(ctx, config, logger))
		if err != nil {
			return exitRuntime, fmt.Errorf("database opening failed: %w", err)
		}
		badgerStore := storage.NewBadgerStore(db, logger)
		defer func() {
			// Sequences are released before the database lock.
			logger.Info("Closing BadgerDB...")
			badgerStore.Close()
			_ = db.Close()
		}()
		store = badgerStore
	}
	if err := repositories.EnsureSchema(ctx, store); err != nil {
		return exitRuntime, fmt.Errorf("schema: %w", err)
	}

	clock := contract.SystemClock{}
	messageRepository := repositories.NewMessageRepository(store, logger)
	auditRepository := repositories.NewAuditRepository(store, clock)
	quorumRepository := repositories.NewQuorumRepository(store, clock)

	// 3. Meeting state
	moderator, err := moderation.NewModerator(config.Words(), charReplacement, logger)
	if err != nil {
		return exitConfig, fmt.Errorf("moderator: %w", err)
	}
	meeting := runtime.NewMeeting(config.Runtime(meetingFile.InviteURL), meetingFile.Roster(), runtime.Dependencies{
		Messages:  messageRepository,
		Quorum:    quorumRepository,
		Clock:     clock,
		Moderator: moderator,
	}, logger)
	if err := meeting.Boot(ctx, meetingFile.RoomSpecs()); err != nil {
		return exitRuntime, fmt.Errorf("meeting boot failed: %w", err)
	}

	// 4. Search index, rebuilt from the store so redactions are forgotten on restart.
	index, err := search.Open(bluge.DefaultConfig(config.BlugeFilepath), logger)
	if err != nil {
		return exitRuntime, err
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = index.Close()
	}()
	all, err := messageRepository.GetAllMessages(ctx)
	if err != nil {
		return exitRuntime, fmt.Errorf("load messages: %w", err)
	}
	if err := index.Reindex(all); err != nil {
		return exitRuntime, fmt.Errorf("reindex: %w", err)
	}
	meeting.Add(index)

	// 5. Transports
	svc := services.New(meeting, auditRepository, tokens, index, logger)
	interceptor := auth.NewInterceptor(tokens, api.PublicMethods...)
	grpcServer := grpcserver.NewGRPCServer(logger, interceptor,
		grpcserver.NewMeetingServer(logger, svc), config.SinkTimeout)
	gateway := http.NewGateway(logger, svc, interceptor, config.SinkTimeout)

	grpcAddress := fmt.Sprintf("0.0.0.0:%d", config.GRPCPort)
	listener, err := net.Listen("tcp", grpcAddress)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", grpcAddress, err)
	}

	var debugServer *internal.DebugServer
	if config.DebugPort > 0 {
		if db == nil {
			logger.Warn("Debug inspector only supports the badger store", "driver", config.StoreDriver)
		} else {
			debugServer = internal.NewDebugServer(db, config.DebugPort, nil,
				func() any { return meeting.Monitor.GetLatest() }, logger)
		}
	}

	// 6. Run everything until a signal or the first failure.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		meeting.Start(gctx)
		return nil
	})
	g.Go(func() error {
		logger.Info("Starting gRPC server", "address", grpcAddress, "at", time.Now().UTC())
		for serviceName := range grpcServer.GetServiceInfo() {
			logger.Debug("gRPC exposed service", "name", serviceName)
		}
		if err := grpcServer.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC server error: %w", err)
		}
		return nil
	})
	if config.HTTPPort > 0 {
		g.Go(func() error {
			if err := gateway.Listen(fmt.Sprintf("0.0.0.0:%d", config.HTTPPort)); err != nil {
				return fmt.Errorf("HTTP gateway error: %w", err)
			}
			return nil
		})
	}
	if debugServer != nil {
		g.Go(debugServer.ListenAndServe)
	}

	// 7. Shutdown: the first of signal or failure cancels gctx.
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		grpcServer.GracefulStop()
		if err := gateway.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP gateway shutdown failed", "error", err)
		}
		if debugServer != nil {
			_ = debugServer.Shutdown(shutdownCtx)
		}
		meeting.Stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		return exitRuntime, err
	}
	logger.Info("Program stopped cleanly")
	return exitOK, nil
}

func buildBadgerOpts(ctx context.Context, config internal.Config, logger *slog.Logger) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)
	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG)
	} else {
		options = options.WithLoggingLevel(badger.WARNING)
	}
	return options
}
