package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	recordstorev1 "github.com/MarkoPoloResearchLab/communityledger/api/recordstore/v1"
	"github.com/MarkoPoloResearchLab/communityledger/internal/dashboard"
	"github.com/MarkoPoloResearchLab/communityledger/internal/grpcserver"
	"github.com/MarkoPoloResearchLab/communityledger/internal/oplog"
	"github.com/MarkoPoloResearchLab/communityledger/internal/store/docstore"
	"github.com/MarkoPoloResearchLab/communityledger/internal/store/gormstore"
	"github.com/MarkoPoloResearchLab/communityledger/pkg/ledger"
	"github.com/tyemirov/tauth/pkg/sessionvalidator"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

// NewLogger returns the process logger.
func NewLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Run serves the gRPC and dashboard front ends over one ledger service until
// ctx is canceled or either server fails.
func Run(ctx context.Context, cfg Config, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	store, err := docstore.New(cfg.DataDir, docstore.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("document store: %w", err)
	}

	loggers := ledger.MultiOperationLogger{oplog.New(logger)}
	var audit *gormstore.Store
	if cfg.AuditDatabaseURL != "" {
		db, cleanup, err := OpenDatabase(ctx, cfg.AuditDatabaseURL)
		if err != nil {
			return fmt.Errorf("audit database open: %w", err)
		}
		defer func() { _ = cleanup() }()
		audit = gormstore.New(db, gormstore.WithLogger(logger))
		if err := audit.Migrate(ctx); err != nil {
			return fmt.Errorf("audit migrate: %w", err)
		}
		loggers = append(loggers, audit)
	}

	service, err := ledger.NewService(store, time.Now, ledger.WithOperationLogger(loggers))
	if err != nil {
		return fmt.Errorf("ledger service init: %w", err)
	}

	grpcServer, err := newGRPCServer(cfg, service, logger)
	if err != nil {
		return err
	}
	httpServer, err := newHTTPServer(cfg, service, audit, logger)
	if err != nil {
		return err
	}

	grpcListener, err := net.Listen("tcp", cfg.GRPCListenAddr)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	httpListener, err := net.Listen("tcp", cfg.HTTPListenAddr)
	if err != nil {
		_ = grpcListener.Close()
		return fmt.Errorf("http listen: %w", err)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("gRPC server starting", zap.String("listen_addr", grpcListener.Addr().String()))
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		logger.Info("dashboard listening", zap.String("listen_addr", httpListener.Addr().String()))
		if err := httpServer.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		watcher := docstore.NewWatcher(store)
		err := watcher.Run(groupCtx, func(event docstore.ChangeEvent) {
			logger.Warn("document changed outside the daemon",
				zap.String("document", string(event.Document)),
				zap.Bool("removed", event.Removed),
			)
		})
		if err != nil {
			logger.Warn("document watcher stopped", zap.Error(err))
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("dashboard shutdown error", zap.Error(err))
		}
		grpcServer.GracefulStop()
		return nil
	})
	return group.Wait()
}

func newGRPCServer(cfg Config, service *ledger.Service, logger *zap.Logger) (*grpc.Server, error) {
	interceptors := []grpc.UnaryServerInterceptor{grpcserver.LoggingInterceptor(logger)}
	if cfg.ServiceTokenKey != "" {
		validator, err := grpcserver.NewTokenValidator(cfg.ServiceTokenKey, cfg.ServiceIssuer, nil)
		if err != nil {
			return nil, fmt.Errorf("service token validator: %w", err)
		}
		interceptors = append(interceptors, validator.UnaryInterceptor())
	} else {
		logger.Warn("gRPC service token disabled; bind the gRPC listener to a private address")
	}
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	recordstorev1.RegisterRecordStoreServer(server, grpcserver.NewRecordStoreServer(service, time.Now))
	return server, nil
}

func newHTTPServer(cfg Config, service *ledger.Service, audit *gormstore.Store, logger *zap.Logger) (*http.Server, error) {
	validator, err := sessionvalidator.New(sessionvalidator.Config{
		SigningKey: []byte(cfg.JWTSigningKey),
		Issuer:     cfg.JWTIssuer,
		CookieName: cfg.JWTCookieName,
	})
	if err != nil {
		return nil, fmt.Errorf("session validator: %w", err)
	}
	options := dashboard.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AdminRoles:     cfg.AdminRoles,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
	}
	if audit != nil {
		options.Audit = audit
	}
	return &http.Server{
		Handler:           dashboard.NewRouter(service, validator, options),
		ReadHeaderTimeout: cfg.RequestTimeout,
	}, nil
}
