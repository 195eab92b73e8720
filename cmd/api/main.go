package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/Gungunbajpai07/TutorTrack/internal/auth"
	"github.com/Gungunbajpai07/TutorTrack/internal/config"
	"github.com/Gungunbajpai07/TutorTrack/internal/httpapi"
	"github.com/Gungunbajpai07/TutorTrack/internal/migrate"
	"github.com/Gungunbajpai07/TutorTrack/internal/obs"
	"github.com/Gungunbajpai07/TutorTrack/internal/store/bolt"
	"github.com/Gungunbajpai07/TutorTrack/internal/store/pg"
	"github.com/Gungunbajpai07/TutorTrack/internal/students"
	"github.com/Gungunbajpai07/TutorTrack/ops/migrations"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

// backend bundles the stores selected by store.driver.
type backend struct {
	tutors   auth.TutorStore
	students students.Store
	pinger   httpapi.Pinger
	closer   io.Closer
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		s, err := pg.Open(cfg.PG.DSN)
		if err != nil {
			return nil, err
		}
		if cfg.PG.AutoMigrate {
			applied, err := migrate.NewManager(s.DB(), migrations.FS()).Up(ctx)
			if err != nil {
				s.Close()
				return nil, err
			}
			for _, name := range applied {
				obs.Info("migration applied", map[string]any{"name": name})
			}
		}
		return &backend{tutors: s.Tutors(), students: s.Students(), pinger: s, closer: s}, nil
	case config.DriverBolt:
		s, err := bolt.Open(cfg.Bolt.Path)
		if err != nil {
			return nil, err
		}
		return &backend{tutors: s.Tutors(), students: s.Students(), pinger: s, closer: s}, nil
	default:
		return &backend{tutors: auth.NewMemoryStore(), students: students.NewInMemory()}, nil
	}
}

func main() {
	configPath := flag.String("config", "", "Optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	obs.Init()
	obs.InitBuildInfo(version, commit)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	be, err := openBackend(startCtx, cfg)
	cancelStart()
	if err != nil {
		log.Fatalf("open %s store: %v", cfg.Store.Driver, err)
	}
	if cfg.EphemeralSecret {
		obs.Info("auth.secret not set; using a random secret, sessions end on restart", nil)
	}

	authSvc, err := auth.NewService(be.tutors,
		auth.WithTokenSecret(cfg.Auth.Secret),
		auth.WithIssuer(cfg.Auth.Issuer),
		auth.WithTokenTTL(cfg.Auth.TokenTTL),
		auth.WithBcryptCost(cfg.Auth.BcryptCost),
	)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}
	studentSvc, err := students.NewService(be.students)
	if err != nil {
		log.Fatalf("students: %v", err)
	}

	probe := httpapi.ReadyProbe{Store: be.pinger}
	api := httpapi.New(probe, version, authSvc, studentSvc,
		httpapi.WithRateLimit(cfg.HTTP.RateBurst, cfg.HTTP.RatePerSec),
		httpapi.WithMaxBodyBytes(cfg.HTTP.MaxBodyBytes),
	)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	grpcServer := grpc.NewServer()
	httpapi.NewGRPCServer(probe, version).Register(grpcServer)
	grpcLis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		log.Fatalf("grpc listen: %v", err)
	}

	obs.Info("starting tutortrack-api", map[string]any{
		"version": version,
		"addr":    srv.Addr,
		"grpc":    cfg.GRPC.Addr,
		"store":   cfg.Store.Driver,
	})

	// graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()
	go func() {
		if err := grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			log.Fatalf("grpc serve: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	obs.Info("shutting down", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	grpcServer.GracefulStop()
	if be.closer != nil {
		_ = be.closer.Close()
	}
	obs.Info("stopped", nil)
}
