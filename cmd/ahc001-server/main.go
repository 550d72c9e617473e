// ahc001-server serves the optimizer over HTTP.
//
//	POST /v1/optimize  {"input": "...", "params": {...}, "seed": 1, "rounds": 500}
//	GET  /healthz
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hinohi/ahc001/internal/project"
	"github.com/hinohi/ahc001/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "ahc001-server:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	a, err := setup(args, stderr, os.LookupEnv)
	if err != nil {
		return err
	}
	defer a.close()

	ln, err := net.Listen("tcp", a.http.Addr)
	if err != nil {
		return err
	}
	return a.serve(ctx, ln)
}

type app struct {
	http  *http.Server
	close func()
	log   *slog.Logger
	grace time.Duration // shutdown wait for in-flight jobs
}

func setup(args []string, stderr io.Writer, lookup func(string) (string, bool)) (*app, error) {
	fs := flag.NewFlagSet("ahc001-server", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", ":8080", "listen address")
	envFile := fs.String("env", ".env", "dotenv file")
	configPath := fs.String("config", project.DefaultConfigPath(), "config file")
	maxTime := fs.Duration("max-time", server.DefaultConfig().MaxTimeLimit, "largest time limit a request may ask for")
	cacheTTL := fs.Duration("cache-ttl", server.DefaultConfig().CacheTTL, "how long deterministic results are cached")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := project.LoadDotEnv(*envFile); err != nil {
		return nil, err
	}
	appCfg, err := project.LoadAppConfig(*configPath)
	if err != nil {
		return nil, err
	}
	if appCfg, err = project.ApplyEnv(appCfg, lookup); err != nil {
		return nil, err
	}
	logger, err := project.NewJSONLogger(stderr, appCfg.LogLevel)
	if err != nil {
		return nil, err
	}

	cfg := server.DefaultConfig()
	cfg.DefaultTimeLimit = min(appCfg.TimeLimit(), *maxTime)
	cfg.MaxTimeLimit = *maxTime
	cfg.IndexDepth = appCfg.IndexDepth
	cfg.CacheTTL = *cacheTTL

	gin.SetMode(gin.ReleaseMode)
	srv, err := server.New(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &app{
		http: &http.Server{
			Addr:              *addr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		close: srv.Close,
		log:   logger,
		grace: cfg.MaxTimeLimit + 5*time.Second,
	}, nil
}

// serve answers on ln until ctx is done, then drains in-flight requests.
func (a *app) serve(ctx context.Context, ln net.Listener) error {
	errc := make(chan error, 1)
	go func() {
		a.log.Info("listening", slog.String("addr", ln.Addr().String()))
		errc <- a.http.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.grace)
	defer cancel()
	return a.http.Shutdown(shutdownCtx)
}
