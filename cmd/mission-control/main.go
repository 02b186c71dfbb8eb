package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/elpatron68/mission-control/internal/config"
	applog "github.com/elpatron68/mission-control/internal/log"
	"github.com/elpatron68/mission-control/internal/server"
	"github.com/elpatron68/mission-control/internal/workspace"
)

type options struct {
	configPath string
	listen     string
	workspace  string
	logLevel   string
	port       int // 0 when no positional port was given
}

func parseArgs(args []string) (*options, error) {
	fs := pflag.NewFlagSet("mission-control", pflag.ContinueOnError)
	opts := &options{}
	fs.StringVarP(&opts.configPath, "config", "c", "", "path to config.yaml (default: ./config.yaml if present)")
	fs.StringVarP(&opts.listen, "listen", "l", "", "listen address host:port, overrides the port")
	fs.StringVarP(&opts.workspace, "workspace", "w", "", "workspace root with index.html and data/")
	fs.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: mission-control [flags] [port]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		p, err := strconv.Atoi(fs.Arg(0))
		if err != nil || p < 1 || p > 65535 {
			return nil, fmt.Errorf("invalid port %q", fs.Arg(0))
		}
		opts.port = p
	default:
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args()[1:])
	}
	return opts, nil
}

// applyOptions layers command line values over the loaded config.
func applyOptions(cfg *config.Config, opts *options) {
	if opts.port != 0 {
		cfg.Port = opts.port
		cfg.Listen = ""
	}
	if opts.listen != "" {
		cfg.Listen = opts.listen
	}
	if opts.workspace != "" {
		cfg.Workspace = opts.workspace
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		stdlog.Fatalf("%v", err)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		stdlog.Fatalf("config error: %v", err)
	}
	applyOptions(cfg, opts)
	if err := cfg.Validate(); err != nil {
		stdlog.Fatalf("config error: %v", err)
	}

	applog.SetLevel(applog.ParseLevel(cfg.Logging.Level))

	if err := workspace.EnsureReady(cfg); err != nil {
		stdlog.Fatalf("startup check failed: %v", err)
	}

	srv := server.NewServerWithConfig(cfg)
	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		applog.Infof("Mission Control listening on %s", httpSrv.Addr)
		applog.Infof("workspace: %s, tasks: %s", cfg.Workspace, srv.Store().Path())
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			stdlog.Fatalf("server error: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			applog.Errorf("shutdown: %v", err)
		}
		applog.Infof("Mission Control stopped")
	}
}
