package main

import (
	"testing"

	"github.com/elpatron68/mission-control/internal/config"
)

func TestParseArgs(t *testing.T) {
	t.Run("no args", func(t *testing.T) {
		opts, err := parseArgs(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if opts.port != 0 || opts.listen != "" {
			t.Fatalf("expected empty options, got %+v", opts)
		}
	})

	t.Run("positional port", func(t *testing.T) {
		opts, err := parseArgs([]string{"9001"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if opts.port != 9001 {
			t.Fatalf("expected port 9001, got %d", opts.port)
		}
	})

	t.Run("flags", func(t *testing.T) {
		opts, err := parseArgs([]string{"--config", "x.yaml", "-w", "/srv/ws", "--log-level", "debug"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if opts.configPath != "x.yaml" || opts.workspace != "/srv/ws" || opts.logLevel != "debug" {
			t.Fatalf("flags not parsed: %+v", opts)
		}
	})

	t.Run("bad port", func(t *testing.T) {
		for _, arg := range []string{"http", "0", "70000"} {
			if _, err := parseArgs([]string{arg}); err == nil {
				t.Fatalf("expected error for %q", arg)
			}
		}
	})

	t.Run("too many args", func(t *testing.T) {
		if _, err := parseArgs([]string{"8080", "9090"}); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestApplyOptionsPrecedence(t *testing.T) {
	t.Run("defaults to :8080", func(t *testing.T) {
		cfg := config.Default()
		applyOptions(cfg, &options{})
		if cfg.Addr() != ":8080" {
			t.Fatalf("expected :8080, got %s", cfg.Addr())
		}
	})

	t.Run("port argument beats configured listen", func(t *testing.T) {
		cfg := config.Default()
		cfg.Listen = "127.0.0.1:9000"
		applyOptions(cfg, &options{port: 7000})
		if cfg.Addr() != ":7000" {
			t.Fatalf("expected :7000, got %s", cfg.Addr())
		}
	})

	t.Run("listen flag beats port argument", func(t *testing.T) {
		cfg := config.Default()
		applyOptions(cfg, &options{port: 7000, listen: "[::1]:6060"})
		if cfg.Addr() != "[::1]:6060" {
			t.Fatalf("expected flag override, got %s", cfg.Addr())
		}
	})

	t.Run("env listen survives without flags", func(t *testing.T) {
		t.Setenv("MC_LISTEN", "0.0.0.0:7777")
		cfg, err := config.Load("")
		if err != nil {
			t.Fatal(err)
		}
		applyOptions(cfg, &options{})
		if cfg.Addr() != "0.0.0.0:7777" {
			t.Fatalf("expected env listen, got %s", cfg.Addr())
		}
	})

	t.Run("workspace and log level", func(t *testing.T) {
		cfg := config.Default()
		applyOptions(cfg, &options{workspace: "/tmp/ws", logLevel: "warn"})
		if cfg.Workspace != "/tmp/ws" || cfg.Logging.Level != "warn" {
			t.Fatalf("options not applied: %+v", cfg)
		}
	})
}
