// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/bureau-foundation/gputop/lib/clock"
	"github.com/bureau-foundation/gputop/lib/config"
	"github.com/bureau-foundation/gputop/lib/hwinfo"
	"github.com/bureau-foundation/gputop/lib/hwinfo/i915"
	"github.com/bureau-foundation/gputop/lib/logbatch"
	"github.com/bureau-foundation/gputop/lib/perf"
	"github.com/bureau-foundation/gputop/lib/version"
	"github.com/bureau-foundation/gputop/session"
	"github.com/bureau-foundation/gputop/transport"
)

// simulatedDevice is reported when counters come from the simulated
// source: a Skylake GT2.
var simulatedDevice = hwinfo.DeviceInfo{
	DeviceID:  0x1912,
	EUs:       24,
	Slices:    1,
	Subslices: 3,
	Samplers:  3,
	Card:      "simulated",
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  string
		listen      string
		webRoot     string
		source      string
		logLevel    string
		showVersion bool
	)

	flagSet := pflag.NewFlagSet("gputop-server", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to YAML config file (default: $"+config.EnvVar+", then built-in defaults)")
	flagSet.StringVar(&listen, "listen", "", "TCP listen address (overrides server.listen)")
	flagSet.StringVar(&webRoot, "web-root", "", "directory of UI assets served at / (overrides server.web_root)")
	flagSet.StringVar(&source, "source", "", "counter source, i915 or simulated (overrides counters.source)")
	flagSet.StringVar(&logLevel, "log-level", "", "minimum level logged to stderr (overrides log.level)")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if showVersion {
		fmt.Printf("gputop-server %s\n", version.Full())
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg, err := config.Resolve(configPath)
	if err != nil {
		return err
	}
	if flagSet.Changed("listen") {
		cfg.Server.Listen = listen
	}
	if flagSet.Changed("web-root") {
		cfg.Server.WebRoot = webRoot
	}
	if flagSet.Changed("source") {
		cfg.Counters.Source = source
	}
	if flagSet.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, logs, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	logger.Info("starting gputop server", version.Attr(), "source", cfg.Counters.Source)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opener, device := counterSource(cfg, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	sessions := session.NewServer(session.Config{
		Opener:       opener,
		Device:       device,
		Clock:        clock.Real(),
		TickInterval: cfg.Stream.TickInterval,
		BufferSize:   cfg.BufferSize(os.Getpagesize()),
		Logs:         logs,
		Metrics:      session.NewMetrics(registry),
		Logger:       logger,
	})

	server := transport.NewHTTPServer(httpServerConfig(cfg, sessions, registry, logger))

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return server.Serve(groupCtx)
	})
	group.Go(func() error {
		select {
		case <-server.Ready():
			logger.Info("gputop server running",
				"address", server.Addr().String(),
				"upgrade_path", cfg.Server.UpgradePath,
				"web_root", cfg.Server.WebRoot,
				"tick_interval", cfg.Stream.TickInterval,
				"buffer_size", cfg.BufferSize(os.Getpagesize()),
			)
		case <-groupCtx.Done():
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}
	logger.Info("gputop server stopped")
	return nil
}

// httpServerConfig maps the server section of cfg onto the HTTP
// server. Certificate paths are passed only as a pair.
func httpServerConfig(cfg *config.Config, sessions *session.Server, gatherer prometheus.Gatherer, logger *slog.Logger) transport.HTTPServerConfig {
	serverConfig := transport.HTTPServerConfig{
		Address:     cfg.Server.Listen,
		UpgradePath: cfg.Server.UpgradePath,
		WebRoot:     cfg.Server.WebRoot,
		Sessions:    sessions,
		Gatherer:    gatherer,
		Logger:      logger,
	}
	if cfg.TLS() {
		serverConfig.CertFile = cfg.Server.TLSCert
		serverConfig.KeyFile = cfg.Server.TLSKey
	}
	return serverConfig
}

// newLogger builds the process logger: JSON on stderr, teed into a
// batch that sessions forward to the UI.
func newLogger(cfg config.LogConfig) (*slog.Logger, *logbatch.Batch, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	forwardLevel, err := config.ParseLevel(cfg.ForwardLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("log forward level: %w", err)
	}

	logs := logbatch.New(cfg.BatchCapacity)
	logger := slog.New(logbatch.Fanout{
		slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
		logbatch.NewHandler(logs, forwardLevel),
	})
	slog.SetDefault(logger)
	return logger, logs, nil
}

// counterSource returns the opener for the configured source and the
// device descriptor to report for it. A device that cannot be fully
// probed is reported with whatever identity sysfs gave.
func counterSource(cfg *config.Config, logger *slog.Logger) (perf.Opener, hwinfo.DeviceInfo) {
	if cfg.Counters.Source == config.SourceSimulated {
		logger.Info("using simulated counters", "interval", cfg.Counters.SimulatedInterval)
		return perf.NewSimulated(clock.Real(), cfg.Counters.SimulatedInterval), simulatedDevice
	}

	opener := perf.NewOAOpenerFrom(cfg.Counters.SysRoot)
	if err := opener.Available(); err != nil {
		logger.Warn("i915 OA counters unavailable, features requests will go unanswered", "error", err)
	}

	device, err := i915.NewProberFrom(cfg.Counters.SysRoot, "/dev").Probe()
	switch {
	case errors.Is(err, i915.ErrNoDevice):
		logger.Warn("no i915 GPU found", "sys_root", cfg.Counters.SysRoot)
	case err != nil:
		logger.Warn("GPU topology unavailable, reporting device id only",
			"card", device.Card,
			"device_id", fmt.Sprintf("0x%04x", device.DeviceID),
			"error", err,
		)
	default:
		logger.Info("found GPU",
			"card", device.Card,
			"device_id", fmt.Sprintf("0x%04x", device.DeviceID),
			"eus", device.EUs,
			"slices", device.Slices,
			"subslices", device.Subslices,
		)
	}
	return opener, device
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `gputop-server streams Intel GPU performance counters to a browser UI.

A single UI connects over a websocket and opens OA counter streams by
metric set; raw samples are forwarded as they accumulate in the kernel's
ring buffers. Without an i915 GPU, --source simulated produces synthetic
samples.

Usage:
  gputop-server [flags]

Examples:
  # Serve the UI from ./webui on the default loopback address
  gputop-server --web-root ./webui

  # Run without GPU hardware
  gputop-server --source simulated

  # Use a config file
  gputop-server --config /etc/gputop/server.yaml

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
