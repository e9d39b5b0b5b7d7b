package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/timzifer/vehiclesim/config"
	"github.com/timzifer/vehiclesim/hardware"
	"github.com/timzifer/vehiclesim/inspector"
	"github.com/timzifer/vehiclesim/internal/logging"
	"github.com/timzifer/vehiclesim/internal/reload"
	"github.com/timzifer/vehiclesim/telemetry"
	"github.com/timzifer/vehiclesim/vehicle"
)

func main() {
	cfgPath := flag.String("config", "", "Path to configuration file (empty for built-in defaults)")
	configCheck := flag.Bool("config-check", false, "Validate configuration and exit")
	inspect := flag.Bool("inspect", false, "Enable the HTTP state inspector")
	inspectListen := flag.String("inspect-listen", ":18090", "Inspector listen address")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if *configCheck {
		os.Exit(executeConfigCheck(cfg))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *cfgPath, cfg, *inspect, *inspectListen); err != nil && err != context.Canceled {
		log.Fatal().Err(err).Msg("simulator stopped")
	}
}

func run(ctx context.Context, cfgPath string, cfg *config.Config, inspect bool, inspectListen string) error {
	for {
		logger, cleanup, err := logging.Setup(cfg.Logging)
		if err != nil {
			return err
		}
		log.Logger = logger

		collector, err := newTelemetryCollector(cfg.Telemetry)
		if err != nil {
			logger.Warn().Err(err).Msg("telemetry disabled")
			collector = telemetry.Noop()
		}

		hw, err := hardware.New(cfg, logger, hardware.WithTelemetry(collector))
		if err != nil {
			cleanup()
			return err
		}
		hw.RegisterOnPropertyChangeEvent(func(values []vehicle.PropValue) {
			for _, value := range values {
				logger.Debug().
					Int32("prop", value.Prop).
					Int32("area", value.AreaID).
					Int64("timestamp", value.Timestamp).
					Msg("property changed")
			}
		})

		var insp *inspector.Server
		if inspect || cfg.Inspector.Enabled {
			listen := inspectListen
			if cfg.Inspector.Listen != "" {
				listen = cfg.Inspector.Listen
			}
			insp, err = inspector.New(listen, hw, logger)
			if err != nil {
				cleanup()
				return err
			}
		}

		reloaded, err := waitForShutdownOrReload(ctx, cfgPath, cfg, logger)
		insp.Close()
		cleanup()
		if err != nil {
			return err
		}
		if reloaded == nil {
			return ctx.Err()
		}
		cfg = reloaded
	}
}

func waitForShutdownOrReload(ctx context.Context, cfgPath string, cfg *config.Config, logger zerolog.Logger) (*config.Config, error) {
	if !cfg.HotReload || cfgPath == "" {
		<-ctx.Done()
		return nil, nil
	}

	watcher, err := reload.NewWatcher(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("create config watcher: %w", err)
	}
	ticker := time.NewTicker(cfg.ReloadPollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, nil
		case <-ticker.C:
			if !watcher.Changed() {
				continue
			}
			newCfg, err := config.Load(cfgPath)
			if err != nil {
				logger.Error().Err(err).Msg("failed to reload configuration")
				if err := watcher.Update(cfgPath); err != nil {
					logger.Error().Err(err).Msg("failed to rebaseline config watcher")
				}
				continue
			}
			logger.Info().Str("config", cfgPath).Msg("configuration changed, restarting simulator")
			return newCfg, nil
		}
	}
}

func executeConfigCheck(cfg *config.Config) int {
	fmt.Printf("Configuration valid: %d properties, %d rules.\n", len(cfg.Properties), len(cfg.Rules))
	for _, prop := range cfg.Properties {
		scope := "global"
		if !prop.Global() {
			scope = fmt.Sprintf("%d areas", len(prop.Areas))
		}
		seeded := "no default"
		if prop.InitialValue != nil && !prop.InitialValue.IsEmpty() {
			seeded = "default"
		}
		if len(prop.InitialAreaValues) > 0 {
			seeded = fmt.Sprintf("%s, %d area overrides", seeded, len(prop.InitialAreaValues))
		}
		name := prop.Name
		if name == "" {
			name = "<unnamed>"
		}
		fmt.Printf("  %#06x %-28s %s (%s)\n", prop.Prop, name, scope, seeded)
	}
	for _, rule := range cfg.Rules {
		state := "enabled"
		if rule.Disable {
			state = "disabled"
		}
		fmt.Printf("  rule %-26s %#06x -> %#06x (%s)\n", rule.ID, rule.Trigger.Prop, rule.Target.Prop, state)
	}
	return 0
}

func newTelemetryCollector(cfg config.TelemetryConfig) (telemetry.Collector, error) {
	if !cfg.Enabled {
		return telemetry.Noop(), nil
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case "", "prometheus":
		return telemetry.NewPrometheusCollector(nil)
	default:
		return telemetry.Noop(), fmt.Errorf("unsupported telemetry provider %q", cfg.Provider)
	}
}
