// Package app wires the configured components into a runnable service.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/gridpilot/gridpilot/api/status"
	"github.com/gridpilot/gridpilot/config"
	"github.com/gridpilot/gridpilot/core/decision"
	"github.com/gridpilot/gridpilot/core/forecast"
	"github.com/gridpilot/gridpilot/core/ingest"
	"github.com/gridpilot/gridpilot/core/scheduler"
	coresink "github.com/gridpilot/gridpilot/core/sink"
	"github.com/gridpilot/gridpilot/core/state"
	"github.com/gridpilot/gridpilot/infra/logger"
	"github.com/gridpilot/gridpilot/infra/metrics"
	infrasink "github.com/gridpilot/gridpilot/infra/sink"
	"github.com/gridpilot/gridpilot/internal/eventbus"
)

// Service holds the assembled pipeline.
type Service struct {
	cfg       *config.Config
	Store     *state.Store
	Scheduler *scheduler.Scheduler
	Bus       *eventbus.Bus[coresink.TickRecord]

	log     logger.Logger
	closers []io.Closer
}

// New builds the service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	sim := ingest.NewSimulated(cfg.Simulation)
	store := state.New(cfg.History.Capacity, sim.InitialSnapshot())
	fc := forecast.NewWindow(cfg.Forecast)
	eng := decision.NewRuleEngine(cfg.Decision, cfg.Battery)

	svc := &Service{cfg: cfg, Store: store, log: logg}

	var sinks []coresink.Sink
	if cfg.Metrics.PrometheusEnabled {
		prom, err := infrasink.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, prom)
	}
	if cfg.Influx.Enabled {
		sinks = append(sinks, infrasink.NewInfluxSinkWithFallback(cfg.Influx))
	}
	if cfg.MQTT.Enabled {
		mq, err := infrasink.NewMQTTSink(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt sink: %w", err)
		}
		sinks = append(sinks, mq)
		svc.closers = append(svc.closers, mq)
	}
	switch cfg.Logging.Backend {
	case "jsonl":
		st, err := infrasink.NewJSONLStore(cfg.Logging.Path)
		if err != nil {
			return nil, fmt.Errorf("jsonl store: %w", err)
		}
		sinks = append(sinks, st)
	case "sqlite":
		st, err := infrasink.NewSQLiteStore(cfg.Logging.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlite store: %w", err)
		}
		sinks = append(sinks, st)
		svc.closers = append(svc.closers, st)
	}

	var out coresink.Sink = coresink.Nop{}
	if len(sinks) == 1 {
		out = sinks[0]
	} else if len(sinks) > 1 {
		out = coresink.NewMulti(sinks...)
	}

	svc.Bus = eventbus.New[coresink.TickRecord]()
	svc.Scheduler = scheduler.New(cfg.Scheduler, cfg.Battery, store, sim, fc, eng, out, svc.Bus, logger.New("scheduler"))
	return svc, nil
}

// Run starts the auxiliary servers and blocks on the scheduler loop until
// ctx is cancelled or the scheduler stops fatally.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.cfg.API.Enabled {
		h := status.NewHandler(s.Store, s.Scheduler)
		go func() {
			if err := status.StartServer(ctx, s.cfg.API.Addr, h); err != nil {
				s.log.Errorf("status api: %v", err)
			}
		}()
	}
	return s.Scheduler.Run(ctx)
}

// RunTicks executes exactly n ticks and returns, for the non-interactive
// verification mode.
func (s *Service) RunTicks(ctx context.Context, n int) error {
	return s.Scheduler.RunTicks(ctx, n)
}

// Close releases sink resources.
func (s *Service) Close() error {
	s.Bus.Close()
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
