package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gridpilot/gridpilot/core/decision"
	"github.com/gridpilot/gridpilot/core/forecast"
	"github.com/gridpilot/gridpilot/core/ingest"
	"github.com/gridpilot/gridpilot/core/logger"
	"github.com/gridpilot/gridpilot/core/model"
	"github.com/gridpilot/gridpilot/core/sink"
	"github.com/gridpilot/gridpilot/core/state"
)

// State tracks the scheduler lifecycle.
type State int32

const (
	Idle State = iota
	Running
	ShuttingDown
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case ShuttingDown:
		return "shutting_down"
	case Stopped:
		return "stopped"
	default:
		return "idle"
	}
}

// Totals accumulates run-level cost and emissions derived from grid imports.
type Totals struct {
	CostEUR float64 `json:"cost_eur"`
	CO2Kg   float64 `json:"co2_kg"`
}

// Scheduler drives the tick pipeline: ingest, forecast, decide, commit,
// publish. One tick fully completes before the next begins; cancellation is
// checked between ticks so an in-flight tick always reaches its commit.
type Scheduler struct {
	cfg        Config
	battery    model.Battery
	store      *state.Store
	ingestor   ingest.Ingestor
	forecaster forecast.Forecaster
	engine     decision.Engine
	out        sink.Sink
	bus        TickBus
	log        logger.Logger

	st atomic.Int32

	mu           sync.Mutex
	tick         uint64
	consecFails  int
	lastDecision *model.Decision
	lastForecast model.ForecastResult
	totals       Totals
}

// TickBus is the optional best-effort broadcast to UI subscribers. It must
// never block; the guaranteed path is the sink.
type TickBus interface {
	Publish(sink.TickRecord)
}

// New assembles a scheduler. A nil out falls back to sink.Nop; bus may be
// nil.
func New(cfg Config, battery model.Battery, store *state.Store, ing ingest.Ingestor, fc forecast.Forecaster, eng decision.Engine, out sink.Sink, bus TickBus, log logger.Logger) *Scheduler {
	if out == nil {
		out = sink.Nop{}
	}
	return &Scheduler{
		cfg:        cfg,
		battery:    battery,
		store:      store,
		ingestor:   ing,
		forecaster: fc,
		engine:     eng,
		out:        out,
		bus:        bus,
		log:        log,
	}
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State { return State(s.st.Load()) }

// Tick returns the number of successfully committed ticks.
func (s *Scheduler) Tick() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// LastDecision returns the most recent decision, if any tick has committed.
func (s *Scheduler) LastDecision() (model.Decision, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastDecision == nil {
		return model.Decision{}, false
	}
	return *s.lastDecision, true
}

// LastForecast returns the forecast of the most recent committed tick.
func (s *Scheduler) LastForecast() model.ForecastResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastForecast
}

// RunTotals returns the accumulated cost and emissions.
func (s *Scheduler) RunTotals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals
}

// Run ticks at the configured cadence until ctx is cancelled or repeated
// failures escalate. It returns nil on cooperative shutdown.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.st.CompareAndSwap(int32(Idle), int32(Running)) {
		return fmt.Errorf("scheduler is not idle")
	}
	defer s.st.Store(int32(Stopped))

	ticker := time.NewTicker(s.cfg.Cadence())
	defer ticker.Stop()
	s.log.Infof("scheduler running, cadence %s", s.cfg.Cadence())

	for {
		select {
		case <-ctx.Done():
			s.st.Store(int32(ShuttingDown))
			s.log.Infof("shutdown requested, stopping")
			return nil
		case <-ticker.C:
			if err := s.step(); err != nil {
				s.log.Errorf("scheduler stopping: %v", err)
				return err
			}
		}
	}
}

// RunTicks executes exactly n ticks back to back and stops. Used by the
// non-interactive CLI mode and by tests.
func (s *Scheduler) RunTicks(ctx context.Context, n int) error {
	if !s.st.CompareAndSwap(int32(Idle), int32(Running)) {
		return fmt.Errorf("scheduler is not idle")
	}
	defer s.st.Store(int32(Stopped))

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			s.st.Store(int32(ShuttingDown))
			return nil
		default:
		}
		if err := s.step(); err != nil {
			return err
		}
	}
	return nil
}

// step runs one tick and applies the failure policy: isolated failures are
// logged and absorbed, repeated ones escalate.
func (s *Scheduler) step() error {
	if err := s.tickOnce(); err != nil {
		s.mu.Lock()
		s.consecFails++
		n := s.consecFails
		s.mu.Unlock()
		s.log.Errorf("tick aborted (%d consecutive): %v", n, err)
		if n >= s.cfg.MaxConsecutiveFailures {
			return fmt.Errorf("%w: %d consecutive tick failures, last: %v", model.ErrRepeatedTickFailure, n, err)
		}
		return nil
	}
	s.mu.Lock()
	s.consecFails = 0
	s.mu.Unlock()
	return nil
}

// tickOnce executes the full pipeline for one tick. Any returned error
// means the tick was aborted before commit; the store is untouched.
func (s *Scheduler) tickOnce() error {
	s.mu.Lock()
	tick := s.tick
	last := s.lastDecision
	s.mu.Unlock()

	// The previous decision's battery action takes effect before the next
	// reading, closing the control loop.
	prev := s.store.Current()
	if last != nil {
		prev.BatterySoC = s.applyBattery(prev.BatterySoC, *last)
	}

	var snap model.EnergySnapshot
	if err := s.timed("ingest", func() error {
		var err error
		snap, err = s.ingestor.Produce(tick, prev)
		return err
	}); err != nil {
		tickFailures.WithLabelValues("ingest").Inc()
		return fmt.Errorf("ingest: %w", err)
	}

	history := s.store.History(s.store.Capacity())

	var fc model.ForecastResult
	err := s.timed("forecast", func() error {
		var err error
		fc, err = s.forecaster.Forecast(snap, history, s.cfg.HorizonTicks)
		return err
	})
	switch {
	case err == nil:
	case errors.Is(err, model.ErrInsufficientHistory):
		s.log.Infof("forecast: %v, substituting neutral forecast", err)
		fc = forecast.Neutral(snap, s.cfg.HorizonTicks)
	default:
		tickFailures.WithLabelValues("forecast").Inc()
		return fmt.Errorf("forecast: %w", err)
	}

	var dec model.Decision
	if err := s.timed("decide", func() error {
		var err error
		dec, err = s.engine.Decide(snap, fc, history)
		return err
	}); err != nil {
		tickFailures.WithLabelValues("decide").Inc()
		return fmt.Errorf("decide: %w", err)
	}

	if err := s.store.Commit(snap); err != nil {
		tickFailures.WithLabelValues("commit").Inc()
		return fmt.Errorf("commit: %w", err)
	}

	rec := sink.TickRecord{
		ID:          uuid.NewString(),
		Tick:        tick,
		Snapshot:    snap,
		Forecast:    fc,
		Decision:    dec,
		CommittedAt: time.Now().UTC(),
	}
	// The tick is committed; a failing sink must not poison the loop or
	// reorder later publishes.
	if err := s.out.Record(rec); err != nil {
		sinkErrors.Inc()
		s.log.Errorf("sink: %v", err)
	}
	if s.bus != nil {
		s.bus.Publish(rec)
	}

	s.mu.Lock()
	s.tick++
	decCopy := dec
	s.lastDecision = &decCopy
	s.lastForecast = fc
	s.totals.CostEUR += dec.GridImportKWh * snap.GridPrice
	s.totals.CO2Kg += dec.GridImportKWh * snap.CO2Intensity / 1000
	s.mu.Unlock()

	ticksTotal.Inc()
	s.log.Debugw("tick committed", map[string]any{
		"tick":   tick,
		"action": dec.BatteryAction.String(),
		"import": dec.GridImportKWh,
		"soc":    snap.BatterySoC,
	})
	return nil
}

// timed runs a stage and logs a warning when it exceeds the advisory
// budget. Timeouts never abort a tick.
func (s *Scheduler) timed(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	d := time.Since(start)
	stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if d > s.cfg.StageTimeout() {
		s.log.Warnf("%v: %s stage took %s, budget %s", model.ErrStageTimeout, stage, d, s.cfg.StageTimeout())
	}
	return err
}

// applyBattery advances the SoC by the energy moved by the last decision.
func (s *Scheduler) applyBattery(socPct float64, dec model.Decision) float64 {
	switch dec.BatteryAction {
	case model.ActionCharge:
		return s.battery.ApplyEnergy(socPct, dec.BatteryRateKWh)
	case model.ActionDischarge:
		return s.battery.ApplyEnergy(socPct, -dec.BatteryRateKWh)
	default:
		return socPct
	}
}
