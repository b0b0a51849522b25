package sink

import (
	"github.com/prometheus/client_golang/prometheus"

	coresink "github.com/gridpilot/gridpilot/core/sink"
)

// PromSink exposes the latest committed snapshot and decision counters as
// Prometheus metrics.
type PromSink struct {
	solar     prometheus.Gauge
	load      prometheus.Gauge
	price     prometheus.Gauge
	co2       prometheus.Gauge
	soc       prometheus.Gauge
	decisions *prometheus.CounterVec
	alerts    *prometheus.CounterVec
}

// NewPromSink registers the metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer. A
// nil registerer defaults to the global one.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		solar: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gridpilot_solar_kwh", Help: "Solar generation of the latest tick",
		}),
		load: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gridpilot_load_kwh", Help: "Load consumption of the latest tick",
		}),
		price: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gridpilot_grid_price_eur", Help: "Grid price of the latest tick",
		}),
		co2: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gridpilot_co2_intensity_g_per_kwh", Help: "Carbon intensity of the latest tick",
		}),
		soc: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gridpilot_battery_soc_pct", Help: "Battery state of charge of the latest tick",
		}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gridpilot_decisions_total", Help: "Decisions by battery action",
		}, []string{"action"}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gridpilot_alerts_total", Help: "Alerts raised by severity",
		}, []string{"severity"}),
	}
	for _, c := range []prometheus.Collector{s.solar, s.load, s.price, s.co2, s.soc, s.decisions, s.alerts} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return s, nil
}

// Record updates the gauges and counters from the committed tick.
func (s *PromSink) Record(rec coresink.TickRecord) error {
	snap := rec.Snapshot
	s.solar.Set(snap.SolarKWh)
	s.load.Set(snap.LoadKWh)
	s.price.Set(snap.GridPrice)
	s.co2.Set(snap.CO2Intensity)
	s.soc.Set(snap.BatterySoC)
	s.decisions.WithLabelValues(rec.Decision.BatteryAction.String()).Inc()
	for _, a := range rec.Decision.Alerts {
		s.alerts.WithLabelValues(a.Severity.String()).Inc()
	}
	return nil
}
