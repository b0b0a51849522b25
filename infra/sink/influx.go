package sink

import (
	"context"
	"math"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coresink "github.com/gridpilot/gridpilot/core/sink"
	"github.com/gridpilot/gridpilot/infra/logger"
)

// InfluxConfig defines the InfluxDB sink settings.
type InfluxConfig struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
	Token   string `json:"token"`
	Org     string `json:"org"`
	Bucket  string `json:"bucket"`
}

// InfluxSink writes committed ticks to InfluxDB using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a Nop
// sink when the health check fails, so a missing database never blocks the
// control loop.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coresink.Sink {
	s := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := s.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			s.log.Errorf("influx health check: %v", err)
		} else {
			s.log.Errorf("influx health status: %s", health.Status)
		}
		s.client.Close()
		return coresink.Nop{}
	}
	return s
}

// Record writes one point per tick with the snapshot fields and the
// decision outcome.
func (s *InfluxSink) Record(rec coresink.TickRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	snap := rec.Snapshot
	p := write.NewPointWithMeasurement("grid_tick").
		AddTag("action", rec.Decision.BatteryAction.String()).
		AddField("tick", int64(rec.Tick)).
		AddField("solar_kwh", round3(snap.SolarKWh)).
		AddField("load_kwh", round3(snap.LoadKWh)).
		AddField("grid_price", round3(snap.GridPrice)).
		AddField("co2_intensity", round3(snap.CO2Intensity)).
		AddField("battery_soc", round3(snap.BatterySoC)).
		AddField("battery_rate_kwh", round3(rec.Decision.BatteryRateKWh)).
		AddField("grid_import_kwh", round3(rec.Decision.GridImportKWh)).
		AddField("forecast_solar_kwh", round3(rec.Forecast.PredictedSolarKWh)).
		AddField("forecast_load_kwh", round3(rec.Forecast.PredictedLoadKWh)).
		AddField("forecast_confidence", round3(rec.Forecast.Confidence)).
		AddField("alerts", len(rec.Decision.Alerts)).
		SetTime(snap.Timestamp)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying HTTP client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
