package forecast

import (
	"errors"
	"testing"
	"time"

	"github.com/gridpilot/gridpilot/core/model"
)

func testWindow() *Window {
	cfg := Config{}
	cfg.SetDefaults()
	return NewWindow(cfg)
}

func buildHistory(n int, start time.Time) []model.EnergySnapshot {
	out := make([]model.EnergySnapshot, n)
	for i := range out {
		out[i] = model.EnergySnapshot{
			Timestamp:    start.Add(time.Duration(i) * time.Hour),
			SolarKWh:     float64(5 + i%3),
			LoadKWh:      float64(80 + 2*i),
			GridPrice:    0.15,
			CO2Intensity: 400,
			BatterySoC:   50,
		}
	}
	return out
}

func TestWindow_ZeroHistoryFails(t *testing.T) {
	w := testWindow()
	cur := buildHistory(1, time.Unix(0, 0).UTC())[0]
	_, err := w.Forecast(cur, nil, 1)
	if !errors.Is(err, model.ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestWindow_InvalidHorizonFails(t *testing.T) {
	w := testWindow()
	hist := buildHistory(4, time.Unix(0, 0).UTC())
	_, err := w.Forecast(hist[3], hist[:3], 0)
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestWindow_ConfidenceNonIncreasingInHorizon(t *testing.T) {
	w := testWindow()
	hist := buildHistory(13, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	cur := hist[12]
	prev := 2.0
	for h := 1; h <= 10; h++ {
		res, err := w.Forecast(cur, hist[:12], h)
		if err != nil {
			t.Fatalf("horizon %d: %v", h, err)
		}
		if res.Confidence > prev {
			t.Fatalf("confidence rose from %.4f to %.4f at horizon %d", prev, res.Confidence, h)
		}
		if res.Confidence < 0 || res.Confidence > 1 {
			t.Fatalf("confidence %.4f outside [0,1]", res.Confidence)
		}
		prev = res.Confidence
	}
}

func TestWindow_ShortHistoryLowersConfidence(t *testing.T) {
	w := testWindow()
	hist := buildHistory(13, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	cur := hist[12]
	full, err := w.Forecast(cur, hist[:12], 1)
	if err != nil {
		t.Fatalf("full: %v", err)
	}
	degraded, err := w.Forecast(cur, hist[:1], 1)
	if err != nil {
		t.Fatalf("short: %v", err)
	}
	if degraded.Confidence >= full.Confidence {
		t.Fatalf("short history confidence %.4f should be below full %.4f", degraded.Confidence, full.Confidence)
	}
}

func TestWindow_PredictionsStayInDomain(t *testing.T) {
	w := testWindow()
	hist := buildHistory(24, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	for h := 1; h <= 6; h++ {
		res, err := w.Forecast(hist[23], hist[:23], h)
		if err != nil {
			t.Fatalf("horizon %d: %v", h, err)
		}
		if res.PredictedSolarKWh < model.SolarMinKWh || res.PredictedSolarKWh > model.SolarMaxKWh {
			t.Fatalf("solar prediction %.2f out of range", res.PredictedSolarKWh)
		}
		if res.PredictedLoadKWh < model.LoadMinKWh || res.PredictedLoadKWh > model.LoadMaxKWh {
			t.Fatalf("load prediction %.2f out of range", res.PredictedLoadKWh)
		}
	}
}

func TestNeutral_CarriesCurrentForward(t *testing.T) {
	cur := model.EnergySnapshot{SolarKWh: 7, LoadKWh: 90}
	res := Neutral(cur, 3)
	if res.PredictedSolarKWh != 7 || res.PredictedLoadKWh != 90 {
		t.Fatalf("neutral should carry current values: %#v", res)
	}
	if res.Confidence != 0 {
		t.Fatalf("neutral confidence should be 0")
	}
	if res.HorizonTicks != 3 {
		t.Fatalf("horizon %d, want 3", res.HorizonTicks)
	}
}
