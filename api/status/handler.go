// Package status exposes the read-only HTTP surface dashboards and
// assistants poll: the current snapshot, the latest decision and a bounded
// history window. It never writes to the store.
package status

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gridpilot/gridpilot/core/model"
	"github.com/gridpilot/gridpilot/core/scheduler"
	"github.com/gridpilot/gridpilot/core/state"
	"github.com/gridpilot/gridpilot/infra/logger"
)

// Response is the payload of GET /api/status.
type Response struct {
	State    string               `json:"state"`
	Tick     uint64               `json:"tick"`
	Snapshot model.EnergySnapshot `json:"snapshot"`
	Forecast model.ForecastResult `json:"forecast"`
	Decision *model.Decision      `json:"decision,omitempty"`
	Totals   scheduler.Totals     `json:"totals"`
}

// NewHandler builds the mux for the status API.
func NewHandler(store *state.Store, sched *scheduler.Scheduler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		resp := Response{
			State:    sched.State().String(),
			Tick:     sched.Tick(),
			Snapshot: store.Current(),
			Forecast: sched.LastForecast(),
			Totals:   sched.RunTotals(),
		}
		if dec, ok := sched.LastDecision(); ok {
			resp.Decision = &dec
		}
		writeJSON(w, resp)
	})
	mux.HandleFunc("/api/status/history", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		window := store.Capacity()
		if raw := r.URL.Query().Get("window"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				http.Error(w, "window must be a positive integer", http.StatusBadRequest)
				return
			}
			window = n
		}
		writeJSON(w, store.History(window))
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// StartServer serves the status API on addr until ctx is cancelled.
func StartServer(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: h}
	log := logger.New("status-api")
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
