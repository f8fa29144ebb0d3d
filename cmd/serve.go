package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/wapp-insights/internal/analytics"
	"github.com/sells-group/wapp-insights/internal/dataset"
	"github.com/sells-group/wapp-insights/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analytics core over a JSON API",
	Long: `Loads the WAPP table once at startup and serves aggregation,
diagnosis, and simulation over JSON. The snapshot is immutable for the
lifetime of the process; each request filters its own view of it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		path, _ := cmd.Flags().GetString("data")
		if path == "" {
			path = cfg.Dataset.Path
		}
		records, err := dataset.Load(path, cfg.Dataset)
		if err != nil {
			return err
		}
		baseline := model.TotalNet(records)

		api := &apiServer{records: records, baseline: baseline}

		mux := http.NewServeMux()
		mux.HandleFunc("GET /health", api.handleHealth)
		mux.HandleFunc("POST /api/summary", api.handleSummary)
		mux.HandleFunc("POST /api/diagnose", api.handleDiagnose)
		mux.HandleFunc("POST /api/simulate", api.handleSimulate)

		limiter := rate.NewLimiter(rate.Limit(cfg.Server.RatePerSecond), cfg.Server.RateBurst)
		handler := rateLimit(limiter, mux)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: handler,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server",
			zap.Int("port", port),
			zap.Int("records", len(records)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default from config)")
	serveCmd.Flags().String("data", "", "path to the WAPP table (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// rateLimit rejects requests beyond the configured rate with 429.
func rateLimit(limiter *rate.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type apiServer struct {
	records  []model.Record
	baseline float64
}

type filterRequest struct {
	Filter dataset.Filter `json:"filter"`
}

type simulateRequest struct {
	Filter   dataset.Filter      `json:"filter"`
	Scenario model.ScenarioInput `json:"scenario"`
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"records": len(s.records),
	})
}

func (s *apiServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	filtered := req.Filter.Apply(s.records)
	if len(filtered) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{"no_data": true})
		return
	}

	totals := analytics.Totals(filtered)
	writeJSON(w, http.StatusOK, map[string]any{
		"totals": totals,
		"means": map[string]float64{
			"new":       totals.NewMean(),
			"resurrect": totals.ResurrectMean(),
			"churn":     totals.ChurnMean(),
			"net":       totals.NetMean(),
		},
		"period_days": model.PeriodDays(filtered),
		"industries":  dataset.Industries(filtered),
		"regions":     dataset.Regions(filtered),
	})
}

func (s *apiServer) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	filtered := req.Filter.Apply(s.records)
	if len(filtered) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{"no_data": true})
		return
	}

	aggs := analytics.GroupBy(filtered, analytics.ByIndustry)
	periodDays := model.PeriodDays(filtered)
	diags := analytics.Diagnose(aggs, periodDays)

	writeJSON(w, http.StatusOK, map[string]any{
		"period_days": periodDays,
		"diagnostics": diags,
	})
}

func (s *apiServer) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	input := req.Scenario
	if input.BaseQuota == 0 {
		input.BaseQuota = cfg.Sim.BaseQuota
	}
	if input.AttainmentPct == 0 {
		input.AttainmentPct = cfg.Sim.DefaultAttainmentPct
	}
	if input.RampMonths == 0 {
		input.RampMonths = cfg.Sim.DefaultRampMonths
	}
	if err := input.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	filtered := req.Filter.Apply(s.records)
	if len(filtered) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{"no_data": true})
		return
	}

	result := analytics.Simulate(input, model.TotalNet(filtered), s.baseline)
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}
