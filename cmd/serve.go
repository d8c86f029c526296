package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/chase-cli/internal/model"
	"github.com/sells-group/chase-cli/internal/pipeline"
)

var (
	serveLeads string
	serveRecon string
	servePort  int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis reports over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		result, err := runPipeline(ctx, serveLeads, serveRecon)
		if err != nil {
			return err
		}

		api := &apiServer{result: result}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: api.routes(),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server",
			zap.Int("port", port),
			zap.Int("leads", len(result.Leads.Records)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

// apiServer serves read-only report endpoints over one pipeline result.
type apiServer struct {
	result *pipeline.Result
}

func (s *apiServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)
		r.Get("/fields", s.handleFields)
		r.Get("/records", s.handleRecords)
		r.Get("/anomalies", s.handleAnomalies)
		r.Get("/duplicates", s.handleDuplicates)
		r.Get("/reconciliation", s.handleReconciliation)
		r.Get("/buckets", s.handleBuckets)
		r.Get("/timeseries", s.handleTimeSeries)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	records := s.filtered(r)
	writeJSON(w, http.StatusOK, pipeline.Summarize(records))
}

func (s *apiServer) handleFields(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"available": s.result.Leads.Available.Fields(),
		"all":       model.AllFields(),
	})
}

func (s *apiServer) handleRecords(w http.ResponseWriter, r *http.Request) {
	records := s.filtered(r)

	limit := len(records)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		if n < limit {
			limit = n
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":   len(records),
		"records": records[:limit],
	})
}

func (s *apiServer) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.result.Quality)
}

func (s *apiServer) handleDuplicates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.result.Duplicates)
}

func (s *apiServer) handleReconciliation(w http.ResponseWriter, r *http.Request) {
	if s.result.Reconciliation == nil {
		writeError(w, http.StatusNotFound, "no reconciliation source loaded")
		return
	}
	writeJSON(w, http.StatusOK, s.result.Reconciliation)
}

func (s *apiServer) handleBuckets(w http.ResponseWriter, r *http.Request) {
	records := s.filtered(r)
	writeJSON(w, http.StatusOK, pipeline.BucketDistribution(records))
}

func (s *apiServer) handleTimeSeries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	field := model.Field(q.Get("field"))
	if field == "" {
		field = model.FieldCreatedTime
	}
	if !field.IsDate() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown date field %q", q.Get("field")))
		return
	}

	freq := pipeline.Frequency(q.Get("freq"))
	switch freq {
	case "":
		freq = pipeline.Weekly
	case pipeline.Daily, pipeline.Weekly, pipeline.Monthly:
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown frequency %q", q.Get("freq")))
		return
	}

	by := pipeline.GroupBy(q.Get("by"))
	switch by {
	case pipeline.GroupNone, pipeline.GroupClient, pipeline.GroupAgent, pipeline.GroupTeam:
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown grouping %q", q.Get("by")))
		return
	}

	records := s.filtered(r)
	points, excluded := pipeline.TimeSeries(records, field, freq, by, s.result.Now)
	writeJSON(w, http.StatusOK, map[string]any{
		"points":          points,
		"excluded_future": excluded,
	})
}

func (s *apiServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	by := pipeline.GroupBy(q.Get("by"))
	switch by {
	case "":
		by = pipeline.GroupAgent
	case pipeline.GroupClient, pipeline.GroupAgent, pipeline.GroupTeam:
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown grouping %q", q.Get("by")))
		return
	}

	n := 10
	if raw := q.Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			writeError(w, http.StatusBadRequest, "invalid n")
			return
		}
		n = v
	}

	records := s.filtered(r)
	writeJSON(w, http.StatusOK, pipeline.TopN(records, by, n))
}

// filtered applies the common query-string filter parameters to the
// lead record set.
func (s *apiServer) filtered(r *http.Request) []*model.LeadRecord {
	q := r.URL.Query()

	f := pipeline.Filter{
		Clients:      q["client"],
		Agents:       q["agent"],
		Groups:       q["group"],
		Dispositions: q["disposition"],
		CaseID:       q.Get("case_id"),
		Search:       q.Get("q"),
	}

	if field := model.Field(q.Get("date_field")); field.IsDate() {
		f.DateField = field
		if t, err := time.Parse("2006-01-02", strings.TrimSpace(q.Get("from"))); err == nil {
			f.From = &t
		}
		if t, err := time.Parse("2006-01-02", strings.TrimSpace(q.Get("to"))); err == nil {
			f.To = &t
		}
	}

	return f.Apply(s.result.Leads.Records)
}

func init() {
	serveCmd.Flags().StringVar(&serveLeads, "leads", "", "lead export path or URL (required)")
	serveCmd.Flags().StringVar(&serveRecon, "recon", "", "reconciliation export path or URL")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	_ = serveCmd.MarkFlagRequired("leads")
	rootCmd.AddCommand(serveCmd)
}
