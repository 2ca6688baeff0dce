package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/donorlens/leverage-cli/internal/model"
	"github.com/donorlens/leverage-cli/internal/store"
	"github.com/donorlens/leverage-cli/pkg/civicengine"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP scoring API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/score", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				DonationAmount float64 `json:"donation_amount"`
				MonthsAhead    int     `json:"months_ahead"`
				IncludePast    bool    `json:"include_past"`
				Limit          int     `json:"limit"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}

			opts := civicengine.DefaultListOptions()
			opts.MonthsAhead = cfg.Scoring.MonthsAhead
			if body.MonthsAhead > 0 {
				opts.MonthsAhead = body.MonthsAhead
			}
			opts.IncludePast = body.IncludePast

			races, err := e.Elections.ListRaces(req.Context(), time.Now(), opts)
			if err != nil {
				zap.L().Error("race listing failed", zap.Error(err))
				writeJSON(w, http.StatusBadGateway, map[string]string{"error": "race listing failed"})
				return
			}

			scores, err := e.Pipeline.ScoreRaces(req.Context(), races, body.DonationAmount)
			if err != nil {
				zap.L().Error("scoring failed", zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "scoring failed"})
				return
			}
			if body.Limit > 0 && len(scores) > body.Limit {
				scores = scores[:body.Limit]
			}
			writeJSON(w, http.StatusOK, scores)
		})

		r.Get("/runs", func(w http.ResponseWriter, req *http.Request) {
			filter := store.RunFilter{Limit: 50}
			if s := req.URL.Query().Get("status"); s != "" {
				filter.Status = model.RunStatus(s)
			}
			runs, err := e.Store.ListRuns(req.Context(), filter)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list runs failed"})
				return
			}
			// Trim result payloads from the listing; show detail retrieves them.
			for i := range runs {
				runs[i].Results = nil
			}
			writeJSON(w, http.StatusOK, runs)
		})

		r.Get("/runs/{id}", func(w http.ResponseWriter, req *http.Request) {
			run, err := e.Store.GetRun(req.Context(), chi.URLParam(req, "id"))
			if err != nil {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
				return
			}
			writeJSON(w, http.StatusOK, run)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
