// Package main implements a mock scoring service for local development.
// It scores records with a pipeline artifact behind the same HTTP contract an
// externally hosted model exposes, so the http backend can be exercised
// without one.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/donaldgifford/airbuds-price-predictor/pkg/model"
	domain "github.com/donaldgifford/airbuds-price-predictor/pkg/types"
)

type scorer interface {
	Score(ctx context.Context, rec domain.NormalizedRecord) (float64, error)
}

func main() {
	port := flag.Int("port", 8090, "port to listen on")
	artifact := flag.String("model", "models/best_airbuds_price_predictor.yaml", "path to pipeline artifact")
	fail := flag.Bool("fail", false, "answer every score request with HTTP 500")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p, err := model.Load(*artifact)
	if err != nil {
		logger.Error("failed to load model", "path", *artifact, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded model", "path", *artifact)

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock scoring service", "addr", addr, "fail", *fail)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, newMux(logger, p, *fail)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newMux(logger *slog.Logger, s scorer, fail bool) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("POST /v1/score", scoreHandler(logger, s, fail))
	return mux
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func scoreHandler(logger *slog.Logger, s scorer, fail bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if fail {
			logger.Warn("failing score request on purpose")
			http.Error(w, "model crashed", http.StatusInternalServerError)
			return
		}

		var req model.ScoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, model.ScoreResponse{Error: "invalid request: " + err.Error()})
			return
		}

		price, err := s.Score(r.Context(), req.Features)
		if err != nil {
			logger.Info("score rejected", "error", err)
			writeJSON(w, http.StatusOK, model.ScoreResponse{Error: err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, model.ScoreResponse{Price: &price})
		logger.Info("scored", "fields", len(req.Features), "price", price)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}
