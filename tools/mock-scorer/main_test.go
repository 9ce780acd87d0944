package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/donaldgifford/airbuds-price-predictor/pkg/model"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/normalize"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/schema"
	domain "github.com/donaldgifford/airbuds-price-predictor/pkg/types"
)

type scorerFunc func(context.Context, domain.NormalizedRecord) (float64, error)

func (f scorerFunc) Score(ctx context.Context, rec domain.NormalizedRecord) (float64, error) {
	return f(ctx, rec)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, s scorer, fail bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newMux(testLogger(), s, fail))
	t.Cleanup(srv.Close)
	return srv
}

func loadTestPipeline(t *testing.T) *model.Pipeline {
	t.Helper()
	p, err := model.Load(filepath.Join("..", "..", "pkg", "model", "testdata", "pipeline.yaml"))
	if err != nil {
		t.Fatalf("loading pipeline: %v", err)
	}
	return p
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	healthHandler(w, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("body=%s, want status ok", w.Body.String())
	}
}

func TestScore_RoundTripThroughHTTPScorer(t *testing.T) {
	srv := newTestServer(t, loadTestPipeline(t), false)
	s := model.NewHTTPScorer(srv.URL, time.Second)

	if err := s.Probe(context.Background()); err != nil {
		t.Fatalf("probe: %v", err)
	}

	rec, _ := normalize.Record(schema.Defaults())
	price, err := s.Score(context.Background(), rec)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if price != 1200 {
		t.Errorf("price=%v, want 1200", price)
	}
}

func TestScore_MissingValuesImputed(t *testing.T) {
	srv := newTestServer(t, loadTestPipeline(t), false)
	s := model.NewHTTPScorer(srv.URL, time.Second)

	rec, _ := normalize.Record(domain.RawRecord{
		domain.FieldDriverSize:        "14mm",
		domain.FieldPlaytime:          "N/A",
		domain.FieldNoiseCancellation: "ANC",
	})
	price, err := s.Score(context.Background(), rec)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if price != 1900 {
		t.Errorf("price=%v, want 1900", price)
	}
}

func TestScore_ScorerError(t *testing.T) {
	srv := newTestServer(t, scorerFunc(func(context.Context, domain.NormalizedRecord) (float64, error) {
		return 0, errors.New("shape mismatch")
	}), false)

	_, err := model.NewHTTPScorer(srv.URL, time.Second).Score(context.Background(), domain.NormalizedRecord{})
	if err == nil || !strings.Contains(err.Error(), "scoring service: shape mismatch") {
		t.Fatalf("err=%v, want scoring service: shape mismatch", err)
	}
}

func TestScore_FailMode(t *testing.T) {
	srv := newTestServer(t, loadTestPipeline(t), true)

	_, err := model.NewHTTPScorer(srv.URL, time.Second).Score(context.Background(), domain.NormalizedRecord{})
	if err == nil || !strings.Contains(err.Error(), "status 500") {
		t.Fatalf("err=%v, want status 500", err)
	}
}

func TestScore_InvalidBody(t *testing.T) {
	srv := newTestServer(t, loadTestPipeline(t), false)

	resp, err := http.Post(srv.URL+"/v1/score", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status=%d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}
