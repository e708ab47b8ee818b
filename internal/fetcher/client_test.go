package fetcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestFetchSeriesNoIDs(t *testing.T) {
	c := NewClient(Options{}, noopLogger())
	if _, err := c.FetchSeries(context.Background(), nil, 2024, 2025); err == nil {
		t.Fatal("empty series list must fail")
	}
}

func TestFetchSeriesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "REQUEST_NOT_PROCESSED", "message": []string{"threshold exceeded"}})
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	if _, err := c.FetchSeries(context.Background(), []string{"LNS14000000"}, 2024, 2025); err == nil {
		t.Fatal("HTTP 429 must fail the run")
	}
}

func TestFetchSeriesNonSuccessStatusFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "REQUEST_NOT_PROCESSED", "message": []string{"invalid series"}})
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	if _, err := c.FetchSeries(context.Background(), []string{"BOGUS"}, 2024, 2025); err == nil {
		t.Fatal("non-success status must fail even with HTTP 200")
	}
}

func TestFetchSeriesSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req timeseriesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.SeriesID) != 1 || req.SeriesID[0] != "CUSR0000SA0" {
			t.Fatalf("unexpected request payload: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "REQUEST_SUCCEEDED",
			"Results": map[string]any{
				"series": []map[string]any{{
					"seriesID": "CUSR0000SA0",
					"data": []map[string]string{
						{"year": "2025", "period": "M06", "value": "326.030"},
						{"year": "2024", "period": "M06", "value": "314.852"},
					},
				}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, Timeout: time.Second, UserAgent: "test"}, noopLogger())
	obs, err := c.FetchSeries(context.Background(), []string{"CUSR0000SA0"}, 2024, 2025)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(obs["CUSR0000SA0"]) != 2 {
		t.Fatalf("expected two observations, got %d", len(obs["CUSR0000SA0"]))
	}
	if obs["CUSR0000SA0"][0].Value != 326.030 {
		t.Fatalf("value parse wrong: %v", obs["CUSR0000SA0"][0])
	}
}

func TestFetchSeriesMissingSeriesFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "REQUEST_SUCCEEDED",
			"Results": map[string]any{"series": []map[string]any{}},
		})
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	if _, err := c.FetchSeries(context.Background(), []string{"LNS14000000"}, 2024, 2025); err == nil {
		t.Fatal("a requested series absent from the response must fail")
	}
}
