package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"statwire/internal/series"
)

const (
	timeseriesPath = "/publicAPI/v2/timeseries/data/"
	statusSuceeded = "REQUEST_SUCCEEDED"
)

// Options parameterise the statistics API client.
type Options struct {
	BaseURL         string
	RegistrationKey string
	Timeout         time.Duration
	UserAgent       string
}

// Client fetches monthly observations from the statistics API. A
// non-success status or transport failure is fatal to the run; there
// is no partial ingestion.
type Client struct {
	opts    Options
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewClient constructs a statistics API client.
func NewClient(opts Options, logger zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.bls.gov"
	}

	return &Client{
		opts:    opts,
		logger:  logger.With().Str("component", "fetcher").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// FetchSeries retrieves observations for every given series in one
// request, keyed by series identifier. Every requested series must be
// present in the response.
func (c *Client) FetchSeries(ctx context.Context, seriesIDs []string, startYear, endYear int) (map[string][]series.Observation, error) {
	if len(seriesIDs) == 0 {
		return nil, errors.New("no series identifiers configured")
	}

	reqPayload := timeseriesRequest{
		SeriesID:  seriesIDs,
		StartYear: strconv.Itoa(startYear),
		EndYear:   strconv.Itoa(endYear),
	}
	if c.opts.RegistrationKey != "" {
		reqPayload.RegistrationKey = c.opts.RegistrationKey
	}

	body, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + timeseriesPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(c.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", "statwire/1.0")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payloadBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseHTTPError(resp.StatusCode, payloadBytes)
	}

	var res timeseriesResponse
	if err := json.Unmarshal(payloadBytes, &res); err != nil {
		return nil, fmt.Errorf("decode timeseries response: %w", err)
	}

	if res.Status != statusSuceeded {
		if len(res.Message) > 0 {
			return nil, fmt.Errorf("statistics api status %s: %s", res.Status, strings.Join(res.Message, "; "))
		}
		return nil, fmt.Errorf("statistics api status %s", res.Status)
	}

	observations := make(map[string][]series.Observation, len(seriesIDs))
	for _, s := range res.Results.Series {
		obs := make([]series.Observation, 0, len(s.Data))
		for _, d := range s.Data {
			year, err := strconv.Atoi(d.Year)
			if err != nil {
				return nil, fmt.Errorf("series %s: bad year %q", s.SeriesID, d.Year)
			}
			value, err := strconv.ParseFloat(d.Value, 64)
			if err != nil {
				return nil, fmt.Errorf("series %s: bad value %q", s.SeriesID, d.Value)
			}
			obs = append(obs, series.Observation{Year: year, PeriodCode: d.Period, Value: value})
		}
		observations[s.SeriesID] = obs
	}

	for _, id := range seriesIDs {
		if _, ok := observations[id]; !ok {
			return nil, fmt.Errorf("series %s missing from response", id)
		}
	}

	c.logger.Info().Int("series", len(observations)).Int("start_year", startYear).Int("end_year", endYear).Msg("series fetched")
	return observations, nil
}

type timeseriesRequest struct {
	SeriesID        []string `json:"seriesid"`
	StartYear       string   `json:"startyear"`
	EndYear         string   `json:"endyear"`
	RegistrationKey string   `json:"registrationkey,omitempty"`
}

type timeseriesResponse struct {
	Status  string   `json:"status"`
	Message []string `json:"message"`
	Results struct {
		Series []struct {
			SeriesID string `json:"seriesID"`
			Data     []struct {
				Year   string `json:"year"`
				Period string `json:"period"`
				Value  string `json:"value"`
			} `json:"data"`
		} `json:"series"`
	} `json:"Results"`
}

func parseHTTPError(status int, payload []byte) error {
	var res timeseriesResponse
	if err := json.Unmarshal(payload, &res); err == nil && len(res.Message) > 0 {
		return fmt.Errorf("statistics api error (%d): %s", status, strings.Join(res.Message, "; "))
	}
	if len(payload) > 0 {
		return fmt.Errorf("statistics api error (%d): %s", status, strings.TrimSpace(string(payload)))
	}
	return fmt.Errorf("statistics api error (%d)", status)
}

var _ SeriesFetcher = (*Client)(nil)
