package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/rail-router/records"
)

// HTTPSource fetches {BaseURL}/{world}.json.
type HTTPSource struct {
	BaseURL    string
	httpClient *http.Client
}

// NewHTTPSource creates an HTTP source. A zero timeout disables it.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Identity() string { return "http:" + s.BaseURL }

func (s *HTTPSource) Fetch(ctx context.Context, worldID string) ([]records.Record, error) {
	if err := validWorldID(worldID); err != nil {
		return nil, err
	}
	u := s.BaseURL + "/" + url.PathEscape(worldID) + ".json"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", u, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", u, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrWorldNotFound, worldID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, u)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", u, err)
	}
	return Decode(data, FormatJSON)
}
