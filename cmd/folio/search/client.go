package searchcmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/foliohq/folio/api"
	"github.com/foliohq/folio/pkg/search"
)

// SearchAPI calls the folio search API and returns the parsed output.
// Exported so other commands (e.g. folio find) can reuse it.
func SearchAPI(ctx context.Context, apiTarget, query, mode string) (*search.Output, error) {
	target, err := url.Parse(apiTarget)
	if err != nil {
		return nil, fmt.Errorf("invalid API target URL: %w", err)
	}
	target.Path = "/v1/search"
	q := target.Query()
	q.Set("query", query)
	q.Set("mode", mode)
	target.RawQuery = q.Encode()

	var output search.Output
	if err := getJSON(ctx, apiTarget, target.String(), &output); err != nil {
		return nil, err
	}

	return &output, nil
}

// FetchAvailability reports which search modes the server can serve.
func FetchAvailability(ctx context.Context, apiTarget string) (*api.AvailabilityResponse, error) {
	target, err := url.Parse(apiTarget)
	if err != nil {
		return nil, fmt.Errorf("invalid API target URL: %w", err)
	}
	target.Path = "/v1/search/availability"

	var avail api.AvailabilityResponse
	if err := getJSON(ctx, apiTarget, target.String(), &avail); err != nil {
		return nil, err
	}

	return &avail, nil
}

// FetchDocument loads a single document by slug from the API.
func FetchDocument(ctx context.Context, apiTarget, kind, slug string) (*api.DocumentResponse, error) {
	target, err := url.Parse(apiTarget)
	if err != nil {
		return nil, fmt.Errorf("invalid API target URL: %w", err)
	}
	target.Path = "/v1/" + kind + "s/" + slug

	var doc api.DocumentResponse
	if err := getJSON(ctx, apiTarget, target.String(), &doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

func getJSON(ctx context.Context, apiTarget, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to folio API at %s: %w", apiTarget, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed (HTTP %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
