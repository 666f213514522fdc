package geo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/swooby/swoo.by/internal/domain"
	"github.com/swooby/swoo.by/internal/utils"
)

// DefaultIPAPIURL is the ip-api.com JSON endpoint; the IP is appended as a path segment.
const DefaultIPAPIURL = "http://ip-api.com/json/"

const maxIPAPIBody = 64 << 10

// IPAPIClient queries an ip-api compatible service: GET <base>/<ip> returning
// a flat JSON object with at least "country" and "city".
type IPAPIClient struct {
	baseURL string
	client  *http.Client
}

// NewIPAPIClient builds a client. An empty baseURL uses DefaultIPAPIURL.
func NewIPAPIClient(baseURL string, timeout time.Duration) *IPAPIClient {
	if baseURL == "" {
		baseURL = DefaultIPAPIURL
	}
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	return &IPAPIClient{
		baseURL: strings.TrimRight(baseURL, "/") + "/",
		client:  &http.Client{Timeout: timeout},
	}
}

// Lookup fetches geo data for ip. A "fail" status (private ranges, reserved
// or malformed addresses) yields (nil, nil).
func (c *IPAPIClient) Lookup(ctx context.Context, ip string) (*domain.GeoInfo, error) {
	endpoint := c.baseURL + url.PathEscape(ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geo request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geo request failed: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("geo service returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var raw map[string]any
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxIPAPIBody)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode geo response: %w", err)
	}

	if status, _ := raw["status"].(string); status == "fail" {
		return nil, nil
	}

	return fromRaw(raw), nil
}

func fromRaw(raw map[string]any) *domain.GeoInfo {
	country, _ := raw["country"].(string)
	city, _ := raw["city"].(string)
	return &domain.GeoInfo{
		Country: country,
		City:    city,
		Raw:     raw,
	}
}
