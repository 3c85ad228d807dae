package httpServices

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// VietmapClient resolves free-text addresses to coordinates through the
// Vietmap APIs. Geocoding is a two-step call: Search v3 finds the place and
// its ref_id, Place v3 turns the ref_id into coordinates. Results are cached
// per address string for the lifetime of the client.
type VietmapClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string

	mu    sync.Mutex
	cache map[string]Coordinates
}

func NewClient(baseURL, apiKey string) *VietmapClient {
	if baseURL == "" {
		baseURL = "https://maps.vietmap.vn"
	}
	return &VietmapClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		cache:   make(map[string]Coordinates),
	}
}

// Geocode resolves an address to coordinates. A failed resolution returns a
// deterministic error; partial data is never handed back.
func (c *VietmapClient) Geocode(address string) (Coordinates, error) {
	if address == "" {
		return Coordinates{}, errors.New("address is empty")
	}
	if c.apiKey == "" {
		return Coordinates{}, errors.New("vietmap API key is missing")
	}

	c.mu.Lock()
	if coords, ok := c.cache[address]; ok {
		c.mu.Unlock()
		return coords, nil
	}
	c.mu.Unlock()

	refID, err := c.search(address)
	if err != nil {
		return Coordinates{}, fmt.Errorf("vietmap search for %q: %w", address, err)
	}

	coords, err := c.place(refID)
	if err != nil {
		return Coordinates{}, fmt.Errorf("vietmap place lookup for %q: %w", address, err)
	}

	c.mu.Lock()
	c.cache[address] = coords
	c.mu.Unlock()

	return coords, nil
}

func (c *VietmapClient) search(address string) (string, error) {
	endpoint := fmt.Sprintf("%s/api/search/v3?apikey=%s&text=%s",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(address))

	resp, err := c.httpClient.Get(endpoint)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.New("Vietmap Search API returned non-OK status: " + resp.Status)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", err
	}

	if len(results) == 0 || results[0].RefID == "" {
		return "", fmt.Errorf("no results for address")
	}

	return results[0].RefID, nil
}

func (c *VietmapClient) place(refID string) (Coordinates, error) {
	endpoint := fmt.Sprintf("%s/api/place/v3?apikey=%s&refid=%s",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(refID))

	resp, err := c.httpClient.Get(endpoint)
	if err != nil {
		return Coordinates{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, errors.New("Vietmap Place API returned non-OK status: " + resp.Status)
	}

	var detail placeDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return Coordinates{}, err
	}

	if detail.Lat == 0 && detail.Lng == 0 {
		return Coordinates{}, fmt.Errorf("place %s has no coordinates", refID)
	}

	return Coordinates{Latitude: detail.Lat, Longitude: detail.Lng}, nil
}
