package openmeteo

import (
	"context"
	"fmt"

	"github.com/alexivanou/weather-requests-api/internal/apperr"
	"github.com/alexivanou/weather-requests-api/internal/model"
)

// MaxResults caps geocoding candidates.
const MaxResults = 5

type geocodingResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Country   string  `json:"country"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Timezone  string  `json:"timezone"`
		Admin1    string  `json:"admin1"`
	} `json:"results"`
}

// Search resolves free text to at most MaxResults locations, best match
// first. A query with no candidates yields apperr.NotFound.
func (c *Client) Search(ctx context.Context, query string) ([]model.Location, error) {
	var resp geocodingResponse
	params := map[string]string{
		"name":     query,
		"count":    fmt.Sprint(MaxResults),
		"language": "en",
		"format":   "json",
	}
	if err := c.get(ctx, endpointGeocoding, c.cfg.GeocodingURL, params, &resp); err != nil {
		return nil, err
	}

	if len(resp.Results) == 0 {
		return nil, apperr.New(apperr.NotFound, "Location not found",
			fmt.Sprintf("no locations match %q", query))
	}

	n := len(resp.Results)
	if n > MaxResults {
		n = MaxResults
	}
	locations := make([]model.Location, 0, n)
	for _, r := range resp.Results[:n] {
		locations = append(locations, model.Location{
			Name:      r.Name,
			Country:   r.Country,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Timezone:  r.Timezone,
			Admin1:    r.Admin1,
		})
	}
	return locations, nil
}
