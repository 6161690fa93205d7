package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alexivanou/weather-requests-api/internal/stats"
	"github.com/stretchr/testify/assert"
)

func TestPrintHumanReadable(t *testing.T) {
	var buf bytes.Buffer
	printHumanReadable(&buf, &stats.Stats{
		Timestamp: time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC),
		Database: stats.DatabaseStats{
			Type:           "sqlite",
			ActiveSessions: 3,
			TableStats:     []stats.TableStat{{Name: "weather_requests", RowCount: 12}},
		},
		Upstream: map[string]string{
			"openmeteo-geocoding": "open",
			"openmeteo-archive":   "closed",
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Active Sessions: 3")
	assert.Contains(t, out, "weather_requests")
	assert.Contains(t, out, "--- Open-Meteo Circuit Breakers ---")

	archive := strings.Index(out, "openmeteo-archive")
	geocoding := strings.Index(out, "openmeteo-geocoding")
	assert.True(t, archive > 0 && geocoding > archive, "breakers listed in name order")
	assert.Regexp(t, `openmeteo-geocoding\s+: open`, out)
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in       uint64
		expected string
	}{
		{in: 512, expected: "512 B"},
		{in: 2048, expected: "2.00 KB"},
		{in: 3 * 1024 * 1024, expected: "3.00 MB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatBytes(tt.in))
	}
}
