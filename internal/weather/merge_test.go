package weather

import (
	"testing"

	"github.com/alexivanou/weather-requests-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_OneSideAbsent(t *testing.T) {
	x := &model.DailySeries{Timezone: "Europe/London", Records: recordsFor(model.NewDate(2024, 6, 15), 3)}

	got := Merge(nil, x)
	assert.Same(t, x, got)
	assert.Equal(t, recordsFor(model.NewDate(2024, 6, 15), 3), got.Records)

	got = Merge(x, nil)
	assert.Same(t, x, got)
}

func TestMerge_BothSides(t *testing.T) {
	hist := &model.DailySeries{Timezone: "Europe/Berlin", Records: recordsFor(model.NewDate(2024, 6, 10), 5)}
	fcst := &model.DailySeries{Timezone: "Europe/London", Records: recordsFor(model.NewDate(2024, 6, 15), 2)}

	got := Merge(hist, fcst)
	require.Len(t, got.Records, 7)
	assert.Equal(t, "Europe/London", got.Timezone)
	assert.Equal(t, "2024-06-10", got.Records[0].Date.String())
	assert.Equal(t, "2024-06-16", got.Records[6].Date.String())
}

func TestMerge_TimezoneFallback(t *testing.T) {
	tests := []struct {
		name     string
		histTZ   string
		fcstTZ   string
		expected string
	}{
		{name: "forecast wins", histTZ: "Asia/Tokyo", fcstTZ: "Europe/Paris", expected: "Europe/Paris"},
		{name: "historical when forecast blank", histTZ: "Asia/Tokyo", fcstTZ: "", expected: "Asia/Tokyo"},
		{name: "default when both blank", expected: DefaultTimezone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(&model.DailySeries{Timezone: tt.histTZ}, &model.DailySeries{Timezone: tt.fcstTZ})
			assert.Equal(t, tt.expected, got.Timezone)
		})
	}
}

func TestMerge_NothingToMerge(t *testing.T) {
	got := Merge(nil, nil)
	assert.Equal(t, DefaultTimezone, got.Timezone)
	assert.Empty(t, got.Records)
}

func recordsFor(start model.Date, n int) []model.DailyRecord {
	out := make([]model.DailyRecord, n)
	for i := range out {
		out[i] = model.DailyRecord{
			Date:           start.AddDays(i),
			TemperatureMax: 20 + float64(i),
			TemperatureMin: 10 + float64(i),
			WeatherCode:    61,
		}
	}
	return out
}
