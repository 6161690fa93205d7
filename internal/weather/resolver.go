package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/alexivanou/weather-requests-api/internal/apperr"
	"github.com/alexivanou/weather-requests-api/internal/model"
)

// Provider is the upstream daily weather source. Records come back in the
// provider's shape: descriptions and mean temperatures are not filled in.
type Provider interface {
	// ArchiveDaily returns observed days in [start, end].
	ArchiveDaily(ctx context.Context, lat, lon float64, start, end model.Date) (*model.DailySeries, error)
	// ForecastDaily returns pastDays days before the location's today
	// followed by forecastDays days starting at it.
	ForecastDaily(ctx context.Context, lat, lon float64, pastDays, forecastDays int) (*model.DailySeries, error)
}

// forecastPastDays pads the forecast window backwards so locations whose
// local date is ahead of UTC still report UTC today.
const forecastPastDays = 1

// MaxForecastPastDays is how far back the forecast endpoint serves days.
// Archive gaps inside this window are filled from the forecast.
const MaxForecastPastDays = 92

// Resolver turns a coordinate and date range into daily records, picking
// the archive, the forecast, or both depending on where today falls.
type Resolver struct {
	provider Provider
	now      func() time.Time
}

func NewResolver(p Provider) *Resolver {
	return &Resolver{provider: p, now: time.Now}
}

// WithClock replaces the time source used to decide today.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// Today is the current calendar day in UTC.
func (r *Resolver) Today() model.Date {
	return model.DateOf(r.now().UTC())
}

// Resolve fetches [q.StartDate, q.EndDate]. Either every day is returned or
// the call fails.
//
// Days before today come from the archive. Days from today on, and archive
// days not yet processed, come from the forecast. The forecast window is
// anchored at the location's local date, so for locations behind UTC it can
// end one day short of today+15 late in the UTC day; such a range fails
// with NotFound.
func (r *Resolver) Resolve(ctx context.Context, q model.WeatherQuery) (*model.DailySeries, error) {
	start, end := q.StartDate, q.EndDate
	if start.After(end) {
		return nil, apperr.Wrap(apperr.InvalidInput, ErrStartAfterEnd, "Invalid date range", ErrStartAfterEnd.Error())
	}
	today := r.Today()

	var historical, forecast *model.DailySeries
	var err error

	forecastFrom := today
	if start.After(today) {
		forecastFrom = start
	}

	if start.Before(today) {
		archiveEnd := end
		if !end.Before(today) {
			archiveEnd = today.AddDays(-1)
		}
		historical, err = r.historical(ctx, q.Latitude, q.Longitude, start, archiveEnd)
		if err != nil {
			return nil, err
		}
		n := leadingRun(historical.Records, start)
		if gap := start.AddDays(n); !gap.After(archiveEnd) && !gap.Before(today.AddDays(-MaxForecastPastDays)) {
			historical.Records = historical.Records[:n]
			forecastFrom = gap
		}
	}

	if !end.Before(forecastFrom) {
		forecast, err = r.forecast(ctx, q.Latitude, q.Longitude, today, forecastFrom, end)
		if err != nil {
			return nil, err
		}
	}

	merged := Merge(historical, forecast)
	if err := checkCoverage(merged.Records, start, end); err != nil {
		return nil, err
	}
	return merged, nil
}

func (r *Resolver) historical(ctx context.Context, lat, lon float64, start, end model.Date) (*model.DailySeries, error) {
	series, err := r.provider.ArchiveDaily(ctx, lat, lon, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch historical weather: %w", err)
	}

	records := clip(series.Records, start, end)
	for i := range records {
		mean := (records[i].TemperatureMax + records[i].TemperatureMin) / 2
		records[i].TemperatureMean = &mean
	}
	return &model.DailySeries{Timezone: series.Timezone, Records: records}, nil
}

// forecast fetches [start, end] from the forecast endpoint. start may lie
// before today when it backfills the archive.
func (r *Resolver) forecast(ctx context.Context, lat, lon float64, today, start, end model.Date) (*model.DailySeries, error) {
	pastDays := forecastPastDays
	if start.Before(today) {
		pastDays += start.DaysUntil(today)
	}
	if pastDays > MaxForecastPastDays {
		pastDays = MaxForecastPastDays
	}

	forecastDays := today.DaysUntil(end) + 2
	if forecastDays < 1 {
		forecastDays = 1
	}
	if forecastDays > ForecastHorizonDays {
		forecastDays = ForecastHorizonDays
	}

	series, err := r.provider.ForecastDaily(ctx, lat, lon, pastDays, forecastDays)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forecast weather: %w", err)
	}

	records := clip(series.Records, start, end)
	for i := range records {
		records[i].TemperatureMean = nil
	}
	return &model.DailySeries{Timezone: series.Timezone, Records: records}, nil
}

// leadingRun counts the records that cover consecutive days from start.
func leadingRun(records []model.DailyRecord, start model.Date) int {
	for i, rec := range records {
		if !rec.Date.Equal(start.AddDays(i)) {
			return i
		}
	}
	return len(records)
}

// clip keeps records dated within [start, end] and fills their descriptions.
func clip(in []model.DailyRecord, start, end model.Date) []model.DailyRecord {
	out := make([]model.DailyRecord, 0, len(in))
	for _, rec := range in {
		if rec.Date.Before(start) || rec.Date.After(end) {
			continue
		}
		rec.WeatherDescription = Describe(rec.WeatherCode)
		out = append(out, rec)
	}
	return out
}

// checkCoverage requires exactly one record per day of [start, end], in order.
func checkCoverage(records []model.DailyRecord, start, end model.Date) error {
	want := start.DaysUntil(end) + 1
	for i, rec := range records {
		if !rec.Date.Equal(start.AddDays(i)) {
			return apperr.New(apperr.NotFound, "Weather data unavailable",
				fmt.Sprintf("no weather data for %s", start.AddDays(i)))
		}
	}
	if len(records) != want {
		return apperr.New(apperr.NotFound, "Weather data unavailable",
			fmt.Sprintf("no weather data for %s", start.AddDays(len(records))))
	}
	return nil
}
