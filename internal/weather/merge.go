package weather

import "github.com/alexivanou/weather-requests-api/internal/model"

// DefaultTimezone is reported when no source supplied one.
const DefaultTimezone = "UTC"

// Merge joins historical and forecast series. Historical days always precede
// forecast days, so the result is a plain concatenation. A nil side yields
// the other side unchanged.
func Merge(historical, forecast *model.DailySeries) *model.DailySeries {
	switch {
	case historical == nil && forecast == nil:
		return &model.DailySeries{Timezone: DefaultTimezone, Records: []model.DailyRecord{}}
	case historical == nil:
		return forecast
	case forecast == nil:
		return historical
	}

	records := make([]model.DailyRecord, 0, len(historical.Records)+len(forecast.Records))
	records = append(records, historical.Records...)
	records = append(records, forecast.Records...)

	tz := forecast.Timezone
	if tz == "" {
		tz = historical.Timezone
	}
	if tz == "" {
		tz = DefaultTimezone
	}

	return &model.DailySeries{Timezone: tz, Records: records}
}
