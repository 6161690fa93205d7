package openmeteo

import (
	"context"
	"strconv"
	"strings"

	"github.com/alexivanou/weather-requests-api/internal/model"
)

// dailyFields are the per-day variables behind model.DailyRecord.
var dailyFields = []string{
	"weather_code",
	"temperature_2m_max",
	"temperature_2m_min",
	"apparent_temperature_max",
	"apparent_temperature_min",
	"precipitation_sum",
	"rain_sum",
	"wind_speed_10m_max",
	"wind_direction_10m_dominant",
}

// forecastFields extend dailyFields for the plain multi-day forecast.
var forecastFields = append(append([]string{}, dailyFields...),
	"precipitation_probability_max",
	"wind_gusts_10m_max",
	"sunrise",
	"sunset",
	"uv_index_max",
)

// dailyBlock is Open-Meteo's parallel-array daily payload. Archive days
// that are not yet processed come back as nulls.
type dailyBlock struct {
	Time                     []string   `json:"time"`
	WeatherCode              []*int     `json:"weather_code"`
	TemperatureMax           []*float64 `json:"temperature_2m_max"`
	TemperatureMin           []*float64 `json:"temperature_2m_min"`
	ApparentTemperatureMax   []*float64 `json:"apparent_temperature_max"`
	ApparentTemperatureMin   []*float64 `json:"apparent_temperature_min"`
	PrecipitationSum         []*float64 `json:"precipitation_sum"`
	RainSum                  []*float64 `json:"rain_sum"`
	WindSpeedMax             []*float64 `json:"wind_speed_10m_max"`
	WindDirectionDominant    []*int     `json:"wind_direction_10m_dominant"`
	PrecipitationProbability []*int     `json:"precipitation_probability_max"`
	WindGustsMax             []*float64 `json:"wind_gusts_10m_max"`
	Sunrise                  []string   `json:"sunrise"`
	Sunset                   []string   `json:"sunset"`
	UVIndexMax               []*float64 `json:"uv_index_max"`
}

type dailyResponse struct {
	Timezone string     `json:"timezone"`
	Daily    dailyBlock `json:"daily"`
}

func (b dailyBlock) coreAligned() bool {
	n := len(b.Time)
	return len(b.WeatherCode) == n &&
		len(b.TemperatureMax) == n &&
		len(b.TemperatureMin) == n &&
		len(b.ApparentTemperatureMax) == n &&
		len(b.ApparentTemperatureMin) == n &&
		len(b.PrecipitationSum) == n &&
		len(b.RainSum) == n &&
		len(b.WindSpeedMax) == n &&
		len(b.WindDirectionDominant) == n
}

func (b dailyBlock) forecastAligned() bool {
	n := len(b.Time)
	return b.coreAligned() &&
		len(b.PrecipitationProbability) == n &&
		len(b.WindGustsMax) == n &&
		len(b.Sunrise) == n &&
		len(b.Sunset) == n &&
		len(b.UVIndexMax) == n
}

func floatVal(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func intVal(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// observed reports whether day i carries real values. The archive returns
// nulls for days it has not processed yet.
func (b dailyBlock) observed(i int) bool {
	return b.WeatherCode[i] != nil && b.TemperatureMax[i] != nil && b.TemperatureMin[i] != nil
}

// records maps the parallel arrays to one record per observed index.
// Unobserved days are left out so callers see them as gaps.
func (b dailyBlock) records(endpoint string) ([]model.DailyRecord, error) {
	if !b.coreAligned() {
		return nil, malformed(endpoint, "daily arrays have mismatched lengths")
	}
	out := make([]model.DailyRecord, 0, len(b.Time))
	for i, day := range b.Time {
		date, err := model.ParseDate(day)
		if err != nil {
			return nil, malformed(endpoint, "bad daily date: %v", err)
		}
		if !b.observed(i) {
			continue
		}
		out = append(out, model.DailyRecord{
			Date:           date,
			TemperatureMax: floatVal(b.TemperatureMax[i]),
			TemperatureMin: floatVal(b.TemperatureMin[i]),
			FeelsLikeMax:   floatVal(b.ApparentTemperatureMax[i]),
			FeelsLikeMin:   floatVal(b.ApparentTemperatureMin[i]),
			Precipitation:  floatVal(b.PrecipitationSum[i]),
			Rain:           floatVal(b.RainSum[i]),
			WeatherCode:    intVal(b.WeatherCode[i]),
			WindSpeedMax:   floatVal(b.WindSpeedMax[i]),
			WindDirection:  intVal(b.WindDirectionDominant[i]),
		})
	}
	return out, nil
}

// ArchiveDaily fetches observed days in [start, end].
func (c *Client) ArchiveDaily(ctx context.Context, lat, lon float64, start, end model.Date) (*model.DailySeries, error) {
	params := coordParams(lat, lon)
	params["start_date"] = start.String()
	params["end_date"] = end.String()
	params["daily"] = strings.Join(dailyFields, ",")

	var resp dailyResponse
	if err := c.get(ctx, endpointArchive, c.cfg.ArchiveURL, params, &resp); err != nil {
		return nil, err
	}
	records, err := resp.Daily.records(endpointArchive)
	if err != nil {
		return nil, err
	}
	return &model.DailySeries{Timezone: resp.Timezone, Records: records}, nil
}

// ForecastDaily fetches pastDays before the location's today and
// forecastDays from it.
func (c *Client) ForecastDaily(ctx context.Context, lat, lon float64, pastDays, forecastDays int) (*model.DailySeries, error) {
	params := coordParams(lat, lon)
	params["daily"] = strings.Join(dailyFields, ",")
	params["forecast_days"] = strconv.Itoa(forecastDays)
	if pastDays > 0 {
		params["past_days"] = strconv.Itoa(pastDays)
	}

	var resp dailyResponse
	if err := c.get(ctx, endpointForecast, c.cfg.ForecastURL, params, &resp); err != nil {
		return nil, err
	}
	records, err := resp.Daily.records(endpointForecast)
	if err != nil {
		return nil, err
	}
	return &model.DailySeries{Timezone: resp.Timezone, Records: records}, nil
}

// Forecast fetches the plain multi-day forecast starting today.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, days int) (*model.ForecastResponse, error) {
	params := coordParams(lat, lon)
	params["daily"] = strings.Join(forecastFields, ",")
	params["forecast_days"] = strconv.Itoa(days)

	var resp dailyResponse
	if err := c.get(ctx, endpointForecast, c.cfg.ForecastURL, params, &resp); err != nil {
		return nil, err
	}

	b := resp.Daily
	if !b.forecastAligned() {
		return nil, malformed(endpointForecast, "daily arrays have mismatched lengths")
	}
	forecast := make([]model.ForecastDay, 0, len(b.Time))
	for i, day := range b.Time {
		date, err := model.ParseDate(day)
		if err != nil {
			return nil, malformed(endpointForecast, "bad daily date: %v", err)
		}
		forecast = append(forecast, model.ForecastDay{
			Date:                     date,
			WeatherCode:              intVal(b.WeatherCode[i]),
			TemperatureMax:           floatVal(b.TemperatureMax[i]),
			TemperatureMin:           floatVal(b.TemperatureMin[i]),
			FeelsLikeMax:             floatVal(b.ApparentTemperatureMax[i]),
			FeelsLikeMin:             floatVal(b.ApparentTemperatureMin[i]),
			Precipitation:            floatVal(b.PrecipitationSum[i]),
			Rain:                     floatVal(b.RainSum[i]),
			PrecipitationProbability: intVal(b.PrecipitationProbability[i]),
			WindSpeedMax:             floatVal(b.WindSpeedMax[i]),
			WindGustsMax:             floatVal(b.WindGustsMax[i]),
			WindDirection:            intVal(b.WindDirectionDominant[i]),
			Sunrise:                  b.Sunrise[i],
			Sunset:                   b.Sunset[i],
			UVIndexMax:               floatVal(b.UVIndexMax[i]),
		})
	}
	return &model.ForecastResponse{Forecast: forecast, Timezone: resp.Timezone}, nil
}
