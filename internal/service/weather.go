package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/alexivanou/weather-requests-api/internal/apperr"
	"github.com/alexivanou/weather-requests-api/internal/model"
	"github.com/alexivanou/weather-requests-api/internal/weather"
)

const (
	MaxForecastDays = 16
	MaxHourlyHours  = 168
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func checkCoordinates(lat, lon float64) error {
	if !finite(lat) || !finite(lon) {
		return apperr.New(apperr.InvalidInput, "Invalid coordinates", "latitude and longitude must be finite numbers")
	}
	if lat < -90 || lat > 90 {
		return apperr.New(apperr.InvalidInput, "Invalid coordinates", "latitude must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return apperr.New(apperr.InvalidInput, "Invalid coordinates", "longitude must be between -180 and 180")
	}
	return nil
}

func checkQuery(query string) (string, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < weather.MinQueryLength {
		return "", apperr.New(apperr.InvalidInput, "Invalid query",
			fmt.Sprintf("query must be at least %d characters", weather.MinQueryLength))
	}
	return query, nil
}

// SearchLocations geocodes free text
func (s *Service) SearchLocations(ctx context.Context, query string) (*model.SearchResponse, error) {
	query, err := checkQuery(query)
	if err != nil {
		return nil, err
	}
	results, err := s.client.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return &model.SearchResponse{Results: results}, nil
}

// CurrentWeather returns conditions right now at a point
func (s *Service) CurrentWeather(ctx context.Context, lat, lon float64) (*model.CurrentWeather, error) {
	if err := checkCoordinates(lat, lon); err != nil {
		return nil, err
	}
	current, err := s.client.Current(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	current.WeatherDescription = weather.Describe(current.WeatherCode)
	return current, nil
}

// Forecast returns a daily forecast of 1 to 16 days
func (s *Service) Forecast(ctx context.Context, lat, lon float64, days int) (*model.ForecastResponse, error) {
	if err := checkCoordinates(lat, lon); err != nil {
		return nil, err
	}
	if days < 1 || days > MaxForecastDays {
		return nil, apperr.New(apperr.InvalidInput, "Invalid days",
			fmt.Sprintf("days must be between 1 and %d", MaxForecastDays))
	}
	forecast, err := s.client.Forecast(ctx, lat, lon, days)
	if err != nil {
		return nil, err
	}
	describeDays(forecast.Forecast)
	return forecast, nil
}

// HourlyForecast returns the next 1 to 168 hours
func (s *Service) HourlyForecast(ctx context.Context, lat, lon float64, hours int) (*model.HourlyResponse, error) {
	if err := checkCoordinates(lat, lon); err != nil {
		return nil, err
	}
	if hours < 1 || hours > MaxHourlyHours {
		return nil, apperr.New(apperr.InvalidInput, "Invalid hours",
			fmt.Sprintf("hours must be between 1 and %d", MaxHourlyHours))
	}
	hourly, err := s.client.Hourly(ctx, lat, lon, hours)
	if err != nil {
		return nil, err
	}
	for i := range hourly.Hourly {
		hourly.Hourly[i].WeatherDescription = weather.Describe(hourly.Hourly[i].WeatherCode)
	}
	return hourly, nil
}

// CompleteWeather geocodes query and returns current conditions plus a
// forecast for the best match.
func (s *Service) CompleteWeather(ctx context.Context, query string, days int) (*model.CompleteWeatherResponse, error) {
	query, err := checkQuery(query)
	if err != nil {
		return nil, err
	}
	results, err := s.client.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, apperr.New(apperr.NotFound, "Location not found",
			fmt.Sprintf("no location matches '%s'", query))
	}
	loc := results[0]

	current, err := s.CurrentWeather(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		return nil, err
	}
	forecast, err := s.Forecast(ctx, loc.Latitude, loc.Longitude, days)
	if err != nil {
		return nil, err
	}

	return &model.CompleteWeatherResponse{
		Location: loc,
		Current:  *current,
		Forecast: forecast.Forecast,
	}, nil
}

// ValidateLocation reports whether name resolves to a place
func (s *Service) ValidateLocation(ctx context.Context, name string) (*model.LocationValidation, error) {
	return s.locations.ValidateLocation(ctx, name)
}

// ValidateDates checks a date range against today
func (s *Service) ValidateDates(ctx context.Context, start, end model.Date) *model.DateRangeValidation {
	if err := weather.ValidateDateRange(start, end, s.resolver.Today()); err != nil {
		_, msg, _ := apperr.Describe(err)
		return &model.DateRangeValidation{Error: msg}
	}
	return &model.DateRangeValidation{Valid: true}
}

func describeDays(days []model.ForecastDay) {
	for i := range days {
		days[i].WeatherDescription = weather.Describe(days[i].WeatherCode)
	}
}
