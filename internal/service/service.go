package service

import (
	"context"

	"github.com/alexivanou/weather-requests-api/internal/auth"
	"github.com/alexivanou/weather-requests-api/internal/model"
	"github.com/alexivanou/weather-requests-api/internal/repository"
	"github.com/alexivanou/weather-requests-api/internal/weather"
)

// WeatherClient is the upstream provider surface the service uses directly.
type WeatherClient interface {
	weather.Geocoder
	Current(ctx context.Context, lat, lon float64) (*model.CurrentWeather, error)
	Forecast(ctx context.Context, lat, lon float64, days int) (*model.ForecastResponse, error)
	Hourly(ctx context.Context, lat, lon float64, hours int) (*model.HourlyResponse, error)
}

// RangeResolver resolves daily weather for a date range.
type RangeResolver interface {
	Resolve(ctx context.Context, q model.WeatherQuery) (*model.DailySeries, error)
	Today() model.Date
}

// Service provides business logic for the API
type Service struct {
	userRepo    repository.UserRepository
	requestRepo repository.WeatherRequestRepository
	sessions    *auth.SessionStore
	client      WeatherClient
	resolver    RangeResolver
	locations   *weather.LocationValidator
}

// NewService creates a new service instance
func NewService(
	userRepo repository.UserRepository,
	requestRepo repository.WeatherRequestRepository,
	sessions *auth.SessionStore,
	client WeatherClient,
	resolver RangeResolver,
) *Service {
	return &Service{
		userRepo:    userRepo,
		requestRepo: requestRepo,
		sessions:    sessions,
		client:      client,
		resolver:    resolver,
		locations:   weather.NewLocationValidator(client),
	}
}
