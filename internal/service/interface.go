package service

import (
	"context"

	"github.com/alexivanou/weather-requests-api/internal/model"
)

// ServiceInterface defines the service interface for testing
type ServiceInterface interface {
	Signup(ctx context.Context, req model.SignupRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*model.User, error)

	SearchLocations(ctx context.Context, query string) (*model.SearchResponse, error)
	CurrentWeather(ctx context.Context, lat, lon float64) (*model.CurrentWeather, error)
	Forecast(ctx context.Context, lat, lon float64, days int) (*model.ForecastResponse, error)
	HourlyForecast(ctx context.Context, lat, lon float64, hours int) (*model.HourlyResponse, error)
	CompleteWeather(ctx context.Context, query string, days int) (*model.CompleteWeatherResponse, error)
	ValidateLocation(ctx context.Context, name string) (*model.LocationValidation, error)
	ValidateDates(ctx context.Context, start, end model.Date) *model.DateRangeValidation

	CreateWeatherRequest(ctx context.Context, userID int64, req model.CreateWeatherRequest) (*model.WeatherRequest, error)
	ListWeatherRequests(ctx context.Context, filter model.WeatherRequestFilter) ([]model.WeatherRequestListItem, error)
	GetWeatherRequest(ctx context.Context, userID, id int64) (*model.WeatherRequest, error)
	UpdateWeatherRequest(ctx context.Context, userID, id int64, req model.UpdateWeatherRequest) (*model.WeatherRequest, error)
	DeleteWeatherRequest(ctx context.Context, userID, id int64) (*model.MessageResponse, error)
}
