package model

import "time"

// SignupRequest represents the signup body
type SignupRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=150"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// LoginRequest represents the login body
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by signup and login
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SearchResponse represents the response for location search
type SearchResponse struct {
	Results []Location `json:"results"`
}

// ForecastResponse represents the response for the daily forecast
type ForecastResponse struct {
	Forecast []ForecastDay `json:"forecast"`
	Timezone string        `json:"timezone"`
}

// HourlyResponse represents the response for the hourly forecast
type HourlyResponse struct {
	Hourly   []HourlyPoint `json:"hourly"`
	Timezone string        `json:"timezone"`
}

// CompleteWeatherResponse bundles location, current conditions and forecast
type CompleteWeatherResponse struct {
	Location Location       `json:"location"`
	Current  CurrentWeather `json:"current"`
	Forecast []ForecastDay  `json:"forecast"`
}

// LocationValidation is the outcome of checking a location name
type LocationValidation struct {
	Valid       bool       `json:"valid"`
	Error       string     `json:"error,omitempty"`
	BestMatch   *Location  `json:"best_match,omitempty"`
	Suggestions []Location `json:"suggestions"`
}

// DateRangeValidation is the outcome of checking a date range
type DateRangeValidation struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// CreateWeatherRequest represents the body for creating a weather request.
// Latitude and Longitude must be given together to skip geocoding.
type CreateWeatherRequest struct {
	LocationName string   `json:"location_name" validate:"required,max=255"`
	StartDate    Date     `json:"start_date" validate:"required"`
	EndDate      Date     `json:"end_date" validate:"required"`
	Notes        string   `json:"notes"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
	Country      string   `json:"country" validate:"max=100"`
	Timezone     string   `json:"timezone" validate:"max=50"`
}

// UpdateWeatherRequest represents a partial update; nil fields are left unchanged
type UpdateWeatherRequest struct {
	LocationName *string  `json:"location_name" validate:"omitempty,min=1,max=255"`
	StartDate    *Date    `json:"start_date"`
	EndDate      *Date    `json:"end_date"`
	Notes        *string  `json:"notes"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
	Country      *string  `json:"country" validate:"omitempty,max=100"`
	Timezone     *string  `json:"timezone" validate:"omitempty,max=50"`
}

// WeatherRequestListItem is a weather request without its payload
type WeatherRequestListItem struct {
	ID           int64     `json:"id"`
	LocationName string    `json:"location_name"`
	Country      string    `json:"country"`
	StartDate    Date      `json:"start_date"`
	EndDate      Date      `json:"end_date"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListItem strips the weather payload for listings.
func (r WeatherRequest) ListItem() WeatherRequestListItem {
	return WeatherRequestListItem{
		ID:           r.ID,
		LocationName: r.LocationName,
		Country:      r.Country,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// MessageResponse carries a plain confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
