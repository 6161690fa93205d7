package model

import "time"

// WeatherRequest is a saved location and date range with its resolved daily weather.
type WeatherRequest struct {
	ID           int64        `db:"id" json:"id"`
	UserID       int64        `db:"user_id" json:"-"`
	LocationName string       `db:"location_name" json:"location_name"`
	Country      string       `db:"country" json:"country"`
	Latitude     float64      `db:"latitude" json:"latitude"`
	Longitude    float64      `db:"longitude" json:"longitude"`
	Timezone     string       `db:"timezone" json:"timezone"`
	StartDate    Date         `db:"start_date" json:"start_date"`
	EndDate      Date         `db:"end_date" json:"end_date"`
	WeatherData  DailyRecords `db:"weather_data" json:"weather_data"`
	Notes        string       `db:"notes" json:"notes"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// WeatherRequestFilter narrows a listing of one user's requests.
type WeatherRequestFilter struct {
	UserID   int64
	Location string
	Limit    int
	Offset   int
}

// ImportRow is one parsed line of a bulk import file.
type ImportRow struct {
	Line    int
	Request CreateWeatherRequest
}

// ImportFailure records a line that could not be imported.
type ImportFailure struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

// ImportResult summarises one imported batch.
type ImportResult struct {
	Imported int             `json:"imported"`
	Failures []ImportFailure `json:"failures"`
}
