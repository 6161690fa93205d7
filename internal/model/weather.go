package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Location is a geocoding result.
type Location struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
	Admin1    string  `json:"admin1,omitempty"`
}

// DailyRecord is one day of resolved weather.
type DailyRecord struct {
	Date               Date     `json:"date"`
	TemperatureMax     float64  `json:"temperature_max"`
	TemperatureMin     float64  `json:"temperature_min"`
	TemperatureMean    *float64 `json:"temperature_mean"`
	FeelsLikeMax       float64  `json:"feels_like_max"`
	FeelsLikeMin       float64  `json:"feels_like_min"`
	Precipitation      float64  `json:"precipitation"`
	Rain               float64  `json:"rain"`
	WeatherCode        int      `json:"weather_code"`
	WeatherDescription string   `json:"weather_description"`
	WindSpeedMax       float64  `json:"wind_speed_max"`
	WindDirection      int      `json:"wind_direction"`
}

// DailyRecords is the stored weather payload of a WeatherRequest.
type DailyRecords []DailyRecord

func (r DailyRecords) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (r *DailyRecords) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*r = DailyRecords{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into DailyRecords", src)
	}
	return json.Unmarshal(data, r)
}

// DailySeries is an ordered run of daily records with the timezone the
// provider reported for them.
type DailySeries struct {
	Timezone string        `json:"timezone"`
	Records  []DailyRecord `json:"records"`
}

// WeatherQuery identifies the point and days to resolve.
type WeatherQuery struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	StartDate Date    `json:"start_date"`
	EndDate   Date    `json:"end_date"`
}

// CurrentWeather is the provider's "now" snapshot.
type CurrentWeather struct {
	Temperature        float64 `json:"temperature"`
	FeelsLike          float64 `json:"feels_like"`
	Humidity           int     `json:"humidity"`
	Precipitation      float64 `json:"precipitation"`
	Rain               float64 `json:"rain"`
	WeatherCode        int     `json:"weather_code"`
	WeatherDescription string  `json:"weather_description"`
	CloudCover         int     `json:"cloud_cover"`
	Pressure           float64 `json:"pressure"`
	SurfacePressure    float64 `json:"surface_pressure"`
	WindSpeed          float64 `json:"wind_speed"`
	WindDirection      int     `json:"wind_direction"`
	WindGusts          float64 `json:"wind_gusts"`
	Time               string  `json:"time"`
	Timezone           string  `json:"timezone"`
}

// ForecastDay is a day of the plain multi-day forecast.
type ForecastDay struct {
	Date                     Date    `json:"date"`
	WeatherCode              int     `json:"weather_code"`
	WeatherDescription       string  `json:"weather_description"`
	TemperatureMax           float64 `json:"temperature_max"`
	TemperatureMin           float64 `json:"temperature_min"`
	FeelsLikeMax             float64 `json:"feels_like_max"`
	FeelsLikeMin             float64 `json:"feels_like_min"`
	Precipitation            float64 `json:"precipitation"`
	Rain                     float64 `json:"rain"`
	PrecipitationProbability int     `json:"precipitation_probability"`
	WindSpeedMax             float64 `json:"wind_speed_max"`
	WindGustsMax             float64 `json:"wind_gusts_max"`
	WindDirection            int     `json:"wind_direction"`
	Sunrise                  string  `json:"sunrise"`
	Sunset                   string  `json:"sunset"`
	UVIndexMax               float64 `json:"uv_index_max"`
}

// HourlyPoint is one hour of the hourly forecast.
type HourlyPoint struct {
	Time                     string  `json:"time"`
	Temperature              float64 `json:"temperature"`
	FeelsLike                float64 `json:"feels_like"`
	Humidity                 int     `json:"humidity"`
	PrecipitationProbability int     `json:"precipitation_probability"`
	Precipitation            float64 `json:"precipitation"`
	WeatherCode              int     `json:"weather_code"`
	WeatherDescription       string  `json:"weather_description"`
	WindSpeed                float64 `json:"wind_speed"`
	WindDirection            int     `json:"wind_direction"`
}
