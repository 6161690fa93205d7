package openmeteo

import (
	"context"
	"strconv"
	"strings"

	"github.com/alexivanou/weather-requests-api/internal/model"
)

var currentFields = []string{
	"temperature_2m",
	"relative_humidity_2m",
	"apparent_temperature",
	"precipitation",
	"rain",
	"weather_code",
	"cloud_cover",
	"pressure_msl",
	"surface_pressure",
	"wind_speed_10m",
	"wind_direction_10m",
	"wind_gusts_10m",
}

var hourlyFields = []string{
	"temperature_2m",
	"relative_humidity_2m",
	"apparent_temperature",
	"precipitation_probability",
	"precipitation",
	"weather_code",
	"wind_speed_10m",
	"wind_direction_10m",
}

type currentResponse struct {
	Timezone string `json:"timezone"`
	Current  *struct {
		Time                string   `json:"time"`
		Temperature         *float64 `json:"temperature_2m"`
		RelativeHumidity    *int     `json:"relative_humidity_2m"`
		ApparentTemperature *float64 `json:"apparent_temperature"`
		Precipitation       *float64 `json:"precipitation"`
		Rain                *float64 `json:"rain"`
		WeatherCode         *int     `json:"weather_code"`
		CloudCover          *int     `json:"cloud_cover"`
		PressureMSL         *float64 `json:"pressure_msl"`
		SurfacePressure     *float64 `json:"surface_pressure"`
		WindSpeed           *float64 `json:"wind_speed_10m"`
		WindDirection       *int     `json:"wind_direction_10m"`
		WindGusts           *float64 `json:"wind_gusts_10m"`
	} `json:"current"`
}

// Current fetches present conditions at a point.
func (c *Client) Current(ctx context.Context, lat, lon float64) (*model.CurrentWeather, error) {
	params := coordParams(lat, lon)
	params["current"] = strings.Join(currentFields, ",")

	var resp currentResponse
	if err := c.get(ctx, endpointForecast, c.cfg.ForecastURL, params, &resp); err != nil {
		return nil, err
	}
	cur := resp.Current
	if cur == nil {
		return nil, malformed(endpointForecast, "response has no current block")
	}

	return &model.CurrentWeather{
		Temperature:     floatVal(cur.Temperature),
		FeelsLike:       floatVal(cur.ApparentTemperature),
		Humidity:        intVal(cur.RelativeHumidity),
		Precipitation:   floatVal(cur.Precipitation),
		Rain:            floatVal(cur.Rain),
		WeatherCode:     intVal(cur.WeatherCode),
		CloudCover:      intVal(cur.CloudCover),
		Pressure:        floatVal(cur.PressureMSL),
		SurfacePressure: floatVal(cur.SurfacePressure),
		WindSpeed:       floatVal(cur.WindSpeed),
		WindDirection:   intVal(cur.WindDirection),
		WindGusts:       floatVal(cur.WindGusts),
		Time:            cur.Time,
		Timezone:        resp.Timezone,
	}, nil
}

type hourlyResponse struct {
	Timezone string `json:"timezone"`
	Hourly   struct {
		Time                     []string   `json:"time"`
		Temperature              []*float64 `json:"temperature_2m"`
		RelativeHumidity         []*int     `json:"relative_humidity_2m"`
		ApparentTemperature      []*float64 `json:"apparent_temperature"`
		PrecipitationProbability []*int     `json:"precipitation_probability"`
		Precipitation            []*float64 `json:"precipitation"`
		WeatherCode              []*int     `json:"weather_code"`
		WindSpeed                []*float64 `json:"wind_speed_10m"`
		WindDirection            []*int     `json:"wind_direction_10m"`
	} `json:"hourly"`
}

// HourlyForecastDays is the number of days requested to cover hours.
func HourlyForecastDays(hours int) int {
	days := hours/24 + 1
	if days > 7 {
		days = 7
	}
	return days
}

// Hourly fetches the next hours of hourly forecast.
func (c *Client) Hourly(ctx context.Context, lat, lon float64, hours int) (*model.HourlyResponse, error) {
	params := coordParams(lat, lon)
	params["hourly"] = strings.Join(hourlyFields, ",")
	params["forecast_days"] = strconv.Itoa(HourlyForecastDays(hours))

	var resp hourlyResponse
	if err := c.get(ctx, endpointForecast, c.cfg.ForecastURL, params, &resp); err != nil {
		return nil, err
	}

	h := resp.Hourly
	n := len(h.Time)
	if len(h.Temperature) != n || len(h.RelativeHumidity) != n || len(h.ApparentTemperature) != n ||
		len(h.PrecipitationProbability) != n || len(h.Precipitation) != n || len(h.WeatherCode) != n ||
		len(h.WindSpeed) != n || len(h.WindDirection) != n {
		return nil, malformed(endpointForecast, "hourly arrays have mismatched lengths")
	}
	if n > hours {
		n = hours
	}

	points := make([]model.HourlyPoint, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, model.HourlyPoint{
			Time:                     h.Time[i],
			Temperature:              floatVal(h.Temperature[i]),
			FeelsLike:                floatVal(h.ApparentTemperature[i]),
			Humidity:                 intVal(h.RelativeHumidity[i]),
			PrecipitationProbability: intVal(h.PrecipitationProbability[i]),
			Precipitation:            floatVal(h.Precipitation[i]),
			WeatherCode:              intVal(h.WeatherCode[i]),
			WindSpeed:                floatVal(h.WindSpeed[i]),
			WindDirection:            intVal(h.WindDirection[i]),
		})
	}
	return &model.HourlyResponse{Hourly: points, Timezone: resp.Timezone}, nil
}
