package openmeteo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexivanou/weather-requests-api/internal/apperr"
	"github.com/alexivanou/weather-requests-api/internal/config"
	"github.com/alexivanou/weather-requests-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.WeatherConfig{
		GeocodingURL:    srv.URL + "/v1/search",
		ForecastURL:     srv.URL + "/v1/forecast",
		ArchiveURL:      srv.URL + "/v1/archive",
		Timeout:         200 * time.Millisecond,
		BreakerFailures: 5,
		BreakerTimeout:  time.Minute,
	}, zap.NewNop())
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}

func TestClient_Search(t *testing.T) {
	const sevenResults = `{"results":[
		{"name":"London","country":"United Kingdom","latitude":51.50853,"longitude":-0.12574,"timezone":"Europe/London","admin1":"England"},
		{"name":"London","country":"Canada","latitude":42.98339,"longitude":-81.23304,"timezone":"America/Toronto","admin1":"Ontario"},
		{"name":"London","country":"United States","latitude":37.12898,"longitude":-84.08326,"timezone":"America/New_York"},
		{"name":"Londonderry","country":"United Kingdom","latitude":55,"longitude":-7.3,"timezone":"Europe/London"},
		{"name":"London Colney","country":"United Kingdom","latitude":51.7,"longitude":-0.3,"timezone":"Europe/London"},
		{"name":"New London","country":"United States","latitude":41.3,"longitude":-72.1,"timezone":"America/New_York"},
		{"name":"East London","country":"South Africa","latitude":-33,"longitude":27.9,"timezone":"Africa/Johannesburg"}
	]}`

	tests := []struct {
		name      string
		handler   http.HandlerFunc
		wantCount int
		wantErr   error
	}{
		{
			name: "best match first and capped",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/search", r.URL.Path)
				assert.Equal(t, "London", r.URL.Query().Get("name"))
				assert.Equal(t, "5", r.URL.Query().Get("count"))
				assert.Equal(t, "en", r.URL.Query().Get("language"))
				writeJSON(w, http.StatusOK, sevenResults)
			},
			wantCount: 5,
		},
		{
			name: "no results field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, `{"generationtime_ms":0.5}`)
			},
			wantErr: apperr.NotFound,
		},
		{
			name: "empty results",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, `{"results":[]}`)
			},
			wantErr: apperr.NotFound,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusInternalServerError, `{"error":true,"reason":"boom"}`)
			},
			wantErr: apperr.UpstreamUnavailable,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, `{"results":[`)
			},
			wantErr: apperr.UpstreamUnavailable,
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(500 * time.Millisecond)
				writeJSON(w, http.StatusOK, sevenResults)
			},
			wantErr: apperr.UpstreamUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)

			locs, err := c.Search(context.Background(), "London")
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, locs)
				return
			}
			require.NoError(t, err)
			require.Len(t, locs, tt.wantCount)
			assert.Equal(t, "United Kingdom", locs[0].Country)
			assert.Equal(t, "Europe/London", locs[0].Timezone)
			assert.Equal(t, "England", locs[0].Admin1)
		})
	}
}

func TestClient_ArchiveDaily(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/v1/archive", r.URL.Path)
		assert.Equal(t, "2024-01-01", q.Get("start_date"))
		assert.Equal(t, "2024-01-02", q.Get("end_date"))
		assert.Equal(t, "auto", q.Get("timezone"))
		assert.Contains(t, q.Get("daily"), "wind_direction_10m_dominant")
		writeJSON(w, http.StatusOK, `{"timezone":"Europe/London","daily":{
			"time":["2024-01-01","2024-01-02"],
			"weather_code":[3,null],
			"temperature_2m_max":[9.5,null],
			"temperature_2m_min":[4.1,null],
			"apparent_temperature_max":[7.0,null],
			"apparent_temperature_min":[1.2,null],
			"precipitation_sum":[0.4,null],
			"rain_sum":[0.4,null],
			"wind_speed_10m_max":[21.3,null],
			"wind_direction_10m_dominant":[230,null]
		}}`)
	})

	series, err := c.ArchiveDaily(context.Background(), 51.5, -0.12, model.NewDate(2024, 1, 1), model.NewDate(2024, 1, 2))
	require.NoError(t, err)

	assert.Equal(t, "Europe/London", series.Timezone)
	require.Len(t, series.Records, 1)
	first := series.Records[0]
	assert.Equal(t, "2024-01-01", first.Date.String())
	assert.Equal(t, 3, first.WeatherCode)
	assert.Equal(t, 9.5, first.TemperatureMax)
	assert.Equal(t, 230, first.WindDirection)
}

func TestClient_ArchiveDaily_PartialNulls(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		max      string
		min      string
		rain     string
		expected int
	}{
		{name: "all present", code: "1", max: "12.1", min: "5.0", rain: "0.2", expected: 2},
		{name: "optional value null", code: "1", max: "12.1", min: "5.0", rain: "null", expected: 2},
		{name: "weather code null", code: "null", max: "12.1", min: "5.0", rain: "0", expected: 1},
		{name: "max temperature null", code: "1", max: "null", min: "5.0", rain: "0", expected: 1},
		{name: "min temperature null", code: "1", max: "12.1", min: "null", rain: "0", expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, fmt.Sprintf(`{"timezone":"UTC","daily":{
					"time":["2024-01-01","2024-01-02"],
					"weather_code":[3,%s],
					"temperature_2m_max":[9.5,%s],
					"temperature_2m_min":[4.1,%s],
					"apparent_temperature_max":[7.0,7.0],
					"apparent_temperature_min":[1.2,1.2],
					"precipitation_sum":[0.4,0.4],
					"rain_sum":[0.4,%s],
					"wind_speed_10m_max":[21.3,20],
					"wind_direction_10m_dominant":[230,230]
				}}`, tt.code, tt.max, tt.min, tt.rain))
			})

			series, err := c.ArchiveDaily(context.Background(), 0, 0, model.NewDate(2024, 1, 1), model.NewDate(2024, 1, 2))
			require.NoError(t, err)
			require.Len(t, series.Records, tt.expected)
			assert.Equal(t, "2024-01-01", series.Records[0].Date.String())
		})
	}
}

func TestClient_ArchiveDaily_MismatchedArrays(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"timezone":"UTC","daily":{
			"time":["2024-01-01","2024-01-02"],
			"weather_code":[3],
			"temperature_2m_max":[9.5,8],
			"temperature_2m_min":[4.1,3],
			"apparent_temperature_max":[7.0,6],
			"apparent_temperature_min":[1.2,1],
			"precipitation_sum":[0.4,0],
			"rain_sum":[0.4,0],
			"wind_speed_10m_max":[21.3,10],
			"wind_direction_10m_dominant":[230,200]
		}}`)
	})

	_, err := c.ArchiveDaily(context.Background(), 0, 0, model.NewDate(2024, 1, 1), model.NewDate(2024, 1, 2))
	assert.True(t, errors.Is(err, apperr.UpstreamUnavailable))
}

func TestClient_ForecastDaily(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		assert.Equal(t, "1", q.Get("past_days"))
		assert.Equal(t, "6", q.Get("forecast_days"))
		assert.Equal(t, "51.50853", q.Get("latitude"))
		writeJSON(w, http.StatusOK, `{"timezone":"Europe/London","daily":{
			"time":["2024-06-14","2024-06-15"],
			"weather_code":[1,2],
			"temperature_2m_max":[20,21],
			"temperature_2m_min":[10,11],
			"apparent_temperature_max":[19,20],
			"apparent_temperature_min":[9,10],
			"precipitation_sum":[0,0],
			"rain_sum":[0,0],
			"wind_speed_10m_max":[10,12],
			"wind_direction_10m_dominant":[180,190]
		}}`)
	})

	series, err := c.ForecastDaily(context.Background(), 51.50853, -0.12574, 1, 6)
	require.NoError(t, err)
	require.Len(t, series.Records, 2)
	assert.Equal(t, 2, series.Records[1].WeatherCode)
}

func TestClient_Forecast(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "1", q.Get("forecast_days"))
		assert.Contains(t, q.Get("daily"), "uv_index_max")
		writeJSON(w, http.StatusOK, `{"timezone":"Europe/Paris","daily":{
			"time":["2024-06-15"],
			"weather_code":[95],
			"temperature_2m_max":[28],
			"temperature_2m_min":[17],
			"apparent_temperature_max":[30],
			"apparent_temperature_min":[16],
			"precipitation_sum":[12.5],
			"rain_sum":[12.5],
			"wind_speed_10m_max":[30],
			"wind_direction_10m_dominant":[250],
			"precipitation_probability_max":[80],
			"wind_gusts_10m_max":[55],
			"sunrise":["2024-06-15T05:46"],
			"sunset":["2024-06-15T21:56"],
			"uv_index_max":[7.1]
		}}`)
	})

	resp, err := c.Forecast(context.Background(), 48.85, 2.35, 1)
	require.NoError(t, err)
	require.Len(t, resp.Forecast, 1)
	assert.Equal(t, "Europe/Paris", resp.Timezone)
	assert.Equal(t, 80, resp.Forecast[0].PrecipitationProbability)
	assert.Equal(t, "2024-06-15T21:56", resp.Forecast[0].Sunset)
}

func TestClient_Current(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("current"), "wind_gusts_10m")
		writeJSON(w, http.StatusOK, `{"timezone":"Europe/London","current":{
			"time":"2024-06-15T13:45","temperature_2m":18.2,"relative_humidity_2m":64,
			"apparent_temperature":17.5,"precipitation":0,"rain":0,"weather_code":2,
			"cloud_cover":40,"pressure_msl":1016.1,"surface_pressure":1012.3,
			"wind_speed_10m":14.2,"wind_direction_10m":240,"wind_gusts_10m":28.1}}`)
	})

	cur, err := c.Current(context.Background(), 51.5, -0.12)
	require.NoError(t, err)
	assert.Equal(t, 18.2, cur.Temperature)
	assert.Equal(t, 64, cur.Humidity)
	assert.Equal(t, 1016.1, cur.Pressure)
	assert.Equal(t, "Europe/London", cur.Timezone)
}

func TestClient_Current_MissingBlock(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"timezone":"UTC"}`)
	})

	_, err := c.Current(context.Background(), 0, 0)
	assert.True(t, errors.Is(err, apperr.UpstreamUnavailable))
}

func TestClient_Hourly(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("forecast_days"))
		writeJSON(w, http.StatusOK, `{"timezone":"UTC","hourly":{
			"time":["2024-06-15T00:00","2024-06-15T01:00","2024-06-15T02:00"],
			"temperature_2m":[10,11,12],
			"relative_humidity_2m":[80,81,82],
			"apparent_temperature":[9,10,11],
			"precipitation_probability":[0,5,10],
			"precipitation":[0,0,0.1],
			"weather_code":[0,1,61],
			"wind_speed_10m":[5,6,7],
			"wind_direction_10m":[90,95,100]
		}}`)
	})

	resp, err := c.Hourly(context.Background(), 0, 0, 2)
	require.NoError(t, err)
	require.Len(t, resp.Hourly, 2)
	assert.Equal(t, "2024-06-15T01:00", resp.Hourly[1].Time)
}

func TestHourlyForecastDays(t *testing.T) {
	tests := []struct {
		hours int
		want  int
	}{
		{1, 1},
		{23, 1},
		{24, 2},
		{48, 3},
		{168, 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HourlyForecastDays(tt.hours), "hours %d", tt.hours)
	}
}

func TestClient_BreakerOpensAfterFailures(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeJSON(w, http.StatusServiceUnavailable, `{"error":true,"reason":"maintenance"}`)
	}))
	defer srv.Close()

	c := NewClient(config.WeatherConfig{
		GeocodingURL:    srv.URL,
		ForecastURL:     srv.URL,
		ArchiveURL:      srv.URL,
		Timeout:         time.Second,
		BreakerFailures: 2,
		BreakerTimeout:  time.Minute,
	}, zap.NewNop())

	for i := 0; i < 3; i++ {
		_, err := c.Search(context.Background(), "Paris")
		assert.True(t, errors.Is(err, apperr.UpstreamUnavailable))
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))

	// Other endpoints have their own breaker.
	_, err := c.Current(context.Background(), 0, 0)
	assert.True(t, errors.Is(err, apperr.UpstreamUnavailable))
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))

	states := c.BreakerStates()
	assert.Equal(t, "open", states["openmeteo-geocoding"])
	assert.Equal(t, "closed", states["openmeteo-forecast"])
	assert.Equal(t, "closed", states["openmeteo-archive"])
}
