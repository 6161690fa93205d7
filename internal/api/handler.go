package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/alexivanou/weather-requests-api/internal/apperr"
	"github.com/alexivanou/weather-requests-api/internal/model"
	"github.com/alexivanou/weather-requests-api/internal/service"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	defaultForecastDays = 7
	defaultHourlyHours  = 24
)

// Handler handles HTTP requests
type Handler struct {
	service service.ServiceInterface
	logger  *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(service service.ServiceInterface, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func invalidParam(name, reason string) error {
	return apperr.New(apperr.InvalidInput, "Invalid parameter", name+" "+reason)
}

func floatParam(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, invalidParam(name, "is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, invalidParam(name, "must be a number")
	}
	return v, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidParam(name, "must be an integer")
	}
	return v, nil
}

func coordinates(r *http.Request) (lat, lon float64, err error) {
	if lat, err = floatParam(r, "lat"); err != nil {
		return 0, 0, err
	}
	if lon, err = floatParam(r, "lon"); err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

func dateParam(r *http.Request, name string) (model.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return model.Date{}, invalidParam(name, "is required")
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return model.Date{}, invalidParam(name, "must be a YYYY-MM-DD date")
	}
	return d, nil
}

func requestIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, invalidParam("id", "must be a positive integer")
	}
	return id, nil
}

// Signup handles POST /api/v1/auth/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := validateBody(req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resp, err := h.service.Signup(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.logger.Info("User signed up", zap.Int64("user_id", resp.User.ID))
	writeJSON(w, h.logger, http.StatusCreated, resp)
}

// Login handles POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := validateBody(req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}

// Logout handles POST /api/v1/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), tokenFrom(r.Context())); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, model.MessageResponse{Message: "Logged out"})
}

// Me handles GET /api/v1/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, UserFrom(r.Context()))
}

// SearchLocations handles GET /api/v1/search
func (h *Handler) SearchLocations(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.SearchLocations(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}

// CurrentWeather handles GET /api/v1/current
func (h *Handler) CurrentWeather(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := coordinates(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	resp, err := h.service.CurrentWeather(r.Context(), lat, lon)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}

// Forecast handles GET /api/v1/forecast
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := coordinates(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	days, err := intParam(r, "days", defaultForecastDays)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	resp, err := h.service.Forecast(r.Context(), lat, lon, days)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}

// HourlyForecast handles GET /api/v1/hourly
func (h *Handler) HourlyForecast(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := coordinates(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	hours, err := intParam(r, "hours", defaultHourlyHours)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	resp, err := h.service.HourlyForecast(r.Context(), lat, lon, hours)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}

// CompleteWeather handles GET /api/v1/complete
func (h *Handler) CompleteWeather(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days", defaultForecastDays)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	resp, err := h.service.CompleteWeather(r.Context(), r.URL.Query().Get("q"), days)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}

// ValidateLocation handles GET /api/v1/validate-location
func (h *Handler) ValidateLocation(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ValidateLocation(r.Context(), r.URL.Query().Get("location_name"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}

// ValidateDates handles GET /api/v1/validate-dates
func (h *Handler) ValidateDates(w http.ResponseWriter, r *http.Request) {
	start, err := dateParam(r, "start_date")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	end, err := dateParam(r, "end_date")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, h.service.ValidateDates(r.Context(), start, end))
}

// CreateWeatherRequest handles POST /api/v1/weather-requests
func (h *Handler) CreateWeatherRequest(w http.ResponseWriter, r *http.Request) {
	var req model.CreateWeatherRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := validateBody(req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user := UserFrom(r.Context())
	wr, err := h.service.CreateWeatherRequest(r.Context(), user.ID, req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.logger.Info("Weather request created",
		zap.Int64("user_id", user.ID),
		zap.Int64("id", wr.ID),
		zap.String("location", wr.LocationName),
	)
	writeJSON(w, h.logger, http.StatusCreated, wr)
}

// ListWeatherRequests handles GET /api/v1/weather-requests
func (h *Handler) ListWeatherRequests(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	offset, err := intParam(r, "offset", 0)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	items, err := h.service.ListWeatherRequests(r.Context(), model.WeatherRequestFilter{
		UserID:   UserFrom(r.Context()).ID,
		Location: r.URL.Query().Get("location"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, items)
}

// GetWeatherRequest handles GET /api/v1/weather-requests/{id}
func (h *Handler) GetWeatherRequest(w http.ResponseWriter, r *http.Request) {
	id, err := requestIDParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	wr, err := h.service.GetWeatherRequest(r.Context(), UserFrom(r.Context()).ID, id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, wr)
}

// UpdateWeatherRequest handles PUT /api/v1/weather-requests/{id}
func (h *Handler) UpdateWeatherRequest(w http.ResponseWriter, r *http.Request) {
	id, err := requestIDParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req model.UpdateWeatherRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := validateBody(req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	wr, err := h.service.UpdateWeatherRequest(r.Context(), UserFrom(r.Context()).ID, id, req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, wr)
}

// DeleteWeatherRequest handles DELETE /api/v1/weather-requests/{id}
func (h *Handler) DeleteWeatherRequest(w http.ResponseWriter, r *http.Request) {
	id, err := requestIDParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	resp, err := h.service.DeleteWeatherRequest(r.Context(), UserFrom(r.Context()).ID, id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
