package api

import (
	"net/http"

	"github.com/alexivanou/weather-requests-api/internal/service"
	"github.com/alexivanou/weather-requests-api/internal/stats"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter creates a new HTTP router
func NewRouter(service service.ServiceInterface, statsCollector *stats.Collector, logger *zap.Logger) *mux.Router {
	handler := NewHandler(service, logger)
	statsHandler := NewStatsHandler(statsCollector, logger)

	router := mux.NewRouter()
	router.Use(requestID, accessLog(logger))

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1
	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/auth/signup", handler.Signup).Methods("POST")
	v1.HandleFunc("/auth/login", handler.Login).Methods("POST")
	v1.Handle("/auth/logout", handler.requireAuth(http.HandlerFunc(handler.Logout))).Methods("POST")
	v1.Handle("/auth/me", handler.requireAuth(http.HandlerFunc(handler.Me))).Methods("GET")

	v1.HandleFunc("/search", handler.SearchLocations).Methods("GET")
	v1.HandleFunc("/current", handler.CurrentWeather).Methods("GET")
	v1.HandleFunc("/forecast", handler.Forecast).Methods("GET")
	v1.HandleFunc("/hourly", handler.HourlyForecast).Methods("GET")
	v1.HandleFunc("/complete", handler.CompleteWeather).Methods("GET")
	v1.HandleFunc("/validate-location", handler.ValidateLocation).Methods("GET")
	v1.HandleFunc("/validate-dates", handler.ValidateDates).Methods("GET")
	v1.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")

	// Weather requests, scoped to the signed-in user
	requests := v1.PathPrefix("/weather-requests").Subrouter()
	requests.Use(handler.requireAuth)
	requests.HandleFunc("", handler.CreateWeatherRequest).Methods("POST")
	requests.HandleFunc("", handler.ListWeatherRequests).Methods("GET")
	requests.HandleFunc("/{id}", handler.GetWeatherRequest).Methods("GET")
	requests.HandleFunc("/{id}", handler.UpdateWeatherRequest).Methods("PUT")
	requests.HandleFunc("/{id}", handler.DeleteWeatherRequest).Methods("DELETE")

	return router
}
