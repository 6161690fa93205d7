package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexivanou/weather-requests-api/internal/apperr"
	"github.com/alexivanou/weather-requests-api/internal/model"
	"github.com/alexivanou/weather-requests-api/internal/repository"
	"github.com/alexivanou/weather-requests-api/internal/weather"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

func requestNotFound(id int64) error {
	return apperr.New(apperr.NotFound, "Weather request not found",
		fmt.Sprintf("weather request %d does not exist", id))
}

// resolveLocation turns a name, or an explicit coordinate pair, into a location.
func (s *Service) resolveLocation(ctx context.Context, name string, lat, lon *float64) (*model.Location, error) {
	if (lat == nil) != (lon == nil) {
		return nil, apperr.New(apperr.InvalidInput, "Invalid coordinates",
			"latitude and longitude must be given together")
	}
	if lat != nil {
		if err := checkCoordinates(*lat, *lon); err != nil {
			return nil, err
		}
		return &model.Location{
			Name:      strings.TrimSpace(name),
			Latitude:  *lat,
			Longitude: *lon,
			Timezone:  weather.DefaultTimezone,
		}, nil
	}

	v, err := s.locations.ValidateLocation(ctx, name)
	if err != nil {
		return nil, err
	}
	if !v.Valid {
		return nil, apperr.New(apperr.InvalidInput, "Invalid location",
			fmt.Sprintf("%s: '%s'", v.Error, strings.TrimSpace(name)))
	}
	return v.BestMatch, nil
}

func (s *Service) fetch(ctx context.Context, lat, lon float64, start, end model.Date) (*model.DailySeries, error) {
	return s.resolver.Resolve(ctx, model.WeatherQuery{
		Latitude:  lat,
		Longitude: lon,
		StartDate: start,
		EndDate:   end,
	})
}

// buildWeatherRequest validates the input and resolves its weather without storing it.
func (s *Service) buildWeatherRequest(ctx context.Context, userID int64, req model.CreateWeatherRequest) (*model.WeatherRequest, error) {
	if err := weather.ValidateDateRange(req.StartDate, req.EndDate, s.resolver.Today()); err != nil {
		return nil, err
	}

	loc, err := s.resolveLocation(ctx, req.LocationName, req.Latitude, req.Longitude)
	if err != nil {
		return nil, err
	}
	if req.Country != "" {
		loc.Country = req.Country
	}

	series, err := s.fetch(ctx, loc.Latitude, loc.Longitude, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	timezone := series.Timezone
	if timezone == "" {
		timezone = req.Timezone
	}

	return &model.WeatherRequest{
		UserID:       userID,
		LocationName: loc.Name,
		Country:      loc.Country,
		Latitude:     loc.Latitude,
		Longitude:    loc.Longitude,
		Timezone:     timezone,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		WeatherData:  series.Records,
		Notes:        req.Notes,
	}, nil
}

// CreateWeatherRequest validates the input, resolves the weather and stores the result
func (s *Service) CreateWeatherRequest(ctx context.Context, userID int64, req model.CreateWeatherRequest) (*model.WeatherRequest, error) {
	wr, err := s.buildWeatherRequest(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	if err := s.requestRepo.CreateWeatherRequest(ctx, wr); err != nil {
		return nil, fmt.Errorf("failed to create weather request: %w", err)
	}
	return wr, nil
}

// ImportWeatherRequests resolves a batch and stores the rows that succeed in
// one bulk insert. Rows that fail validation or resolution are reported, not
// fatal; a failed insert fails the whole batch.
func (s *Service) ImportWeatherRequests(ctx context.Context, userID int64, rows []model.ImportRow) (*model.ImportResult, error) {
	result := &model.ImportResult{Failures: []model.ImportFailure{}}
	batch := make([]model.WeatherRequest, 0, len(rows))

	for _, row := range rows {
		wr, err := s.buildWeatherRequest(ctx, userID, row.Request)
		if err != nil {
			if apperr.KindOf(err) == nil {
				return nil, err
			}
			_, msg, _ := apperr.Describe(err)
			result.Failures = append(result.Failures, model.ImportFailure{Line: row.Line, Error: msg})
			continue
		}
		batch = append(batch, *wr)
	}

	if len(batch) > 0 {
		if err := s.requestRepo.BulkInsertWeatherRequests(ctx, batch); err != nil {
			return nil, fmt.Errorf("failed to insert weather requests: %w", err)
		}
	}
	result.Imported = len(batch)
	return result, nil
}

// ListWeatherRequests returns a page of the user's requests, newest first
func (s *Service) ListWeatherRequests(ctx context.Context, filter model.WeatherRequestFilter) ([]model.WeatherRequestListItem, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Location = strings.TrimSpace(filter.Location)

	requests, err := s.requestRepo.ListWeatherRequests(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list weather requests: %w", err)
	}

	items := make([]model.WeatherRequestListItem, 0, len(requests))
	for _, r := range requests {
		items = append(items, r.ListItem())
	}
	return items, nil
}

// GetWeatherRequest returns one of the user's requests with its weather data
func (s *Service) GetWeatherRequest(ctx context.Context, userID, id int64) (*model.WeatherRequest, error) {
	wr, err := s.requestRepo.GetWeatherRequest(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get weather request: %w", err)
	}
	if wr == nil {
		return nil, requestNotFound(id)
	}
	return wr, nil
}

// UpdateWeatherRequest applies a partial update. Changing the dates or the
// location refetches the weather; if that fails the stored request is left as it was.
func (s *Service) UpdateWeatherRequest(ctx context.Context, userID, id int64, req model.UpdateWeatherRequest) (*model.WeatherRequest, error) {
	existing, err := s.GetWeatherRequest(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	updated := *existing
	refetch := false

	if req.StartDate != nil {
		updated.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		updated.EndDate = *req.EndDate
	}
	if !updated.StartDate.Equal(existing.StartDate) || !updated.EndDate.Equal(existing.EndDate) {
		if err := weather.ValidateDateRange(updated.StartDate, updated.EndDate, s.resolver.Today()); err != nil {
			return nil, err
		}
		refetch = true
	}

	nameChanged := req.LocationName != nil && strings.TrimSpace(*req.LocationName) != existing.LocationName
	if req.Latitude != nil || req.Longitude != nil || nameChanged {
		name := existing.LocationName
		if req.LocationName != nil {
			name = *req.LocationName
		}
		lat, lon := req.Latitude, req.Longitude
		// A single coordinate moves the stored point along one axis.
		if lat != nil && lon == nil {
			lon = &existing.Longitude
		}
		if lon != nil && lat == nil {
			lat = &existing.Latitude
		}
		loc, err := s.resolveLocation(ctx, name, lat, lon)
		if err != nil {
			return nil, err
		}
		updated.LocationName = loc.Name
		updated.Latitude = loc.Latitude
		updated.Longitude = loc.Longitude
		if loc.Country != "" {
			updated.Country = loc.Country
		}
		refetch = true
	}

	if req.Country != nil {
		updated.Country = *req.Country
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
	}

	if req.Timezone != nil {
		updated.Timezone = *req.Timezone
	}
	if refetch {
		series, err := s.fetch(ctx, updated.Latitude, updated.Longitude, updated.StartDate, updated.EndDate)
		if err != nil {
			return nil, err
		}
		updated.WeatherData = series.Records
		if series.Timezone != "" {
			updated.Timezone = series.Timezone
		}
	}

	if err := s.requestRepo.UpdateWeatherRequest(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, requestNotFound(id)
		}
		return nil, fmt.Errorf("failed to update weather request: %w", err)
	}
	return &updated, nil
}

// DeleteWeatherRequest removes one of the user's requests
func (s *Service) DeleteWeatherRequest(ctx context.Context, userID, id int64) (*model.MessageResponse, error) {
	existing, err := s.GetWeatherRequest(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.requestRepo.DeleteWeatherRequest(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, requestNotFound(id)
		}
		return nil, fmt.Errorf("failed to delete weather request: %w", err)
	}
	return &model.MessageResponse{
		Message: fmt.Sprintf("Weather request for '%s' (ID: %d) has been deleted", existing.LocationName, id),
	}, nil
}
