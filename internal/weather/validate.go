package weather

import (
	"context"
	"errors"
	"strings"

	"github.com/alexivanou/weather-requests-api/internal/apperr"
	"github.com/alexivanou/weather-requests-api/internal/model"
)

const (
	MaxRangeDays        = 365
	ForecastHorizonDays = 16
	MaxSuggestions      = 5
	MinQueryLength      = 2
)

// HistoricalFloor is the first day the archive has data for.
var HistoricalFloor = model.NewDate(1940, 1, 1)

var (
	ErrStartAfterEnd = errors.New("start date must be on or before end date")
	ErrRangeTooLong  = errors.New("date range cannot exceed 365 days")
	ErrBeyondHorizon = errors.New("start date cannot be more than 16 days in the future")
	ErrBeforeFloor   = errors.New("historical data is only available from 1940-01-01")
	ErrQueryTooShort = errors.New("location name must be at least 2 characters")
	ErrUnknownPlace  = errors.New("location not found")
)

// ValidateDateRange checks a range against today. Checks run in a fixed
// order and only the first violation is reported.
func ValidateDateRange(start, end, today model.Date) error {
	var reason error
	switch {
	case start.After(end):
		reason = ErrStartAfterEnd
	case start.DaysUntil(end) > MaxRangeDays:
		reason = ErrRangeTooLong
	case today.DaysUntil(start) > ForecastHorizonDays:
		reason = ErrBeyondHorizon
	case start.Before(HistoricalFloor):
		reason = ErrBeforeFloor
	default:
		return nil
	}
	return apperr.Wrap(apperr.InvalidInput, reason, "Invalid date range", reason.Error())
}

// Geocoder resolves free text to candidate locations, best match first.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]model.Location, error)
}

// LocationValidator checks that a name resolves to a real place.
type LocationValidator struct {
	geocoder Geocoder
}

func NewLocationValidator(g Geocoder) *LocationValidator {
	return &LocationValidator{geocoder: g}
}

// ValidateLocation reports whether name resolves. An unresolvable name is a
// result, not an error; only provider failures are returned as errors.
func (v *LocationValidator) ValidateLocation(ctx context.Context, name string) (*model.LocationValidation, error) {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < MinQueryLength {
		return &model.LocationValidation{Error: ErrQueryTooShort.Error(), Suggestions: []model.Location{}}, nil
	}

	results, err := v.geocoder.Search(ctx, name)
	if errors.Is(err, apperr.NotFound) {
		return &model.LocationValidation{Error: ErrUnknownPlace.Error(), Suggestions: []model.Location{}}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &model.LocationValidation{Error: ErrUnknownPlace.Error(), Suggestions: []model.Location{}}, nil
	}

	if len(results) > MaxSuggestions {
		results = results[:MaxSuggestions]
	}
	best := results[0]
	return &model.LocationValidation{Valid: true, BestMatch: &best, Suggestions: results}, nil
}
