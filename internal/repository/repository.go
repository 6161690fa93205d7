package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexivanou/weather-requests-api/internal/config"
	"github.com/alexivanou/weather-requests-api/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	// ErrNotFound is returned by writes that matched no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository defines operations for users
type UserRepository interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// SessionRepository defines operations for auth sessions
type SessionRepository interface {
	CreateSession(ctx context.Context, s model.Session) error
	GetSession(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// WeatherRequestRepository defines operations for saved weather requests.
// Every lookup is scoped to the owning user.
type WeatherRequestRepository interface {
	CreateWeatherRequest(ctx context.Context, r *model.WeatherRequest) error
	GetWeatherRequest(ctx context.Context, userID, id int64) (*model.WeatherRequest, error)
	ListWeatherRequests(ctx context.Context, f model.WeatherRequestFilter) ([]model.WeatherRequest, error)
	UpdateWeatherRequest(ctx context.Context, r *model.WeatherRequest) error
	DeleteWeatherRequest(ctx context.Context, userID, id int64) error
	BulkInsertWeatherRequests(ctx context.Context, reqs []model.WeatherRequest) error
}

// Container holds all repositories
type Container struct {
	User           UserRepository
	Session        SessionRepository
	WeatherRequest WeatherRequestRepository
}

// NewRepositories creates repository implementations based on DB type
func NewRepositories(db *sqlx.DB, dbType config.DBType) *Container {
	if dbType == config.DBTypePostgreSQL {
		return &Container{
			User:           &pgUserRepository{db: db},
			Session:        &pgSessionRepository{db: db},
			WeatherRequest: &pgWeatherRequestRepository{db: db},
		}
	}

	// Default to SQLite
	return &Container{
		User:           &sqliteUserRepository{db: db},
		Session:        &sqliteSessionRepository{db: db},
		WeatherRequest: &sqliteWeatherRequestRepository{db: db},
	}
}

// listColumns omits weather_data, which listings never return.
const listColumns = `id, user_id, location_name, country, latitude, longitude, timezone,
	start_date, end_date, notes, created_at, updated_at`

const bulkChunkSize = 500

func chunks(n int) [][2]int {
	var out [][2]int
	for i := 0; i < n; i += bulkChunkSize {
		end := i + bulkChunkSize
		if end > n {
			end = n
		}
		out = append(out, [2]int{i, end})
	}
	return out
}

func stamp(r *model.WeatherRequest, now time.Time) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	if r.Timezone == "" {
		r.Timezone = "UTC"
	}
	if r.WeatherData == nil {
		r.WeatherData = model.DailyRecords{}
	}
}
