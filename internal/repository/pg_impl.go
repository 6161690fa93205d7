package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/alexivanou/weather-requests-api/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

const pgUniqueViolation = "23505"

func pgDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

type pgUserRepository struct {
	db *sqlx.DB
}

func (r *pgUserRepository) CreateUser(ctx context.Context, u *model.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO users (username, password_hash, first_name, last_name, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		u.Username, u.PasswordHash, u.FirstName, u.LastName, u.CreatedAt,
	).Scan(&u.ID)
	if err != nil {
		if pgDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *pgUserRepository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := r.db.GetContext(ctx, &u, "SELECT * FROM users WHERE id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *pgUserRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.db.GetContext(ctx, &u, "SELECT * FROM users WHERE username = $1", username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

type pgSessionRepository struct {
	db *sqlx.DB
}

func (r *pgSessionRepository) CreateSession(ctx context.Context, s model.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)`,
		s.Token, s.UserID, s.CreatedAt, s.ExpiresAt)
	return err
}

func (r *pgSessionRepository) GetSession(ctx context.Context, token string) (*model.Session, error) {
	var s model.Session
	if err := r.db.GetContext(ctx, &s, "SELECT * FROM sessions WHERE token = $1", token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *pgSessionRepository) DeleteSession(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = $1", token)
	return err
}

func (r *pgSessionRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= $1", now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type pgWeatherRequestRepository struct {
	db *sqlx.DB
}

func (r *pgWeatherRequestRepository) CreateWeatherRequest(ctx context.Context, wr *model.WeatherRequest) error {
	stamp(wr, time.Now().UTC())
	return r.db.QueryRowxContext(ctx, `
		INSERT INTO weather_requests (user_id, location_name, country, latitude, longitude, timezone,
			start_date, end_date, weather_data, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10, $11, $12)
		RETURNING id`,
		wr.UserID, wr.LocationName, wr.Country, wr.Latitude, wr.Longitude, wr.Timezone,
		wr.StartDate, wr.EndDate, wr.WeatherData, wr.Notes, wr.CreatedAt, wr.UpdatedAt,
	).Scan(&wr.ID)
}

func (r *pgWeatherRequestRepository) GetWeatherRequest(ctx context.Context, userID, id int64) (*model.WeatherRequest, error) {
	var wr model.WeatherRequest
	err := r.db.GetContext(ctx, &wr, "SELECT * FROM weather_requests WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &wr, nil
}

func (r *pgWeatherRequestRepository) ListWeatherRequests(ctx context.Context, f model.WeatherRequestFilter) ([]model.WeatherRequest, error) {
	q := `
		SELECT ` + listColumns + `
		FROM weather_requests
		WHERE user_id = $1
		  AND ($2 = '' OR location_name ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`
	results := []model.WeatherRequest{}
	if err := r.db.SelectContext(ctx, &results, q, f.UserID, f.Location, f.Limit, f.Offset); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *pgWeatherRequestRepository) UpdateWeatherRequest(ctx context.Context, wr *model.WeatherRequest) error {
	wr.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE weather_requests SET
			location_name = $1,
			country = $2,
			latitude = $3,
			longitude = $4,
			timezone = $5,
			start_date = $6,
			end_date = $7,
			weather_data = $8::jsonb,
			notes = $9,
			updated_at = $10
		WHERE id = $11 AND user_id = $12`,
		wr.LocationName, wr.Country, wr.Latitude, wr.Longitude, wr.Timezone,
		wr.StartDate, wr.EndDate, wr.WeatherData, wr.Notes, wr.UpdatedAt,
		wr.ID, wr.UserID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgWeatherRequestRepository) DeleteWeatherRequest(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM weather_requests WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgWeatherRequestRepository) BulkInsertWeatherRequests(ctx context.Context, reqs []model.WeatherRequest) error {
	now := time.Now().UTC()
	for i := range reqs {
		stamp(&reqs[i], now)
	}
	// Chunking to avoid parameter limit issues
	for _, c := range chunks(len(reqs)) {
		q := `INSERT INTO weather_requests (user_id, location_name, country, latitude, longitude, timezone,
				start_date, end_date, weather_data, notes, created_at, updated_at)
			  VALUES (:user_id, :location_name, :country, :latitude, :longitude, :timezone,
				:start_date, :end_date, CAST(:weather_data AS jsonb), :notes, :created_at, :updated_at)`
		if _, err := r.db.NamedExecContext(ctx, q, reqs[c[0]:c[1]]); err != nil {
			return err
		}
	}
	return nil
}
