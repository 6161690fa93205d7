package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/alexivanou/weather-requests-api/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

func sqliteDuplicate(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}

type sqliteUserRepository struct {
	db *sqlx.DB
}

func (r *sqliteUserRepository) CreateUser(ctx context.Context, u *model.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.NamedExecContext(ctx, `
		INSERT INTO users (username, password_hash, first_name, last_name, created_at)
		VALUES (:username, :password_hash, :first_name, :last_name, :created_at)`, u)
	if err != nil {
		if sqliteDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

func (r *sqliteUserRepository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := r.db.GetContext(ctx, &u, "SELECT * FROM users WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *sqliteUserRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.db.GetContext(ctx, &u, "SELECT * FROM users WHERE username = ?", username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

type sqliteSessionRepository struct {
	db *sqlx.DB
}

func (r *sqliteSessionRepository) CreateSession(ctx context.Context, s model.Session) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO sessions (token, user_id, created_at, expires_at)
		VALUES (:token, :user_id, :created_at, :expires_at)`, s)
	return err
}

func (r *sqliteSessionRepository) GetSession(ctx context.Context, token string) (*model.Session, error) {
	var s model.Session
	if err := r.db.GetContext(ctx, &s, "SELECT * FROM sessions WHERE token = ?", token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *sqliteSessionRepository) DeleteSession(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token)
	return err
}

func (r *sqliteSessionRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type sqliteWeatherRequestRepository struct {
	db *sqlx.DB
}

const sqliteInsertWeatherRequest = `
	INSERT INTO weather_requests (user_id, location_name, country, latitude, longitude, timezone,
		start_date, end_date, weather_data, notes, created_at, updated_at)
	VALUES (:user_id, :location_name, :country, :latitude, :longitude, :timezone,
		:start_date, :end_date, :weather_data, :notes, :created_at, :updated_at)`

func (r *sqliteWeatherRequestRepository) CreateWeatherRequest(ctx context.Context, wr *model.WeatherRequest) error {
	stamp(wr, time.Now().UTC())
	res, err := r.db.NamedExecContext(ctx, sqliteInsertWeatherRequest, wr)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	wr.ID = id
	return nil
}

func (r *sqliteWeatherRequestRepository) GetWeatherRequest(ctx context.Context, userID, id int64) (*model.WeatherRequest, error) {
	var wr model.WeatherRequest
	err := r.db.GetContext(ctx, &wr, "SELECT * FROM weather_requests WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &wr, nil
}

func (r *sqliteWeatherRequestRepository) ListWeatherRequests(ctx context.Context, f model.WeatherRequestFilter) ([]model.WeatherRequest, error) {
	q := `
		SELECT ` + listColumns + `
		FROM weather_requests
		WHERE user_id = ?
		  AND (? = '' OR LOWER(location_name) LIKE '%' || LOWER(?) || '%')
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	results := []model.WeatherRequest{}
	if err := r.db.SelectContext(ctx, &results, q, f.UserID, f.Location, f.Location, f.Limit, f.Offset); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *sqliteWeatherRequestRepository) UpdateWeatherRequest(ctx context.Context, wr *model.WeatherRequest) error {
	wr.UpdatedAt = time.Now().UTC()
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE weather_requests SET
			location_name = :location_name,
			country = :country,
			latitude = :latitude,
			longitude = :longitude,
			timezone = :timezone,
			start_date = :start_date,
			end_date = :end_date,
			weather_data = :weather_data,
			notes = :notes,
			updated_at = :updated_at
		WHERE id = :id AND user_id = :user_id`, wr)
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

func (r *sqliteWeatherRequestRepository) DeleteWeatherRequest(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM weather_requests WHERE id = ? AND user_id = ?", id, userID)
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

func (r *sqliteWeatherRequestRepository) BulkInsertWeatherRequests(ctx context.Context, reqs []model.WeatherRequest) error {
	now := time.Now().UTC()
	for i := range reqs {
		stamp(&reqs[i], now)
	}
	for _, c := range chunks(len(reqs)) {
		if _, err := r.db.NamedExecContext(ctx, sqliteInsertWeatherRequest, reqs[c[0]:c[1]]); err != nil {
			return err
		}
	}
	return nil
}
