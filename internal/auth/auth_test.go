package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexivanou/weather-requests-api/internal/apperr"
	"github.com/alexivanou/weather-requests-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockSessionRepository implements repository.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) CreateSession(ctx context.Context, s model.Session) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSessionRepository) GetSession(ctx context.Context, token string) (*model.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionRepository) DeleteSession(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockSessionRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	ok, err := CheckPassword(hash, "s3cret!")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = CheckPassword("not-a-hash", "s3cret!")
	assert.Error(t, err)
}

func TestSessionStore_Issue(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := new(MockSessionRepository)
	repo.On("CreateSession", mock.Anything, mock.MatchedBy(func(s model.Session) bool {
		return s.UserID == 7 && s.ExpiresAt.Equal(now.Add(time.Hour)) && len(s.Token) == 43
	})).Return(nil).Twice()

	store := NewSessionStore(repo, time.Hour).WithClock(func() time.Time { return now })

	first, err := store.Issue(context.Background(), 7)
	require.NoError(t, err)
	second, err := store.Issue(context.Background(), 7)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	repo.AssertExpectations(t)
}

func TestSessionStore_Lookup(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		token   string
		setup   func(*MockSessionRepository)
		userID  int64
		wantErr error
	}{
		{
			name:  "live session",
			token: "live",
			setup: func(r *MockSessionRepository) {
				r.On("GetSession", mock.Anything, "live").Return(&model.Session{Token: "live", UserID: 3, ExpiresAt: now.Add(time.Minute)}, nil)
			},
			userID: 3,
		},
		{
			name:  "expired session is removed",
			token: "old",
			setup: func(r *MockSessionRepository) {
				r.On("GetSession", mock.Anything, "old").Return(&model.Session{Token: "old", UserID: 3, ExpiresAt: now}, nil)
				r.On("DeleteSession", mock.Anything, "old").Return(nil)
			},
			wantErr: apperr.Unauthorized,
		},
		{
			name:  "unknown token",
			token: "nope",
			setup: func(r *MockSessionRepository) {
				r.On("GetSession", mock.Anything, "nope").Return(nil, nil)
			},
			wantErr: apperr.Unauthorized,
		},
		{
			name:    "empty token",
			token:   "",
			wantErr: apperr.Unauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockSessionRepository)
			if tt.setup != nil {
				tt.setup(repo)
			}
			store := NewSessionStore(repo, time.Hour).WithClock(func() time.Time { return now })

			userID, err := store.Lookup(context.Background(), tt.token)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.userID, userID)
			repo.AssertExpectations(t)
		})
	}
}

func TestSweeper_RunsSweep(t *testing.T) {
	repo := new(MockSessionRepository)
	swept := make(chan struct{}, 10)
	repo.On("DeleteExpiredSessions", mock.Anything, mock.Anything).
		Return(int64(2), nil).
		Run(func(mock.Arguments) { swept <- struct{}{} })

	sweeper := NewSweeper(NewSessionStore(repo, time.Hour), time.Hour, zap.NewNop())
	require.NoError(t, sweeper.Start())
	defer sweeper.Stop()

	select {
	case <-swept:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep did not run")
	}
}
