package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("dial tcp: timeout")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "direct", err: New(NotFound, "Not found", "no such request"), want: NotFound},
		{name: "wrapped", err: fmt.Errorf("failed to fetch: %w", Wrap(UpstreamUnavailable, cause, "Upstream", "down")), want: UpstreamUnavailable},
		{name: "plain error", err: cause, want: nil},
		{name: "nil", err: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(UpstreamUnavailable, cause, "Weather service unavailable", "forecast request failed")

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, UpstreamUnavailable))
	assert.False(t, errors.Is(err, NotFound))
	assert.Contains(t, err.Error(), "boom")
}

func TestDescribe(t *testing.T) {
	err := fmt.Errorf("create: %w", New(InvalidInput, "Invalid date range", "date range cannot exceed 365 days"))

	title, msg, ok := Describe(err)
	assert.True(t, ok)
	assert.Equal(t, "Invalid date range", title)
	assert.Equal(t, "date range cannot exceed 365 days", msg)

	_, _, ok = Describe(errors.New("plain"))
	assert.False(t, ok)
}
