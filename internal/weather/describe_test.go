package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "Clear sky"},
		{3, "Overcast"},
		{45, "Foggy"},
		{57, "Dense freezing drizzle"},
		{65, "Heavy rain"},
		{77, "Snow grains"},
		{82, "Violent rain showers"},
		{99, "Thunderstorm with heavy hail"},
		{4, "Unknown"},
		{-1, "Unknown"},
		{100, "Unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Describe(tt.code), "code %d", tt.code)
	}
}

func TestDescribe_Total(t *testing.T) {
	for code := -50; code <= 200; code++ {
		got := Describe(code)
		assert.NotEmpty(t, got)
		if _, known := wmoDescriptions[code]; !known {
			assert.Equal(t, UnknownDescription, got)
		}
	}
}
