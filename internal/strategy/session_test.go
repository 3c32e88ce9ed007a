package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrentSession(t *testing.T) {
	tests := []struct {
		hour     int
		expected Session
	}{
		{0, SessionAsian},
		{3, SessionAsian},
		{7, SessionAsian},
		{8, SessionEuropean},
		{12, SessionEuropean},
		{15, SessionEuropean},
		{16, SessionUS},
		{20, SessionUS},
		{23, SessionUS},
	}

	for _, tt := range tests {
		at := time.Date(2026, 3, 10, tt.hour, 30, 0, 0, time.UTC)
		assert.Equal(t, tt.expected, CurrentSession(at), "hour %d", tt.hour)
	}
}

func TestCurrentSession_ConvertsToUTC(t *testing.T) {
	// 20:00 in UTC+8 is 12:00 UTC, the European session.
	loc := time.FixedZone("UTC+8", 8*3600)
	at := time.Date(2026, 3, 10, 20, 0, 0, 0, loc)

	assert.Equal(t, SessionEuropean, CurrentSession(at))
}

func TestSessionAllowed(t *testing.T) {
	asian := time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)
	us := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)

	assert.True(t, sessionAllowed(nil, asian), "empty allow-list permits everything")
	assert.True(t, sessionAllowed([]Session{SessionAsian, SessionUS}, asian))
	assert.True(t, sessionAllowed([]Session{SessionAsian, SessionUS}, us))
	assert.False(t, sessionAllowed([]Session{SessionEuropean}, us))
}
