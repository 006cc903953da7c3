package search

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOfUsesOwnLocation(t *testing.T) {
	// 00:30 on Jan 2 in UTC+5 is still Jan 1 in UTC.
	loc := time.FixedZone("UTC+5", 5*60*60)
	local := time.Date(2024, time.January, 2, 0, 30, 0, 0, loc)

	assert.Equal(t, "2024-01-02", DateOf(local).String())
	assert.Equal(t, "2024-01-01", DateOf(local.UTC()).String())
}

func TestYesterday(t *testing.T) {
	tests := []struct {
		now      time.Time
		expected string
	}{
		{time.Date(2024, time.March, 10, 15, 0, 0, 0, time.UTC), "2024-03-09"},
		{time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), "2024-02-29"},
		{time.Date(2025, time.January, 1, 8, 0, 0, 0, time.UTC), "2024-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, Yesterday(tt.now).String())
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2023-11-07")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2023, Month: time.November, Day: 7}, d)

	for _, bad := range []string{"", "2023-13-01", "07/11/2023", "2023-11-07T00:00:00Z"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestDateBefore(t *testing.T) {
	a := Date{Year: 2024, Month: time.May, Day: 1}
	assert.True(t, a.Before(a.AddDays(1)))
	assert.False(t, a.Before(a))
	assert.False(t, a.AddDays(1).Before(a))
}

func TestDateTextRoundTrip(t *testing.T) {
	type wrapper struct {
		Since Date `json:"since"`
	}

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"since":"2024-06-30"}`), &w))
	assert.Equal(t, "2024-06-30", w.Since.String())

	out, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, `{"since":"2024-06-30"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"since":"yesterday"}`), &w))
}
