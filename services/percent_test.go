package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		completed, total int64
		want             float64
	}{
		{1, 3, 33.3},
		{2, 3, 66.7},
		{0, 5, 0},
		{1, 8, 12.5},
		{5, 5, 100},
		{1, 16, 6.3},
	}
	for _, tt := range tests {
		got := Percentage(tt.completed, tt.total)
		require.NotNil(t, got)
		assert.Equal(t, tt.want, *got, "%d/%d", tt.completed, tt.total)
	}

	assert.Nil(t, Percentage(0, 0))
}

func TestHealthScore(t *testing.T) {
	assert.EqualValues(t, 100, HealthScore(0, 0))
	assert.EqualValues(t, 0, HealthScore(0, 4))
	assert.EqualValues(t, 25, HealthScore(1, 4))
	assert.EqualValues(t, 67, HealthScore(2, 3))
	assert.EqualValues(t, 100, HealthScore(3, 3))
}

func TestBucketize(t *testing.T) {
	day := time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)
	times := []time.Time{
		day,
		day.Add(10 * time.Minute),
		day.Add(2 * time.Hour),
		day.AddDate(0, 1, 0),
	}

	daily := bucketize(times, dateLayout)
	assert.Equal(t, []bucket{{"2026-03-01", 2}, {"2026-03-02", 1}, {"2026-04-01", 1}}, daily)

	monthly := bucketize(times, monthLayout)
	assert.Equal(t, []bucket{{"2026-03", 3}, {"2026-04", 1}}, monthly)

	assert.Empty(t, bucketize(nil, dateLayout))
}
