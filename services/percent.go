package services

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// Percentage returns completed*100/total rounded half away from zero to one
// decimal place, or nil when total is zero.
func Percentage(completed, total int64) *float64 {
	if total <= 0 {
		return nil
	}
	pct := decimal.NewFromInt(completed).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		Round(1).
		InexactFloat64()
	return &pct
}

// HealthScore is the whole-number share of completed critical items. With no
// critical items at all the score is 100.
func HealthScore(completedCritical, totalCritical int64) int64 {
	if totalCritical <= 0 {
		return 100
	}
	return decimal.NewFromInt(completedCritical).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(totalCritical)).
		Round(0).
		IntPart()
}

// bucket is a count of timestamps sharing one formatted key
type bucket struct {
	key   string
	count int64
}

// bucketize groups ascending timestamps by their UTC layout key, preserving order
func bucketize(times []time.Time, layout string) []bucket {
	buckets := make([]bucket, 0)
	for _, t := range times {
		key := t.UTC().Format(layout)
		if n := len(buckets); n > 0 && buckets[n-1].key == key {
			buckets[n-1].count++
			continue
		}
		buckets = append(buckets, bucket{key: key, count: 1})
	}
	return buckets
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysAgo(now time.Time, days int) time.Time {
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}
