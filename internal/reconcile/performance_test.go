package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bortal/bortal-go/internal/models"
)

func TestWindowDailyValues(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	series := []models.DailyValue{
		{Date: "2025-06-01", Value: 15000},
		{Date: "2026-02-01", Value: 18000},
		{Date: "2026-08-01", Value: 21000},
		{Date: "2026-08-25", Value: 22800},
	}

	cases := []struct {
		frame models.TimeFrame
		want  int
	}{
		{models.TimeFrameWeek, 1},
		{models.TimeFrameMonth, 2},
		{models.TimeFrameThreeMonth, 2},
		{models.TimeFrameYear, 3},
		{models.TimeFrameAll, 4},
	}

	for _, tc := range cases {
		t.Run(string(tc.frame), func(t *testing.T) {
			got := WindowDailyValues(series, tc.frame, now)
			assert.Len(t, got, tc.want)
		})
	}
}

func TestWindowDailyValuesBoundary(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	// Exactly on the cutoff is kept.
	series := []models.DailyValue{{Date: "2026-08-21", Value: 100}}
	got := WindowDailyValues(series, models.TimeFrameWeek, now)
	require.Len(t, got, 1)

	// One day past the cutoff is dropped.
	series = []models.DailyValue{{Date: "2026-08-20", Value: 100}}
	assert.Empty(t, WindowDailyValues(series, models.TimeFrameWeek, now))
}

func TestWindowDailyValuesDropsUnparseableDates(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	series := []models.DailyValue{
		{Date: "not-a-date", Value: 1},
		{Date: "2026-08-27", Value: 2},
	}

	got := WindowDailyValues(series, models.TimeFrameWeek, now)
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].Value)
}

func TestWindowDailyValuesAllPassesThroughUnparsed(t *testing.T) {
	series := []models.DailyValue{{Date: "whatever", Value: 1}}
	assert.Equal(t, series, WindowDailyValues(series, models.TimeFrameAll, time.Now()))
}
