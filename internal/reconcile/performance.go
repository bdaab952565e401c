package reconcile

import (
	"time"

	"github.com/bortal/bortal-go/internal/models"
)

const dateLayout = "2006-01-02"

// WindowDailyValues filters a daily value series to the trailing window of the
// given time frame, comparing each entry's date against now minus N days.
// Unparseable dates are dropped rather than guessed at. TimeFrameAll returns
// the series unchanged.
func WindowDailyValues(series []models.DailyValue, tf models.TimeFrame, now time.Time) []models.DailyValue {
	days := tf.Days()
	if days == 0 {
		return series
	}

	cutoff := now.AddDate(0, 0, -days)

	filtered := make([]models.DailyValue, 0, len(series))
	for _, dv := range series {
		date, err := time.Parse(dateLayout, dv.Date)
		if err != nil {
			continue
		}
		if !date.Before(cutoff) {
			filtered = append(filtered, dv)
		}
	}
	return filtered
}
