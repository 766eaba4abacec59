package forecast

import (
	"time"

	"github.com/pbandrade/fiimonitor-backend/internal/domain"
)

// CurrentMonth projects the distribution payment for the month of the given
// reference date from an instrument's dividend history.
// Logic:
//  1. No history -> not available
//  2. If any record falls in the reference month, the most recent of those is
//     the forecast (the payment may already have occurred this month)
//  3. Otherwise the most recent record strictly before the reference month is
//     carried forward as the best available proxy
//  4. No record in or before the month -> not available
//
// The reference date is passed explicitly so the result is deterministic and
// testable without wall-clock dependence. The history slice is scanned, never
// reordered: calling twice with the same inputs yields the same result.
func CurrentMonth(history []domain.DividendRecord, reference time.Time) domain.PaymentForecast {
	if len(history) == 0 {
		return domain.PaymentForecast{}
	}

	year, month := reference.Year(), reference.Month()

	var inMonth, before *domain.DividendRecord
	for i := range history {
		rec := &history[i]
		switch {
		case rec.PaymentDate.Year() == year && rec.PaymentDate.Month() == month:
			if inMonth == nil || rec.PaymentDate.After(inMonth.PaymentDate) {
				inMonth = rec
			}
		case beforeMonth(rec.PaymentDate, year, month):
			if before == nil || rec.PaymentDate.After(before.PaymentDate) {
				before = rec
			}
		}
	}

	if inMonth != nil {
		return domain.PaymentForecast{Value: inMonth.Value, Available: true}
	}
	if before != nil {
		return domain.PaymentForecast{Value: before.Value, Available: true}
	}
	return domain.PaymentForecast{}
}

// beforeMonth reports whether d falls strictly before the first day of the
// given year and month.
func beforeMonth(d time.Time, year int, month time.Month) bool {
	if d.Year() != year {
		return d.Year() < year
	}
	return d.Month() < month
}
