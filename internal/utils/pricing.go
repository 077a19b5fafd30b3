package utils

import (
	"github.com/shopspring/decimal"

	"motorent-backend/internal/domain"
)

var one = decimal.NewFromInt(1)

// Quote prices a stay of [start, end] inclusive on the given vehicle. The
// nightly rate is multiplied by the inclusive day count, reduced by the
// longest qualifying discount tier, then loaded with the vehicle's insurance
// rate when requested. Pure; no side effects.
func Quote(v *domain.Vehicle, start, end domain.Date, insurance bool) (decimal.Decimal, error) {
	days := domain.InclusiveDays(start, end)
	if days <= 0 {
		return decimal.Zero, domain.ValidationError{Field: "end", Msg: "end date must not precede start date"}
	}

	fee := v.DailyRate.Mul(decimal.NewFromInt(int64(days)))
	fee = fee.Mul(one.Sub(v.DiscountFor(days)))
	if insurance {
		fee = fee.Add(fee.Mul(v.InsuranceRate))
	}
	return fee.Round(2), nil
}

// LateFee charges the flat per-day penalty for every day past the agreed
// end date. It is computed separately from the re-quoted stay and reported
// additively at return time.
func LateFee(originalEnd, today domain.Date, dailyPenalty decimal.Decimal) decimal.Decimal {
	lateDays := domain.DaysBetween(originalEnd, today)
	if lateDays <= 0 {
		return decimal.Zero
	}
	return dailyPenalty.Mul(decimal.NewFromInt(int64(lateDays))).Round(2)
}

// ReturnQuote re-prices the whole stay as actually kept: the effective end
// is the later of today and the agreed end, so keeping the vehicle past the
// plan re-prices the full duration and a longer discount tier may newly
// apply. Returns the actual fee and the separate late fee.
func ReturnQuote(v *domain.Vehicle, r *domain.Rental, today domain.Date, dailyPenalty decimal.Decimal) (actual, late decimal.Decimal, err error) {
	effectiveEnd := domain.MaxDate(today, r.End)
	actual, err = Quote(v, r.Start, effectiveEnd, r.Insurance)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return actual, LateFee(r.End, today, dailyPenalty), nil
}
