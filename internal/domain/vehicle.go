package domain

import "github.com/shopspring/decimal"

type VehicleStatus string

const (
	VehicleStatusAvailable        VehicleStatus = "AVAILABLE"
	VehicleStatusReserved         VehicleStatus = "RESERVED"
	VehicleStatusRented           VehicleStatus = "RENTED"
	VehicleStatusUnderMaintenance VehicleStatus = "UNDER_MAINTENANCE"
	VehicleStatusOutOfService     VehicleStatus = "OUT_OF_SERVICE"
)

// StatusOverride is an explicit administrative status pin. While set, the
// automatic recomputation never changes the vehicle's status; only an admin
// command clears it.
type StatusOverride string

const (
	OverrideNone             StatusOverride = ""
	OverrideUnderMaintenance StatusOverride = "UNDER_MAINTENANCE"
	OverrideOutOfService     StatusOverride = "OUT_OF_SERVICE"
)

type VehicleType string

const (
	VehicleTypeCar        VehicleType = "CAR"
	VehicleTypeVan        VehicleType = "VAN"
	VehicleTypeSUV        VehicleType = "SUV"
	VehicleTypeMotorcycle VehicleType = "MOTORCYCLE"
	VehicleTypeTruck      VehicleType = "TRUCK"
)

type FuelType string

const (
	FuelPetrol   FuelType = "PETROL"
	FuelDiesel   FuelType = "DIESEL"
	FuelHybrid   FuelType = "HYBRID"
	FuelElectric FuelType = "ELECTRIC"
)

// DiscountTier grants a price reduction once a rental reaches MinDays.
// The longest qualifying tier wins.
type DiscountTier struct {
	MinDays  int             `json:"min_days"`
	Fraction decimal.Decimal `json:"fraction"`
}

// BookedInterval is one occupied [Start, End] range in a vehicle's ledger,
// both endpoints inclusive. The service-gap buffer is applied at conflict
// check time, not stored here.
type BookedInterval struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

type Vehicle struct {
	ID            int64           `json:"id"`
	Plate         string          `json:"plate"`
	Brand         string          `json:"brand"`
	Model         string          `json:"model"`
	Type          VehicleType     `json:"type"`
	Fuel          FuelType        `json:"fuel"`
	DailyRate     decimal.Decimal  `json:"daily_rate"`
	InsuranceRate decimal.Decimal  `json:"insurance_rate"`
	DiscountTiers []DiscountTier   `json:"discount_tiers"`
	Intervals     []BookedInterval `json:"intervals"`
	Status        VehicleStatus    `json:"status"`
	Override      StatusOverride   `json:"override,omitempty"`
	Archived      bool             `json:"archived,omitempty"`
	CreatedOn     string           `json:"created_on"`
}

// Label returns the human-facing identifier used in notifications and
// rendered tickets.
func (v *Vehicle) Label() string {
	return v.Brand + " " + v.Model + " (" + v.Plate + ")"
}

// DiscountFor returns the fraction of the longest qualifying tier for the
// given rental length, or zero when no tier applies.
func (v *Vehicle) DiscountFor(days int) decimal.Decimal {
	best := decimal.Zero
	bestMin := -1
	for _, tier := range v.DiscountTiers {
		if days >= tier.MinDays && tier.MinDays > bestMin {
			best = tier.Fraction
			bestMin = tier.MinDays
		}
	}
	return best
}

// IntervalsClash reports whether [aStart, aEnd] collides with
// [bStart, bEnd] once b is padded by bufferDays on both sides. The ranges
// are clear of each other only when a ends strictly before the padded start
// or begins strictly after the padded end.
func IntervalsClash(aStart, aEnd, bStart, bEnd Date, bufferDays int) bool {
	paddedStart := bStart.AddDays(-bufferDays)
	paddedEnd := bEnd.AddDays(bufferDays)
	return !aEnd.Before(paddedStart) && !aStart.After(paddedEnd)
}

// Adjacent reports whether the two inclusive ranges touch back to back,
// i.e. one begins the day after the other ends.
func Adjacent(aStart, aEnd, bStart, bEnd Date) bool {
	return aStart.Equal(bEnd.AddDays(1)) || aEnd.Equal(bStart.AddDays(-1))
}

// Reserve records an occupied interval in the vehicle's ledger.
func (v *Vehicle) Reserve(start, end Date) {
	v.Intervals = append(v.Intervals, BookedInterval{Start: start, End: end})
}

// Release removes the matching interval from the ledger. Releasing an
// interval that is not present is a no-op, so double cancel and double
// return are harmless.
func (v *Vehicle) Release(start, end Date) {
	for i, iv := range v.Intervals {
		if iv.Start.Equal(start) && iv.End.Equal(end) {
			v.Intervals = append(v.Intervals[:i], v.Intervals[i+1:]...)
			return
		}
	}
}

// HasFutureInterval reports whether any ledger interval ends on or after
// the given day.
func (v *Vehicle) HasFutureInterval(today Date) bool {
	for _, iv := range v.Intervals {
		if !iv.End.Before(today) {
			return true
		}
	}
	return false
}
