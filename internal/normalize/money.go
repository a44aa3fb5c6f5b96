package normalize

import "math"

// PercentOfCents applies a basis-point percentage to an amount in cents,
// rounding half-up. e.g. PercentOfCents(5000, 2000) = 1000 (20% of $50).
func PercentOfCents(cents int64, bps int32) int64 {
	if cents <= 0 || bps <= 0 {
		return 0
	}
	return (cents*int64(bps) + 5000) / 10000
}

// RatioPercent returns part/whole as a percentage in [0,100]. ok is false
// when the denominator is zero, which callers must treat as "ratio
// undefined, skip this check".
func RatioPercent(part, whole int64) (float64, bool) {
	if whole == 0 {
		return 0, false
	}
	return float64(part) / float64(whole) * 100, true
}

// PerUnitCents divides a line charge across its units, rounding half-up.
// ok is false when units is zero.
func PerUnitCents(chargeCents, units int64) (int64, bool) {
	if units <= 0 {
		return 0, false
	}
	return (chargeCents + units/2) / units, true
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DollarsToCents converts a nullable float64 dollar amount to nullable int64
// cents. Uses math.Round to avoid truncation bias.
func DollarsToCents(v *float64) *int64 {
	if v == nil {
		return nil
	}
	c := int64(math.Round(*v * 100))
	return &c
}
