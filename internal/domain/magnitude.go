package domain

// damageMultipliers maps PROPDMGEXP/CROPDMGEXP codes to dollar multipliers.
// Uppercase "H" is intentionally absent; it is multiplier 1 like every other
// unmapped code.
var damageMultipliers = map[string]float64{
	"B": 1e9,
	"M": 1e6,
	"m": 1e6,
	"K": 1e3,
	"k": 1e3,
	"h": 1e2,
}

// NormalizeDamage converts a damage coefficient and its magnitude code into
// dollars. Unrecognized codes, including the empty string, leave the
// coefficient unchanged.
func NormalizeDamage(coefficient float64, unit string) float64 {
	if mult, ok := damageMultipliers[unit]; ok {
		return coefficient * mult
	}
	return coefficient
}
