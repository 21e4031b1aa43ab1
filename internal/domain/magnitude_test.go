package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDamage(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		expected float64
	}{
		{"billions", "B", 5e9},
		{"millions upper", "M", 5e6},
		{"millions lower", "m", 5e6},
		{"thousands upper", "K", 5000},
		{"thousands lower", "k", 5000},
		{"hundreds lower", "h", 500},
		{"hundreds upper is not mapped", "H", 5},
		{"empty", "", 5},
		{"whitespace", " ", 5},
		{"digit", "5", 5},
		{"plus", "+", 5},
		{"question mark", "?", 5},
		{"unknown letter", "x", 5},
		{"lowercase b is not mapped", "b", 5},
		{"padded code is not trimmed", "K ", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeDamage(5, tt.unit))
		})
	}
}

func TestNormalizeDamage_ZeroAndFractional(t *testing.T) {
	assert.Equal(t, 0.0, NormalizeDamage(0, "B"))
	assert.InDelta(t, 2500.0, NormalizeDamage(2.5, "K"), 1e-9)
}

func TestEventRecord_DamageAccessors(t *testing.T) {
	rec := EventRecord{
		PropertyDamageCoefficient: 25,
		PropertyDamageUnit:        "K",
		CropDamageCoefficient:     1.5,
		CropDamageUnit:            "M",
	}
	assert.Equal(t, 25000.0, rec.PropertyDamage())
	assert.Equal(t, 1.5e6, rec.CropDamage())
}
