package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-1, 0, 1))
	assert.Equal(t, 1.0, Clamp(3, 0, 1))
	assert.Equal(t, 0.5, Clamp(0.5, 0, 1))
}

func TestNonNegative(t *testing.T) {
	assert.Equal(t, 0.0, NonNegative(-4))
	assert.Equal(t, 0.0, NonNegative(math.NaN()))
	assert.Equal(t, 12.5, NonNegative(12.5))
}

func TestSaturate(t *testing.T) {
	assert.Equal(t, 10.0, Saturate(math.Inf(1), 10))
	assert.Equal(t, -10.0, Saturate(math.Inf(-1), 10))
	assert.Equal(t, 0.0, Saturate(math.NaN(), 10))
	huge := 1.5e308
	assert.Equal(t, 10.0, Saturate(huge*1.5, 10))
	assert.Equal(t, -3.5, Saturate(-3.5, 10))
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 0.34, RoundTo(0.342, 2))
	assert.Equal(t, 1352.0, RoundTo(1351.6, 0))
}

func TestCeilDiv(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		divisor float64
		want    int
	}{
		{"exact multiple", 2170, 21.7, 100},
		{"just above", 2171, 21.7, 101},
		{"zero", 0, 21.7, 0},
		{"fraction", 0.3, 21.7, 1},
		{"zero divisor", 10, 0, 0},
		{"infinite", math.Inf(1), 21.7, math.MaxInt},
		{"negative infinite", math.Inf(-1), 21.7, math.MinInt},
		{"beyond int range", 1.5e308, 21.7, math.MaxInt},
		{"not a number", math.NaN(), 21.7, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CeilDiv(tt.value, tt.divisor))
		})
	}
}
