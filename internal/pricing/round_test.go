package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Simplici0/limonero/internal/domain"
)

func TestSmartRound(t *testing.T) {
	tests := []struct {
		price float64
		dir   Direction
		want  float64
	}{
		{5554.5, Up, 5600},
		{5554.5, Down, 5500},
		{5600, Up, 5700},
		{5600, Down, 5500},
		{0, Up, 100},
		{0, Down, 0},
		{50, Down, 0},
		{100, Down, 0},
		{0.1, Up, 100},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, SmartRound(tt.price, tt.dir, DefaultStep), 1e-9, "%v %s", tt.price, tt.dir)
	}
}

func TestSmartRoundProgressesByStep(t *testing.T) {
	price := 1234.56
	up := SmartRound(price, Up, 100)
	assert.Greater(t, up, price)
	for i := 0; i < 5; i++ {
		next := SmartRound(up, Up, 100)
		assert.InDelta(t, up+100, next, 1e-9)
		up = next
	}

	down := SmartRound(price, Down, 100)
	assert.Less(t, down, price)
	next := SmartRound(down, Down, 100)
	assert.InDelta(t, down-100, next, 1e-9)
}

func TestSmartRoundDecimalSteps(t *testing.T) {
	assert.InDelta(t, 0.3, SmartRound(0.2, Up, 0.1), 1e-9)
	assert.InDelta(t, 12.5, SmartRound(12.3, Up, 0.5), 1e-9)
}

func TestSmartRoundNonPositiveStepFallsBack(t *testing.T) {
	assert.InDelta(t, 300, SmartRound(250, Up, 0), 1e-9)
	assert.InDelta(t, 200, SmartRound(250, Down, -5), 1e-9)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection(" UP ")
	assert.NoError(t, err)
	assert.Equal(t, Up, d)

	_, err = ParseDirection("sideways")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSmartRoundNonFinite(t *testing.T) {
	assert.True(t, math.IsInf(SmartRound(math.Inf(1), Up, DefaultStep), 1))
	assert.True(t, math.IsInf(SmartRound(math.Inf(-1), Down, DefaultStep), -1))
	assert.True(t, math.IsNaN(SmartRound(math.NaN(), Up, DefaultStep)))
	assert.Equal(t, 200.0, SmartRound(150, Up, math.Inf(1)))
}

func TestOverflowingJobIsNotFinite(t *testing.T) {
	in := ParseJobForm(JobForm{Weight: "1e307"})
	res := ComputeCost(in, domain.DefaultCostConfig())
	assert.False(t, res.Finite())
	assert.NotPanics(t, func() { SmartRound(res.Totals.SalePrice, Up, DefaultStep) })

	ref := ComputeCost(JobInput{Hours: 2, WeightGrams: 100}, domain.DefaultCostConfig())
	assert.True(t, ref.Finite())
}
