package strategy

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seriesFromCloses(t *testing.T, closes ...float64) Series {
	t.Helper()
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	series := make(Series, 0, len(closes))
	for i, close := range closes {
		series = append(series, PricePoint{
			Date:  start.AddDate(0, 0, i),
			Close: decimal.NewFromFloat(close),
		})
	}
	return series
}

func TestCrossoverInsufficientHistoryHolds(t *testing.T) {
	cross := Crossover{Fast: 2, Slow: 3}

	// Two closes give zero defined slow-SMA rows, three give one. Both are
	// short of the two rows a crossover needs.
	for _, closes := range [][]float64{{100, 101}, {100, 101, 102}} {
		sig, err := cross.Compute(seriesFromCloses(t, closes...))
		require.NoError(t, err)
		assert.Equal(t, Hold, sig)
	}
}

func TestCrossoverBuyOnBullishCross(t *testing.T) {
	// sma2: 99.5, 98.5, 100.5; sma3: 99, 100.
	// prev row: 98.5 <= 99, last row: 100.5 > 100 -> BUY.
	sig, err := Crossover{Fast: 2, Slow: 3}.Compute(seriesFromCloses(t, 100, 99, 98, 103))
	require.NoError(t, err)
	assert.Equal(t, Buy, sig)
}

func TestCrossoverSellOnBearishCross(t *testing.T) {
	// sma2: 100.5, 100, 98.5; sma3: 100, 99.33.
	// prev row is an exact tie (100 >= 100), last row 98.5 < 99.33 -> SELL.
	sig, err := Crossover{Fast: 2, Slow: 3}.Compute(seriesFromCloses(t, 100, 101, 99, 98))
	require.NoError(t, err)
	assert.Equal(t, Sell, sig)
}

func TestCrossoverTieOnBothRowsHolds(t *testing.T) {
	sig, err := Crossover{Fast: 2, Slow: 3}.Compute(seriesFromCloses(t, 100, 100, 100, 100))
	require.NoError(t, err)
	assert.Equal(t, Hold, sig)
}

func TestCrossoverUnchangedRelationHolds(t *testing.T) {
	// Fast stays below slow on both rows: no new cross, no signal.
	sig, err := Crossover{Fast: 2, Slow: 3}.Compute(seriesFromCloses(t, 100, 101, 99, 98, 97))
	require.NoError(t, err)
	assert.Equal(t, Hold, sig)
}

func TestCrossoverDeterministicSequence(t *testing.T) {
	// Walking the declining tail day by day: the bearish cross registers
	// exactly once, on the fourth close, and never again.
	closes := []float64{100, 101, 99, 98, 97, 96, 95, 94}
	expected := []Signal{Hold, Hold, Hold, Sell, Hold, Hold, Hold, Hold}

	cross := Crossover{Fast: 2, Slow: 3}
	for i := range closes {
		sig, err := cross.Compute(seriesFromCloses(t, closes[:i+1]...))
		require.NoError(t, err)
		assert.Equal(t, expected[i], sig, "close index %d", i)
	}
}

func TestCrossoverRejectsBadWindows(t *testing.T) {
	series := seriesFromCloses(t, 100, 101, 102)

	_, err := Crossover{Fast: 0, Slow: 3}.Compute(series)
	assert.Error(t, err)

	_, err = Crossover{Fast: 3, Slow: 3}.Compute(series)
	assert.Error(t, err)
}

func TestSeriesValidate(t *testing.T) {
	assert.Error(t, Series{}.Validate())

	series := seriesFromCloses(t, 100, 101)
	series[1].Date = series[0].Date
	assert.Error(t, series.Validate())

	assert.NoError(t, seriesFromCloses(t, 100, 101).Validate())
}
