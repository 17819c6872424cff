package decimalx

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSum(t *testing.T) {
	total := Sum([]decimal.Decimal{dec("0.25"), dec("0.33"), dec("1")})
	require.True(t, dec("1.58").Equal(total))
}

func TestSumEmpty(t *testing.T) {
	require.True(t, Zero.Equal(Sum(nil)))
}

func TestAverage(t *testing.T) {
	avg := Average([]decimal.Decimal{dec("3"), dec("4")})
	require.True(t, dec("3.5").Equal(avg))
}

func TestAverageEmptyIsZero(t *testing.T) {
	require.True(t, Zero.Equal(Average(nil)))
}

func TestClamp(t *testing.T) {
	lo, hi := dec("0"), dec("4")
	require.True(t, lo.Equal(Clamp(dec("-1"), lo, hi)))
	require.True(t, hi.Equal(Clamp(dec("5"), lo, hi)))
	require.True(t, dec("2").Equal(Clamp(dec("2"), lo, hi)))
}
