package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}

func TestPack(t *testing.T) {
	cases := []struct {
		name                    string
		packs, perPack          int64
		buy, sell               string
		units, invested, profit string
	}{
		{"cookies", 5, 8, "10.00", "1.50", "40", "50.00", "10.00"},
		{"loss", 2, 12, "30.00", "2.00", "24", "60.00", "-12.00"},
		{"rounding", 3, 7, "10.333", "1.999", "21", "31.00", "10.98"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Pack(tc.packs, tc.perPack, d(tc.buy), d(tc.sell))
			assertDecimal(t, tc.units, got.TotalUnits)
			assertDecimal(t, tc.invested, got.TotalInvested)
			assertDecimal(t, tc.profit, got.TotalProfit)
		})
	}
}

func TestWeight(t *testing.T) {
	got := Weight(d("25.5"), d("2.50"), d("3.75"))
	assertDecimal(t, "25.5", got.TotalUnits)
	assertDecimal(t, "63.75", got.TotalInvested)
	assertDecimal(t, "31.88", got.TotalProfit)
}

func TestWeightPropertyMatchesFormula(t *testing.T) {
	for _, w := range []string{"0.1", "1", "2.345", "1000.5"} {
		for _, buy := range []string{"0.01", "1.99", "7.125"} {
			sell := d(buy).Add(d("0.37"))
			got := Weight(d(w), d(buy), sell)
			invested := d(w).Mul(d(buy))
			assertDecimal(t, invested.Round(2).String(), got.TotalInvested, w, buy)
			assertDecimal(t, sell.Mul(d(w)).Sub(invested).Round(2).String(), got.TotalProfit, w, buy)
		}
	}
}

func TestSale(t *testing.T) {
	got := Sale([]LineInput{
		{Quantity: d("4"), UnitPrice: d("2.00")},
		{Quantity: d("1.25"), UnitPrice: d("3.333")},
	})

	if assert.Len(t, got.Lines, 2) {
		assertDecimal(t, "8.00", got.Lines[0].TotalPrice)
		assertDecimal(t, "4.17", got.Lines[1].TotalPrice)
	}
	assertDecimal(t, "12.17", got.TotalAmount)
	assertDecimal(t, "5.25", got.TotalItems)
}

func TestSaleEmpty(t *testing.T) {
	got := Sale(nil)
	assert.Empty(t, got.Lines)
	assert.True(t, got.TotalAmount.IsZero())
	assert.True(t, got.TotalItems.IsZero())
}

func TestAverage(t *testing.T) {
	assertDecimal(t, "3.33", Average(d("10"), 3))
	assertDecimal(t, "0", Average(d("10"), 0))
}
