package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func cookies() PackAttributes {
	return PackAttributes{
		Name:             "Cookies",
		PackQuantity:     5,
		ProductsPerPack:  8,
		BuyPricePerPack:  d("10.00"),
		SellPricePerUnit: d("1.50"),
	}
}

func TestNewPack(t *testing.T) {
	p := NewPack("p-1", "owner-1", cookies())

	assert.Equal(t, KindPack, p.Kind)
	require.NotNil(t, p.Pack)
	assert.Nil(t, p.Weight)
	assert.True(t, p.TotalUnits.Equal(d("40")))
	assert.True(t, p.TotalInvested.Equal(d("50.00")))
	assert.True(t, p.TotalProfit.Equal(d("10.00")))
	assert.True(t, p.CurrentStock.IsZero())
	assert.False(t, p.CreatedAt.IsZero())
}

func TestNewWeight(t *testing.T) {
	p := NewWeight("p-2", "owner-1", WeightAttributes{
		Name:             "Rice",
		WeightUnit:       UnitKilogram,
		TotalWeight:      d("25.5"),
		BuyPricePerUnit:  d("2.50"),
		SellPricePerUnit: d("3.75"),
	})

	assert.Equal(t, KindWeight, p.Kind)
	require.NotNil(t, p.Weight)
	assert.Equal(t, UnitKilogram, p.Weight.Unit)
	assert.True(t, p.TotalUnits.Equal(d("25.5")))
	assert.True(t, p.TotalInvested.Equal(d("63.75")))
	assert.True(t, p.TotalProfit.Equal(d("31.88")))
}

func TestApplyPackKeepsStock(t *testing.T) {
	p := NewPack("p-1", "owner-1", cookies())
	p.CurrentStock = d("12")

	attrs := cookies()
	attrs.Name = "Cookies XL"
	attrs.PackQuantity = 10
	require.NoError(t, p.ApplyPack(attrs))

	assert.Equal(t, "Cookies XL", p.Name)
	assert.True(t, p.TotalUnits.Equal(d("80")))
	assert.True(t, p.TotalInvested.Equal(d("100.00")))
	assert.True(t, p.CurrentStock.Equal(d("12")))
}

func TestApplyKindMismatch(t *testing.T) {
	p := NewPack("p-1", "owner-1", cookies())
	err := p.ApplyWeight(WeightAttributes{Name: "Rice", WeightUnit: UnitPound, TotalWeight: d("1"), BuyPricePerUnit: d("1"), SellPricePerUnit: d("1")})
	assert.ErrorIs(t, err, ErrKindMismatch)
	assert.Equal(t, "Cookies", p.Name)
}

func TestNormalizeTrimsName(t *testing.T) {
	a := cookies()
	a.Name = "  Cookies \t"
	assert.Equal(t, "Cookies", a.Normalize().Name)
}

func TestCloneIsDeep(t *testing.T) {
	p := NewPack("p-1", "owner-1", cookies())
	cp := p.Clone()
	cp.Pack.PackQuantity = 99
	cp.Name = "other"

	assert.Equal(t, int64(5), p.Pack.PackQuantity)
	assert.Equal(t, "Cookies", p.Name)
}
