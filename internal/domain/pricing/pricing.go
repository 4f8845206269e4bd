// Package pricing derives stock totals, invested capital, profit and sale totals.
// Every monetary result is rounded half away from zero to two places; quantities are never rounded.
package pricing

import "github.com/shopspring/decimal"

const moneyPlaces = 2

// Totals are the derived figures of one acquired batch.
type Totals struct {
	TotalUnits    decimal.Decimal
	TotalInvested decimal.Decimal
	TotalProfit   decimal.Decimal
}

// Money rounds a monetary amount to cents.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

// Pack computes the totals of a batch bought as packs and sold per unit.
func Pack(packQuantity, productsPerPack int64, buyPricePerPack, sellPricePerUnit decimal.Decimal) Totals {
	units := decimal.NewFromInt(packQuantity).Mul(decimal.NewFromInt(productsPerPack))
	invested := decimal.NewFromInt(packQuantity).Mul(buyPricePerPack)
	profit := sellPricePerUnit.Mul(units).Sub(invested)
	return Totals{
		TotalUnits:    units,
		TotalInvested: Money(invested),
		TotalProfit:   Money(profit),
	}
}

// Weight computes the totals of a batch bought and sold by weight.
func Weight(totalWeight, buyPricePerUnit, sellPricePerUnit decimal.Decimal) Totals {
	invested := totalWeight.Mul(buyPricePerUnit)
	profit := sellPricePerUnit.Mul(totalWeight).Sub(invested)
	return Totals{
		TotalUnits:    totalWeight,
		TotalInvested: Money(invested),
		TotalProfit:   Money(profit),
	}
}

type LineInput struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

type LineTotal struct {
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

type SaleTotals struct {
	Lines       []LineTotal
	TotalAmount decimal.Decimal
	TotalItems  decimal.Decimal
}

// Sale totals each line and the order. TotalAmount is the sum of the rounded
// line totals so it always equals what the lines display; TotalItems may be
// fractional when weight products are sold.
func Sale(lines []LineInput) SaleTotals {
	out := SaleTotals{
		Lines:       make([]LineTotal, 0, len(lines)),
		TotalAmount: decimal.Zero,
		TotalItems:  decimal.Zero,
	}
	for _, l := range lines {
		total := Money(l.Quantity.Mul(l.UnitPrice))
		out.Lines = append(out.Lines, LineTotal{
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			TotalPrice: total,
		})
		out.TotalAmount = out.TotalAmount.Add(total)
		out.TotalItems = out.TotalItems.Add(l.Quantity)
	}
	out.TotalAmount = Money(out.TotalAmount)
	return out
}

// Average divides total by count, rounded to cents. Zero count yields zero.
func Average(total decimal.Decimal, count int) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return Money(total.Div(decimal.NewFromInt(int64(count))))
}
