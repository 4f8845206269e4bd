package httppresentation

import (
	"time"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/application/sales"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/page"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/product"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/sale"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/stock"
	"github.com/shopspring/decimal"
)

type productJSON struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Kind             product.Kind     `json:"kind"`
	PackQuantity     *int64           `json:"packQuantity,omitempty"`
	ProductsPerPack  *int64           `json:"productsPerPack,omitempty"`
	BuyPricePerPack  *decimal.Decimal `json:"buyPricePerPack,omitempty"`
	WeightUnit       string           `json:"weightUnit,omitempty"`
	TotalWeight      *decimal.Decimal `json:"totalWeight,omitempty"`
	BuyPricePerUnit  *decimal.Decimal `json:"buyPricePerUnit,omitempty"`
	SellPricePerUnit decimal.Decimal  `json:"sellPricePerUnit"`
	TotalUnits       decimal.Decimal  `json:"totalUnits"`
	TotalInvested    decimal.Decimal  `json:"totalInvested"`
	TotalProfit      decimal.Decimal  `json:"totalProfit"`
	CurrentStock     decimal.Decimal  `json:"currentStock"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

func toProductJSON(p *product.Product) productJSON {
	out := productJSON{
		ID:               p.ID,
		Name:             p.Name,
		Kind:             p.Kind,
		SellPricePerUnit: p.SellPricePerUnit,
		TotalUnits:       p.TotalUnits,
		TotalInvested:    p.TotalInvested,
		TotalProfit:      p.TotalProfit,
		CurrentStock:     p.CurrentStock,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	if p.Pack != nil {
		pack := *p.Pack
		out.PackQuantity = &pack.PackQuantity
		out.ProductsPerPack = &pack.ProductsPerPack
		out.BuyPricePerPack = &pack.BuyPricePerPack
	}
	if p.Weight != nil {
		w := *p.Weight
		out.WeightUnit = string(w.Unit)
		out.TotalWeight = &w.TotalWeight
		out.BuyPricePerUnit = &w.BuyPricePerUnit
	}
	return out
}

func toProductsJSON(items []*product.Product) []productJSON {
	out := make([]productJSON, 0, len(items))
	for _, p := range items {
		out = append(out, toProductJSON(p))
	}
	return out
}

type movementJSON struct {
	ID            string             `json:"id"`
	ProductID     string             `json:"productId"`
	Type          stock.MovementType `json:"type"`
	Quantity      decimal.Decimal    `json:"quantity"`
	PreviousStock decimal.Decimal    `json:"previousStock"`
	NewStock      decimal.Decimal    `json:"newStock"`
	Reason        string             `json:"reason"`
	Notes         string             `json:"notes,omitempty"`
	ActorName     string             `json:"actorName,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
}

func toMovementJSON(m *stock.Movement) movementJSON {
	return movementJSON{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		Reason:        m.Reason,
		Notes:         m.Notes,
		ActorName:     m.ActorName,
		CreatedAt:     m.CreatedAt,
	}
}

type saleLineJSON struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	ProductKind product.Kind    `json:"productKind"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

type saleJSON struct {
	ID          string          `json:"id"`
	SaleNumber  string          `json:"saleNumber"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	TotalItems  decimal.Decimal `json:"totalItems"`
	Status      sale.Status     `json:"status"`
	Notes       string          `json:"notes,omitempty"`
	Items       []saleLineJSON  `json:"items"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toSaleJSON(s *sale.Sale) saleJSON {
	out := saleJSON{
		ID:          s.ID,
		SaleNumber:  s.SaleNumber,
		TotalAmount: s.TotalAmount,
		TotalItems:  s.TotalItems,
		Status:      s.Status,
		Notes:       s.Notes,
		Items:       make([]saleLineJSON, 0, len(s.Lines)),
		CreatedAt:   s.CreatedAt,
	}
	for _, l := range s.Lines {
		out.Items = append(out.Items, saleLineJSON{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			ProductKind: l.ProductKind,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TotalPrice:  l.TotalPrice,
		})
	}
	return out
}

func toSalesJSON(items []*sale.Sale) []saleJSON {
	out := make([]saleJSON, 0, len(items))
	for _, s := range items {
		out = append(out, toSaleJSON(s))
	}
	return out
}

type summaryJSON struct {
	TotalSales     int             `json:"totalSales"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalItemsSold decimal.Decimal `json:"totalItemsSold"`
	AverageSale    decimal.Decimal `json:"averageSale"`
	RecentSales    []saleJSON      `json:"recentSales"`
}

func toSummaryJSON(s sales.Summary) summaryJSON {
	return summaryJSON{
		TotalSales:     s.TotalSales,
		TotalRevenue:   s.TotalRevenue,
		TotalItemsSold: s.TotalItemsSold,
		AverageSale:    s.AverageSale,
		RecentSales:    toSalesJSON(s.RecentSales),
	}
}

type shortageJSON struct {
	Index       int             `json:"index"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName,omitempty"`
	Available   decimal.Decimal `json:"available"`
	Requested   decimal.Decimal `json:"requested"`
}

func toShortageJSON(s sale.Shortage) shortageJSON {
	return shortageJSON{
		Index:       s.Index,
		ProductID:   s.ProductID,
		ProductName: s.ProductName,
		Available:   s.Available,
		Requested:   s.Requested,
	}
}

type pageJSON[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func toPageJSON[S, T any](res page.Result[S], conv func(S) T) pageJSON[T] {
	items := make([]T, 0, len(res.Items))
	for _, it := range res.Items {
		items = append(items, conv(it))
	}
	return pageJSON[T]{
		Items:      items,
		Page:       res.Page,
		Limit:      res.Limit,
		Total:      res.Total,
		TotalPages: res.TotalPages,
	}
}
