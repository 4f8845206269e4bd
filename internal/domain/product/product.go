package product

import (
	"errors"
	"strings"
	"time"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("product: not found")
	ErrDuplicateName     = errors.New("product: name already exists")
	ErrKindMismatch      = errors.New("product: acquisition model mismatch")
	ErrNegativeStock     = errors.New("product: stock must not be negative")
	ErrInvalidQuantity   = errors.New("product: quantity must be greater than zero")
	ErrInsufficientStock = errors.New("product: insufficient stock")
)

type Kind string

const (
	KindPack   Kind = "PACK"
	KindWeight Kind = "WEIGHT"
)

type WeightUnit string

const (
	UnitKilogram WeightUnit = "kg"
	UnitPound    WeightUnit = "lb"
)

// PackSpec describes a batch bought as whole packs and sold per unit.
type PackSpec struct {
	PackQuantity    int64
	ProductsPerPack int64
	BuyPricePerPack decimal.Decimal
}

// WeightSpec describes a batch bought and sold by weight.
type WeightSpec struct {
	Unit            WeightUnit
	TotalWeight     decimal.Decimal
	BuyPricePerUnit decimal.Decimal
}

type Product struct {
	ID      string
	OwnerID string
	Name    string
	Kind    Kind

	// Exactly one of Pack and Weight is set, matching Kind.
	Pack   *PackSpec
	Weight *WeightSpec

	SellPricePerUnit decimal.Decimal
	TotalUnits       decimal.Decimal
	TotalInvested    decimal.Decimal
	TotalProfit      decimal.Decimal
	CurrentStock     decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PackAttributes is the input accepted when creating or updating a pack product.
type PackAttributes struct {
	Name             string          `json:"name" validate:"required,min=2"`
	PackQuantity     int64           `json:"packQuantity" validate:"gt=0"`
	ProductsPerPack  int64           `json:"productsPerPack" validate:"gt=0"`
	BuyPricePerPack  decimal.Decimal `json:"buyPricePerPack" validate:"gt=0"`
	SellPricePerUnit decimal.Decimal `json:"sellPricePerUnit" validate:"gt=0"`
}

// Normalize trims the name.
func (a PackAttributes) Normalize() PackAttributes {
	a.Name = strings.TrimSpace(a.Name)
	return a
}

// WeightAttributes is the input accepted when creating or updating a weight product.
type WeightAttributes struct {
	Name             string          `json:"name" validate:"required,min=2"`
	WeightUnit       WeightUnit      `json:"weightUnit" validate:"required,oneof=kg lb"`
	TotalWeight      decimal.Decimal `json:"totalWeight" validate:"gt=0"`
	BuyPricePerUnit  decimal.Decimal `json:"buyPricePerUnit" validate:"gt=0"`
	SellPricePerUnit decimal.Decimal `json:"sellPricePerUnit" validate:"gt=0"`
}

// Normalize trims the name.
func (a WeightAttributes) Normalize() WeightAttributes {
	a.Name = strings.TrimSpace(a.Name)
	return a
}

// NewPack builds a pack product with derived totals and zero stock.
// Attributes are expected to be normalized and validated.
func NewPack(id, ownerID string, a PackAttributes) *Product {
	now := time.Now().UTC()
	p := &Product{
		ID:           id,
		OwnerID:      ownerID,
		Kind:         KindPack,
		CurrentStock: decimal.Zero,
		CreatedAt:    now,
	}
	p.setPack(a, now)
	return p
}

// NewWeight builds a weight product with derived totals and zero stock.
func NewWeight(id, ownerID string, a WeightAttributes) *Product {
	now := time.Now().UTC()
	p := &Product{
		ID:           id,
		OwnerID:      ownerID,
		Kind:         KindWeight,
		CurrentStock: decimal.Zero,
		CreatedAt:    now,
	}
	p.setWeight(a, now)
	return p
}

// ApplyPack replaces the attributes of a pack product and recomputes its totals.
// Current stock is left untouched.
func (p *Product) ApplyPack(a PackAttributes) error {
	if p.Kind != KindPack {
		return ErrKindMismatch
	}
	p.setPack(a, time.Now().UTC())
	return nil
}

// ApplyWeight replaces the attributes of a weight product and recomputes its totals.
func (p *Product) ApplyWeight(a WeightAttributes) error {
	if p.Kind != KindWeight {
		return ErrKindMismatch
	}
	p.setWeight(a, time.Now().UTC())
	return nil
}

func (p *Product) setPack(a PackAttributes, now time.Time) {
	t := pricing.Pack(a.PackQuantity, a.ProductsPerPack, a.BuyPricePerPack, a.SellPricePerUnit)
	p.Name = a.Name
	p.Pack = &PackSpec{
		PackQuantity:    a.PackQuantity,
		ProductsPerPack: a.ProductsPerPack,
		BuyPricePerPack: a.BuyPricePerPack,
	}
	p.Weight = nil
	p.SellPricePerUnit = a.SellPricePerUnit
	p.applyTotals(t)
	p.UpdatedAt = now
}

func (p *Product) setWeight(a WeightAttributes, now time.Time) {
	t := pricing.Weight(a.TotalWeight, a.BuyPricePerUnit, a.SellPricePerUnit)
	p.Name = a.Name
	p.Weight = &WeightSpec{
		Unit:            a.WeightUnit,
		TotalWeight:     a.TotalWeight,
		BuyPricePerUnit: a.BuyPricePerUnit,
	}
	p.Pack = nil
	p.SellPricePerUnit = a.SellPricePerUnit
	p.applyTotals(t)
	p.UpdatedAt = now
}

func (p *Product) applyTotals(t pricing.Totals) {
	p.TotalUnits = t.TotalUnits
	p.TotalInvested = t.TotalInvested
	p.TotalProfit = t.TotalProfit
}

// InStock reports whether at least qty is on hand.
func (p *Product) InStock(qty decimal.Decimal) bool {
	return p.CurrentStock.GreaterThanOrEqual(qty)
}

func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Pack != nil {
		pack := *p.Pack
		cp.Pack = &pack
	}
	if p.Weight != nil {
		w := *p.Weight
		cp.Weight = &w
	}
	return &cp
}
