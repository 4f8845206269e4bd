package sale

import "github.com/shopspring/decimal"

// Request is an incoming sale before products are resolved.
type Request struct {
	Lines []LineRequest `json:"items" validate:"required,min=1,dive"`
	Notes string        `json:"notes"`
}

type LineRequest struct {
	ProductID string          `json:"productId" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"gt=0"`
	// UnitPrice overrides the product's sell price when set.
	UnitPrice *decimal.Decimal `json:"unitPrice,omitempty" validate:"omitempty,gte=0"`
}

// ProductIDs returns the distinct product ids in request order.
func (r Request) ProductIDs() []string {
	seen := make(map[string]struct{}, len(r.Lines))
	ids := make([]string, 0, len(r.Lines))
	for _, l := range r.Lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	return ids
}
