// Package validation checks the shape of product and sale input and the stock
// available for a sale. Every violated field is reported, never only the first.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/product"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/sale"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/user"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var ErrFailed = errors.New("validation: failed")

// Error carries one message per invalid field. It matches ErrFailed.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return ErrFailed.Error() + ": " + strings.Join(parts, "; ")
}

func (e *Error) Is(target error) bool { return target == ErrFailed }

// Result maps field paths such as "name" or "items[0].quantity" to messages.
type Result struct {
	Valid  bool
	Errors map[string]string
}

// Err returns nil for a valid result and an *Error otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &Error{Fields: r.Errors}
}

func (r *Result) add(field, msg string) {
	if r.Errors == nil {
		r.Errors = make(map[string]string)
	}
	r.Errors[field] = msg
	r.Valid = false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		d, ok := f.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		return d.InexactFloat64()
	}, decimal.Decimal{})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Pack validates pack product attributes after trimming the name.
func Pack(a product.PackAttributes) Result {
	return check(a.Normalize())
}

// Weight validates weight product attributes after trimming the name.
func Weight(a product.WeightAttributes) Result {
	return check(a.Normalize())
}

// Profile validates a principal's display name after trimming it.
func Profile(p user.Profile) Result {
	return check(p.Normalize())
}

// Sale validates the line list of a sale request.
func Sale(r sale.Request) Result {
	return check(r)
}

// StockAvailability compares each line against the products fetched for it.
// Shortages carry the available and requested quantities of every short line.
func StockAvailability(lines []sale.LineRequest, products map[string]*product.Product) (Result, []sale.Shortage) {
	res := Result{Valid: true}
	var shortages []sale.Shortage
	requested := make(map[string]decimal.Decimal, len(lines))
	short := make(map[string]bool)
	for i, l := range lines {
		p, ok := products[l.ProductID]
		if !ok {
			res.add(fmt.Sprintf("items[%d].product", i), "product not found")
			continue
		}
		// Lines naming the same product draw from one stock.
		total := requested[p.ID].Add(l.Quantity)
		requested[p.ID] = total
		if short[p.ID] || p.InStock(total) {
			continue
		}
		short[p.ID] = true
		res.add(fmt.Sprintf("items[%d].stock", i),
			fmt.Sprintf("insufficient stock: available %s, requested %s", p.CurrentStock, total))
		shortages = append(shortages, sale.Shortage{
			Index:       i,
			ProductID:   p.ID,
			ProductName: p.Name,
			Available:   p.CurrentStock,
			Requested:   total,
		})
	}
	return res, shortages
}

func check(s any) Result {
	res := Result{Valid: true}
	err := validate.Struct(s)
	if err == nil {
		return res
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.add("_", err.Error())
		return res
	}
	for _, fe := range verrs {
		res.add(fieldPath(fe), message(fe))
	}
	return res
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		switch fe.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("must include at least %s item(s)", fe.Param())
		case reflect.String:
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		if fe.Param() == "0" {
			return "must not be negative"
		}
		return "must be " + fe.Param() + " or greater"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	}
	return "is invalid"
}
