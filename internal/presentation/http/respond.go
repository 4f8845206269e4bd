package httppresentation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/application"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/product"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/sale"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/txn"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/validation"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/observability"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/observability/logctx"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type errorResponse struct {
	Error     string            `json:"error"`
	Fields    map[string]string `json:"fields,omitempty"`
	Shortages []shortageJSON    `json:"shortages,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps the error taxonomy onto status codes. Anything outside
// it is logged and answered with an opaque 500.
func writeDomainError(ctx context.Context, log observability.Logger, w http.ResponseWriter, err error) {
	var (
		verr  *validation.Error
		short *sale.InsufficientStockError
	)
	switch {
	case errors.Is(err, application.ErrNoPrincipal):
		writeError(w, http.StatusUnauthorized, "authenticated principal required")
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: verr.Fields})
	case errors.Is(err, product.ErrNotFound):
		writeError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, sale.ErrNotFound):
		writeError(w, http.StatusNotFound, "sale not found")
	case errors.Is(err, product.ErrDuplicateName):
		writeError(w, http.StatusConflict, "a product with this name already exists")
	case errors.As(err, &short):
		body := errorResponse{Error: "insufficient stock"}
		for _, s := range short.Shortages {
			body.Shortages = append(body.Shortages, toShortageJSON(s))
		}
		writeJSON(w, http.StatusUnprocessableEntity, body)
	case errors.Is(err, product.ErrInsufficientStock):
		writeError(w, http.StatusUnprocessableEntity, "insufficient stock")
	case errors.Is(err, sale.ErrProductsNotFound):
		writeError(w, http.StatusUnprocessableEntity, "products not found")
	case errors.Is(err, product.ErrNegativeStock):
		writeError(w, http.StatusUnprocessableEntity, "stock must not be negative")
	case errors.Is(err, product.ErrInvalidQuantity):
		writeError(w, http.StatusUnprocessableEntity, "quantity must be greater than zero")
	case errors.Is(err, txn.ErrAborted), errors.Is(err, sale.ErrConflict):
		writeError(w, http.StatusConflict, "transaction aborted, retry the request")
	default:
		logctx.FromOr(ctx, log).Error("http_internal_error", observability.F("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
