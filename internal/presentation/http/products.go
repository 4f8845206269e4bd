package httppresentation

import (
	"net/http"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/application/catalog"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/page"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/product"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/user"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/validation"
	"github.com/shopspring/decimal"
)

func (h *Handler) handleRegisterPrincipal(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var req user.Profile
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	u, err := h.catalog.RegisterPrincipal(r.Context(), owner, req)
	if err != nil {
		writeDomainError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": u.ID, "fullName": u.FullName})
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	res, err := h.catalog.List(r.Context(), owner, pageRequest(r))
	if err != nil {
		writeDomainError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageJSON(res, toProductJSON))
}

func (h *Handler) handleListAvailable(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	items, err := h.catalog.ListAvailable(r.Context(), owner)
	if err != nil {
		writeDomainError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductsJSON(items))
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	p, err := h.catalog.Get(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeDomainError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductJSON(p))
}

func (h *Handler) handleCreatePack(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var req product.PackAttributes
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	p, err := h.catalog.CreatePack(r.Context(), owner, req)
	if err != nil {
		writeDomainError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductJSON(p))
}

func (h *Handler) handleCreateWeight(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var req product.WeightAttributes
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	p, err := h.catalog.CreateWeight(r.Context(), owner, req)
	if err != nil {
		writeDomainError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductJSON(p))
}

func (h *Handler) handleUpdatePack(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var req product.PackAttributes
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	p, err := h.catalog.UpdatePack(r.Context(), owner, r.PathValue("id"), req)
	if err != nil {
		writeDomainError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductJSON(p))
}

func (h *Handler) handleUpdateWeight(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var req product.WeightAttributes
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	p, err := h.catalog.UpdateWeight(r.Context(), owner, r.PathValue("id"), req)
	if err != nil {
		writeDomainError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductJSON(p))
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	if err := h.catalog.Delete(r.Context(), owner, r.PathValue("id")); err != nil {
		writeDomainError(r.Context(), h.log, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type restockRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Reason   string          `json:"reason"`
	Notes    string          `json:"notes"`
}

func (h *Handler) handleRestock(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var req restockRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	p, err := h.catalog.Restock(r.Context(), owner, r.PathValue("id"), catalog.RestockCommand{
		Quantity: req.Quantity,
		Reason:   req.Reason,
		Notes:    req.Notes,
	})
	if err != nil {
		writeDomainError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductJSON(p))
}

type adjustRequest struct {
	NewStock *decimal.Decimal `json:"newStock"`
	Reason   string           `json:"reason"`
	Notes    string           `json:"notes"`
}

func (h *Handler) handleAdjustStock(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var req adjustRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.NewStock == nil {
		writeDomainError(r.Context(), h.log, w, &validation.Error{Fields: map[string]string{"newStock": "is required"}})
		return
	}
	p, err := h.catalog.AdjustStock(r.Context(), owner, r.PathValue("id"), catalog.AdjustCommand{
		NewStock: *req.NewStock,
		Reason:   req.Reason,
		Notes:    req.Notes,
	})
	if err != nil {
		writeDomainError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductJSON(p))
}

func (h *Handler) handleListMovements(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	res, err := h.catalog.ListMovements(r.Context(), owner, r.PathValue("id"), pageRequest(r))
	if err != nil {
		writeDomainError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageJSON(res, toMovementJSON))
}

func (h *Handler) handleInitializeStock(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	n, err := h.catalog.InitializeStock(r.Context(), owner)
	if err != nil {
		writeDomainError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"initialized": n})
}

// requireOwner answers 401 when the request carries no principal.
func (h *Handler) requireOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner := ownerID(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "authenticated principal required")
		return "", false
	}
	return owner, true
}

func pageRequest(r *http.Request) page.Request {
	return page.Request{Page: pageParam(r, "page"), Limit: pageParam(r, "limit")}
}
