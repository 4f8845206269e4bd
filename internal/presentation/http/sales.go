package httppresentation

import (
	"fmt"
	"net/http"
	"time"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/sale"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/validation"
)

const dateLayout = "2006-01-02"

func (h *Handler) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var req sale.Request
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	s, err := h.sales.Create(r.Context(), owner, req)
	if err != nil {
		writeDomainError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSaleJSON(s))
}

func (h *Handler) handleListSales(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	res, err := h.sales.List(r.Context(), owner, pageRequest(r))
	if err != nil {
		writeDomainError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageJSON(res, toSaleJSON))
}

func (h *Handler) handleGetSale(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	s, err := h.sales.Get(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeDomainError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSaleJSON(s))
}

func (h *Handler) handleSalesSummary(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	rng, err := parseRange(r)
	if err != nil {
		writeDomainError(r.Context(), h.log, w, err)
		return
	}
	sum, err := h.sales.Summary(r.Context(), owner, rng)
	if err != nil {
		writeDomainError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryJSON(sum))
}

// parseRange reads startDate and endDate as RFC 3339 timestamps or plain
// dates. A plain endDate covers the whole day.
func parseRange(r *http.Request) (sale.Range, error) {
	var (
		rng    sale.Range
		fields = map[string]string{}
	)
	q := r.URL.Query()
	if v := q.Get("startDate"); v != "" {
		t, _, err := parseTime(v)
		if err != nil {
			fields["startDate"] = err.Error()
		} else {
			rng.From = &t
		}
	}
	if v := q.Get("endDate"); v != "" {
		t, dateOnly, err := parseTime(v)
		if err != nil {
			fields["endDate"] = err.Error()
		} else {
			if dateOnly {
				t = t.Add(24*time.Hour - time.Nanosecond)
			}
			rng.To = &t
		}
	}
	if len(fields) > 0 {
		return sale.Range{}, &validation.Error{Fields: fields}
	}
	return rng, nil
}

func parseTime(v string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), false, nil
	}
	if t, err := time.Parse(dateLayout, v); err == nil {
		return t.UTC(), true, nil
	}
	return time.Time{}, false, fmt.Errorf("must be a date (%s) or an RFC 3339 timestamp", dateLayout)
}
