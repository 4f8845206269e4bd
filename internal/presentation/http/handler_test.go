package httppresentation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/application/catalog"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/application/sales"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/infrastructure/id"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/infrastructure/memory"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/observability"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const owner = "owner-1"

func newServer(t *testing.T) http.Handler {
	t.Helper()
	store := memory.NewStore()
	ids := id.NewUUIDGenerator()
	tel := observability.Nop()
	cat := catalog.NewService(catalog.Deps{
		Products:  store.Products(),
		Movements: store.Movements(),
		Users:     store.Users(),
		Tx:        store,
		IDs:       ids,
		Tel:       tel,
	}, catalog.Options{})
	sal := sales.NewService(sales.Deps{
		Products:  store.Products(),
		Movements: store.Movements(),
		Sales:     store.Sales(),
		Tx:        store,
		IDs:       ids,
		Numbers:   id.NewSaleNumberGenerator(),
		Tel:       tel,
	}, sales.Options{})
	return NewHandler(cat, sal, nil, tel).Router()
}

func do(t *testing.T, srv http.Handler, method, path, ownerID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if ownerID != "" {
		req.Header.Set(headerOwnerID, ownerID)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var cookies = map[string]any{
	"name":             "Cookies",
	"packQuantity":     5,
	"productsPerPack":  8,
	"buyPricePerPack":  10.00,
	"sellPricePerUnit": 1.50,
}

func createCookies(t *testing.T, srv http.Handler) productJSON {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/products/pack", owner, cookies)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[productJSON](t, rec)
}

func TestRequiresOwner(t *testing.T) {
	srv := newServer(t)

	rec := do(t, srv, http.MethodGet, "/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(headerRequestID))
}

func TestHealthAndMethodNotAllowed(t *testing.T) {
	srv := newServer(t)

	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, srv, http.MethodPatch, "/sales", owner, nil).Code)
}

func TestCreateAndGetProduct(t *testing.T) {
	srv := newServer(t)
	created := createCookies(t, srv)

	assert.True(t, created.TotalUnits.Equal(dec("40")))
	assert.True(t, created.TotalInvested.Equal(dec("50")))
	assert.True(t, created.TotalProfit.Equal(dec("10")))
	require.NotNil(t, created.PackQuantity)
	assert.EqualValues(t, 5, *created.PackQuantity)

	rec := do(t, srv, http.MethodGet, "/products/"+created.ID, owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Cookies", decode[productJSON](t, rec).Name)

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/products/"+created.ID, "owner-2", nil).Code)
	assert.Equal(t, http.StatusConflict, do(t, srv, http.MethodPost, "/products/pack", owner, cookies).Code)
}

func TestCreateProductValidation(t *testing.T) {
	srv := newServer(t)

	rec := do(t, srv, http.MethodPost, "/products/weight", owner, map[string]any{
		"name":       "R",
		"weightUnit": "oz",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errorResponse](t, rec)
	assert.Equal(t, "validation failed", body.Error)
	assert.Contains(t, body.Fields, "name")
	assert.Contains(t, body.Fields, "weightUnit")
	assert.Contains(t, body.Fields, "totalWeight")

	rec = do(t, srv, http.MethodPost, "/products/pack", owner, map[string]any{"unknown": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateThroughWrongKindIsNotFound(t *testing.T) {
	srv := newServer(t)
	p := createCookies(t, srv)

	rec := do(t, srv, http.MethodPut, "/products/weight/"+p.ID, owner, map[string]any{
		"name":             "Cookies",
		"weightUnit":       "kg",
		"totalWeight":      2,
		"buyPricePerUnit":  1,
		"sellPricePerUnit": 2,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStockEndpoints(t *testing.T) {
	srv := newServer(t)
	p := createCookies(t, srv)

	rec := do(t, srv, http.MethodPost, "/products/"+p.ID+"/restock", owner, map[string]any{"quantity": 15})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode[productJSON](t, rec).CurrentStock.Equal(dec("15")))

	rec = do(t, srv, http.MethodPost, "/products/"+p.ID+"/restock", owner, map[string]any{"quantity": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, srv, http.MethodPost, "/products/"+p.ID+"/adjust", owner, map[string]any{"newStock": -2})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, srv, http.MethodPost, "/products/"+p.ID+"/adjust", owner, map[string]any{"reason": "COUNT"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, "/products/"+p.ID+"/adjust", owner, map[string]any{"newStock": 0})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodGet, "/products/"+p.ID+"/movements?limit=1", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	moves := decode[pageJSON[movementJSON]](t, rec)
	assert.Equal(t, 2, moves.Total)
	require.Len(t, moves.Items, 1)
	assert.Equal(t, "OUT", string(moves.Items[0].Type))
	assert.True(t, moves.Items[0].Quantity.Equal(dec("15")))
}

func TestSaleEndpoints(t *testing.T) {
	srv := newServer(t)
	p := createCookies(t, srv)
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/products/"+p.ID+"/adjust", owner, map[string]any{"newStock": 10}).Code)

	rec := do(t, srv, http.MethodPost, "/sales", owner, map[string]any{
		"items": []map[string]any{{"productId": p.ID, "quantity": 12}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	short := decode[errorResponse](t, rec)
	require.Len(t, short.Shortages, 1)
	assert.True(t, short.Shortages[0].Available.Equal(dec("10")))

	rec = do(t, srv, http.MethodPost, "/sales", owner, map[string]any{
		"items": []map[string]any{{"productId": "nope", "quantity": 1}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, srv, http.MethodPost, "/sales", owner, map[string]any{"items": []map[string]any{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, "/sales", owner, map[string]any{
		"items": []map[string]any{{"productId": p.ID, "quantity": 4}},
		"notes": "counter",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	s := decode[saleJSON](t, rec)
	assert.True(t, s.TotalAmount.Equal(dec("6")))
	assert.True(t, s.TotalItems.Equal(dec("4")))
	require.Len(t, s.Items, 1)

	rec = do(t, srv, http.MethodGet, "/sales/"+s.ID, owner, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/sales/"+s.ID, "owner-2", nil).Code)

	rec = do(t, srv, http.MethodGet, "/sales?page=1&limit=5", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[pageJSON[saleJSON]](t, rec).Total)

	rec = do(t, srv, http.MethodGet, "/sales/summary", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sum := decode[summaryJSON](t, rec)
	assert.Equal(t, 1, sum.TotalSales)
	assert.True(t, sum.AverageSale.Equal(dec("6")))
	assert.Len(t, sum.RecentSales, 1)

	rec = do(t, srv, http.MethodGet, "/sales/summary?startDate=yesterday", owner, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodGet, "/sales/summary?startDate=2000-01-01&endDate=2000-01-31", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decode[summaryJSON](t, rec).TotalSales)

	rec = do(t, srv, http.MethodGet, "/products/"+p.ID, owner, nil)
	assert.True(t, decode[productJSON](t, rec).CurrentStock.Equal(dec("6")))
}

func TestRegisterPrincipalAndInitializeStock(t *testing.T) {
	srv := newServer(t)
	p := createCookies(t, srv)

	rec := do(t, srv, http.MethodPut, "/me", owner, map[string]any{"fullName": "Ana Ruiz"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodPost, "/products/initialize-stock", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[map[string]int](t, rec)["initialized"])

	rec = do(t, srv, http.MethodGet, "/products/available", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	avail := decode[[]productJSON](t, rec)
	require.Len(t, avail, 1)
	assert.True(t, avail[0].CurrentStock.Equal(dec("40")))

	rec = do(t, srv, http.MethodGet, "/products/"+p.ID+"/movements", owner, nil)
	moves := decode[pageJSON[movementJSON]](t, rec)
	require.Len(t, moves.Items, 1)
	assert.Equal(t, "Ana Ruiz", moves.Items[0].ActorName)

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/products/"+p.ID, owner, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodDelete, "/products/"+p.ID, owner, nil).Code)
}

func TestHugePageNumberReturnsEmptyPage(t *testing.T) {
	srv := newServer(t)
	createCookies(t, srv)

	rec := do(t, srv, http.MethodGet, "/products?page=9223372036854775807&limit=100", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[pageJSON[productJSON]](t, rec)
	assert.Empty(t, res.Items)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 100, res.Limit)
}
