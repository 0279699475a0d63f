package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rentgear/go-rental-store/internal/booking"
)

func TestHealthz(t *testing.T) {
	r := NewRouter()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestQuoteWithExplicitBasePrice(t *testing.T) {
	r := NewRouter()
	(&StoreHandler{}).Register(r) // quote with base_price touches no storage

	body := `{"base_price":1000,"startDate":"2026-03-02T09:00:00Z","endDate":"2026-03-05T09:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Total       float64 `json:"total"`
		Subtotal    float64 `json:"subtotal"`
		DayDiscount float64 `json:"day_discount"`
		Display     string  `json:"display"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2700.0, resp.Total) // 3 days, 10% tier
	require.Equal(t, 3000.0, resp.Subtotal)
	require.Equal(t, 10.0, resp.DayDiscount)
	require.Equal(t, "2,700", resp.Display)
}

func TestQuoteRejectsMissingDates(t *testing.T) {
	r := NewRouter()
	(&StoreHandler{}).Register(r)

	req := httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader(`{"base_price":1000}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListStatusesExposesCentralTable(t *testing.T) {
	r := NewRouter()
	(&AdminHandler{}).Register(r)

	req := httptest.NewRequest(http.MethodGet, "/admin/statuses", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out []struct {
		Status string       `json:"status"`
		Meta   booking.Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, len(booking.AllStatuses))
	for _, entry := range out {
		require.NotEmpty(t, entry.Meta.Label)
		require.NotEmpty(t, entry.Meta.Color)
	}
}
