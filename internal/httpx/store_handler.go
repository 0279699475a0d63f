package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/rentgear/go-rental-store/internal/booking"
	"github.com/rentgear/go-rental-store/internal/checkout"
	"github.com/rentgear/go-rental-store/internal/pricing"
	"github.com/rentgear/go-rental-store/internal/redisx"
)

type StoreHandler struct {
	Repo     *booking.Repo
	Checkout *checkout.Service
	Redis    *redis.Client
}

func (h *StoreHandler) Register(r *chi.Mux) {
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}/availability", h.availability)
	r.Get("/products/{id}/calendar", h.calendar)
	r.Post("/quotes", h.quote)
	r.Post("/checkout", h.checkout)
	r.Get("/orders/{id}", h.getOrder)
}

func (h *StoreHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Repo.ListProducts(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

type availabilityResp struct {
	ProductID string `json:"product_id"`
	Available int    `json:"available"`
	Fits      bool   `json:"fits"`
}

// availability answers how many units are free for an optional window.
// Without start/end it reports total owned quantity.
func (h *StoreHandler) availability(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	start, end, err := parseWindow(r, "start", "end")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	qty := 1
	if q := r.URL.Query().Get("qty"); q != "" {
		if _, err := fmt.Sscanf(q, "%d", &qty); err != nil || qty < 1 {
			writeError(w, http.StatusBadRequest, "qty must be a positive integer")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Repo.GetProduct(ctx, productID)
	if err != nil {
		writeProductErr(w, err)
		return
	}
	bookings, err := h.Repo.ListBookings(ctx, productID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, availabilityResp{
		ProductID: productID,
		Available: booking.AvailableQuantity(p, bookings, start, end),
		Fits:      booking.QuantityAvailable(p, bookings, qty, start, end),
	})
}

// calendar lists booked days for the datepicker, inclusive at boundaries.
func (h *StoreHandler) calendar(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "to must be YYYY-MM-DD")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if _, err := h.Repo.GetProduct(ctx, productID); err != nil {
		writeProductErr(w, err)
		return
	}
	bookings, err := h.Repo.ListBookings(ctx, productID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	days := booking.BookedDays(bookings, from, to)
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.Format("2006-01-02"))
	}
	writeJSON(w, http.StatusOK, map[string]any{"product_id": productID, "booked_days": out})
}

type quoteReq struct {
	ProductID string    `json:"product_id"`
	BasePrice float64   `json:"base_price"`
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required"`
}

type quoteResp struct {
	pricing.Details
	Display string `json:"display"`
}

// quote prices a selection. Either product_id (price read from catalog) or
// an explicit base_price.
func (h *StoreHandler) quote(w http.ResponseWriter, r *http.Request) {
	var req quoteReq
	if err := decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	base := req.BasePrice
	if req.ProductID != "" {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		p, err := h.Repo.GetProduct(ctx, req.ProductID)
		if err != nil {
			writeProductErr(w, err)
			return
		}
		base = p.PricePerDay
	}

	d := pricing.CalculateRentalDetails(base, pricing.Hours(req.StartDate, req.EndDate))
	writeJSON(w, http.StatusOK, quoteResp{Details: d, Display: pricing.FormatPrice(d.Total)})
}

type checkoutLine struct {
	ProductID string    `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=1"`
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required"`
	Notes     string    `json:"notes"`
}

type checkoutReq struct {
	ExternalID string `json:"external_id" validate:"required"`
	Customer   struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"required,email"`
		Phone string `json:"phone"`
	} `json:"customer" validate:"required"`
	Lines []checkoutLine `json:"lines" validate:"required,min=1,dive"`
}

func (h *StoreHandler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutReq
	if err := decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	lines := make([]booking.LineRequest, 0, len(req.Lines))
	for _, ln := range req.Lines {
		lines = append(lines, booking.LineRequest{
			ProductID: ln.ProductID,
			Quantity:  ln.Quantity,
			StartAt:   ln.StartDate,
			EndAt:     ln.EndDate,
			Notes:     ln.Notes,
		})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, conflicts, err := h.Checkout.PlaceOrder(ctx, checkout.Request{
		ExternalID: req.ExternalID,
		Customer:   booking.Customer{Name: req.Customer.Name, Email: req.Customer.Email, Phone: req.Customer.Phone},
		Lines:      lines,
		TraceID:    r.Header.Get("X-Request-Id"),
	})
	if err != nil {
		if errors.Is(err, booking.ErrProductNotFound) ||
			errors.Is(err, checkout.ErrEmptyOrder) || errors.Is(err, checkout.ErrMissingFields) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(conflicts) > 0 {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     "insufficient availability",
			"conflicts": conflicts,
		})
		return
	}
	writeJSON(w, http.StatusAccepted, res)
}

func (h *StoreHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "missing id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	status, err := h.Repo.GetOrderStatus(ctx, orderID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	body := map[string]any{"status": status, "meta": booking.MetaFor(status)}
	b, _ := json.Marshal(body)
	_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func parseWindow(r *http.Request, startKey, endKey string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error
	if v := r.URL.Query().Get(startKey); v != "" {
		if start, err = time.Parse(time.RFC3339, v); err != nil {
			return start, end, fmt.Errorf("%s must be RFC3339", startKey)
		}
	}
	if v := r.URL.Query().Get(endKey); v != "" {
		if end, err = time.Parse(time.RFC3339, v); err != nil {
			return start, end, fmt.Errorf("%s must be RFC3339", endKey)
		}
	}
	return start, end, nil
}

func writeProductErr(w http.ResponseWriter, err error) {
	if errors.Is(err, booking.ErrProductNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
