package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/rentgear/go-rental-store/internal/booking"
	kafkax "github.com/rentgear/go-rental-store/internal/kafka"
	"github.com/rentgear/go-rental-store/internal/redisx"
)

type AdminHandler struct {
	Repo        *booking.Repo
	Reconciler  *booking.Reconciler
	Redis       *redis.Client
	Producer    kafkax.Publisher
	ServiceName string
}

func (h *AdminHandler) Register(r *chi.Mux) {
	r.Patch("/orders/{id}/status", h.updateStatus)
	r.Get("/admin/orders", h.listOrders)
	r.Post("/admin/orders/reconcile", h.reconcile)
	r.Get("/admin/statuses", h.listStatuses)
}

type statusUpdateReq struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

// updateStatus applies a transition to every line item of the order. An
// illegal transition comes back as 422 naming the rejected pair.
func (h *AdminHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	var req statusUpdateReq
	if err := decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	next, err := booking.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.UpdateOrderStatus(ctx, orderID, next); err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidTransition):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, booking.ErrOrderNotFound):
			writeError(w, http.StatusNotFound, "not found")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	h.cacheStatus(ctx, orderID, next)
	h.publishStatusChanged(orderID, next, r.Header.Get("X-Request-Id"))
	writeJSON(w, http.StatusOK, map[string]any{
		"order_id": orderID,
		"status":   next,
		"meta":     booking.MetaFor(next),
	})
}

// listOrders shows orders grouped for the staff view: primarily by order
// id, with the legacy heuristic grouping for rows predating order ids.
func (h *AdminHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Repo.ListBookings(ctx, "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]orderSummary, 0)
	for orderID, group := range booking.GroupByOrder(rows) {
		out = append(out, makeOrderView(orderID, false, group))
	}
	for _, group := range booking.GroupLegacy(rows) {
		out = append(out, makeOrderView("", true, group))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })
	writeJSON(w, http.StatusOK, out)
}

type orderSummary struct {
	OrderID string                  `json:"order_id,omitempty"`
	Legacy  bool                    `json:"legacy,omitempty"`
	Status  booking.Status          `json:"status"`
	Meta    booking.Meta            `json:"meta"`
	Total   float64                 `json:"total"`
	Items   []booking.BookingPeriod `json:"items"`
}

// reconcile runs the on-demand repair job for drifted orders.
func (h *AdminHandler) reconcile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	rep, err := h.Reconciler.AnalyzeAndFix(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// fixed orders may have stale cached statuses
	for _, f := range rep.Fixes {
		h.cacheStatus(ctx, f.OrderID, f.Applied)
		h.publishStatusChanged(f.OrderID, f.Applied, r.Header.Get("X-Request-Id"))
	}
	writeJSON(w, http.StatusOK, rep)
}

// listStatuses exposes the central status/label/color table so no client
// re-declares it.
func (h *AdminHandler) listStatuses(w http.ResponseWriter, r *http.Request) {
	out := make([]map[string]any, 0, len(booking.AllStatuses))
	for _, s := range booking.AllStatuses {
		out = append(out, map[string]any{"status": s, "meta": booking.MetaFor(s)})
	}
	writeJSON(w, http.StatusOK, out)
}

func makeOrderView(orderID string, legacy bool, group []booking.BookingPeriod) orderSummary {
	statuses := make([]booking.Status, 0, len(group))
	var total float64
	for _, b := range group {
		statuses = append(statuses, b.Status)
		total += b.TotalPrice
	}
	st := booking.HighestPriority(statuses)
	return orderSummary{
		OrderID: orderID,
		Legacy:  legacy,
		Status:  st,
		Meta:    booking.MetaFor(st),
		Total:   total,
		Items:   group,
	}
}

func (h *AdminHandler) publishStatusChanged(orderID string, st booking.Status, traceID string) {
	if h.Producer == nil {
		return
	}
	ev := booking.Envelope{
		EventID:       uuid.NewString(),
		EventType:     booking.EventOrderStatusChanged,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.ServiceName,
		TraceID:       traceID,
		CorrelationID: orderID,
		Payload: kafkax.MustMarshal(booking.OrderStatusChangedPayload{
			OrderID: orderID,
			Status:  st,
		}),
	}
	h.Producer.Publish(booking.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(booking.EventOrderStatusChanged)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *AdminHandler) cacheStatus(ctx context.Context, orderID string, st booking.Status) {
	if h.Redis == nil {
		return
	}
	body, _ := json.Marshal(map[string]any{"status": st, "meta": booking.MetaFor(st)})
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	_ = h.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err()
}
