package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rentgear/go-rental-store/internal/booking"
	"github.com/rentgear/go-rental-store/internal/cart"
)

// CartHandler is the server-side home of the cart: every mutation loads the
// snapshot from Redis, applies the change, and persists it back.
type CartHandler struct {
	Repo  *booking.Repo
	Redis *redis.Client
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Get("/carts/{id}", h.getCart)
	r.Post("/carts/{id}/items", h.addItem)
	r.Patch("/carts/{id}/items/{itemID}", h.updateItem)
	r.Delete("/carts/{id}/items/{itemID}", h.removeItem)
}

type cartLineView struct {
	cart.Item
	Check cart.LineCheck `json:"check"`
}

type cartView struct {
	Items []cartLineView `json:"items"`
	Total float64        `json:"total"`
}

// getCart renders the cart with a fresh availability check per line. A line
// over the limit is flagged, never silently reduced.
func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s, err := cart.Load(ctx, h.Redis, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	view := cartView{Items: []cartLineView{}, Total: s.Total()}
	for _, it := range s.Items() {
		check := cart.LineCheck{OK: false}
		p, err := h.Repo.GetProduct(ctx, it.ProductID)
		if err == nil {
			bookings, berr := h.Repo.ListBookings(ctx, it.ProductID)
			if berr == nil {
				check = cart.CheckLine(p, bookings, it)
			}
		}
		view.Items = append(view.Items, cartLineView{Item: it, Check: check})
	}
	writeJSON(w, http.StatusOK, view)
}

type addItemReq struct {
	ProductID string    `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity"`
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required"`
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "id")
	var req addItemReq
	if err := decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.EndDate.After(req.StartDate) {
		writeError(w, http.StatusBadRequest, "endDate must be after startDate")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Repo.GetProduct(ctx, req.ProductID)
	if err != nil {
		writeProductErr(w, err)
		return
	}

	s, err := cart.Load(ctx, h.Redis, cartID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.Add(cart.Item{
		ID:        uuid.NewString(),
		ProductID: p.ID,
		Title:     p.Title,
		Price:     p.PricePerDay,
		ImageURL:  p.ImageURL,
		Quantity:  req.Quantity,
		StartAt:   req.StartDate,
		EndAt:     req.EndDate,
	})
	if err := cart.Save(ctx, h.Redis, cartID, s); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"items": s.Items(), "total": s.Total()})
}

type updateItemReq struct {
	Quantity int `json:"quantity" validate:"required"`
}

func (h *CartHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "id")
	itemID := chi.URLParam(r, "itemID")
	var req updateItemReq
	if err := decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s, err := cart.Load(ctx, h.Redis, cartID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.UpdateQuantity(itemID, req.Quantity); err != nil {
		switch err {
		case cart.ErrMinQuantity:
			writeError(w, http.StatusBadRequest, err.Error())
		case cart.ErrNotFound:
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	if err := cart.Save(ctx, h.Redis, cartID, s); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": s.Items(), "total": s.Total()})
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "id")
	itemID := chi.URLParam(r, "itemID")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s, err := cart.Load(ctx, h.Redis, cartID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.Remove(itemID); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err := cart.Save(ctx, h.Redis, cartID, s); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": s.Items(), "total": s.Total()})
}
