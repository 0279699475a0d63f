// Package checkout converts cart lines into persisted booking rows and
// notifies staff. One checkout produces one row per line, all sharing a
// generated order id, inserted in a single transaction.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/rentgear/go-rental-store/internal/booking"
	kafkax "github.com/rentgear/go-rental-store/internal/kafka"
	"github.com/rentgear/go-rental-store/internal/redisx"
)

type Request struct {
	ExternalID string                `json:"external_id"`
	Customer   booking.Customer      `json:"customer"`
	Lines      []booking.LineRequest `json:"lines"`
	TraceID    string                `json:"-"`
}

type Result struct {
	OrderID    string  `json:"order_id"`
	Total      float64 `json:"total"`
	Idempotent bool    `json:"idempotent"`
}

var (
	ErrEmptyOrder    = errors.New("checkout: no line items")
	ErrMissingFields = errors.New("checkout: missing external id or customer identity")
)

// Store is the persistence contract PlaceOrder needs.
type Store interface {
	FindOrderByExternalID(ctx context.Context, externalID string) (orderID string, total float64, err error)
	InsertOrderTx(ctx context.Context, orderID, externalID string, cust booking.Customer, lines []booking.LineRequest) ([]booking.BookingPeriod, []booking.Conflict, error)
}

type Service struct {
	Store       Store
	Redis       *redis.Client
	Producer    kafkax.Publisher // publishing never blocks or fails the checkout
	ServiceName string
}

// PlaceOrder validates the request, inserts the booking rows, caches the
// order status, and publishes OrderPlaced. A non-nil conflicts slice means
// some line exceeded live availability: that is expected user-facing state,
// not an error, and nothing was persisted.
func (s *Service) PlaceOrder(ctx context.Context, req Request) (Result, []booking.Conflict, error) {
	if err := validate(req); err != nil {
		return Result{}, nil, err
	}

	// DB is the source of truth for idempotency; the Redis key below is a
	// fast path for repeated submissions.
	if orderID, total, err := s.Store.FindOrderByExternalID(ctx, req.ExternalID); err == nil {
		return Result{OrderID: orderID, Total: total, Idempotent: true}, nil, nil
	} else if !errors.Is(err, booking.ErrOrderNotFound) {
		return Result{}, nil, err
	}

	orderID := uuid.NewString()
	rows, conflicts, err := s.Store.InsertOrderTx(ctx, orderID, req.ExternalID, req.Customer, req.Lines)
	if err != nil {
		return Result{}, nil, err
	}
	if len(conflicts) > 0 {
		return Result{}, conflicts, nil
	}

	var total float64
	for _, b := range rows {
		total += b.TotalPrice
	}

	if s.Redis != nil {
		idemKey := fmt.Sprintf(redisx.KeyIdemCheckout, req.ExternalID)
		_ = s.Redis.Set(ctx, idemKey, orderID, redisx.TTLIdempotency).Err()
		statusKey := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
		_ = s.Redis.Set(ctx, statusKey, `{"status":"pending"}`, redisx.TTLStatusCache).Err()
	}

	s.publishPlaced(orderID, req, rows, total)

	return Result{OrderID: orderID, Total: total}, nil, nil
}

func validate(req Request) error {
	if req.ExternalID == "" || req.Customer.Name == "" || req.Customer.Email == "" {
		return ErrMissingFields
	}
	if len(req.Lines) == 0 {
		return ErrEmptyOrder
	}
	for _, ln := range req.Lines {
		if ln.Quantity < 1 {
			return fmt.Errorf("checkout: quantity must be at least 1 for product %s", ln.ProductID)
		}
		if !ln.EndAt.After(ln.StartAt) {
			return fmt.Errorf("checkout: end must be after start for product %s", ln.ProductID)
		}
	}
	return nil
}

func (s *Service) publishPlaced(orderID string, req Request, rows []booking.BookingPeriod, total float64) {
	if s.Producer == nil {
		return
	}
	lines := make([]booking.PlacedLine, 0, len(rows))
	for _, b := range rows {
		lines = append(lines, booking.PlacedLine{
			ProductID:  b.ProductID,
			Quantity:   b.Quantity,
			StartAt:    b.StartAt,
			EndAt:      b.EndAt,
			TotalPrice: b.TotalPrice,
		})
	}
	ev := booking.Envelope{
		EventID:       uuid.NewString(),
		EventType:     booking.EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       req.TraceID,
		CorrelationID: orderID,
		Payload: kafkax.MustMarshal(booking.OrderPlacedPayload{
			OrderID:    orderID,
			ExternalID: req.ExternalID,
			Customer:   req.Customer,
			Lines:      lines,
			Total:      total,
		}),
	}
	s.Producer.Publish(booking.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(booking.EventOrderPlaced)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
