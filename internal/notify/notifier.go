// Package notify delivers staff notifications for placed orders. It sits
// behind Kafka so a slow or failing channel can never roll back a checkout.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/rentgear/go-rental-store/internal/booking"
	kafkax "github.com/rentgear/go-rental-store/internal/kafka"
	"github.com/rentgear/go-rental-store/internal/pricing"
	"github.com/rentgear/go-rental-store/internal/redisx"
)

// Sender is the delivery channel (email, chat webhook, ...). The provided
// LogSender just writes to the process log.
type Sender interface {
	Send(ctx context.Context, subject, body string) error
}

type LogSender struct{}

func (LogSender) Send(_ context.Context, subject, body string) error {
	log.Printf("notification: %s\n%s", subject, body)
	return nil
}

type Service struct {
	Redis       *redis.Client
	Sender      Sender
	ServiceName string
}

// HandleOrderPlaced is the consumer handler for booking.order.placed.
// Events are deduplicated by event id; send failures are logged and the
// offset is still committed, so delivery is at most once.
func (s *Service) HandleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	var env booking.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != booking.EventOrderPlaced {
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, "notifier", env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[booking.OrderPlacedPayload](env.Payload)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("New order %s from %s", shortID(p.OrderID), p.Customer.Name)
	if err := s.Sender.Send(ctx, subject, Summary(p)); err != nil {
		log.Printf("notify send failed for order %s: %v", p.OrderID, err)
	}
	return nil
}

// Summary renders the order for a human reader.
func Summary(p booking.OrderPlacedPayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Customer: %s <%s>", p.Customer.Name, p.Customer.Email)
	if p.Customer.Phone != "" {
		fmt.Fprintf(&b, " %s", p.Customer.Phone)
	}
	b.WriteByte('\n')
	for _, ln := range p.Lines {
		fmt.Fprintf(&b, "- %dx %s  %s to %s  (%s)\n",
			ln.Quantity, ln.ProductID,
			ln.StartAt.Format(time.RFC3339), ln.EndAt.Format(time.RFC3339),
			pricing.FormatPrice(ln.TotalPrice))
	}
	fmt.Fprintf(&b, "Total: %s", pricing.FormatPrice(p.Total))
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
