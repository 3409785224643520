package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/pkordes/trip-catalog/backend/internal/domain"
)

// StreamName is the JetStream stream holding every catalog event.
const StreamName = "TRIP_CATALOG"

// jetStream is the slice of nats.JetStreamContext the publisher uses.
type jetStream interface {
	Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// NATSPublisher implements Publisher on NATS JetStream.
type NATSPublisher struct {
	conn *nats.Conn
	js   jetStream
}

// NewNATSPublisher connects to url, enables JetStream, and makes sure the
// catalog stream exists.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("trip-catalog"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("events.NewNATSPublisher: connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("events.NewNATSPublisher: jetstream: %w", err)
	}

	cfg := &nats.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{"trips.>", "bookings.>"},
		Retention: nats.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(cfg); err != nil {
		// Stream may already exist, try update.
		if _, err := js.UpdateStream(cfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("events.NewNATSPublisher: ensure stream: %w", err)
		}
	}

	return &NATSPublisher{conn: conn, js: js}, nil
}

func (p *NATSPublisher) TripOffered(ctx context.Context, trip domain.Trip) error {
	return p.publish(ctx, TripSubject(TypeTripOffered, trip), newTripEvent(TypeTripOffered, trip))
}

func (p *NATSPublisher) TripCancelled(ctx context.Context, trip domain.Trip) error {
	return p.publish(ctx, TripSubject(TypeTripCancelled, trip), newTripEvent(TypeTripCancelled, trip))
}

func (p *NATSPublisher) BookingCancelled(ctx context.Context, booking domain.Booking) error {
	return p.publish(ctx, BookingSubject(TypeBookingCancelled, booking),
		newBookingEvent(TypeBookingCancelled, booking))
}

func (p *NATSPublisher) publish(ctx context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("events: marshal %s: %w", subject, err)
	}
	if _, err := p.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("events: publish %s: %w", subject, err)
	}
	return nil
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}

// TripSubject returns e.g. "trips.cancelled.<trip id>".
func TripSubject(typ string, t domain.Trip) string {
	return "trips." + typ + "." + t.ID.String()
}

// BookingSubject returns e.g. "bookings.cancelled.<booking id>".
func BookingSubject(typ string, b domain.Booking) string {
	return "bookings." + typ + "." + b.ID.String()
}

var (
	_ Publisher = (*NATSPublisher)(nil)
	_ jetStream = nats.JetStreamContext(nil)
)
