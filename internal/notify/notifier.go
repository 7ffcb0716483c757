package notify

import (
	"time"

	"github.com/campusbook/booking-service/pkg/rabbitmq"
)

const (
	KindRequested = "requested"
	KindApproved  = "approved"
	KindRejected  = "rejected"
	KindCancelled = "cancelled"
)

// Event is a booking lifecycle notification addressed to one recipient.
// Delivery (mail, in-app message) is the consumer's job.
type Event struct {
	Kind        string    `json:"kind"`
	BookingID   uint      `json:"booking_id"`
	ResourceID  uint      `json:"resource_id"`
	RecipientID string    `json:"recipient_id"`
	ActorID     string    `json:"actor_id,omitempty"`
	Detail      string    `json:"detail,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type Notifier interface {
	Notify(event Event) error
}

// AMQPNotifier publishes events to the bookings topic exchange under
// routing keys booking.<kind>.
type AMQPNotifier struct {
	publisher *rabbitmq.Publisher
}

func NewAMQPNotifier(publisher *rabbitmq.Publisher) *AMQPNotifier {
	return &AMQPNotifier{publisher: publisher}
}

func (n *AMQPNotifier) Notify(event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	return n.publisher.Publish("booking."+event.Kind, event)
}
