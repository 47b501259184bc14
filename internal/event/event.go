// Package event fans submission lifecycle events out to subscribers.
package event

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
)

// Type names a lifecycle event.
type Type string

const (
	TypeCreated      Type = "submission.created"
	TypeTransitioned Type = "submission.transitioned"
	TypeAssigned     Type = "submission.assigned"
	TypeUnassigned   Type = "submission.unassigned"
)

// Applicant contact details copied from the form at emit time.
type Applicant struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Event is emitted after a mutation commits.
type Event struct {
	Type         Type                   `json:"type"`
	SubmissionID string                 `json:"submission_id"`
	ModuleType   model.ModuleType       `json:"module_type"`
	From         model.SubmissionStatus `json:"from,omitempty"`
	To           model.SubmissionStatus `json:"to"`
	ActorID      string                 `json:"actor_id"`
	SlotID       string                 `json:"slot_id,omitempty"`
	Applicant    Applicant              `json:"applicant"`
	OccurredAt   time.Time              `json:"occurred_at"`
}

// New builds an event for sub, which must already hold its new status.
func New(t Type, sub *model.Submission, from model.SubmissionStatus, actorID string) Event {
	e := Event{
		Type:         t,
		SubmissionID: sub.SubmissionID,
		ModuleType:   sub.ModuleType,
		From:         from,
		To:           sub.Status,
		ActorID:      actorID,
		Applicant:    applicantOf(sub.FormData),
		OccurredAt:   time.Now().UTC(),
	}
	if sub.AssignedSlotID != nil {
		e.SlotID = *sub.AssignedSlotID
	}
	return e
}

func applicantOf(form model.FormData) Applicant {
	name := form.String("full_name")
	if name == "" {
		name = strings.TrimSpace(form.String("first_name") + " " + form.String("last_name"))
	}
	if name == "" {
		name = form.String("contact_person")
	}
	return Applicant{Name: name, Email: form.String("email")}
}

// Publisher accepts events.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Subscriber handles events. An error is logged by the broker and otherwise ignored.
type Subscriber interface {
	Name() string
	Handle(ctx context.Context, e Event) error
}

// Broker delivers every event to every subscriber, synchronously and in
// subscription order.
type Broker struct {
	mu     sync.RWMutex
	subs   []Subscriber
	logger *zap.Logger
}

// NewBroker creates a Broker with optional initial subscribers.
func NewBroker(logger *zap.Logger, subs ...Subscriber) *Broker {
	return &Broker{subs: subs, logger: logger}
}

// Subscribe adds s.
func (b *Broker) Subscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, s)
}

// Publish implements Publisher.
func (b *Broker) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	subs := append([]Subscriber(nil), b.subs...)
	b.mu.RUnlock()

	for _, s := range subs {
		if err := s.Handle(ctx, e); err != nil {
			b.logger.Error("event subscriber failed",
				zap.String("subscriber", s.Name()),
				zap.String("type", string(e.Type)),
				zap.String("submission_id", e.SubmissionID),
				zap.Error(err),
			)
		}
	}
}

// Nop discards events.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, Event) {}
