package event

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
)

const (
	RoutingTestSubmitted      = "test.submitted"
	RoutingQuestionsGenerated = "questions.generated"
)

type TestSubmitted struct {
	ResultID       string `json:"resultId"`
	UserID         string `json:"userId"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
	Timestamp      int64  `json:"timestamp"`
}

type QuestionsGenerated struct {
	Topic       string   `json:"topic"`
	Path        string   `json:"path"` // ai, mock or fallback
	QuestionIDs []string `json:"questionIds"`
	GeneratedAt int64    `json:"generatedAt"`
}

// Publisher sends domain events. Implementations must not block callers on
// broker failures: errors are logged, never returned.
type Publisher interface {
	PublishTestSubmitted(ctx context.Context, evt TestSubmitted)
	PublishQuestionsGenerated(ctx context.Context, evt QuestionsGenerated)
}

// Sender is the broker side of a publisher. *broker.Client satisfies it.
type Sender interface {
	Publish(ctx context.Context, routingKey, messageID string, body []byte) error
}

type EventPublisher struct {
	sender  Sender
	enabled bool
}

// NewEventPublisher returns a publisher that only logs when sender is nil.
func NewEventPublisher(sender Sender) *EventPublisher {
	return &EventPublisher{sender: sender, enabled: sender != nil}
}

func (p *EventPublisher) PublishTestSubmitted(ctx context.Context, evt TestSubmitted) {
	p.publish(ctx, RoutingTestSubmitted, evt)
}

func (p *EventPublisher) PublishQuestionsGenerated(ctx context.Context, evt QuestionsGenerated) {
	p.publish(ctx, RoutingQuestionsGenerated, evt)
}

func (p *EventPublisher) publish(ctx context.Context, routingKey string, payload any) {
	if !p.enabled {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR: Failed to marshal %s event: %v", routingKey, err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.sender.Publish(ctx, routingKey, uuid.NewString(), body); err != nil {
		log.Printf("WARN: Failed to publish %s event: %v", routingKey, err)
		return
	}
	log.Printf("INFO: Published %s event", routingKey)
}
