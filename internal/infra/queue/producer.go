package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Eventos do pipeline publicados na fila.
const (
	EventLeadConverted = "lead.converted"
	EventLeadDuplicate = "lead.duplicate"
	EventSLABreached   = "sla.breached"
	EventReminderDue   = "reminder.due"
)

type LeadEventPayload struct {
	Event string `json:"event"`

	LeadID   string `json:"lead_id"`
	LeadName string `json:"lead_name"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Region   string `json:"region,omitempty"`
	Intent   string `json:"intent,omitempty"`

	AssignedTo string `json:"assigned_to,omitempty"`
	ClientID   string `json:"client_id,omitempty"`
	LeadSource string `json:"lead_source,omitempty"`
}

type QueueProducerInterface interface {
	PublishLeadEvent(ctx context.Context, payload LeadEventPayload) error
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishLeadEvent(ctx context.Context, payload LeadEventPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %v", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName, // ex.leads
		RoutingKey,   // k.lead-event
		false,        // Mandatory
		false,        // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Evento salvo no disco
		},
	)

	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %v", err)
	}

	return nil
}
