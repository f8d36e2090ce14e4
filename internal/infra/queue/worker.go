package queue

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MailerInterface define o contrato do canal de aviso por email.
type MailerInterface interface {
	SendLeadAssigned(to, advisorName, leadName string) error
	SendSLAAlert(to, leadName string) error
}

// Worker consome a fila de eventos do pipeline e dispara os emails de
// aviso para a caixa de vendas.
type Worker struct {
	Channel     *amqp.Channel
	Mailer      MailerInterface
	NotifyEmail string
}

func NewWorker(ch *amqp.Channel, mailer MailerInterface, notifyEmail string) *Worker {
	return &Worker{
		Channel:     ch,
		Mailer:      mailer,
		NotifyEmail: notifyEmail,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload LeadEventPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] JSON Inválido: %s", err)
				// Mensagem malformada: rejeita sem requeue para não travar a fila.
				d.Nack(false, false)
				continue
			}

			log.Printf("📥 [WORKER] Evento %s para lead %s", payload.Event, payload.LeadName)

			if err := w.processEvent(payload); err != nil {
				log.Printf("❌ [WORKER] Erro ao processar evento: %s", err)
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	<-forever
}

func (w *Worker) processEvent(payload LeadEventPayload) error {
	if w.Mailer == nil || w.NotifyEmail == "" {
		log.Printf("⚠️ [WORKER] Mailer não configurado, evento %s apenas logado", payload.Event)
		return nil
	}

	switch payload.Event {
	case EventLeadConverted:
		return w.Mailer.SendLeadAssigned(w.NotifyEmail, payload.AssignedTo, payload.LeadName)

	case EventSLABreached:
		return w.Mailer.SendSLAAlert(w.NotifyEmail, payload.LeadName)

	case EventLeadDuplicate, EventReminderDue:
		// Sem email: o sino do painel já cobre esses dois.
		return nil

	default:
		log.Printf("⚠️ Evento desconhecido: %s. Apenas logando.", payload.Event)
		return nil
	}
}
