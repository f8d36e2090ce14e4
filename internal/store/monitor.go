package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cariaestates/backoffice/internal/entity"
)

// SweepResult lista os leads tocados por uma varredura do monitor.
type SweepResult struct {
	Breached  []entity.InboxLead
	Reminders []entity.InboxLead
}

// RunSLASweep aplica as duas regras temporais do inbox em uma passada:
//   - lead 'new' com idade >= slaAge vira GECİKMİŞ (uma Notification de
//     alerta + uma Activity, uma única vez por lead);
//   - reminder vencido dispara uma Notification info, uma única vez.
//
// Diferente das demais mutações, o broadcast acontece UMA vez ao final da
// varredura, e só se algo mudou.
func (s *AdminStore) RunSLASweep(now time.Time, slaAge time.Duration) SweepResult {
	s.mu.Lock()

	var res SweepResult
	changed := false
	next := make([]entity.InboxLead, len(s.state.LeadsInbox))

	for i, lead := range s.state.LeadsInbox {
		if lead.Status == entity.LeadStatusNew && !lead.SLATriggered &&
			!lead.CreatedAt.IsZero() && now.Sub(lead.CreatedAt) >= slaAge {

			lead.Intent = entity.IntentDelayed
			lead.SLATriggered = true
			changed = true

			s.appendNotificationLocked(entity.NewNotification("SLA GECİKMESİ",
				fmt.Sprintf("%s için ilk temas süresi (%d saat) aşıldı!", lead.Name, int(slaAge.Hours())),
				entity.NotificationAlert))
			s.appendActivityLocked(entity.NewActivity("alert", "SLA İhlali",
				fmt.Sprintf("%s lead'i gecikmiş statüsüne düştü.", lead.Name), "Lead OS"))

			res.Breached = append(res.Breached, lead)
		}

		if lead.ReminderAt != nil && !lead.ReminderTriggered && !now.Before(*lead.ReminderAt) {
			lead.ReminderTriggered = true
			changed = true

			s.appendNotificationLocked(entity.NewNotification("TAKİP HATIRLATICI",
				fmt.Sprintf("%s için bekleyen takip görevi zamanı geldi.", lead.Name),
				entity.NotificationInfo))

			res.Reminders = append(res.Reminders, lead)
		}

		next[i] = lead
	}

	if changed {
		s.state.LeadsInbox = next
	}
	s.mu.Unlock()

	if changed {
		s.broadcast()
	}
	return res
}

// Monitor roda a varredura de SLA/reminder em intervalo fixo, com parada
// determinística via contexto.
type Monitor struct {
	store    *AdminStore
	Interval time.Duration
	SLAAge   time.Duration

	// Hooks opcionais, ligados em main (métricas, fila de eventos).
	OnBreach   func(lead entity.InboxLead)
	OnReminder func(lead entity.InboxLead)
}

func NewMonitor(s *AdminStore) *Monitor {
	return &Monitor{
		store:    s,
		Interval: 10 * time.Second,
		SLAAge:   2 * time.Hour,
	}
}

func (m *Monitor) Start(ctx context.Context) {
	log.Printf("🕒 SLA monitor iniciado (janela %s, tick %s)", m.SLAAge, m.Interval)

	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	m.sweep(time.Now())

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ SLA monitor encerrado")
			return
		case t := <-ticker.C:
			m.sweep(t)
		}
	}
}

func (m *Monitor) sweep(now time.Time) {
	res := m.store.RunSLASweep(now, m.SLAAge)

	for _, lead := range res.Breached {
		log.Printf("⏱️ SLA estourado: lead=%s name=%s idade=%s",
			lead.ID, lead.Name, now.Sub(lead.CreatedAt).Round(time.Minute))
		if m.OnBreach != nil {
			m.OnBreach(lead)
		}
	}
	for _, lead := range res.Reminders {
		if m.OnReminder != nil {
			m.OnReminder(lead)
		}
	}
}
