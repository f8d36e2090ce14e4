package mail

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     "no-reply@caria.com",
	}
}

// SendLeadAssigned avisa a caixa de vendas que um lead virou cliente e
// com qual consultor ele ficou.
func (s *EmailSender) SendLeadAssigned(to, advisorName, leadName string) error {
	if advisorName == "" {
		advisorName = "Atanmamış"
	}

	body, err := s.render("lead_assigned.html", LeadAssignedEmailData{
		AdvisorName: advisorName,
		LeadName:    leadName,
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Yeni müşteri: %s → %s", leadName, advisorName)
	return s.send(to, subject, body)
}

// SendSLAAlert avisa que um lead passou da janela de primeiro contato.
func (s *EmailSender) SendSLAAlert(to, leadName string) error {
	body, err := s.render("sla_alert.html", SLAAlertEmailData{
		LeadName: leadName,
		Window:   "2 saat",
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("SLA GECİKMESİ: %s", leadName)
	return s.send(to, subject, body)
}

func (s *EmailSender) render(name string, data interface{}) (string, error) {
	tmplPath := filepath.Join("templates", name)
	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return "", fmt.Errorf("erro ao ler template de email: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return body.String(), nil
}

func (s *EmailSender) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}
