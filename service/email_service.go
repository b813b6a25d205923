package service

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"imobiliaria-backend/config"
	"imobiliaria-backend/models"
)

// EmailService dispatches notification emails over SMTP. Callers treat
// failures as log-only; nothing here must abort the triggering request.
type EmailService struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
	fromName  string
}

// NewEmailService creates a new email service
func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{
		host:      cfg.Host,
		port:      cfg.Port,
		username:  cfg.Username,
		password:  cfg.Password,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

// SendNewLeadNotification emails the admin about an inbound lead.
// imovelTitulo is the title of the listing the lead asked about, when
// one was supplied.
func (s *EmailService) SendNewLeadNotification(lead *models.Lead, imovelTitulo string, to string) error {
	subject := fmt.Sprintf("Novo Lead - %s", lead.Nome)
	return s.send(to, subject, buildNewLeadEmail(lead, imovelTitulo))
}

// SendNewVisitNotification emails the admin about a scheduled visit.
func (s *EmailService) SendNewVisitNotification(visita *models.Visita, imovelTitulo string, to string) error {
	subject := fmt.Sprintf("Nova Visita Agendada - %s", visita.NomeCliente)
	return s.send(to, subject, buildNewVisitEmail(visita, imovelTitulo))
}

func (s *EmailService) send(to, subject, htmlBody string) error {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.fromEmail))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func buildNewLeadEmail(lead *models.Lead, imovelTitulo string) string {
	origem := "Site"
	if lead.Origem != nil && *lead.Origem != "" {
		origem = *lead.Origem
	}

	var rows strings.Builder
	rows.WriteString(row("Nome", lead.Nome))
	rows.WriteString(row("Email", lead.Email))
	rows.WriteString(row("Telefone", lead.Telefone))
	rows.WriteString(row("Origem", origem))
	if imovelTitulo != "" {
		rows.WriteString(row("Imóvel", imovelTitulo))
	}
	if lead.Mensagem != nil && *lead.Mensagem != "" {
		rows.WriteString(row("Mensagem", *lead.Mensagem))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>Novo contato recebido</h2>
	<p>Um novo lead chegou pelo site:</p>
	<table cellpadding="6">%s</table>
	<p>Responda o quanto antes para não perder a oportunidade.</p>
</body>
</html>`, rows.String())
}

func buildNewVisitEmail(visita *models.Visita, imovelTitulo string) string {
	var rows strings.Builder
	rows.WriteString(row("Cliente", visita.NomeCliente))
	rows.WriteString(row("Email", visita.EmailCliente))
	rows.WriteString(row("Telefone", visita.TelefoneCliente))
	rows.WriteString(row("Data e hora", visita.DataHora.Format(time.RFC1123)))
	if imovelTitulo != "" {
		rows.WriteString(row("Imóvel", imovelTitulo))
	}
	if visita.Observacoes != nil && *visita.Observacoes != "" {
		rows.WriteString(row("Observações", *visita.Observacoes))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>Nova visita agendada</h2>
	<table cellpadding="6">%s</table>
</body>
</html>`, rows.String())
}

func row(label, value string) string {
	return fmt.Sprintf("<tr><td><strong>%s:</strong></td><td>%s</td></tr>", label, value)
}
