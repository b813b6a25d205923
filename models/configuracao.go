package models

import (
	"time"

	"github.com/google/uuid"
)

// Configuracao holds the organization contact info and notification
// toggles. At most one row is expected.
type Configuracao struct {
	ID uuid.UUID `json:"id"`

	NomeEmpresa string  `json:"nome_empresa"`
	Email       string  `json:"email"`
	Telefone    string  `json:"telefone"`
	Whatsapp    string  `json:"whatsapp"`
	Site        *string `json:"site"`
	Endereco    string  `json:"endereco"`
	Sobre       *string `json:"sobre"`

	NotificacaoEmail    bool `json:"notificacao_email"`
	NotificacaoSMS      bool `json:"notificacao_sms"`
	NotificacaoWhatsapp bool `json:"notificacao_whatsapp"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
