package models

import (
	"time"

	"github.com/google/uuid"
)

// VisitaStatus represents the status of a scheduled visit
type VisitaStatus string

const (
	VisitaStatusAgendada   VisitaStatus = "agendada"
	VisitaStatusConfirmada VisitaStatus = "confirmada"
	VisitaStatusRealizada  VisitaStatus = "realizada"
	VisitaStatusCancelada  VisitaStatus = "cancelada"
)

// Valid reports whether the value is a known visit status
func (s VisitaStatus) Valid() bool {
	switch s {
	case VisitaStatusAgendada, VisitaStatusConfirmada, VisitaStatusRealizada, VisitaStatusCancelada:
		return true
	}
	return false
}

// Visita represents a scheduled in-person viewing. Client contact fields
// are duplicated at booking time, not derived from the lead.
type Visita struct {
	ID       uuid.UUID  `json:"id"`
	ImovelID uuid.UUID  `json:"imovel_id"`
	LeadID   *uuid.UUID `json:"lead_id"`

	NomeCliente     string `json:"nome_cliente"`
	EmailCliente    string `json:"email_cliente"`
	TelefoneCliente string `json:"telefone_cliente"`

	DataHora    time.Time    `json:"data_hora"`
	Status      VisitaStatus `json:"status"`
	Observacoes *string      `json:"observacoes"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
