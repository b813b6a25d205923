package models

import (
	"time"

	"github.com/google/uuid"
)

// LeadStatus represents the status of a lead in the pipeline
type LeadStatus string

const (
	LeadStatusNovo           LeadStatus = "novo"
	LeadStatusContatado      LeadStatus = "contatado"
	LeadStatusVisitaAgendada LeadStatus = "visitaAgendada"
	LeadStatusNegociacao     LeadStatus = "negociacao"
	LeadStatusConvertido     LeadStatus = "convertido"
	LeadStatusPerdido        LeadStatus = "perdido"
)

// Valid reports whether the value is a known lead status
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNovo, LeadStatusContatado, LeadStatusVisitaAgendada,
		LeadStatusNegociacao, LeadStatusConvertido, LeadStatusPerdido:
		return true
	}
	return false
}

// Lead represents an inbound contact request. ImovelID is captured at
// creation for notification purposes only.
type Lead struct {
	ID        uuid.UUID  `json:"id"`
	Nome      string     `json:"nome"`
	Email     string     `json:"email"`
	Telefone  string     `json:"telefone"`
	Mensagem  *string    `json:"mensagem"`
	Origem    *string    `json:"origem"`
	ImovelID  *uuid.UUID `json:"imovel_id"`
	Status    LeadStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
