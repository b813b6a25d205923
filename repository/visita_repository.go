package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"imobiliaria-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VisitaFilter holds the optional filters for visit queries. The date
// bounds are independent and inclusive.
type VisitaFilter struct {
	Status     *models.VisitaStatus
	DataInicio *time.Time
	DataFim    *time.Time
}

// VisitaPatch holds the optional fields for partial visit updates
type VisitaPatch struct {
	NomeCliente     *string
	EmailCliente    *string
	TelefoneCliente *string
	DataHora        *time.Time
	Status          *models.VisitaStatus
	Observacoes     **string
}

// VisitaRepository handles database operations for scheduled visits
type VisitaRepository struct {
	db *pgxpool.Pool
}

// NewVisitaRepository creates a new visit repository
func NewVisitaRepository(db *pgxpool.Pool) *VisitaRepository {
	return &VisitaRepository{db: db}
}

// Create inserts a new visit; status defaults to "agendada" when empty
func (r *VisitaRepository) Create(ctx context.Context, visita *models.Visita) error {
	if visita.Status == "" {
		visita.Status = models.VisitaStatusAgendada
	}

	query := `
		INSERT INTO visitas (
			imovel_id, lead_id, nome_cliente, email_cliente, telefone_cliente,
			data_hora, status, observacoes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	return r.db.QueryRow(
		ctx, query,
		visita.ImovelID,
		visita.LeadID,
		visita.NomeCliente,
		visita.EmailCliente,
		visita.TelefoneCliente,
		visita.DataHora,
		visita.Status,
		visita.Observacoes,
	).Scan(&visita.ID, &visita.CreatedAt)
}

// List returns visits ordered by scheduled date-time ascending
func (r *VisitaRepository) List(ctx context.Context, filter VisitaFilter, skip, limit int) ([]*models.Visita, error) {
	query := `
		SELECT id, imovel_id, lead_id, nome_cliente, email_cliente, telefone_cliente,
			data_hora, status, observacoes, created_at, updated_at
		FROM visitas`

	var conds []string
	var args []interface{}
	argIndex := 1

	add := func(cond string, value interface{}) {
		conds = append(conds, fmt.Sprintf(cond, argIndex))
		args = append(args, value)
		argIndex++
	}

	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}
	if filter.DataInicio != nil {
		add("data_hora >= $%d", *filter.DataInicio)
	}
	if filter.DataFim != nil {
		add("data_hora <= $%d", *filter.DataFim)
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	query += fmt.Sprintf(" ORDER BY data_hora OFFSET $%d LIMIT $%d", argIndex, argIndex+1)
	args = append(args, skip, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visitas []*models.Visita
	for rows.Next() {
		visita := &models.Visita{}
		if err := rows.Scan(visitaFields(visita)...); err != nil {
			return nil, err
		}
		visitas = append(visitas, visita)
	}
	return visitas, rows.Err()
}

// GetByID retrieves a visit by ID
func (r *VisitaRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Visita, error) {
	visita := &models.Visita{}
	query := `
		SELECT id, imovel_id, lead_id, nome_cliente, email_cliente, telefone_cliente,
			data_hora, status, observacoes, created_at, updated_at
		FROM visitas
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(visitaFields(visita)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return visita, nil
}

// Update applies a partial update; only set fields are overwritten
func (r *VisitaRepository) Update(ctx context.Context, id uuid.UUID, patch VisitaPatch) (*models.Visita, error) {
	var sets []string
	var args []interface{}
	argIndex := 1

	set := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if patch.NomeCliente != nil {
		set("nome_cliente", *patch.NomeCliente)
	}
	if patch.EmailCliente != nil {
		set("email_cliente", *patch.EmailCliente)
	}
	if patch.TelefoneCliente != nil {
		set("telefone_cliente", *patch.TelefoneCliente)
	}
	if patch.DataHora != nil {
		set("data_hora", *patch.DataHora)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.Observacoes != nil {
		set("observacoes", *patch.Observacoes)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf("UPDATE visitas SET %s WHERE id = $%d", strings.Join(sets, ", "), argIndex)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete removes a visit
func (r *VisitaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM visitas WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus returns the number of visits with the given status
func (r *VisitaRepository) CountByStatus(ctx context.Context, status models.VisitaStatus) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM visitas WHERE status = $1", status).Scan(&count)
	return count, err
}

func visitaFields(v *models.Visita) []interface{} {
	return []interface{}{
		&v.ID,
		&v.ImovelID,
		&v.LeadID,
		&v.NomeCliente,
		&v.EmailCliente,
		&v.TelefoneCliente,
		&v.DataHora,
		&v.Status,
		&v.Observacoes,
		&v.CreatedAt,
		&v.UpdatedAt,
	}
}
