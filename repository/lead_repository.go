package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"imobiliaria-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LeadPatch holds the optional fields for partial lead updates
type LeadPatch struct {
	Nome     *string
	Email    *string
	Telefone *string
	Mensagem **string
	Origem   **string
	Status   *models.LeadStatus
}

// LeadRepository handles database operations for leads
type LeadRepository struct {
	db *pgxpool.Pool
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{db: db}
}

// Create inserts a new lead; status defaults to "novo" when empty
func (r *LeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	if lead.Status == "" {
		lead.Status = models.LeadStatusNovo
	}

	query := `
		INSERT INTO leads (nome, email, telefone, mensagem, origem, imovel_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return r.db.QueryRow(
		ctx, query,
		lead.Nome,
		lead.Email,
		lead.Telefone,
		lead.Mensagem,
		lead.Origem,
		lead.ImovelID,
		lead.Status,
	).Scan(&lead.ID, &lead.CreatedAt)
}

// List returns leads newest first, optionally filtered by status
func (r *LeadRepository) List(ctx context.Context, status *models.LeadStatus, skip, limit int) ([]*models.Lead, error) {
	query := `
		SELECT id, nome, email, telefone, mensagem, origem, imovel_id, status, created_at, updated_at
		FROM leads`

	args := []interface{}{}
	if status != nil {
		query += " WHERE status = $1"
		args = append(args, *status)
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC OFFSET $%d LIMIT $%d", len(args)+1, len(args)+2)
	args = append(args, skip, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*models.Lead
	for rows.Next() {
		lead := &models.Lead{}
		err := rows.Scan(
			&lead.ID,
			&lead.Nome,
			&lead.Email,
			&lead.Telefone,
			&lead.Mensagem,
			&lead.Origem,
			&lead.ImovelID,
			&lead.Status,
			&lead.CreatedAt,
			&lead.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// GetByID retrieves a lead by ID
func (r *LeadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	lead := &models.Lead{}
	query := `
		SELECT id, nome, email, telefone, mensagem, origem, imovel_id, status, created_at, updated_at
		FROM leads
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&lead.ID,
		&lead.Nome,
		&lead.Email,
		&lead.Telefone,
		&lead.Mensagem,
		&lead.Origem,
		&lead.ImovelID,
		&lead.Status,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return lead, nil
}

// Update applies a partial update; only set fields are overwritten
func (r *LeadRepository) Update(ctx context.Context, id uuid.UUID, patch LeadPatch) (*models.Lead, error) {
	var sets []string
	var args []interface{}
	argIndex := 1

	set := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if patch.Nome != nil {
		set("nome", *patch.Nome)
	}
	if patch.Email != nil {
		set("email", *patch.Email)
	}
	if patch.Telefone != nil {
		set("telefone", *patch.Telefone)
	}
	if patch.Mensagem != nil {
		set("mensagem", *patch.Mensagem)
	}
	if patch.Origem != nil {
		set("origem", *patch.Origem)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf("UPDATE leads SET %s WHERE id = $%d", strings.Join(sets, ", "), argIndex)
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

// Delete removes a lead
func (r *LeadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM leads WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of leads
func (r *LeadRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM leads").Scan(&count)
	return count, err
}

// CountByStatus returns the number of leads with the given status
func (r *LeadRepository) CountByStatus(ctx context.Context, status models.LeadStatus) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM leads WHERE status = $1", status).Scan(&count)
	return count, err
}
