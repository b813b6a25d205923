package repository

import (
	"context"
	"errors"

	"imobiliaria-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ImovelImagemRepository handles database operations for listing images
type ImovelImagemRepository struct {
	db *pgxpool.Pool
}

// NewImovelImagemRepository creates a new image repository
func NewImovelImagemRepository(db *pgxpool.Pool) *ImovelImagemRepository {
	return &ImovelImagemRepository{db: db}
}

// Attach inserts an image row. When the image is flagged principal, the
// principal flag is first cleared on the listing's other images. The two
// statements run without a wrapping transaction; callers that need the
// at-most-one-principal invariant to hold atomically should upgrade this
// method, not work around it.
func (r *ImovelImagemRepository) Attach(ctx context.Context, img *models.ImovelImagem) error {
	if img.Principal {
		_, err := r.db.Exec(ctx,
			"UPDATE imovel_imagens SET principal = false WHERE imovel_id = $1", img.ImovelID)
		if err != nil {
			return err
		}
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO imovel_imagens (imovel_id, imagem_url, ordem, principal)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		img.ImovelID, img.ImagemURL, img.Ordem, img.Principal,
	).Scan(&img.ID, &img.CreatedAt)
}

// ListByImovel returns a listing's images by stored order
func (r *ImovelImagemRepository) ListByImovel(ctx context.Context, imovelID uuid.UUID) ([]models.ImovelImagem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, imovel_id, imagem_url, ordem, principal, created_at
		FROM imovel_imagens
		WHERE imovel_id = $1
		ORDER BY ordem, created_at`, imovelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	imagens := []models.ImovelImagem{}
	for rows.Next() {
		var img models.ImovelImagem
		if err := rows.Scan(&img.ID, &img.ImovelID, &img.ImagemURL, &img.Ordem, &img.Principal, &img.CreatedAt); err != nil {
			return nil, err
		}
		imagens = append(imagens, img)
	}
	return imagens, rows.Err()
}

// Delete removes an image row
func (r *ImovelImagemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM imovel_imagens WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID retrieves an image by ID
func (r *ImovelImagemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ImovelImagem, error) {
	img := &models.ImovelImagem{}
	err := r.db.QueryRow(ctx, `
		SELECT id, imovel_id, imagem_url, ordem, principal, created_at
		FROM imovel_imagens
		WHERE id = $1`, id,
	).Scan(&img.ID, &img.ImovelID, &img.ImagemURL, &img.Ordem, &img.Principal, &img.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return img, nil
}
