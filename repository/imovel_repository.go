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

const imovelColumns = `id, titulo, descricao, tipo_imovel, tipo_negocio,
		preco_venda, valor_aluguel,
		area_total, area_construida, quartos, banheiros, vagas_garagem,
		rua, numero, complemento, bairro, cidade, estado, cep,
		piscina, aceita_pets, mobiliado, destaque,
		criado_em, atualizado_em`

// ImovelFilter holds the optional, conjunctive filters for listing queries.
// Nil fields are skipped.
type ImovelFilter struct {
	TipoNegocio   *models.TipoNegocio
	TipoImovel    *models.TipoImovel
	Cidade        *string
	Bairro        *string
	PrecoVendaGte *float64
	PrecoVendaLte *float64
	AreaTotalGte  *float64
	AreaTotalLte  *float64
	Quartos       *int
	Banheiros     *int
	VagasGaragem  *int
	Piscina       *bool
	AceitaPets    *bool
	Mobiliado     *bool
	Search        *string
}

// ImovelPatch holds the optional fields for partial updates. Nil means
// unchanged; for nullable columns an explicit null clears the value.
type ImovelPatch struct {
	Titulo         *string
	Descricao      *string
	TipoImovel     *models.TipoImovel
	TipoNegocio    *models.TipoNegocio
	PrecoVenda     **float64
	ValorAluguel   **float64
	AreaTotal      *float64
	AreaConstruida **float64
	Quartos        *int
	Banheiros      *int
	VagasGaragem   *int
	Rua            *string
	Numero         *string
	Complemento    **string
	Bairro         *string
	Cidade         *string
	Estado         *string
	CEP            *string
	Piscina        *bool
	AceitaPets     *bool
	Mobiliado      *bool
	Destaque       *bool
}

// orderableColumns whitelists the fields accepted by the ordering
// parameter. Anything else falls back to the default ordering.
var orderableColumns = map[string]bool{
	"criado_em":     true,
	"atualizado_em": true,
	"preco_venda":   true,
	"valor_aluguel": true,
	"area_total":    true,
	"quartos":       true,
	"titulo":        true,
}

// ImovelRepository handles database operations for listings
type ImovelRepository struct {
	db *pgxpool.Pool
}

// NewImovelRepository creates a new listing repository
func NewImovelRepository(db *pgxpool.Pool) *ImovelRepository {
	return &ImovelRepository{db: db}
}

// buildFilterClause renders the WHERE clause for a filter, continuing the
// positional argument numbering from argIndex.
func buildFilterClause(f ImovelFilter, argIndex int) (string, []interface{}) {
	var conds []string
	var args []interface{}

	add := func(cond string, value interface{}) {
		conds = append(conds, fmt.Sprintf(cond, argIndex))
		args = append(args, value)
		argIndex++
	}

	if f.TipoNegocio != nil {
		add("tipo_negocio = $%d", *f.TipoNegocio)
	}
	if f.TipoImovel != nil {
		add("tipo_imovel = $%d", *f.TipoImovel)
	}
	if f.Cidade != nil {
		add("cidade ILIKE $%d", "%"+*f.Cidade+"%")
	}
	if f.Bairro != nil {
		add("bairro ILIKE $%d", "%"+*f.Bairro+"%")
	}
	if f.PrecoVendaGte != nil {
		add("preco_venda >= $%d", *f.PrecoVendaGte)
	}
	if f.PrecoVendaLte != nil {
		add("preco_venda <= $%d", *f.PrecoVendaLte)
	}
	if f.AreaTotalGte != nil {
		add("area_total >= $%d", *f.AreaTotalGte)
	}
	if f.AreaTotalLte != nil {
		add("area_total <= $%d", *f.AreaTotalLte)
	}
	if f.Quartos != nil {
		add("quartos >= $%d", *f.Quartos)
	}
	if f.Banheiros != nil {
		add("banheiros >= $%d", *f.Banheiros)
	}
	if f.VagasGaragem != nil {
		add("vagas_garagem >= $%d", *f.VagasGaragem)
	}
	if f.Piscina != nil {
		add("piscina = $%d", *f.Piscina)
	}
	if f.AceitaPets != nil {
		add("aceita_pets = $%d", *f.AceitaPets)
	}
	if f.Mobiliado != nil {
		add("mobiliado = $%d", *f.Mobiliado)
	}
	if f.Search != nil {
		pattern := "%" + *f.Search + "%"
		conds = append(conds, fmt.Sprintf(
			"(titulo ILIKE $%d OR descricao ILIKE $%d OR cidade ILIKE $%d OR bairro ILIKE $%d)",
			argIndex, argIndex, argIndex, argIndex))
		args = append(args, pattern)
		argIndex++
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// buildOrderClause renders the ORDER BY clause for an ordering parameter.
// A "-" prefix means descending; unknown fields use the default.
func buildOrderClause(ordering string) string {
	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")
	if !orderableColumns[field] {
		field, desc = "criado_em", true
	}
	if desc {
		return fmt.Sprintf(" ORDER BY %s DESC", field)
	}
	return fmt.Sprintf(" ORDER BY %s", field)
}

// List returns the page of listings matching the filter, plus the total
// match count before pagination. Page is 1-indexed.
func (r *ImovelRepository) List(ctx context.Context, filter ImovelFilter, ordering string, page, limit int) ([]*models.Imovel, int, error) {
	where, args := buildFilterClause(filter, 1)

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM imoveis"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + imovelColumns + " FROM imoveis" + where + buildOrderClause(ordering)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	imoveis, err := scanImoveis(rows)
	if err != nil {
		return nil, 0, err
	}

	if err := r.loadImagens(ctx, imoveis); err != nil {
		return nil, 0, err
	}

	return imoveis, total, nil
}

// ListDestaques returns featured listings, newest first.
func (r *ImovelRepository) ListDestaques(ctx context.Context, limit int) ([]*models.Imovel, error) {
	query := "SELECT " + imovelColumns + " FROM imoveis WHERE destaque = true ORDER BY criado_em DESC LIMIT $1"

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	imoveis, err := scanImoveis(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadImagens(ctx, imoveis); err != nil {
		return nil, err
	}

	return imoveis, nil
}

// GetByID retrieves a listing with its images
func (r *ImovelRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Imovel, error) {
	imovel := &models.Imovel{}
	query := "SELECT " + imovelColumns + " FROM imoveis WHERE id = $1"

	err := r.db.QueryRow(ctx, query, id).Scan(imovelFields(imovel)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := r.loadImagens(ctx, []*models.Imovel{imovel}); err != nil {
		return nil, err
	}

	return imovel, nil
}

// Create inserts a new listing
func (r *ImovelRepository) Create(ctx context.Context, imovel *models.Imovel) error {
	query := `
		INSERT INTO imoveis (
			titulo, descricao, tipo_imovel, tipo_negocio,
			preco_venda, valor_aluguel,
			area_total, area_construida, quartos, banheiros, vagas_garagem,
			rua, numero, complemento, bairro, cidade, estado, cep,
			piscina, aceita_pets, mobiliado, destaque
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
		) RETURNING id, criado_em`

	err := r.db.QueryRow(
		ctx, query,
		imovel.Titulo,
		imovel.Descricao,
		imovel.TipoImovel,
		imovel.TipoNegocio,
		imovel.PrecoVenda,
		imovel.ValorAluguel,
		imovel.AreaTotal,
		imovel.AreaConstruida,
		imovel.Quartos,
		imovel.Banheiros,
		imovel.VagasGaragem,
		imovel.Rua,
		imovel.Numero,
		imovel.Complemento,
		imovel.Bairro,
		imovel.Cidade,
		imovel.Estado,
		imovel.CEP,
		imovel.Piscina,
		imovel.AceitaPets,
		imovel.Mobiliado,
		imovel.Destaque,
	).Scan(&imovel.ID, &imovel.CriadoEm)

	return err
}

// Update applies a partial update; only set fields are overwritten.
func (r *ImovelRepository) Update(ctx context.Context, id uuid.UUID, patch ImovelPatch) (*models.Imovel, error) {
	var sets []string
	var args []interface{}
	argIndex := 1

	set := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if patch.Titulo != nil {
		set("titulo", *patch.Titulo)
	}
	if patch.Descricao != nil {
		set("descricao", *patch.Descricao)
	}
	if patch.TipoImovel != nil {
		set("tipo_imovel", *patch.TipoImovel)
	}
	if patch.TipoNegocio != nil {
		set("tipo_negocio", *patch.TipoNegocio)
	}
	if patch.PrecoVenda != nil {
		set("preco_venda", *patch.PrecoVenda)
	}
	if patch.ValorAluguel != nil {
		set("valor_aluguel", *patch.ValorAluguel)
	}
	if patch.AreaTotal != nil {
		set("area_total", *patch.AreaTotal)
	}
	if patch.AreaConstruida != nil {
		set("area_construida", *patch.AreaConstruida)
	}
	if patch.Quartos != nil {
		set("quartos", *patch.Quartos)
	}
	if patch.Banheiros != nil {
		set("banheiros", *patch.Banheiros)
	}
	if patch.VagasGaragem != nil {
		set("vagas_garagem", *patch.VagasGaragem)
	}
	if patch.Rua != nil {
		set("rua", *patch.Rua)
	}
	if patch.Numero != nil {
		set("numero", *patch.Numero)
	}
	if patch.Complemento != nil {
		set("complemento", *patch.Complemento)
	}
	if patch.Bairro != nil {
		set("bairro", *patch.Bairro)
	}
	if patch.Cidade != nil {
		set("cidade", *patch.Cidade)
	}
	if patch.Estado != nil {
		set("estado", *patch.Estado)
	}
	if patch.CEP != nil {
		set("cep", *patch.CEP)
	}
	if patch.Piscina != nil {
		set("piscina", *patch.Piscina)
	}
	if patch.AceitaPets != nil {
		set("aceita_pets", *patch.AceitaPets)
	}
	if patch.Mobiliado != nil {
		set("mobiliado", *patch.Mobiliado)
	}
	if patch.Destaque != nil {
		set("destaque", *patch.Destaque)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "atualizado_em = NOW()")
	query := fmt.Sprintf("UPDATE imoveis SET %s WHERE id = $%d", strings.Join(sets, ", "), argIndex)
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

// Delete removes a listing; images go with it via ON DELETE CASCADE.
func (r *ImovelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM imoveis WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleDestaque flips the featured flag and returns the updated listing.
func (r *ImovelRepository) ToggleDestaque(ctx context.Context, id uuid.UUID) (*models.Imovel, error) {
	tag, err := r.db.Exec(ctx,
		"UPDATE imoveis SET destaque = NOT destaque, atualizado_em = NOW() WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Count returns the total number of listings
func (r *ImovelRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM imoveis").Scan(&count)
	return count, err
}

func imovelFields(i *models.Imovel) []interface{} {
	return []interface{}{
		&i.ID,
		&i.Titulo,
		&i.Descricao,
		&i.TipoImovel,
		&i.TipoNegocio,
		&i.PrecoVenda,
		&i.ValorAluguel,
		&i.AreaTotal,
		&i.AreaConstruida,
		&i.Quartos,
		&i.Banheiros,
		&i.VagasGaragem,
		&i.Rua,
		&i.Numero,
		&i.Complemento,
		&i.Bairro,
		&i.Cidade,
		&i.Estado,
		&i.CEP,
		&i.Piscina,
		&i.AceitaPets,
		&i.Mobiliado,
		&i.Destaque,
		&i.CriadoEm,
		&i.AtualizadoEm,
	}
}

func scanImoveis(rows pgx.Rows) ([]*models.Imovel, error) {
	var imoveis []*models.Imovel
	for rows.Next() {
		imovel := &models.Imovel{}
		if err := rows.Scan(imovelFields(imovel)...); err != nil {
			return nil, err
		}
		imoveis = append(imoveis, imovel)
	}
	return imoveis, rows.Err()
}

// loadImagens attaches the ordered image collections to the given listings.
func (r *ImovelRepository) loadImagens(ctx context.Context, imoveis []*models.Imovel) error {
	if len(imoveis) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(imoveis))
	byID := make(map[uuid.UUID]*models.Imovel, len(imoveis))
	for i, imovel := range imoveis {
		ids[i] = imovel.ID
		byID[imovel.ID] = imovel
		imovel.Imagens = []models.ImovelImagem{}
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, imovel_id, imagem_url, ordem, principal, created_at
		FROM imovel_imagens
		WHERE imovel_id = ANY($1)
		ORDER BY ordem, created_at`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var img models.ImovelImagem
		if err := rows.Scan(&img.ID, &img.ImovelID, &img.ImagemURL, &img.Ordem, &img.Principal, &img.CreatedAt); err != nil {
			return err
		}
		if imovel, ok := byID[img.ImovelID]; ok {
			imovel.Imagens = append(imovel.Imagens, img)
		}
	}

	return rows.Err()
}
