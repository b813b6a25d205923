package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"imobiliaria-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConfiguracaoPatch holds the optional fields for partial configuration
// updates
type ConfiguracaoPatch struct {
	NomeEmpresa *string
	Email       *string
	Telefone    *string
	Whatsapp    *string
	Site        **string
	Endereco    *string
	Sobre       **string

	NotificacaoEmail    *bool
	NotificacaoSMS      *bool
	NotificacaoWhatsapp *bool
}

// ConfiguracaoRepository handles database operations for the singleton
// site configuration row
type ConfiguracaoRepository struct {
	db *pgxpool.Pool
}

// NewConfiguracaoRepository creates a new configuration repository
func NewConfiguracaoRepository(db *pgxpool.Pool) *ConfiguracaoRepository {
	return &ConfiguracaoRepository{db: db}
}

const configuracaoColumns = `id, nome_empresa, email, telefone, whatsapp, site, endereco, sobre,
		notificacao_email, notificacao_sms, notificacao_whatsapp, created_at, updated_at`

// Get returns the configuration row, or ErrNotFound when none exists
func (r *ConfiguracaoRepository) Get(ctx context.Context) (*models.Configuracao, error) {
	config := &models.Configuracao{}
	query := "SELECT " + configuracaoColumns + " FROM configuracoes LIMIT 1"

	err := r.db.QueryRow(ctx, query).Scan(configuracaoFields(config)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return config, nil
}

// Create inserts the configuration row
func (r *ConfiguracaoRepository) Create(ctx context.Context, config *models.Configuracao) error {
	query := `
		INSERT INTO configuracoes (
			nome_empresa, email, telefone, whatsapp, site, endereco, sobre,
			notificacao_email, notificacao_sms, notificacao_whatsapp
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	return r.db.QueryRow(
		ctx, query,
		config.NomeEmpresa,
		config.Email,
		config.Telefone,
		config.Whatsapp,
		config.Site,
		config.Endereco,
		config.Sobre,
		config.NotificacaoEmail,
		config.NotificacaoSMS,
		config.NotificacaoWhatsapp,
	).Scan(&config.ID, &config.CreatedAt)
}

// Update applies a partial update to the existing configuration row
func (r *ConfiguracaoRepository) Update(ctx context.Context, patch ConfiguracaoPatch) (*models.Configuracao, error) {
	existing, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}

	var sets []string
	var args []interface{}
	argIndex := 1

	set := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if patch.NomeEmpresa != nil {
		set("nome_empresa", *patch.NomeEmpresa)
	}
	if patch.Email != nil {
		set("email", *patch.Email)
	}
	if patch.Telefone != nil {
		set("telefone", *patch.Telefone)
	}
	if patch.Whatsapp != nil {
		set("whatsapp", *patch.Whatsapp)
	}
	if patch.Site != nil {
		set("site", *patch.Site)
	}
	if patch.Endereco != nil {
		set("endereco", *patch.Endereco)
	}
	if patch.Sobre != nil {
		set("sobre", *patch.Sobre)
	}
	if patch.NotificacaoEmail != nil {
		set("notificacao_email", *patch.NotificacaoEmail)
	}
	if patch.NotificacaoSMS != nil {
		set("notificacao_sms", *patch.NotificacaoSMS)
	}
	if patch.NotificacaoWhatsapp != nil {
		set("notificacao_whatsapp", *patch.NotificacaoWhatsapp)
	}

	if len(sets) == 0 {
		return existing, nil
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf("UPDATE configuracoes SET %s WHERE id = $%d", strings.Join(sets, ", "), argIndex)
	args = append(args, existing.ID)

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return nil, err
	}

	return r.Get(ctx)
}

func configuracaoFields(c *models.Configuracao) []interface{} {
	return []interface{}{
		&c.ID,
		&c.NomeEmpresa,
		&c.Email,
		&c.Telefone,
		&c.Whatsapp,
		&c.Site,
		&c.Endereco,
		&c.Sobre,
		&c.NotificacaoEmail,
		&c.NotificacaoSMS,
		&c.NotificacaoWhatsapp,
		&c.CreatedAt,
		&c.UpdatedAt,
	}
}
