//go:build integration
// +build integration

package repository

import (
	"context"
	"testing"
	"time"

	"imobiliaria-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testSchema = []string{
	`CREATE TABLE users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		username VARCHAR(150) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		hashed_password VARCHAR(255) NOT NULL,
		first_name VARCHAR(150),
		last_name VARCHAR(150),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE imoveis (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		titulo VARCHAR(255) NOT NULL,
		descricao TEXT NOT NULL DEFAULT '',
		tipo_imovel VARCHAR(20) NOT NULL,
		tipo_negocio VARCHAR(10) NOT NULL,
		preco_venda NUMERIC(14,2),
		valor_aluguel NUMERIC(14,2),
		area_total NUMERIC(12,2) NOT NULL DEFAULT 0,
		area_construida NUMERIC(12,2),
		quartos INTEGER NOT NULL DEFAULT 0,
		banheiros INTEGER NOT NULL DEFAULT 0,
		vagas_garagem INTEGER NOT NULL DEFAULT 0,
		rua VARCHAR(255) NOT NULL DEFAULT '',
		numero VARCHAR(20) NOT NULL DEFAULT '',
		complemento VARCHAR(100),
		bairro VARCHAR(100) NOT NULL DEFAULT '',
		cidade VARCHAR(100) NOT NULL DEFAULT '',
		estado VARCHAR(2) NOT NULL DEFAULT '',
		cep VARCHAR(10) NOT NULL DEFAULT '',
		piscina BOOLEAN NOT NULL DEFAULT false,
		aceita_pets BOOLEAN NOT NULL DEFAULT false,
		mobiliado BOOLEAN NOT NULL DEFAULT false,
		destaque BOOLEAN NOT NULL DEFAULT false,
		criado_em TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		atualizado_em TIMESTAMPTZ
	)`,
	`CREATE TABLE imovel_imagens (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		imovel_id UUID NOT NULL REFERENCES imoveis(id) ON DELETE CASCADE,
		imagem_url VARCHAR(500) NOT NULL,
		ordem INTEGER NOT NULL DEFAULT 0,
		principal BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE leads (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		nome VARCHAR(150) NOT NULL,
		email VARCHAR(255) NOT NULL,
		telefone VARCHAR(30) NOT NULL DEFAULT '',
		mensagem TEXT,
		origem VARCHAR(100),
		imovel_id UUID REFERENCES imoveis(id) ON DELETE SET NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'novo',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE TABLE visitas (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		imovel_id UUID NOT NULL REFERENCES imoveis(id) ON DELETE CASCADE,
		lead_id UUID REFERENCES leads(id) ON DELETE SET NULL,
		nome_cliente VARCHAR(150) NOT NULL,
		email_cliente VARCHAR(255) NOT NULL DEFAULT '',
		telefone_cliente VARCHAR(30) NOT NULL DEFAULT '',
		data_hora TIMESTAMPTZ NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'agendada',
		observacoes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE TABLE configuracoes (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		nome_empresa VARCHAR(255) NOT NULL DEFAULT '',
		email VARCHAR(255) NOT NULL DEFAULT '',
		telefone VARCHAR(30) NOT NULL DEFAULT '',
		whatsapp VARCHAR(30) NOT NULL DEFAULT '',
		site VARCHAR(255),
		endereco VARCHAR(255) NOT NULL DEFAULT '',
		sobre TEXT,
		notificacao_email BOOLEAN NOT NULL DEFAULT true,
		notificacao_sms BOOLEAN NOT NULL DEFAULT false,
		notificacao_whatsapp BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,
}

// setupTestDB starts a PostgreSQL container, applies the schema and
// returns a connected pool.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to create pool: %v", err)
	}
	t.Cleanup(pool.Close)

	for _, stmt := range testSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			t.Fatalf("Failed to apply schema: %v", err)
		}
	}

	return pool
}

func newTestImovel(titulo string) *models.Imovel {
	preco := 500000.0
	return &models.Imovel{
		Titulo:      titulo,
		Descricao:   "Casa ampla com quintal",
		TipoImovel:  models.TipoImovelCasa,
		TipoNegocio: models.TipoNegocioVenda,
		PrecoVenda:  &preco,
		AreaTotal:   250,
		Quartos:     3,
		Banheiros:   2,
		Cidade:      "São Paulo",
		Bairro:      "Moema",
		Estado:      "SP",
	}
}

func TestUserRepository_Conflicts(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewUserRepository(pool)
	ctx := context.Background()

	user := &models.User{Username: "admin", Email: "admin@example.com", HashedPassword: "x"}
	require.NoError(t, repo.Create(ctx, user))
	require.NotEqual(t, uuid.Nil, user.ID)

	dupUsername := &models.User{Username: "admin", Email: "other@example.com", HashedPassword: "x"}
	assert.ErrorIs(t, repo.Create(ctx, dupUsername), ErrConflict)

	dupEmail := &models.User{Username: "other", Email: "admin@example.com", HashedPassword: "x"}
	assert.ErrorIs(t, repo.Create(ctx, dupEmail), ErrConflict)

	got, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestImovelRepository_CRUDAndPagination(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewImovelRepository(pool)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		imovel := newTestImovel("Casa " + string(rune('A'+i)))
		require.NoError(t, repo.Create(ctx, imovel))
	}

	page1, total, err := repo.List(ctx, ImovelFilter{}, "titulo", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page1, 2)
	assert.Equal(t, "Casa A", page1[0].Titulo)

	page3, total, err := repo.List(ctx, ImovelFilter{}, "titulo", 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, page3, 1)

	cidade := "São Paulo"
	filtered, total, err := repo.List(ctx, ImovelFilter{Cidade: &cidade}, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, filtered, 5)

	outra := "Curitiba"
	_, total, err = repo.List(ctx, ImovelFilter{Cidade: &outra}, "", 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestImovelRepository_UpdatePatch(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewImovelRepository(pool)
	ctx := context.Background()

	imovel := newTestImovel("Original")
	require.NoError(t, repo.Create(ctx, imovel))

	titulo := "Renovado"
	quartos := 4
	updated, err := repo.Update(ctx, imovel.ID, ImovelPatch{Titulo: &titulo, Quartos: &quartos})
	require.NoError(t, err)
	assert.Equal(t, "Renovado", updated.Titulo)
	assert.Equal(t, 4, updated.Quartos)
	// Untouched fields survive the partial update
	assert.Equal(t, imovel.Descricao, updated.Descricao)
	assert.NotNil(t, updated.AtualizadoEm)

	// Explicit null clears a nullable column
	var noPrice *float64
	cleared, err := repo.Update(ctx, imovel.ID, ImovelPatch{PrecoVenda: &noPrice})
	require.NoError(t, err)
	assert.Nil(t, cleared.PrecoVenda)

	_, err = repo.Update(ctx, uuid.New(), ImovelPatch{Titulo: &titulo})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestImovelRepository_ToggleDestaque(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewImovelRepository(pool)
	ctx := context.Background()

	imovel := newTestImovel("Destaque")
	require.NoError(t, repo.Create(ctx, imovel))
	assert.False(t, imovel.Destaque)

	on, err := repo.ToggleDestaque(ctx, imovel.ID)
	require.NoError(t, err)
	assert.True(t, on.Destaque)

	featured, err := repo.ListDestaques(ctx, 6)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, imovel.ID, featured[0].ID)

	off, err := repo.ToggleDestaque(ctx, imovel.ID)
	require.NoError(t, err)
	assert.False(t, off.Destaque)

	_, err = repo.ToggleDestaque(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestImovelImagemRepository_PrincipalExclusive(t *testing.T) {
	pool := setupTestDB(t)
	imovelRepo := NewImovelRepository(pool)
	imagemRepo := NewImovelImagemRepository(pool)
	ctx := context.Background()

	imovel := newTestImovel("Com fotos")
	require.NoError(t, imovelRepo.Create(ctx, imovel))

	first := &models.ImovelImagem{ImovelID: imovel.ID, ImagemURL: "/uploads/a.jpg", Ordem: 0, Principal: true}
	require.NoError(t, imagemRepo.Attach(ctx, first))

	second := &models.ImovelImagem{ImovelID: imovel.ID, ImagemURL: "/uploads/b.jpg", Ordem: 1, Principal: true}
	require.NoError(t, imagemRepo.Attach(ctx, second))

	imagens, err := imagemRepo.ListByImovel(ctx, imovel.ID)
	require.NoError(t, err)
	require.Len(t, imagens, 2)

	principais := 0
	for _, img := range imagens {
		if img.Principal {
			principais++
			assert.Equal(t, "/uploads/b.jpg", img.ImagemURL)
		}
	}
	assert.Equal(t, 1, principais)

	got, err := imovelRepo.GetByID(ctx, imovel.ID)
	require.NoError(t, err)
	url := got.ImagemPrincipal()
	require.NotNil(t, url)
	assert.Equal(t, "/uploads/b.jpg", *url)
}

func TestImovelImagemRepository_GetAndDelete(t *testing.T) {
	pool := setupTestDB(t)
	imovelRepo := NewImovelRepository(pool)
	imagemRepo := NewImovelImagemRepository(pool)
	ctx := context.Background()

	imovel := newTestImovel("Foto avulsa")
	require.NoError(t, imovelRepo.Create(ctx, imovel))

	img := &models.ImovelImagem{ImovelID: imovel.ID, ImagemURL: "/uploads/solta.jpg", Principal: true}
	require.NoError(t, imagemRepo.Attach(ctx, img))

	got, err := imagemRepo.GetByID(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, imovel.ID, got.ImovelID)
	assert.Equal(t, "/uploads/solta.jpg", got.ImagemURL)
	assert.True(t, got.Principal)

	require.NoError(t, imagemRepo.Delete(ctx, img.ID))

	_, err = imagemRepo.GetByID(ctx, img.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, imagemRepo.Delete(ctx, img.ID), ErrNotFound)

	imagens, err := imagemRepo.ListByImovel(ctx, imovel.ID)
	require.NoError(t, err)
	assert.Empty(t, imagens)
}

func TestImovelRepository_DeleteCascadesImages(t *testing.T) {
	pool := setupTestDB(t)
	imovelRepo := NewImovelRepository(pool)
	imagemRepo := NewImovelImagemRepository(pool)
	ctx := context.Background()

	imovel := newTestImovel("Para remover")
	require.NoError(t, imovelRepo.Create(ctx, imovel))
	require.NoError(t, imagemRepo.Attach(ctx, &models.ImovelImagem{ImovelID: imovel.ID, ImagemURL: "/uploads/x.jpg"}))

	require.NoError(t, imovelRepo.Delete(ctx, imovel.ID))

	_, err := imovelRepo.GetByID(ctx, imovel.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	imagens, err := imagemRepo.ListByImovel(ctx, imovel.ID)
	require.NoError(t, err)
	assert.Empty(t, imagens)

	assert.ErrorIs(t, imovelRepo.Delete(ctx, imovel.ID), ErrNotFound)
}

func TestLeadRepository_StatusFlow(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewLeadRepository(pool)
	ctx := context.Background()

	lead := &models.Lead{Nome: "Maria", Email: "maria@example.com", Telefone: "11999990000"}
	require.NoError(t, repo.Create(ctx, lead))
	assert.Equal(t, models.LeadStatusNovo, lead.Status)

	status := models.LeadStatusContatado
	updated, err := repo.Update(ctx, lead.ID, LeadPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.LeadStatusContatado, updated.Status)

	novos, err := repo.CountByStatus(ctx, models.LeadStatusNovo)
	require.NoError(t, err)
	assert.Zero(t, novos)

	contatados, err := repo.CountByStatus(ctx, models.LeadStatusContatado)
	require.NoError(t, err)
	assert.Equal(t, 1, contatados)

	filtro := models.LeadStatusContatado
	list, err := repo.List(ctx, &filtro, 0, 100)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, lead.ID))
	assert.ErrorIs(t, repo.Delete(ctx, lead.ID), ErrNotFound)
}

func TestVisitaRepository_DateRangeFilter(t *testing.T) {
	pool := setupTestDB(t)
	imovelRepo := NewImovelRepository(pool)
	visitaRepo := NewVisitaRepository(pool)
	ctx := context.Background()

	imovel := newTestImovel("Visitas")
	require.NoError(t, imovelRepo.Create(ctx, imovel))

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		visita := &models.Visita{
			ImovelID:    imovel.ID,
			NomeCliente: "Cliente",
			DataHora:    base.AddDate(0, 0, i*7),
		}
		require.NoError(t, visitaRepo.Create(ctx, visita))
		assert.Equal(t, models.VisitaStatusAgendada, visita.Status)
	}

	inicio := base.AddDate(0, 0, 5)
	fim := base.AddDate(0, 0, 10)
	list, err := visitaRepo.List(ctx, VisitaFilter{DataInicio: &inicio, DataFim: &fim}, 0, 100)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, base.AddDate(0, 0, 7), list[0].DataHora.UTC())

	all, err := visitaRepo.List(ctx, VisitaFilter{}, 0, 100)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Ascending by date
	assert.True(t, all[0].DataHora.Before(all[1].DataHora))

	agendadas, err := visitaRepo.CountByStatus(ctx, models.VisitaStatusAgendada)
	require.NoError(t, err)
	assert.Equal(t, 3, agendadas)
}

func TestConfiguracaoRepository_Singleton(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewConfiguracaoRepository(pool)
	ctx := context.Background()

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	config := &models.Configuracao{
		NomeEmpresa:         "Imobiliária Horizonte",
		Email:               "contato@horizonte.com",
		NotificacaoEmail:    true,
		NotificacaoWhatsapp: true,
	}
	require.NoError(t, repo.Create(ctx, config))

	telefone := "1133334444"
	updated, err := repo.Update(ctx, ConfiguracaoPatch{Telefone: &telefone})
	require.NoError(t, err)
	assert.Equal(t, "1133334444", updated.Telefone)
	assert.Equal(t, "Imobiliária Horizonte", updated.NomeEmpresa)
	assert.True(t, updated.NotificacaoEmail)
}
