//go:build integration
// +build integration

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"imobiliaria-backend/config"
	"imobiliaria-backend/models"
	"imobiliaria-backend/repository"
	"imobiliaria-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var leadSchema = []string{
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

type leadTestEnv struct {
	router     *gin.Engine
	pool       *pgxpool.Pool
	leadRepo   *repository.LeadRepository
	configRepo *repository.ConfiguracaoRepository
}

// setupLeadEnv starts a PostgreSQL container and mounts the public lead
// endpoint with an email service pointed at an unreachable SMTP server.
func setupLeadEnv(t *testing.T) *leadTestEnv {
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

	for _, stmt := range leadSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			t.Fatalf("Failed to apply schema: %v", err)
		}
	}

	leadRepo := repository.NewLeadRepository(pool)
	imovelRepo := repository.NewImovelRepository(pool)
	configRepo := repository.NewConfiguracaoRepository(pool)
	// Nothing listens on port 1; a send attempt fails immediately
	email := service.NewEmailService(config.SMTPConfig{
		Host:      "127.0.0.1",
		Port:      1,
		FromEmail: "noreply@example.com",
		FromName:  "Imobiliária",
	})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/leads", NewLeadHandler(leadRepo, imovelRepo, configRepo, email).Create)

	return &leadTestEnv{router: router, pool: pool, leadRepo: leadRepo, configRepo: configRepo}
}

func (env *leadTestEnv) postLead(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	env.router.ServeHTTP(w, req)
	return w
}

func TestLeadHandler_CreateNotificationBestEffort(t *testing.T) {
	env := setupLeadEnv(t)
	ctx := context.Background()

	// No configuration row yet: creation succeeds without notifying
	w := env.postLead(t, `{"nome":"Ana Souza","email":"ana@example.com","telefone":"11999990000","mensagem":"Tenho interesse"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Lead
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	stored, err := env.leadRepo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", stored.Nome)
	assert.Equal(t, models.LeadStatusNovo, stored.Status)

	// Notifications disabled in configuration
	require.NoError(t, env.configRepo.Create(ctx, &models.Configuracao{
		NomeEmpresa:      "Imobiliária Teste",
		Email:            "admin@example.com",
		NotificacaoEmail: false,
	}))

	w = env.postLead(t, `{"nome":"Bruno Lima","email":"bruno@example.com","telefone":"11988880000"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// Notifications enabled but the SMTP server is unreachable; the
	// request must still succeed
	_, err = env.pool.Exec(ctx, "UPDATE configuracoes SET notificacao_email = true")
	require.NoError(t, err)

	w = env.postLead(t, `{"nome":"Carla Dias","email":"carla@example.com","telefone":"11977770000","origem":"Instagram"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var total int
	require.NoError(t, env.pool.QueryRow(ctx, "SELECT COUNT(*) FROM leads").Scan(&total))
	assert.Equal(t, 3, total)
}
