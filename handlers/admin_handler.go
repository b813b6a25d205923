package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"imobiliaria-backend/models"
	"imobiliaria-backend/repository"
	"imobiliaria-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AdminHandler handles HTTP requests for the back office: scheduled
// visits, site configuration and dashboard stats.
type AdminHandler struct {
	visitaRepo *repository.VisitaRepository
	imovelRepo *repository.ImovelRepository
	leadRepo   *repository.LeadRepository
	configRepo *repository.ConfiguracaoRepository
	email      *service.EmailService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(visitaRepo *repository.VisitaRepository, imovelRepo *repository.ImovelRepository, leadRepo *repository.LeadRepository, configRepo *repository.ConfiguracaoRepository, email *service.EmailService) *AdminHandler {
	return &AdminHandler{
		visitaRepo: visitaRepo,
		imovelRepo: imovelRepo,
		leadRepo:   leadRepo,
		configRepo: configRepo,
		email:      email,
	}
}

// Stats handles GET /api/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	totalImoveis, err := h.imovelRepo.Count(ctx)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "STATS_FAILED", err.Error())
		return
	}
	totalLeads, err := h.leadRepo.Count(ctx)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "STATS_FAILED", err.Error())
		return
	}
	visitasAgendadas, err := h.visitaRepo.CountByStatus(ctx, models.VisitaStatusAgendada)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "STATS_FAILED", err.Error())
		return
	}
	conversoes, err := h.leadRepo.CountByStatus(ctx, models.LeadStatusConvertido)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "STATS_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_imoveis":     totalImoveis,
		"total_leads":       totalLeads,
		"visitas_agendadas": visitasAgendadas,
		"conversoes":        conversoes,
	})
}

// CreateVisitaRequest represents the request body for scheduling a visit
type CreateVisitaRequest struct {
	ImovelID        uuid.UUID  `json:"imovel_id" binding:"required"`
	LeadID          *uuid.UUID `json:"lead_id"`
	NomeCliente     string     `json:"nome_cliente" binding:"required"`
	EmailCliente    string     `json:"email_cliente" binding:"required,email"`
	TelefoneCliente string     `json:"telefone_cliente" binding:"required"`
	DataHora        time.Time  `json:"data_hora" binding:"required"`
	Observacoes     *string    `json:"observacoes"`
}

// CreateVisita handles POST /api/admin/visits. The referenced listing
// must exist; the lead id is deliberately not validated.
func (h *AdminHandler) CreateVisita(c *gin.Context) {
	var req CreateVisitaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	imovel, err := h.imovelRepo.GetByID(c.Request.Context(), req.ImovelID)
	if err != nil {
		respondRepoError(c, err, "Listing not found")
		return
	}

	visita := &models.Visita{
		ImovelID:        req.ImovelID,
		LeadID:          req.LeadID,
		NomeCliente:     req.NomeCliente,
		EmailCliente:    req.EmailCliente,
		TelefoneCliente: req.TelefoneCliente,
		DataHora:        req.DataHora,
		Observacoes:     req.Observacoes,
	}
	if err := h.visitaRepo.Create(c.Request.Context(), visita); err != nil {
		respondError(c, http.StatusInternalServerError, "CREATE_FAILED", err.Error())
		return
	}

	h.notifyNewVisita(c.Request.Context(), visita, imovel.Titulo)

	c.JSON(http.StatusCreated, visita)
}

// notifyNewVisita emails the admin when configuration allows it. Every
// failure is logged and swallowed.
func (h *AdminHandler) notifyNewVisita(ctx context.Context, visita *models.Visita, imovelTitulo string) {
	config, err := h.configRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logrus.WithError(err).Error("Failed to load configuration for visit notification")
		}
		return
	}
	if !config.NotificacaoEmail || config.Email == "" {
		return
	}

	if err := h.email.SendNewVisitNotification(visita, imovelTitulo, config.Email); err != nil {
		logrus.WithError(err).WithField("visita_id", visita.ID).Error("Failed to send visit notification")
	}
}

// ListVisitas handles GET /api/admin/visits
func (h *AdminHandler) ListVisitas(c *gin.Context) {
	var filter repository.VisitaFilter

	if v := c.Query("status"); v != "" {
		s := models.VisitaStatus(v)
		if !s.Valid() {
			respondError(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown visit status: "+v)
			return
		}
		filter.Status = &s
	}
	if v := c.Query("data_inicio"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_QUERY", "Invalid datetime for data_inicio")
			return
		}
		filter.DataInicio = &t
	}
	if v := c.Query("data_fim"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_QUERY", "Invalid datetime for data_fim")
			return
		}
		filter.DataFim = &t
	}

	skip := queryIntMin(c, "skip", 0, 0)
	limit := queryIntMin(c, "limit", 100, 1)

	visitas, err := h.visitaRepo.List(c.Request.Context(), filter, skip, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", err.Error())
		return
	}
	if visitas == nil {
		visitas = []*models.Visita{}
	}

	c.JSON(http.StatusOK, visitas)
}

// GetVisita handles GET /api/admin/visits/:id
func (h *AdminHandler) GetVisita(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	visita, err := h.visitaRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondRepoError(c, err, "Visit not found")
		return
	}

	c.JSON(http.StatusOK, visita)
}

// UpdateVisita handles PUT /api/admin/visits/:id with partial-update
// semantics
func (h *AdminHandler) UpdateVisita(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	raw, err := decodePatch(body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	var patch repository.VisitaPatch
	if err := field(raw, "nome_cliente", &patch.NomeCliente); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := field(raw, "email_cliente", &patch.EmailCliente); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := field(raw, "telefone_cliente", &patch.TelefoneCliente); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := field(raw, "data_hora", &patch.DataHora); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := field(raw, "status", &patch.Status); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := nullableField(raw, "observacoes", &patch.Observacoes); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if patch.Status != nil && !patch.Status.Valid() {
		respondError(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown visit status: "+string(*patch.Status))
		return
	}

	visita, err := h.visitaRepo.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondRepoError(c, err, "Visit not found")
		return
	}

	c.JSON(http.StatusOK, visita)
}

// DeleteVisita handles DELETE /api/admin/visits/:id
func (h *AdminHandler) DeleteVisita(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.visitaRepo.Delete(c.Request.Context(), id); err != nil {
		respondRepoError(c, err, "Visit not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetConfiguracao handles GET /api/admin/configuration
func (h *AdminHandler) GetConfiguracao(c *gin.Context) {
	config, err := h.configRepo.Get(c.Request.Context())
	if err != nil {
		respondRepoError(c, err, "Configuration not found")
		return
	}

	c.JSON(http.StatusOK, config)
}

// UpsertConfiguracaoRequest represents the request body for creating the
// configuration row when none exists yet
type UpsertConfiguracaoRequest struct {
	NomeEmpresa string  `json:"nome_empresa" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Telefone    string  `json:"telefone" binding:"required"`
	Whatsapp    string  `json:"whatsapp" binding:"required"`
	Site        *string `json:"site"`
	Endereco    string  `json:"endereco" binding:"required"`
	Sobre       *string `json:"sobre"`

	NotificacaoEmail    *bool `json:"notificacao_email"`
	NotificacaoSMS      *bool `json:"notificacao_sms"`
	NotificacaoWhatsapp *bool `json:"notificacao_whatsapp"`
}

// UpsertConfiguracao handles PUT /api/admin/configuration: creates the
// row when absent, else applies a partial update.
func (h *AdminHandler) UpsertConfiguracao(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	existing, err := h.configRepo.Get(c.Request.Context())
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	if existing == nil {
		h.createConfiguracao(c, body)
		return
	}

	raw, err := decodePatch(body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	patch, err := buildConfiguracaoPatch(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	config, err := h.configRepo.Update(c.Request.Context(), patch)
	if err != nil {
		respondRepoError(c, err, "Configuration not found")
		return
	}

	c.JSON(http.StatusOK, config)
}

func (h *AdminHandler) createConfiguracao(c *gin.Context, body []byte) {
	var req UpsertConfiguracaoRequest
	if err := bindJSONBytes(body, &req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	config := &models.Configuracao{
		NomeEmpresa:         req.NomeEmpresa,
		Email:               req.Email,
		Telefone:            req.Telefone,
		Whatsapp:            req.Whatsapp,
		Site:                req.Site,
		Endereco:            req.Endereco,
		Sobre:               req.Sobre,
		NotificacaoEmail:    true,
		NotificacaoSMS:      false,
		NotificacaoWhatsapp: true,
	}
	if req.NotificacaoEmail != nil {
		config.NotificacaoEmail = *req.NotificacaoEmail
	}
	if req.NotificacaoSMS != nil {
		config.NotificacaoSMS = *req.NotificacaoSMS
	}
	if req.NotificacaoWhatsapp != nil {
		config.NotificacaoWhatsapp = *req.NotificacaoWhatsapp
	}

	if err := h.configRepo.Create(c.Request.Context(), config); err != nil {
		respondError(c, http.StatusInternalServerError, "CREATE_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, config)
}

func buildConfiguracaoPatch(raw rawPatch) (repository.ConfiguracaoPatch, error) {
	var patch repository.ConfiguracaoPatch
	if err := field(raw, "nome_empresa", &patch.NomeEmpresa); err != nil {
		return patch, err
	}
	if err := field(raw, "email", &patch.Email); err != nil {
		return patch, err
	}
	if err := field(raw, "telefone", &patch.Telefone); err != nil {
		return patch, err
	}
	if err := field(raw, "whatsapp", &patch.Whatsapp); err != nil {
		return patch, err
	}
	if err := nullableField(raw, "site", &patch.Site); err != nil {
		return patch, err
	}
	if err := field(raw, "endereco", &patch.Endereco); err != nil {
		return patch, err
	}
	if err := nullableField(raw, "sobre", &patch.Sobre); err != nil {
		return patch, err
	}
	if err := field(raw, "notificacao_email", &patch.NotificacaoEmail); err != nil {
		return patch, err
	}
	if err := field(raw, "notificacao_sms", &patch.NotificacaoSMS); err != nil {
		return patch, err
	}
	if err := field(raw, "notificacao_whatsapp", &patch.NotificacaoWhatsapp); err != nil {
		return patch, err
	}
	return patch, nil
}
