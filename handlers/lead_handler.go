package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"imobiliaria-backend/models"
	"imobiliaria-backend/repository"
	"imobiliaria-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LeadHandler handles HTTP requests for leads
type LeadHandler struct {
	leadRepo   *repository.LeadRepository
	imovelRepo *repository.ImovelRepository
	configRepo *repository.ConfiguracaoRepository
	email      *service.EmailService
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leadRepo *repository.LeadRepository, imovelRepo *repository.ImovelRepository, configRepo *repository.ConfiguracaoRepository, email *service.EmailService) *LeadHandler {
	return &LeadHandler{
		leadRepo:   leadRepo,
		imovelRepo: imovelRepo,
		configRepo: configRepo,
		email:      email,
	}
}

// CreateLeadRequest represents the request body for an inbound contact
type CreateLeadRequest struct {
	Nome     string     `json:"nome" binding:"required"`
	Email    string     `json:"email" binding:"required,email"`
	Telefone string     `json:"telefone" binding:"required"`
	Mensagem *string    `json:"mensagem"`
	Origem   *string    `json:"origem"`
	ImovelID *uuid.UUID `json:"imovel_id"`
}

// Create handles POST /api/leads. This endpoint is public; the email
// notification is best-effort and must never fail the request.
func (h *LeadHandler) Create(c *gin.Context) {
	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	lead := &models.Lead{
		Nome:     req.Nome,
		Email:    req.Email,
		Telefone: req.Telefone,
		Mensagem: req.Mensagem,
		Origem:   req.Origem,
		ImovelID: req.ImovelID,
	}
	if err := h.leadRepo.Create(c.Request.Context(), lead); err != nil {
		respondError(c, http.StatusInternalServerError, "CREATE_FAILED", err.Error())
		return
	}

	h.notifyNewLead(c.Request.Context(), lead)

	c.JSON(http.StatusCreated, lead)
}

// notifyNewLead emails the admin when configuration allows it. Every
// failure is logged and swallowed.
func (h *LeadHandler) notifyNewLead(ctx context.Context, lead *models.Lead) {
	config, err := h.configRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logrus.WithError(err).Error("Failed to load configuration for lead notification")
		}
		return
	}
	if !config.NotificacaoEmail || config.Email == "" {
		return
	}

	var imovelTitulo string
	if lead.ImovelID != nil {
		if imovel, err := h.imovelRepo.GetByID(ctx, *lead.ImovelID); err == nil {
			imovelTitulo = imovel.Titulo
		}
	}

	if err := h.email.SendNewLeadNotification(lead, imovelTitulo, config.Email); err != nil {
		logrus.WithError(err).WithField("lead_id", lead.ID).Error("Failed to send lead notification")
		return
	}
	logrus.WithField("to", config.Email).Info("Lead notification sent")
}

// List handles GET /api/leads
func (h *LeadHandler) List(c *gin.Context) {
	var status *models.LeadStatus
	if v := c.Query("status"); v != "" {
		s := models.LeadStatus(v)
		if !s.Valid() {
			respondError(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown lead status: "+v)
			return
		}
		status = &s
	}

	skip := queryIntMin(c, "skip", 0, 0)
	limit := queryIntMin(c, "limit", 100, 1)

	leads, err := h.leadRepo.List(c.Request.Context(), status, skip, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", err.Error())
		return
	}
	if leads == nil {
		leads = []*models.Lead{}
	}

	c.JSON(http.StatusOK, leads)
}

// Get handles GET /api/leads/:id
func (h *LeadHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	lead, err := h.leadRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondRepoError(c, err, "Lead not found")
		return
	}

	c.JSON(http.StatusOK, lead)
}

// Update handles PUT /api/leads/:id with partial-update semantics
func (h *LeadHandler) Update(c *gin.Context) {
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

	var patch repository.LeadPatch
	if err := field(raw, "nome", &patch.Nome); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := field(raw, "email", &patch.Email); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := field(raw, "telefone", &patch.Telefone); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := nullableField(raw, "mensagem", &patch.Mensagem); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := nullableField(raw, "origem", &patch.Origem); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := field(raw, "status", &patch.Status); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if patch.Status != nil && !patch.Status.Valid() {
		respondError(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown lead status: "+string(*patch.Status))
		return
	}

	lead, err := h.leadRepo.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondRepoError(c, err, "Lead not found")
		return
	}

	c.JSON(http.StatusOK, lead)
}

// Delete handles DELETE /api/leads/:id
func (h *LeadHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.leadRepo.Delete(c.Request.Context(), id); err != nil {
		respondRepoError(c, err, "Lead not found")
		return
	}

	c.Status(http.StatusNoContent)
}
