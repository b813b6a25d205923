package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"imobiliaria-backend/models"
	"imobiliaria-backend/repository"
	"imobiliaria-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultPageSize     = 12
	defaultDestaqueSize = 6
)

// ImovelHandler handles HTTP requests for property listings
type ImovelHandler struct {
	imovelRepo *repository.ImovelRepository
	imagemRepo *repository.ImovelImagemRepository
	storage    storage.Storage
	maxSize    int64
}

// NewImovelHandler creates a new listing handler
func NewImovelHandler(imovelRepo *repository.ImovelRepository, imagemRepo *repository.ImovelImagemRepository, st storage.Storage, maxSize int64) *ImovelHandler {
	return &ImovelHandler{
		imovelRepo: imovelRepo,
		imagemRepo: imagemRepo,
		storage:    st,
		maxSize:    maxSize,
	}
}

// imovelResponse decorates a listing with the computed fields of the
// public payload
type imovelResponse struct {
	*models.Imovel
	Preco           float64 `json:"preco"`
	ImagemPrincipal *string `json:"imagem_principal"`
}

func serializeImovel(i *models.Imovel) imovelResponse {
	return imovelResponse{
		Imovel:          i,
		Preco:           i.Preco(),
		ImagemPrincipal: i.ImagemPrincipal(),
	}
}

func serializeImoveis(imoveis []*models.Imovel) []imovelResponse {
	results := make([]imovelResponse, len(imoveis))
	for i, imovel := range imoveis {
		results[i] = serializeImovel(imovel)
	}
	return results
}

// List handles GET /api/listings
func (h *ImovelHandler) List(c *gin.Context) {
	filter, ok := parseImovelFilter(c)
	if !ok {
		return
	}

	ordering := c.DefaultQuery("ordering", "-criado_em")
	page := queryIntMin(c, "page", 1, 1)
	limit := queryIntMin(c, "limit", defaultPageSize, 1)

	imoveis, total, err := h.imovelRepo.List(c.Request.Context(), filter, ordering, page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", err.Error())
		return
	}

	next, previous := pageLinks(page, limit, total)

	c.JSON(http.StatusOK, gin.H{
		"count":    total,
		"next":     next,
		"previous": previous,
		"results":  serializeImoveis(imoveis),
	})
}

// ListDestaques handles GET /api/listings/featured
func (h *ImovelHandler) ListDestaques(c *gin.Context) {
	limit := queryIntMin(c, "limit", defaultDestaqueSize, 1)

	imoveis, err := h.imovelRepo.ListDestaques(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, serializeImoveis(imoveis))
}

// Get handles GET /api/listings/:id
func (h *ImovelHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	imovel, err := h.imovelRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondRepoError(c, err, "Listing not found")
		return
	}

	c.JSON(http.StatusOK, serializeImovel(imovel))
}

// CreateImovelRequest represents the request body for creating a listing
type CreateImovelRequest struct {
	Titulo      string             `json:"titulo" binding:"required"`
	Descricao   string             `json:"descricao" binding:"required"`
	TipoImovel  models.TipoImovel  `json:"tipo_imovel" binding:"required"`
	TipoNegocio models.TipoNegocio `json:"tipo_negocio" binding:"required"`

	PrecoVenda   *float64 `json:"preco_venda"`
	ValorAluguel *float64 `json:"valor_aluguel"`

	AreaTotal      float64  `json:"area_total" binding:"required"`
	AreaConstruida *float64 `json:"area_construida"`
	Quartos        int      `json:"quartos"`
	Banheiros      int      `json:"banheiros"`
	VagasGaragem   int      `json:"vagas_garagem"`

	Rua         string  `json:"rua" binding:"required"`
	Numero      string  `json:"numero" binding:"required"`
	Complemento *string `json:"complemento"`
	Bairro      string  `json:"bairro" binding:"required"`
	Cidade      string  `json:"cidade" binding:"required"`
	Estado      string  `json:"estado" binding:"required,len=2"`
	CEP         string  `json:"cep" binding:"required"`

	Piscina    bool `json:"piscina"`
	AceitaPets bool `json:"aceita_pets"`
	Mobiliado  bool `json:"mobiliado"`
	Destaque   bool `json:"destaque"`
}

// Create handles POST /api/listings
func (h *ImovelHandler) Create(c *gin.Context) {
	var req CreateImovelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if !req.TipoImovel.Valid() {
		respondError(c, http.StatusBadRequest, "INVALID_TIPO_IMOVEL", "Unknown property type: "+string(req.TipoImovel))
		return
	}
	if !req.TipoNegocio.Valid() {
		respondError(c, http.StatusBadRequest, "INVALID_TIPO_NEGOCIO", "Unknown deal type: "+string(req.TipoNegocio))
		return
	}

	imovel := &models.Imovel{
		Titulo:         req.Titulo,
		Descricao:      req.Descricao,
		TipoImovel:     req.TipoImovel,
		TipoNegocio:    req.TipoNegocio,
		PrecoVenda:     req.PrecoVenda,
		ValorAluguel:   req.ValorAluguel,
		AreaTotal:      req.AreaTotal,
		AreaConstruida: req.AreaConstruida,
		Quartos:        req.Quartos,
		Banheiros:      req.Banheiros,
		VagasGaragem:   req.VagasGaragem,
		Rua:            req.Rua,
		Numero:         req.Numero,
		Complemento:    req.Complemento,
		Bairro:         req.Bairro,
		Cidade:         req.Cidade,
		Estado:         req.Estado,
		CEP:            req.CEP,
		Piscina:        req.Piscina,
		AceitaPets:     req.AceitaPets,
		Mobiliado:      req.Mobiliado,
		Destaque:       req.Destaque,
		Imagens:        []models.ImovelImagem{},
	}
	if err := h.imovelRepo.Create(c.Request.Context(), imovel); err != nil {
		respondError(c, http.StatusInternalServerError, "CREATE_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusCreated, serializeImovel(imovel))
}

// Update handles PUT /api/listings/:id with partial-update semantics
func (h *ImovelHandler) Update(c *gin.Context) {
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

	patch, err := buildImovelPatch(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if patch.TipoImovel != nil && !patch.TipoImovel.Valid() {
		respondError(c, http.StatusBadRequest, "INVALID_TIPO_IMOVEL", "Unknown property type: "+string(*patch.TipoImovel))
		return
	}
	if patch.TipoNegocio != nil && !patch.TipoNegocio.Valid() {
		respondError(c, http.StatusBadRequest, "INVALID_TIPO_NEGOCIO", "Unknown deal type: "+string(*patch.TipoNegocio))
		return
	}

	imovel, err := h.imovelRepo.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondRepoError(c, err, "Listing not found")
		return
	}

	c.JSON(http.StatusOK, serializeImovel(imovel))
}

// Delete handles DELETE /api/listings/:id. The database cascades the
// image rows; stored files are removed best-effort afterwards.
func (h *ImovelHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	imagens, err := h.imagemRepo.ListByImovel(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DELETE_FAILED", err.Error())
		return
	}

	if err := h.imovelRepo.Delete(c.Request.Context(), id); err != nil {
		respondRepoError(c, err, "Listing not found")
		return
	}

	for _, img := range imagens {
		if err := h.storage.Delete(c.Request.Context(), img.ImagemURL); err != nil {
			logrus.WithError(err).WithField("url", img.ImagemURL).Warn("Failed to remove stored image")
		}
	}

	c.Status(http.StatusNoContent)
}

// ToggleDestaque handles PATCH /api/listings/:id/toggle-featured
func (h *ImovelHandler) ToggleDestaque(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	imovel, err := h.imovelRepo.ToggleDestaque(c.Request.Context(), id)
	if err != nil {
		respondRepoError(c, err, "Listing not found")
		return
	}

	c.JSON(http.StatusOK, serializeImovel(imovel))
}

// UploadImagem handles POST /api/listings/:id/upload-image (multipart:
// file, ordem, principal)
func (h *ImovelHandler) UploadImagem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if _, err := h.imovelRepo.GetByID(c.Request.Context(), id); err != nil {
		respondRepoError(c, err, "Listing not found")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "File is required")
		return
	}
	if h.maxSize > 0 && fileHeader.Size > h.maxSize {
		respondError(c, http.StatusBadRequest, "FILE_TOO_LARGE",
			"File size exceeds maximum of "+strconv.FormatInt(h.maxSize, 10)+" bytes")
		return
	}

	ordem, _ := strconv.Atoi(c.DefaultPostForm("ordem", "0"))
	principal := postFormBool(c, "principal")

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FILE_OPEN_ERROR", err.Error())
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := h.storage.Upload(c.Request.Context(), id, fileHeader.Filename, contentType, fileHeader.Size, file)
	if err != nil {
		status := http.StatusInternalServerError
		code := "UPLOAD_FAILED"
		switch {
		case errors.Is(err, storage.ErrInvalidContentType):
			status, code = http.StatusBadRequest, "INVALID_FILE_TYPE"
		case errors.Is(err, storage.ErrFileTooLarge):
			status, code = http.StatusBadRequest, "FILE_TOO_LARGE"
		}
		respondError(c, status, code, err.Error())
		return
	}

	img := &models.ImovelImagem{
		ImovelID:  id,
		ImagemURL: url,
		Ordem:     ordem,
		Principal: principal,
	}
	if err := h.imagemRepo.Attach(c.Request.Context(), img); err != nil {
		// Try to clean up the stored file
		if delErr := h.storage.Delete(c.Request.Context(), url); delErr != nil {
			logrus.WithError(delErr).WithField("url", url).Warn("Failed to clean up stored image")
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	c.JSON(http.StatusCreated, img)
}

// DeleteImagem handles DELETE /api/listings/:id/images/:imageId. The
// image must belong to the addressed listing; the stored file is removed
// best-effort after the row.
func (h *ImovelHandler) DeleteImagem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	imgID, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid id format")
		return
	}

	img, err := h.imagemRepo.GetByID(c.Request.Context(), imgID)
	if err != nil {
		respondRepoError(c, err, "Image not found")
		return
	}
	if img.ImovelID != id {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Image not found")
		return
	}

	if err := h.imagemRepo.Delete(c.Request.Context(), imgID); err != nil {
		respondRepoError(c, err, "Image not found")
		return
	}

	if err := h.storage.Delete(c.Request.Context(), img.ImagemURL); err != nil {
		logrus.WithError(err).WithField("url", img.ImagemURL).Warn("Failed to remove stored image")
	}

	c.Status(http.StatusNoContent)
}

// parseImovelFilter reads the optional listing filters from the query
// string, rejecting malformed values.
func parseImovelFilter(c *gin.Context) (repository.ImovelFilter, bool) {
	var filter repository.ImovelFilter

	if v := c.Query("tipo_negocio"); v != "" {
		t := models.TipoNegocio(v)
		if !t.Valid() {
			respondError(c, http.StatusBadRequest, "INVALID_TIPO_NEGOCIO", "Unknown deal type: "+v)
			return filter, false
		}
		filter.TipoNegocio = &t
	}
	if v := c.Query("tipo_imovel"); v != "" {
		t := models.TipoImovel(v)
		if !t.Valid() {
			respondError(c, http.StatusBadRequest, "INVALID_TIPO_IMOVEL", "Unknown property type: "+v)
			return filter, false
		}
		filter.TipoImovel = &t
	}
	if v := c.Query("cidade"); v != "" {
		filter.Cidade = &v
	}
	if v := c.Query("bairro"); v != "" {
		filter.Bairro = &v
	}
	if v := c.Query("search"); v != "" {
		filter.Search = &v
	}

	floats := map[string]**float64{
		"preco_venda__gte": &filter.PrecoVendaGte,
		"preco_venda__lte": &filter.PrecoVendaLte,
		"area_total__gte":  &filter.AreaTotalGte,
		"area_total__lte":  &filter.AreaTotalLte,
	}
	for key, dst := range floats {
		if v := c.Query(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				respondError(c, http.StatusBadRequest, "INVALID_QUERY", "Invalid number for "+key)
				return filter, false
			}
			*dst = &f
		}
	}

	ints := map[string]**int{
		"quartos":       &filter.Quartos,
		"banheiros":     &filter.Banheiros,
		"vagas_garagem": &filter.VagasGaragem,
	}
	for key, dst := range ints {
		if v := c.Query(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				respondError(c, http.StatusBadRequest, "INVALID_QUERY", "Invalid number for "+key)
				return filter, false
			}
			*dst = &n
		}
	}

	bools := map[string]**bool{
		"piscina":     &filter.Piscina,
		"aceita_pets": &filter.AceitaPets,
		"mobiliado":   &filter.Mobiliado,
	}
	for key, dst := range bools {
		if v := c.Query(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				respondError(c, http.StatusBadRequest, "INVALID_QUERY", "Invalid boolean for "+key)
				return filter, false
			}
			*dst = &b
		}
	}

	return filter, true
}

// buildImovelPatch maps a decoded patch body onto the repository patch
// structure.
func buildImovelPatch(raw rawPatch) (repository.ImovelPatch, error) {
	var patch repository.ImovelPatch
	if err := field(raw, "titulo", &patch.Titulo); err != nil {
		return patch, err
	}
	if err := field(raw, "descricao", &patch.Descricao); err != nil {
		return patch, err
	}
	if err := field(raw, "tipo_imovel", &patch.TipoImovel); err != nil {
		return patch, err
	}
	if err := field(raw, "tipo_negocio", &patch.TipoNegocio); err != nil {
		return patch, err
	}
	if err := nullableField(raw, "preco_venda", &patch.PrecoVenda); err != nil {
		return patch, err
	}
	if err := nullableField(raw, "valor_aluguel", &patch.ValorAluguel); err != nil {
		return patch, err
	}
	if err := field(raw, "area_total", &patch.AreaTotal); err != nil {
		return patch, err
	}
	if err := nullableField(raw, "area_construida", &patch.AreaConstruida); err != nil {
		return patch, err
	}
	if err := field(raw, "quartos", &patch.Quartos); err != nil {
		return patch, err
	}
	if err := field(raw, "banheiros", &patch.Banheiros); err != nil {
		return patch, err
	}
	if err := field(raw, "vagas_garagem", &patch.VagasGaragem); err != nil {
		return patch, err
	}
	if err := field(raw, "rua", &patch.Rua); err != nil {
		return patch, err
	}
	if err := field(raw, "numero", &patch.Numero); err != nil {
		return patch, err
	}
	if err := nullableField(raw, "complemento", &patch.Complemento); err != nil {
		return patch, err
	}
	if err := field(raw, "bairro", &patch.Bairro); err != nil {
		return patch, err
	}
	if err := field(raw, "cidade", &patch.Cidade); err != nil {
		return patch, err
	}
	if err := field(raw, "estado", &patch.Estado); err != nil {
		return patch, err
	}
	if err := field(raw, "cep", &patch.CEP); err != nil {
		return patch, err
	}
	if err := field(raw, "piscina", &patch.Piscina); err != nil {
		return patch, err
	}
	if err := field(raw, "aceita_pets", &patch.AceitaPets); err != nil {
		return patch, err
	}
	if err := field(raw, "mobiliado", &patch.Mobiliado); err != nil {
		return patch, err
	}
	if err := field(raw, "destaque", &patch.Destaque); err != nil {
		return patch, err
	}
	return patch, nil
}

// pageLinks computes the neighbouring page numbers for a paginated
// response, or nil at either edge.
func pageLinks(page, limit, total int) (next, previous *int) {
	if page*limit < total {
		n := page + 1
		next = &n
	}
	if page > 1 {
		p := page - 1
		previous = &p
	}
	return next, previous
}

func queryIntDefault(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// queryIntMin reads an integer query parameter, falling back to def for
// missing, malformed or below-minimum values. Keeps negative skip/limit
// values out of OFFSET/LIMIT clauses.
func queryIntMin(c *gin.Context, key string, def, min int) int {
	n := queryIntDefault(c, key, def)
	if n < min {
		return def
	}
	return n
}

// postFormBool reads a boolean form field accepting the usual spellings
// (true/True/TRUE/1/t). Missing or malformed values are false.
func postFormBool(c *gin.Context, key string) bool {
	b, err := strconv.ParseBool(c.DefaultPostForm(key, "false"))
	return err == nil && b
}
