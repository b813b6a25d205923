package handlers

import (
	"errors"
	"net/http"

	"imobiliaria-backend/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError writes the error envelope shared by all handlers
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondRepoError maps repository errors onto the HTTP taxonomy:
// NotFound -> 404, Conflict -> 400, anything else -> 500.
func respondRepoError(c *gin.Context, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", notFoundMessage)
	case errors.Is(err, repository.ErrConflict):
		respondError(c, http.StatusBadRequest, "CONFLICT", "Username or email already registered")
	default:
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
	}
}

// parseIDParam parses the :id path parameter
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid id format")
		return uuid.Nil, false
	}
	return id, true
}
