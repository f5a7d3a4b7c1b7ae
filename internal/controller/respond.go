package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Compiti/internal/apperr"
	"github.com/lshigami/Compiti/internal/dto"
	"github.com/rs/zerolog/log"
)

// RespondError maps service errors to HTTP responses. Every handler funnels
// its failures through here so the taxonomy-to-status mapping lives in one
// place.
func RespondError(ctx *gin.Context, err error) {
	var (
		invalid  *apperr.InvalidInput
		pair     *apperr.PairLimit
		conflict *apperr.Conflict
	)

	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
	case errors.Is(err, apperr.ErrForbidden):
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "Forbidden"})
	case errors.Is(err, apperr.ErrNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Assignment not found"})
	case errors.Is(err, apperr.ErrAlreadyClosed):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Assignment already closed"})
	case errors.As(err, &invalid):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: invalid.Reason})
	case errors.As(err, &pair):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: pair.Error()})
	case errors.As(err, &conflict):
		ctx.JSON(http.StatusConflict, dto.ConflictResponse{Message: conflict.Reason, Assignment: conflict.Current})
	default:
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg("Unhandled service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error", Details: []string{err.Error()}})
	}
}
