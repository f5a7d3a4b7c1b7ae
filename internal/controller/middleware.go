package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Compiti/internal/dto"
	"github.com/lshigami/Compiti/internal/model"
	"github.com/lshigami/Compiti/internal/service"
	"github.com/rs/zerolog/log"
)

const principalKey = "principal"

// Authenticated resolves the bearer token into a Principal and stores it on
// the request context. 401 when the token is missing or invalid.
func Authenticated(authSvc service.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
			return
		}

		principal, err := authSvc.ParseToken(token)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
			return
		}

		ctx.Set(principalKey, principal)
		ctx.Next()
	}
}

// RequireTeacher gates teacher-only routes. Must run after Authenticated.
func RequireTeacher() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		principal := PrincipalFromContext(ctx)
		if !principal.IsTeacher() {
			log.Warn().Str("name", principal.Name).Str("role", principal.Role).Msg("Access denied: teacher-only resource")
			ctx.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "Forbidden: teachers only"})
			return
		}
		ctx.Next()
	}
}

// RequireStudent gates student-only routes. Must run after Authenticated.
func RequireStudent() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		principal := PrincipalFromContext(ctx)
		if !principal.IsStudent() {
			log.Warn().Str("name", principal.Name).Str("role", principal.Role).Msg("Access denied: student-only resource")
			ctx.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "Forbidden: students only"})
			return
		}
		ctx.Next()
	}
}

// PrincipalFromContext returns the authenticated principal, or the anonymous
// zero value when Authenticated did not run.
func PrincipalFromContext(ctx *gin.Context) model.Principal {
	if value, ok := ctx.Get(principalKey); ok {
		if principal, ok := value.(model.Principal); ok {
			return principal
		}
	}
	return model.Principal{}
}
