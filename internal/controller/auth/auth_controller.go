package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Compiti/internal/controller"
	"github.com/lshigami/Compiti/internal/dto"
	"github.com/lshigami/Compiti/internal/service"
	"github.com/rs/zerolog/log"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Login godoc
// @Summary Log in with name and password
// @Description Verifies credentials and returns a bearer token plus the user's identity.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "User credentials"
// @Success 200 {object} dto.LoginResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Malformed request body"
// @Failure 401 {object} dto.ErrorResponse "Unknown user or wrong password"
// @Router /sessions [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.authService.Login(req.Name, req.Password)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Log out
// @Description Sessions are stateless bearer tokens; the client discards the token. Always succeeds.
// @Tags Sessions
// @Security BearerAuth
// @Success 204
// @Router /sessions/current [delete]
func (c *AuthController) Logout(ctx *gin.Context) {
	principal := controller.PrincipalFromContext(ctx)
	log.Info().Str("name", principal.Name).Msg("Logout")
	ctx.Status(http.StatusNoContent)
}

// CurrentSession godoc
// @Summary Get the current principal
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.PrincipalDTO
// @Failure 401 {object} dto.ErrorResponse
// @Router /sessions/current [get]
func (c *AuthController) CurrentSession(ctx *gin.Context) {
	principal := controller.PrincipalFromContext(ctx)
	ctx.JSON(http.StatusOK, dto.PrincipalDTO{
		ID:   principal.UserID,
		Name: principal.Name,
		Role: principal.Role,
	})
}
