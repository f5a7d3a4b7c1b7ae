package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Compiti/internal/dto"
	"github.com/lshigami/Compiti/internal/service"
	"github.com/rs/zerolog/log"
)

// AssignmentController serves the read endpoints shared by both roles.
type AssignmentController struct {
	assignmentService service.AssignmentService
}

func NewAssignmentController(assignmentService service.AssignmentService) *AssignmentController {
	return &AssignmentController{assignmentService: assignmentService}
}

// ListAssignments godoc
// @Summary List the caller's assignments
// @Description Teachers get the assignments they created, students the ones whose group they belong to. Newest first.
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.AssignmentResponseDTO
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /assignments [get]
func (c *AssignmentController) ListAssignments(ctx *gin.Context) {
	principal := PrincipalFromContext(ctx)
	assignments, err := c.assignmentService.List(principal)
	if err != nil {
		RespondError(ctx, err)
		return
	}
	log.Info().Uint("userID", principal.UserID).Str("role", principal.Role).Int("count", len(assignments)).Msg("Assignments listed")
	ctx.JSON(http.StatusOK, assignments)
}

// GetAssignment godoc
// @Summary Get one assignment
// @Description Returns the assignment with its group members. Teachers may only read their own assignments, students only assignments they are grouped on.
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.AssignmentResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid assignment ID"
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /assignments/{id} [get]
func (c *AssignmentController) GetAssignment(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid assignment ID format"})
		return
	}

	principal := PrincipalFromContext(ctx)
	assignment, err := c.assignmentService.Get(uint(id), principal)
	if err != nil {
		RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, assignment)
}
