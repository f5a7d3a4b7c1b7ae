package student

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Compiti/internal/controller"
	"github.com/lshigami/Compiti/internal/dto"
	"github.com/lshigami/Compiti/internal/service"
	"github.com/rs/zerolog/log"
)

// StudentController serves the student-only endpoints: answer submission and
// the personal weighted average.
type StudentController struct {
	assignmentService service.AssignmentService
	statsService      service.StatsService
}

func NewStudentController(assignmentService service.AssignmentService, statsService service.StatsService) *StudentController {
	return &StudentController{assignmentService: assignmentService, statsService: statsService}
}

// SubmitAnswer godoc
// @Summary Submit or overwrite the group's answer
// @Description Writes the collaborative answer while the assignment is open. A 409 with the current state means a teacher closed it in the meantime.
// @Tags Student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param answer body dto.SubmitAnswerRequest true "Answer text"
// @Success 200 {object} dto.AssignmentResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Empty answer"
// @Failure 403 {object} dto.ErrorResponse "Not a member of the group"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ConflictResponse "Assignment already closed"
// @Router /assignments/{id}/answer [put]
func (c *StudentController) SubmitAnswer(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid assignment ID format"})
		return
	}

	var req dto.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	principal := controller.PrincipalFromContext(ctx)
	assignment, err := c.assignmentService.SubmitAnswer(uint(id), principal.UserID, req.Answer)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	log.Info().Uint64("assignmentID", id).Uint("studentID", principal.UserID).Msg("Answer submitted")
	ctx.JSON(http.StatusOK, assignment)
}

// MyAverage godoc
// @Summary Weighted average of the caller's evaluated assignments
// @Description Each score is weighted by 1/groupSize. Null when no assignment has been evaluated yet.
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AverageResponseDTO
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /student/average [get]
func (c *StudentController) MyAverage(ctx *gin.Context) {
	principal := controller.PrincipalFromContext(ctx)
	avg, err := c.statsService.StudentAverage(principal.UserID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.AverageResponseDTO{Average: avg})
}
