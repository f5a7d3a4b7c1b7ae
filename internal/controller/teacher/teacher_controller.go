package teacher

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Compiti/internal/controller"
	"github.com/lshigami/Compiti/internal/dto"
	"github.com/lshigami/Compiti/internal/service"
	"github.com/rs/zerolog/log"
)

// TeacherController serves the teacher-only endpoints: assignment creation,
// group composition, evaluation and the class overview.
type TeacherController struct {
	assignmentService  service.AssignmentService
	eligibilityService service.EligibilityService
	statsService       service.StatsService
	userService        service.UserService
}

func NewTeacherController(
	assignmentService service.AssignmentService,
	eligibilityService service.EligibilityService,
	statsService service.StatsService,
	userService service.UserService,
) *TeacherController {
	return &TeacherController{
		assignmentService:  assignmentService,
		eligibilityService: eligibilityService,
		statsService:       statsService,
		userService:        userService,
	}
}

// CreateAssignment godoc
// @Summary Create a new assignment
// @Description Creates an open assignment from a question. When student_ids is given the group is validated and formed in the same transaction.
// @Tags Teacher
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param assignment body dto.CreateAssignmentRequest true "Question and optional group"
// @Success 201 {object} dto.CreateAssignmentResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Empty question, bad group size or collaboration limit exceeded"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /assignments [post]
func (c *TeacherController) CreateAssignment(ctx *gin.Context) {
	var req dto.CreateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	principal := controller.PrincipalFromContext(ctx)
	resp, err := c.assignmentService.Create(principal.UserID, req.Question, req.StudentIDs)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	log.Info().Uint("assignmentID", resp.ID).Uint("teacherID", principal.UserID).Msg("Assignment created")
	ctx.JSON(http.StatusCreated, resp)
}

// AssignGroup godoc
// @Summary Assign the student group of an assignment
// @Description Forms the 2..6 student group. Every pair must have collaborated fewer than 2 times under this teacher.
// @Tags Teacher
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param group body dto.AssignGroupRequest true "Student IDs"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse "Bad group size, duplicate ids, closed assignment or collaboration limit"
// @Failure 403 {object} dto.ErrorResponse "Not the assignment owner"
// @Failure 404 {object} dto.ErrorResponse
// @Router /assignments/{id}/group [post]
func (c *TeacherController) AssignGroup(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid assignment ID format"})
		return
	}

	var req dto.AssignGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	principal := controller.PrincipalFromContext(ctx)
	if err := c.assignmentService.AssignGroup(uint(id), principal.UserID, req.StudentIDs); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Evaluate godoc
// @Summary Evaluate and close an assignment
// @Description Records the final score (0..30) and closes the assignment. Fails with 409 and the current state when the answer changed since the teacher last read it.
// @Tags Teacher
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param evaluation body dto.EvaluateRequest true "Score and the answer the client last observed"
// @Success 200 {object} dto.AssignmentResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Score out of range or assignment already closed"
// @Failure 403 {object} dto.ErrorResponse "Not the assignment owner"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ConflictResponse "Answer updated by the students meanwhile"
// @Router /assignments/{id}/evaluate [put]
func (c *TeacherController) Evaluate(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid assignment ID format"})
		return
	}

	var req dto.EvaluateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	principal := controller.PrincipalFromContext(ctx)
	assignment, err := c.assignmentService.Evaluate(uint(id), principal.UserID, *req.Score, req.ExpectedAnswer)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, assignment)
}

// ClassStatus godoc
// @Summary Class overview for the teacher
// @Description One row per student in the system with open/closed counts and the weighted average over this teacher's assignments, sorted by name.
// @Tags Teacher
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ClassStatusRowDTO
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /teacher/class-status [get]
func (c *TeacherController) ClassStatus(ctx *gin.Context) {
	principal := controller.PrincipalFromContext(ctx)
	rows, err := c.statsService.ClassStatus(principal.UserID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, rows)
}

// EligibleStudents godoc
// @Summary Students eligible to join the group being composed
// @Description Excludes the already-selected students and any student who has reached the collaboration cap with one of them.
// @Tags Teacher
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param selection body dto.EligibleStudentsRequest true "Already-selected student IDs (may be empty)"
// @Success 200 {array} dto.StudentDTO
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /students/eligible [post]
func (c *TeacherController) EligibleStudents(ctx *gin.Context) {
	var req dto.EligibleStudentsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	principal := controller.PrincipalFromContext(ctx)
	students, err := c.eligibilityService.EligibleStudents(principal.UserID, req.SelectedIDs)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	log.Info().Uint("teacherID", principal.UserID).Int("eligible", len(students)).Msg("Eligible students computed")
	ctx.JSON(http.StatusOK, students)
}

// ListStudents godoc
// @Summary List all students
// @Tags Teacher
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.StudentDTO
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /students [get]
func (c *TeacherController) ListStudents(ctx *gin.Context) {
	students, err := c.userService.ListStudents()
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, students)
}
