package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Compiti/internal/apperr"
	"github.com/lshigami/Compiti/internal/dto"
	"github.com/lshigami/Compiti/internal/model"
	"github.com/lshigami/Compiti/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Group size bounds, inclusive.
const (
	MinGroupSize = 2
	MaxGroupSize = 6
)

// AssignmentService owns the assignment lifecycle: creation, group
// composition, answer submission and evaluation. Submission and evaluation
// use conditional updates so that a write racing a concurrent state change is
// rejected with a Conflict instead of being applied over it.
type AssignmentService interface {
	Create(teacherID uint, question string, studentIDs []uint) (*dto.CreateAssignmentResponseDTO, error)
	AssignGroup(assignmentID, teacherID uint, studentIDs []uint) error
	SubmitAnswer(assignmentID, studentID uint, answer string) (*dto.AssignmentResponseDTO, error)
	Evaluate(assignmentID, teacherID uint, score int, expectedAnswer *string) (*dto.AssignmentResponseDTO, error)
	Get(assignmentID uint, principal model.Principal) (*dto.AssignmentResponseDTO, error)
	List(principal model.Principal) ([]dto.AssignmentResponseDTO, error)
}

type assignmentService struct {
	assignmentRepo  repository.AssignmentRepository
	groupMemberRepo repository.GroupMemberRepository
	userRepo        repository.UserRepository
	db              *gorm.DB // transactions for group formation
}

func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	groupMemberRepo repository.GroupMemberRepository,
	userRepo repository.UserRepository,
	db *gorm.DB,
) AssignmentService {
	return &assignmentService{
		assignmentRepo:  assignmentRepo,
		groupMemberRepo: groupMemberRepo,
		userRepo:        userRepo,
		db:              db,
	}
}

// Create opens a new assignment. When studentIDs is non-empty the group is
// validated and persisted in the same transaction, so a failed group check
// never leaves a groupless assignment behind.
func (s *assignmentService) Create(teacherID uint, question string, studentIDs []uint) (*dto.CreateAssignmentResponseDTO, error) {
	if strings.TrimSpace(question) == "" {
		return nil, apperr.NewInvalidInput("question cannot be empty")
	}

	assignment := model.Assignment{
		TeacherID: teacherID,
		Question:  question,
		Status:    model.StatusOpen,
	}

	if len(studentIDs) == 0 {
		if err := s.assignmentRepo.Create(&assignment); err != nil {
			return nil, &apperr.Storage{Err: err}
		}
		log.Info().Uint("assignmentID", assignment.ID).Uint("teacherID", teacherID).Msg("Assignment created without group")
		return &dto.CreateAssignmentResponseDTO{ID: assignment.ID}, nil
	}

	if err := s.checkGroupComposition(teacherID, studentIDs); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&assignment).Error; err != nil {
			return &apperr.Storage{Err: err}
		}
		members := buildMembers(assignment.ID, studentIDs)
		if err := tx.Create(&members).Error; err != nil {
			return &apperr.Storage{Err: err}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("teacherID", teacherID).Msg("Create: transaction failed")
		return nil, err
	}

	log.Info().Uint("assignmentID", assignment.ID).Uint("teacherID", teacherID).Int("groupSize", len(studentIDs)).Msg("Assignment created with group")
	return &dto.CreateAssignmentResponseDTO{ID: assignment.ID}, nil
}

// AssignGroup forms the group of an existing assignment. The pair checks run
// before the membership rows exist, so the group never counts against itself.
func (s *assignmentService) AssignGroup(assignmentID, teacherID uint, studentIDs []uint) error {
	assignment, err := s.assignmentRepo.FindByIDWithMembers(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrNotFound
		}
		return &apperr.Storage{Err: err}
	}

	if assignment.TeacherID != teacherID {
		log.Warn().Uint("assignmentID", assignmentID).Uint("teacherID", teacherID).Msg("AssignGroup: not the owner")
		return apperr.ErrForbidden
	}
	if !assignment.IsOpen() {
		return apperr.ErrAlreadyClosed
	}
	if len(assignment.Members) > 0 {
		return apperr.NewInvalidInput("assignment %d already has a group", assignmentID)
	}

	if err := s.checkGroupComposition(teacherID, studentIDs); err != nil {
		return err
	}

	members := buildMembers(assignmentID, studentIDs)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&members).Error
	})
	if err != nil {
		log.Error().Err(err).Uint("assignmentID", assignmentID).Msg("AssignGroup: failed to persist group members")
		return &apperr.Storage{Err: err}
	}

	log.Info().Uint("assignmentID", assignmentID).Int("groupSize", len(studentIDs)).Msg("Group assigned")
	return nil
}

// checkGroupComposition validates size, uniqueness, student existence and the
// pairwise collaboration cap. All pairs are scanned in index order (i<j) and
// the first violating pair is reported.
func (s *assignmentService) checkGroupComposition(teacherID uint, studentIDs []uint) error {
	if len(studentIDs) < MinGroupSize || len(studentIDs) > MaxGroupSize {
		return apperr.NewInvalidInput("group must have between %d and %d students", MinGroupSize, MaxGroupSize)
	}

	seen := make(map[uint]bool, len(studentIDs))
	for _, id := range studentIDs {
		if seen[id] {
			return apperr.NewInvalidInput("duplicate student id %d in group", id)
		}
		seen[id] = true
	}

	students, err := s.userRepo.FindStudentsByIDs(studentIDs)
	if err != nil {
		return &apperr.Storage{Err: err}
	}
	if len(students) != len(studentIDs) {
		return apperr.NewInvalidInput("one or more ids do not refer to existing students")
	}

	for i := 0; i < len(studentIDs); i++ {
		for j := i + 1; j < len(studentIDs); j++ {
			count, err := s.groupMemberRepo.CountPairCollaborations(teacherID, studentIDs[i], studentIDs[j])
			if err != nil {
				return &apperr.Storage{Err: err}
			}
			if count >= CollaborationCap {
				log.Warn().Uint("s1", studentIDs[i]).Uint("s2", studentIDs[j]).Int64("count", count).Msg("Collaboration limit exceeded")
				return &apperr.PairLimit{StudentID1: studentIDs[i], StudentID2: studentIDs[j], Count: count}
			}
		}
	}
	return nil
}

// SubmitAnswer records the group's answer. The write only lands while the
// assignment is still open; otherwise the current persisted state comes back
// inside a Conflict so the student can reconcile.
func (s *assignmentService) SubmitAnswer(assignmentID, studentID uint, answer string) (*dto.AssignmentResponseDTO, error) {
	if strings.TrimSpace(answer) == "" {
		return nil, apperr.NewInvalidInput("answer cannot be empty")
	}

	assignment, err := s.assignmentRepo.FindByIDWithMembers(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, &apperr.Storage{Err: err}
	}

	if !assignment.HasMember(studentID) {
		log.Warn().Uint("assignmentID", assignmentID).Uint("studentID", studentID).Msg("SubmitAnswer: student not in group")
		return nil, apperr.ErrForbidden
	}

	rows, err := s.assignmentRepo.SubmitAnswerIfOpen(assignmentID, answer, time.Now())
	if err != nil {
		return nil, &apperr.Storage{Err: err}
	}
	if rows == 0 {
		// Closed between the read above and the conditional write.
		current, err := s.assignmentRepo.FindByIDWithMembers(assignmentID)
		if err != nil {
			return nil, &apperr.Storage{Err: err}
		}
		log.Warn().Uint("assignmentID", assignmentID).Uint("studentID", studentID).Msg("SubmitAnswer: assignment closed, conflict")
		return nil, &apperr.Conflict{Reason: "assignment already closed", Current: toAssignmentDTO(current)}
	}

	updated, err := s.assignmentRepo.FindByIDWithMembers(assignmentID)
	if err != nil {
		return nil, &apperr.Storage{Err: err}
	}
	log.Info().Uint("assignmentID", assignmentID).Uint("studentID", studentID).Msg("Answer submitted")
	return toAssignmentDTO(updated), nil
}

// Evaluate closes the assignment with a final score. The conditional update
// re-asserts both the open status and the answer the teacher observed, so a
// student edit racing the evaluation surfaces as a Conflict rather than a
// grade on a stale answer.
func (s *assignmentService) Evaluate(assignmentID, teacherID uint, score int, expectedAnswer *string) (*dto.AssignmentResponseDTO, error) {
	if score < model.MinScore || score > model.MaxScore {
		return nil, apperr.NewInvalidInput("score must be an integer between %d and %d", model.MinScore, model.MaxScore)
	}

	assignment, err := s.assignmentRepo.FindByIDWithMembers(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, &apperr.Storage{Err: err}
	}

	if assignment.TeacherID != teacherID {
		log.Warn().Uint("assignmentID", assignmentID).Uint("teacherID", teacherID).Msg("Evaluate: not the owner")
		return nil, apperr.ErrForbidden
	}
	if !assignment.IsOpen() {
		return nil, apperr.ErrAlreadyClosed
	}

	rows, err := s.assignmentRepo.EvaluateIfUnchanged(assignmentID, score, expectedAnswer, time.Now())
	if err != nil {
		return nil, &apperr.Storage{Err: err}
	}
	if rows == 0 {
		current, err := s.assignmentRepo.FindByIDWithMembers(assignmentID)
		if err != nil {
			return nil, &apperr.Storage{Err: err}
		}
		if !current.IsOpen() {
			return nil, apperr.ErrAlreadyClosed
		}
		log.Warn().Uint("assignmentID", assignmentID).Uint("teacherID", teacherID).Msg("Evaluate: answer changed underneath, conflict")
		return nil, &apperr.Conflict{Reason: "answer has been updated by the students", Current: toAssignmentDTO(current)}
	}

	updated, err := s.assignmentRepo.FindByIDWithMembers(assignmentID)
	if err != nil {
		return nil, &apperr.Storage{Err: err}
	}
	log.Info().Uint("assignmentID", assignmentID).Int("score", score).Msg("Assignment evaluated and closed")
	return toAssignmentDTO(updated), nil
}

// Get returns one assignment; teachers see only their own, students only
// assignments whose group they belong to.
func (s *assignmentService) Get(assignmentID uint, principal model.Principal) (*dto.AssignmentResponseDTO, error) {
	assignment, err := s.assignmentRepo.FindByIDWithMembers(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, &apperr.Storage{Err: err}
	}

	switch {
	case principal.IsTeacher():
		if assignment.TeacherID != principal.UserID {
			return nil, apperr.ErrForbidden
		}
	case principal.IsStudent():
		if !assignment.HasMember(principal.UserID) {
			return nil, apperr.ErrForbidden
		}
	default:
		return nil, apperr.ErrForbidden
	}

	return toAssignmentDTO(assignment), nil
}

// List returns the caller's assignments, newest first: created-by for
// teachers, member-of for students.
func (s *assignmentService) List(principal model.Principal) ([]dto.AssignmentResponseDTO, error) {
	var (
		assignments []model.Assignment
		err         error
	)
	switch {
	case principal.IsTeacher():
		assignments, err = s.assignmentRepo.FindAllByTeacher(principal.UserID)
	case principal.IsStudent():
		assignments, err = s.assignmentRepo.FindAllByStudent(principal.UserID)
	default:
		return nil, apperr.ErrForbidden
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching assignments: %w", err)
	}

	dtos := make([]dto.AssignmentResponseDTO, 0, len(assignments))
	for i := range assignments {
		dtos = append(dtos, *toAssignmentDTO(&assignments[i]))
	}
	return dtos, nil
}

func buildMembers(assignmentID uint, studentIDs []uint) []model.GroupMember {
	members := make([]model.GroupMember, 0, len(studentIDs))
	for _, sid := range studentIDs {
		members = append(members, model.GroupMember{AssignmentID: assignmentID, StudentID: sid})
	}
	return members
}

func toAssignmentDTO(assignment *model.Assignment) *dto.AssignmentResponseDTO {
	var resp dto.AssignmentResponseDTO
	if err := copier.Copy(&resp, assignment); err != nil {
		log.Error().Err(err).Uint("assignmentID", assignment.ID).Msg("Failed to copy assignment to DTO")
	}
	if assignment.Teacher.ID != 0 {
		resp.TeacherName = assignment.Teacher.Name
	}

	resp.GroupMembers = make([]dto.StudentDTO, 0, len(assignment.Members))
	for _, m := range assignment.Members {
		resp.GroupMembers = append(resp.GroupMembers, dto.StudentDTO{
			StudentID:   m.StudentID,
			StudentName: m.Student.Name,
		})
	}
	sort.Slice(resp.GroupMembers, func(i, j int) bool {
		return resp.GroupMembers[i].StudentName < resp.GroupMembers[j].StudentName
	})
	return &resp
}
