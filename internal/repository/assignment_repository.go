package repository

import (
	"time"

	"github.com/lshigami/Compiti/internal/model"
	"gorm.io/gorm"
)

// StudentScoreRow is one evaluated assignment of a student, with the size of
// the group that produced the answer.
type StudentScoreRow struct {
	Score     int
	GroupSize int
}

// ClassStatusRow is one (student, assignment) pair under a teacher.
type ClassStatusRow struct {
	StudentID uint
	Status    string
	Score     *int
	GroupSize int
}

type AssignmentRepository interface {
	Create(assignment *model.Assignment) error
	FindByID(id uint) (*model.Assignment, error)
	FindByIDWithMembers(id uint) (*model.Assignment, error)
	FindAllByTeacher(teacherID uint) ([]model.Assignment, error)
	FindAllByStudent(studentID uint) ([]model.Assignment, error)

	// SubmitAnswerIfOpen performs the conditional answer update. The WHERE
	// clause re-asserts status='open' so check and write are one statement;
	// zero rows affected means the assignment was closed (or removed) in the
	// meantime.
	SubmitAnswerIfOpen(id uint, answer string, now time.Time) (int64, error)
	// EvaluateIfUnchanged closes the assignment only if it is still open and
	// the persisted answer equals the one the teacher observed.
	EvaluateIfUnchanged(id uint, score int, expectedAnswer *string, now time.Time) (int64, error)

	StudentScoreRows(studentID uint) ([]StudentScoreRow, error)
	ClassStatusRows(teacherID uint) ([]ClassStatusRow, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(assignment *model.Assignment) error {
	return r.db.Create(assignment).Error
}

func (r *assignmentRepository) FindByID(id uint) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.First(&assignment, id).Error
	return &assignment, err
}

func (r *assignmentRepository) FindByIDWithMembers(id uint) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.
		Preload("Teacher").
		Preload("Members.Student").
		First(&assignment, id).Error
	return &assignment, err
}

func (r *assignmentRepository) FindAllByTeacher(teacherID uint) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.
		Preload("Teacher").
		Preload("Members.Student").
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepository) FindAllByStudent(studentID uint) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.
		Preload("Teacher").
		Preload("Members.Student").
		Joins("JOIN group_members gm ON gm.assignment_id = assignments.id").
		Where("gm.student_id = ?", studentID).
		Order("assignments.created_at DESC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepository) SubmitAnswerIfOpen(id uint, answer string, now time.Time) (int64, error) {
	res := r.db.Model(&model.Assignment{}).
		Where("id = ? AND status = ?", id, model.StatusOpen).
		Updates(map[string]interface{}{
			"answer":       answer,
			"submitted_at": now,
		})
	return res.RowsAffected, res.Error
}

func (r *assignmentRepository) EvaluateIfUnchanged(id uint, score int, expectedAnswer *string, now time.Time) (int64, error) {
	query := r.db.Model(&model.Assignment{}).
		Where("id = ? AND status = ?", id, model.StatusOpen)
	if expectedAnswer == nil {
		query = query.Where("answer IS NULL")
	} else {
		query = query.Where("answer = ?", *expectedAnswer)
	}
	res := query.Updates(map[string]interface{}{
		"score":        score,
		"evaluated_at": now,
		"status":       model.StatusClosed,
	})
	return res.RowsAffected, res.Error
}

func (r *assignmentRepository) StudentScoreRows(studentID uint) ([]StudentScoreRow, error) {
	var rows []StudentScoreRow
	err := r.db.Table("assignments AS a").
		Select("a.score AS score, (SELECT COUNT(*) FROM group_members gm2 WHERE gm2.assignment_id = a.id) AS group_size").
		Joins("JOIN group_members gm ON gm.assignment_id = a.id").
		Where("gm.student_id = ? AND a.status = ? AND a.score IS NOT NULL", studentID, model.StatusClosed).
		Scan(&rows).Error
	return rows, err
}

func (r *assignmentRepository) ClassStatusRows(teacherID uint) ([]ClassStatusRow, error) {
	var rows []ClassStatusRow
	err := r.db.Table("assignments AS a").
		Select("gm.student_id AS student_id, a.status AS status, a.score AS score, (SELECT COUNT(*) FROM group_members gm2 WHERE gm2.assignment_id = a.id) AS group_size").
		Joins("JOIN group_members gm ON gm.assignment_id = a.id").
		Where("a.teacher_id = ?", teacherID).
		Scan(&rows).Error
	return rows, err
}
