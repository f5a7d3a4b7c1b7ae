package repository

import (
	"github.com/lshigami/Compiti/internal/model"
	"gorm.io/gorm"
)

type GroupMemberRepository interface {
	CountForAssignment(assignmentID uint) (int64, error)
	// CountPairCollaborations returns how many of the teacher's assignments
	// contain both students in their group. Symmetric in the two students.
	CountPairCollaborations(teacherID, studentID1, studentID2 uint) (int64, error)
}

type groupMemberRepository struct {
	db *gorm.DB
}

func NewGroupMemberRepository(db *gorm.DB) GroupMemberRepository {
	return &groupMemberRepository{db: db}
}

func (r *groupMemberRepository) CountForAssignment(assignmentID uint) (int64, error) {
	var n int64
	err := r.db.Model(&model.GroupMember{}).Where("assignment_id = ?", assignmentID).Count(&n).Error
	return n, err
}

func (r *groupMemberRepository) CountPairCollaborations(teacherID, studentID1, studentID2 uint) (int64, error) {
	var n int64
	err := r.db.Table("group_members AS gm1").
		Joins("JOIN group_members gm2 ON gm1.assignment_id = gm2.assignment_id").
		Joins("JOIN assignments a ON a.id = gm1.assignment_id").
		Where("gm1.student_id = ? AND gm2.student_id = ? AND a.teacher_id = ?", studentID1, studentID2, teacherID).
		Count(&n).Error
	return n, err
}
