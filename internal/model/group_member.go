package model

// GroupMember links one student to one assignment's group. Rows are written
// once when the group is formed and never updated afterwards.
type GroupMember struct {
	ID           uint `gorm:"primarykey" json:"id"`
	AssignmentID uint `json:"assignment_id" gorm:"not null;uniqueIndex:idx_assignment_student"`
	StudentID    uint `json:"student_id" gorm:"not null;uniqueIndex:idx_assignment_student"`
	Student      User `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}
