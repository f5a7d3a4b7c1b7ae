package model

import (
	"time"
)

const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Score bounds for an evaluation, inclusive.
const (
	MinScore = 0
	MaxScore = 30
)

type Assignment struct {
	ID          uint          `gorm:"primarykey" json:"id"`
	TeacherID   uint          `json:"teacher_id" gorm:"not null;index"`
	Teacher     User          `json:"-" gorm:"foreignKey:TeacherID"`
	Question    string        `json:"question" gorm:"type:text;not null"`
	Answer      *string       `json:"answer" gorm:"type:text"`
	Status      string        `json:"status" gorm:"not null;default:'open'"` // "open", "closed"
	Score       *int          `json:"score"`
	Members     []GroupMember `json:"members,omitempty" gorm:"foreignKey:AssignmentID"`
	CreatedAt   time.Time     `json:"created_at"`
	SubmittedAt *time.Time    `json:"submitted_at"`
	EvaluatedAt *time.Time    `json:"evaluated_at"`
}

// IsOpen reports whether the assignment still accepts answers and evaluation.
func (a *Assignment) IsOpen() bool {
	return a.Status == StatusOpen
}

// HasMember reports whether the given student belongs to the assignment group.
func (a *Assignment) HasMember(studentID uint) bool {
	for _, m := range a.Members {
		if m.StudentID == studentID {
			return true
		}
	}
	return false
}
