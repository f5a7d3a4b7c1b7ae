package dto

import "time"

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// ConflictResponse is returned with HTTP 409 when an optimistic-concurrency
// check fails; Assignment carries the current persisted state.
type ConflictResponse struct {
	Message    string                 `json:"message"`
	Assignment *AssignmentResponseDTO `json:"assignment"`
}

type LoginResponseDTO struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

type PrincipalDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// StudentDTO identifies a group member or an eligible student.
type StudentDTO struct {
	StudentID   uint   `json:"student_id"`
	StudentName string `json:"student_name"`
}

type AssignmentResponseDTO struct {
	ID           uint         `json:"id"`
	TeacherID    uint         `json:"teacher_id"`
	TeacherName  string       `json:"teacher_name,omitempty"`
	Question     string       `json:"question"`
	Answer       *string      `json:"answer"`
	Status       string       `json:"status"`
	Score        *int         `json:"score"`
	CreatedAt    time.Time    `json:"created_at"`
	SubmittedAt  *time.Time   `json:"submitted_at"`
	EvaluatedAt  *time.Time   `json:"evaluated_at"`
	GroupMembers []StudentDTO `json:"group_members"`
}

type CreateAssignmentResponseDTO struct {
	ID uint `json:"id"`
}

// AverageResponseDTO carries a student's weighted average; null when the
// student has no evaluated assignments yet.
type AverageResponseDTO struct {
	Average *float64 `json:"average"`
}

// ClassStatusRowDTO is one row of the teacher's class overview. AvgScore is
// null for students with no evaluated assignments from this teacher.
type ClassStatusRowDTO struct {
	StudentID   uint     `json:"student_id"`
	StudentName string   `json:"student_name"`
	NumOpen     int      `json:"num_open"`
	NumClosed   int      `json:"num_closed"`
	AvgScore    *float64 `json:"avg_score"`
}
