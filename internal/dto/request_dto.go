package dto

// LoginRequest carries the credentials for POST /sessions.
type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateAssignmentRequest creates a new open assignment. StudentIDs is
// optional; when present the group is formed in the same transaction.
type CreateAssignmentRequest struct {
	Question   string `json:"question" binding:"required"`
	StudentIDs []uint `json:"student_ids"`
}

type AssignGroupRequest struct {
	StudentIDs []uint `json:"student_ids" binding:"required"`
}

type SubmitAnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// EvaluateRequest closes an assignment with a final score. ExpectedAnswer is
// the answer text the teacher's client last observed; a mismatch with the
// persisted answer means a student updated it in the meantime.
type EvaluateRequest struct {
	Score          *int    `json:"score" binding:"required"`
	ExpectedAnswer *string `json:"expected_answer"`
}

type EligibleStudentsRequest struct {
	SelectedIDs []uint `json:"selected_ids"`
}
