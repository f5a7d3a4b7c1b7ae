package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Compiti/internal/apperr"
	"github.com/lshigami/Compiti/internal/dto"
	"github.com/lshigami/Compiti/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "unauthenticated", err: apperr.ErrUnauthenticated, wantStatus: http.StatusUnauthorized},
		{name: "forbidden", err: apperr.ErrForbidden, wantStatus: http.StatusForbidden},
		{name: "not found", err: apperr.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "already closed", err: apperr.ErrAlreadyClosed, wantStatus: http.StatusBadRequest},
		{name: "invalid input", err: apperr.NewInvalidInput("bad"), wantStatus: http.StatusBadRequest},
		{name: "pair limit", err: &apperr.PairLimit{StudentID1: 1, StudentID2: 2, Count: 2}, wantStatus: http.StatusBadRequest},
		{name: "conflict", err: &apperr.Conflict{Reason: "stale"}, wantStatus: http.StatusConflict},
		{name: "storage", err: &apperr.Storage{Err: errors.New("boom")}, wantStatus: http.StatusInternalServerError},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(w)
			RespondError(ctx, tt.err)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRespondError_ConflictCarriesSnapshot(t *testing.T) {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	answer := "current answer"
	RespondError(ctx, &apperr.Conflict{
		Reason: "answer has been updated by the students",
		Current: &dto.AssignmentResponseDTO{
			ID:     7,
			Status: model.StatusOpen,
			Answer: &answer,
		},
	})

	require.Equal(t, http.StatusConflict, w.Code)
	var body dto.ConflictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Assignment)
	assert.EqualValues(t, 7, body.Assignment.ID)
	assert.Equal(t, model.StatusOpen, body.Assignment.Status)
	require.NotNil(t, body.Assignment.Answer)
	assert.Equal(t, "current answer", *body.Assignment.Answer)
}
