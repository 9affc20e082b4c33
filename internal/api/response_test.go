package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/services"
)

func TestRespondServiceError_StatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", common.NewValidationError("name", "required"), http.StatusBadRequest},
		{"bad body", errInvalidBody, http.StatusBadRequest},
		{"not found", fmt.Errorf("member 4: %w", services.ErrNotFound), http.StatusNotFound},
		{"conflict", fmt.Errorf("quiz level %q %w", "A1", services.ErrConflict), http.StatusConflict},
		{"already reviewed", services.ErrEvaluationNotPending, http.StatusConflict},
		{"quiz has attempts", services.ErrQuizHasAttempts, http.StatusConflict},
		{"forbidden", services.ErrForbidden, http.StatusForbidden},
		{"raw sql disabled", services.ErrRawSQLDisabled, http.StatusForbidden},
		{"protected table", fmt.Errorf("%w: users", services.ErrProtectedTable), http.StatusForbidden},
		{"postgres syntax", &pq.Error{Code: "42601", Message: "syntax error"}, http.StatusBadRequest},
		{"postgres unique", &pq.Error{Code: "23505", Message: "duplicate key"}, http.StatusConflict},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			respondServiceError(rr, time.Now(), tt.err, "Something failed")
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}
