package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/lib/pq"

	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/constants"
	"trainingorg/quizdesk/internal/logging"
	"trainingorg/quizdesk/internal/models/dtos"
	"trainingorg/quizdesk/internal/services"
)

const pgUniqueViolation = "23505"

// respondServiceError maps service errors onto status codes. message is used
// for unexpected failures only.
func respondServiceError(w http.ResponseWriter, initTime time.Time, err error, message string) {
	var (
		verr  *common.ValidationError
		pqErr *pq.Error
	)
	switch {
	case errors.As(err, &verr):
		common.WriteJSON(w, http.StatusBadRequest, dtos.APIResponse{
			Success:      false,
			Message:      "Validation failed",
			ResponseTime: common.GetResponseTime(initTime),
			Data:         verr.Fields,
			Error:        verr.Error(),
		})
	case errors.Is(err, errInvalidBody):
		common.RespondError(w, initTime, nil, constants.MsgInvalidRequestBody, http.StatusBadRequest)
	case errors.Is(err, services.ErrNotFound):
		common.RespondError(w, initTime, nil, "Not found", http.StatusNotFound)
	case errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrQuizHasAttempts),
		errors.Is(err, services.ErrEvaluationNotPending):
		common.RespondError(w, initTime, err, err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrRawSQLDisabled),
		errors.Is(err, services.ErrProtectedTable):
		common.RespondError(w, initTime, err, err.Error(), http.StatusForbidden)
	case errors.Is(err, services.ErrInvalidCredentials):
		common.RespondError(w, initTime, nil, constants.MsgInvalidCredentials, http.StatusUnauthorized)
	case errors.Is(err, context.DeadlineExceeded):
		common.RespondError(w, initTime, err, "Statement timed out", http.StatusGatewayTimeout)
	case errors.As(err, &pqErr):
		// Errors raised by Postgres itself are caused by the submitted statement.
		code := http.StatusBadRequest
		if pqErr.Code == pgUniqueViolation {
			code = http.StatusConflict
		}
		common.RespondError(w, initTime, err, pqErr.Message, code)
	default:
		logging.Error(message, "error", err)
		common.RespondError(w, initTime, err, message, http.StatusInternalServerError)
	}
}
