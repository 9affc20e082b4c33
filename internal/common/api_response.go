package common

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"trainingorg/quizdesk/internal/logging"
	"trainingorg/quizdesk/internal/models/dtos"
)

// RespondSuccess sends a standardized JSON success response.
func RespondSuccess(w http.ResponseWriter, initTime time.Time, message string, data any, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	WriteJSON(w, code, dtos.APIResponse{
		Success:      true,
		Message:      message,
		ResponseTime: GetResponseTime(initTime),
		Data:         data,
	})
}

// RespondError sends a standardized JSON error response. The error text, when
// present, goes to the error field and message stays user facing.
func RespondError(w http.ResponseWriter, initTime time.Time, err error, message string, statusCode ...int) {
	code := http.StatusInternalServerError
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	response := dtos.APIResponse{
		Success:      false,
		Message:      message,
		ResponseTime: GetResponseTime(initTime),
	}
	if err != nil {
		response.Error = err.Error()
	}

	WriteJSON(w, code, response)
}

// WriteJSON marshals body and writes it to the HTTP response.
func WriteJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("JSON encode failed", "error", err)
	}
}

func GetResponseTime(init time.Time) string {
	return fmt.Sprintf("%dms", time.Since(init).Milliseconds())
}
