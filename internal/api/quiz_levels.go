package api

import (
	"net/http"
	"time"

	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/constants"
	"trainingorg/quizdesk/internal/models/dtos"
)

func (h *Handlers) ListQuizLevels() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		levels, err := h.deps.Services.QuizLevels.List(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to list quiz levels")
			return
		}
		common.RespondSuccess(w, initTime, "Quiz levels fetched", levels)
	}
}

func (h *Handlers) CreateQuizLevel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		var req dtos.QuizLevelRequest
		if err := decodeJSON(r, h.deps.Validator, &req); err != nil {
			respondServiceError(w, initTime, err, constants.MsgInvalidRequestBody)
			return
		}
		level, err := h.deps.Services.QuizLevels.Create(r.Context(), req)
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to create quiz level")
			return
		}
		common.RespondSuccess(w, initTime, "Quiz level created", level, http.StatusCreated)
	}
}

func (h *Handlers) UpdateQuizLevel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, err := pathID(r, "id")
		if err != nil {
			respondServiceError(w, initTime, err, constants.MsgInvalidID)
			return
		}
		var req dtos.QuizLevelRequest
		if err := decodeJSON(r, h.deps.Validator, &req); err != nil {
			respondServiceError(w, initTime, err, constants.MsgInvalidRequestBody)
			return
		}
		level, err := h.deps.Services.QuizLevels.Update(r.Context(), id, req)
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to update quiz level")
			return
		}
		common.RespondSuccess(w, initTime, "Quiz level updated", level)
	}
}

func (h *Handlers) DeleteQuizLevel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, err := pathID(r, "id")
		if err != nil {
			respondServiceError(w, initTime, err, constants.MsgInvalidID)
			return
		}
		if err := h.deps.Services.QuizLevels.Delete(r.Context(), id); err != nil {
			respondServiceError(w, initTime, err, "Failed to delete quiz level")
			return
		}
		common.RespondSuccess(w, initTime, "Quiz level deleted", nil)
	}
}
