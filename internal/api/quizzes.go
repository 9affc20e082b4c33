package api

import (
	"net/http"
	"time"

	"trainingorg/quizdesk/internal/auth"
	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/constants"
	"trainingorg/quizdesk/internal/models/dtos"
)

func isStaff(user *auth.SessionUser) bool {
	return user.HasRole(constants.CoachRoles...)
}

// ListQuizzes handles GET /api/quizzes?level_id=&published=
//
// Students only ever see published quizzes.
func (h *Handlers) ListQuizzes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		levelID, err := queryID(r, "level_id")
		if err != nil {
			respondServiceError(w, initTime, err, "Invalid query parameter")
			return
		}

		user := auth.GetSessionUser(r.Context())
		filter := dtos.QuizListFilter{
			LevelID:       levelID,
			PublishedOnly: !isStaff(user) || queryBool(r, "published"),
		}
		quizzes, err := h.deps.Services.Quizzes.List(r.Context(), filter)
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to list quizzes")
			return
		}
		common.RespondSuccess(w, initTime, "Quizzes fetched", quizzes)
	}
}

// GetQuiz handles GET /api/quizzes/{id}
func (h *Handlers) GetQuiz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, err := pathID(r, "id")
		if err != nil {
			respondServiceError(w, initTime, err, constants.MsgInvalidID)
			return
		}
		user := auth.GetSessionUser(r.Context())
		quiz, err := h.deps.Services.Quizzes.Get(r.Context(), id, isStaff(user))
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to fetch quiz")
			return
		}
		common.RespondSuccess(w, initTime, "Quiz fetched", quiz)
	}
}

// CreateQuiz handles POST /api/quizzes
func (h *Handlers) CreateQuiz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		var req dtos.QuizRequest
		if err := decodeJSON(r, h.deps.Validator, &req); err != nil {
			respondServiceError(w, initTime, err, constants.MsgInvalidRequestBody)
			return
		}
		user := auth.GetSessionUser(r.Context())
		quiz, err := h.deps.Services.Quizzes.Create(r.Context(), req, user.ID)
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to create quiz")
			return
		}
		common.RespondSuccess(w, initTime, "Quiz created", quiz, http.StatusCreated)
	}
}

// UpdateQuiz handles PUT /api/quizzes/{id}
func (h *Handlers) UpdateQuiz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, err := pathID(r, "id")
		if err != nil {
			respondServiceError(w, initTime, err, constants.MsgInvalidID)
			return
		}
		var req dtos.QuizRequest
		if err := decodeJSON(r, h.deps.Validator, &req); err != nil {
			respondServiceError(w, initTime, err, constants.MsgInvalidRequestBody)
			return
		}
		quiz, err := h.deps.Services.Quizzes.Update(r.Context(), id, req)
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to update quiz")
			return
		}
		common.RespondSuccess(w, initTime, "Quiz updated", quiz)
	}
}

// DeleteQuiz handles DELETE /api/quizzes/{id}
func (h *Handlers) DeleteQuiz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, err := pathID(r, "id")
		if err != nil {
			respondServiceError(w, initTime, err, constants.MsgInvalidID)
			return
		}
		if err := h.deps.Services.Quizzes.Delete(r.Context(), id); err != nil {
			respondServiceError(w, initTime, err, "Failed to delete quiz")
			return
		}
		common.RespondSuccess(w, initTime, "Quiz deleted", nil)
	}
}

// SubmitAttempt handles POST /api/quizzes/{id}/attempts
func (h *Handlers) SubmitAttempt() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, err := pathID(r, "id")
		if err != nil {
			respondServiceError(w, initTime, err, constants.MsgInvalidID)
			return
		}
		var req dtos.SubmitAttemptRequest
		if err := decodeJSON(r, h.deps.Validator, &req); err != nil {
			respondServiceError(w, initTime, err, constants.MsgInvalidRequestBody)
			return
		}
		user := auth.GetSessionUser(r.Context())
		result, err := h.deps.Services.Quizzes.SubmitAttempt(r.Context(), id, user.ID, req, isStaff(user))
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to submit attempt")
			return
		}
		common.RespondSuccess(w, initTime, "Attempt graded", result, http.StatusCreated)
	}
}

// ListQuizAttempts handles GET /api/quizzes/{id}/attempts
//
// Coaches and admins see every attempt, students only their own.
func (h *Handlers) ListQuizAttempts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, err := pathID(r, "id")
		if err != nil {
			respondServiceError(w, initTime, err, constants.MsgInvalidID)
			return
		}
		user := auth.GetSessionUser(r.Context())
		attempts, err := h.deps.Services.Quizzes.ListAttempts(r.Context(), id, user.ID, isStaff(user))
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to list attempts")
			return
		}
		common.RespondSuccess(w, initTime, "Attempts fetched", attempts)
	}
}

// MyAttempts handles GET /api/attempts/me
func (h *Handlers) MyAttempts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		user := auth.GetSessionUser(r.Context())
		attempts, err := h.deps.Services.Quizzes.MyAttempts(r.Context(), user.ID)
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to list attempts")
			return
		}
		common.RespondSuccess(w, initTime, "Attempts fetched", attempts)
	}
}
