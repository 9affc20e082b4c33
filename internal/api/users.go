package api

import (
	"net/http"
	"time"

	"trainingorg/quizdesk/internal/auth"
	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/constants"
	"trainingorg/quizdesk/internal/models/dtos"
)

// ListUsers handles GET /api/users?role=
func (h *Handlers) ListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		users, err := h.deps.Services.User.List(r.Context(), r.URL.Query().Get("role"))
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to list users")
			return
		}
		common.RespondSuccess(w, initTime, "Users fetched", users)
	}
}

// ListCoaches handles GET /api/users/coaches
func (h *Handlers) ListCoaches() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		coaches, err := h.deps.Services.User.ListCoaches(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to list coaches")
			return
		}
		common.RespondSuccess(w, initTime, "Coaches fetched", coaches)
	}
}

// CreateUser handles POST /api/users
func (h *Handlers) CreateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CreateUserRequest
		if err := decodeJSON(r, h.deps.Validator, &req); err != nil {
			respondServiceError(w, initTime, err, constants.MsgInvalidRequestBody)
			return
		}
		user, err := h.deps.Services.User.Create(r.Context(), req)
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to create user")
			return
		}
		common.RespondSuccess(w, initTime, "User created", user, http.StatusCreated)
	}
}

// DeleteUser handles DELETE /api/users/{id}
func (h *Handlers) DeleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		id, err := pathID(r, "id")
		if err != nil {
			respondServiceError(w, initTime, err, constants.MsgInvalidID)
			return
		}
		actor := auth.GetSessionUser(r.Context())
		if err := h.deps.Services.User.Delete(r.Context(), id, actor.ID); err != nil {
			respondServiceError(w, initTime, err, "Failed to delete user")
			return
		}
		common.RespondSuccess(w, initTime, "User deleted", nil)
	}
}
