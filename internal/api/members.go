package api

import (
	"net/http"
	"time"

	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/constants"
	"trainingorg/quizdesk/internal/models/dtos"
)

// ListMembers handles GET /api/members
//
// Query: q, level_id, coach_id, sort, order, limit, offset.
func (h *Handlers) ListMembers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		levelID, err := queryID(r, "level_id")
		if err != nil {
			respondServiceError(w, initTime, err, "Invalid query parameter")
			return
		}
		coachID, err := queryID(r, "coach_id")
		if err != nil {
			respondServiceError(w, initTime, err, "Invalid query parameter")
			return
		}

		q := r.URL.Query()
		filter := dtos.MemberListFilter{
			Query:   q.Get("q"),
			LevelID: levelID,
			CoachID: coachID,
			Sort:    q.Get("sort"),
			Order:   q.Get("order"),
			Limit:   queryInt(r, "limit", 0),
			Offset:  max(queryInt(r, "offset", 0), 0),
		}

		members, err := h.deps.Services.Members.List(r.Context(), filter)
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to list members")
			return
		}
		common.RespondSuccess(w, initTime, "Members fetched", members)
	}
}

// MemberDuplicates handles GET /api/members/duplicates
func (h *Handlers) MemberDuplicates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		dups, err := h.deps.Services.Members.Duplicates(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to find duplicate members")
			return
		}
		common.RespondSuccess(w, initTime, "Duplicate member ids fetched", dups)
	}
}

// GetMember handles GET /api/members/{id}
func (h *Handlers) GetMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, err := pathID(r, "id")
		if err != nil {
			respondServiceError(w, initTime, err, constants.MsgInvalidID)
			return
		}
		member, err := h.deps.Services.Members.Get(r.Context(), id)
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to fetch member")
			return
		}
		common.RespondSuccess(w, initTime, "Member fetched", member)
	}
}

// CreateMember handles POST /api/members
func (h *Handlers) CreateMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		var req dtos.MemberRequest
		if err := decodeJSON(r, h.deps.Validator, &req); err != nil {
			respondServiceError(w, initTime, err, constants.MsgInvalidRequestBody)
			return
		}
		member, err := h.deps.Services.Members.Create(r.Context(), req)
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to create member")
			return
		}
		common.RespondSuccess(w, initTime, "Member created", member, http.StatusCreated)
	}
}

// UpdateMember handles PUT /api/members/{id}
func (h *Handlers) UpdateMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, err := pathID(r, "id")
		if err != nil {
			respondServiceError(w, initTime, err, constants.MsgInvalidID)
			return
		}
		var req dtos.MemberRequest
		if err := decodeJSON(r, h.deps.Validator, &req); err != nil {
			respondServiceError(w, initTime, err, constants.MsgInvalidRequestBody)
			return
		}
		member, err := h.deps.Services.Members.Update(r.Context(), id, req)
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to update member")
			return
		}
		common.RespondSuccess(w, initTime, "Member updated", member)
	}
}

// DeleteMember handles DELETE /api/members/{id}
func (h *Handlers) DeleteMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, err := pathID(r, "id")
		if err != nil {
			respondServiceError(w, initTime, err, constants.MsgInvalidID)
			return
		}
		if err := h.deps.Services.Members.Delete(r.Context(), id); err != nil {
			respondServiceError(w, initTime, err, "Failed to delete member")
			return
		}
		common.RespondSuccess(w, initTime, "Member deleted", nil)
	}
}
