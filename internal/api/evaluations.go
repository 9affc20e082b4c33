package api

import (
	"net/http"
	"time"

	"trainingorg/quizdesk/internal/auth"
	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/constants"
	"trainingorg/quizdesk/internal/models/dtos"
)

// CreateEvaluation handles POST /api/evaluations
func (h *Handlers) CreateEvaluation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		var req dtos.EvaluationRequest
		if err := decodeJSON(r, h.deps.Validator, &req); err != nil {
			respondServiceError(w, initTime, err, constants.MsgInvalidRequestBody)
			return
		}
		eval, err := h.deps.Services.Evaluations.Create(r.Context(), req, auth.GetSessionUser(r.Context()))
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to create evaluation")
			return
		}
		common.RespondSuccess(w, initTime, "Evaluation created", eval, http.StatusCreated)
	}
}

// ListEvaluations handles GET /api/evaluations?status=&member_id=
func (h *Handlers) ListEvaluations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		memberID, err := queryID(r, "member_id")
		if err != nil {
			respondServiceError(w, initTime, err, "Invalid query parameter")
			return
		}
		filter := dtos.EvaluationListFilter{
			Status:   r.URL.Query().Get("status"),
			MemberID: memberID,
		}
		evals, err := h.deps.Services.Evaluations.List(r.Context(), filter, auth.GetSessionUser(r.Context()))
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to list evaluations")
			return
		}
		common.RespondSuccess(w, initTime, "Evaluations fetched", evals)
	}
}

// ApproveEvaluation handles POST /api/evaluations/{id}/approve
func (h *Handlers) ApproveEvaluation() http.HandlerFunc {
	return h.reviewEvaluation(constants.EvaluationApproved, "Evaluation approved")
}

// DisapproveEvaluation handles POST /api/evaluations/{id}/disapprove
func (h *Handlers) DisapproveEvaluation() http.HandlerFunc {
	return h.reviewEvaluation(constants.EvaluationDisapproved, "Evaluation disapproved")
}

func (h *Handlers) reviewEvaluation(decision constants.EvaluationStatus, okMessage string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, err := pathID(r, "id")
		if err != nil {
			respondServiceError(w, initTime, err, constants.MsgInvalidID)
			return
		}

		var req dtos.ReviewRequest
		if r.ContentLength != 0 {
			if err := decodeJSON(r, h.deps.Validator, &req); err != nil {
				respondServiceError(w, initTime, err, constants.MsgInvalidRequestBody)
				return
			}
		}

		eval, err := h.deps.Services.Evaluations.Review(r.Context(), id, decision, req.Comment, auth.GetSessionUser(r.Context()))
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to review evaluation")
			return
		}
		common.RespondSuccess(w, initTime, okMessage, eval)
	}
}
