package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"trainingorg/quizdesk/internal/auth"
	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/constants"
	"trainingorg/quizdesk/internal/models/dtos"
)

// ListTables handles GET /api/admin/tables
func (h *Handlers) ListTables() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		tables, err := h.deps.Services.Admin.ListTables(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to list tables")
			return
		}
		common.RespondSuccess(w, initTime, "Tables fetched", tables)
	}
}

// DescribeTable handles GET /api/admin/tables/{table}
func (h *Handlers) DescribeTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		columns, err := h.deps.Services.Admin.DescribeTable(r.Context(), chi.URLParam(r, "table"))
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to describe table")
			return
		}
		common.RespondSuccess(w, initTime, "Table structure fetched", columns)
	}
}

// TableRows handles GET /api/admin/tables/{table}/rows?limit=&offset=
func (h *Handlers) TableRows() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		rows, err := h.deps.Services.Admin.Rows(r.Context(),
			chi.URLParam(r, "table"),
			queryInt(r, "limit", 0),
			queryInt(r, "offset", 0),
		)
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to read table")
			return
		}
		common.RespondSuccess(w, initTime, "Rows fetched", rows)
	}
}

// ClearTable handles POST /api/admin/tables/{table}/clear
func (h *Handlers) ClearTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		var req dtos.ClearTableRequest
		if r.ContentLength != 0 {
			if err := decodeJSON(r, nil, &req); err != nil {
				respondServiceError(w, initTime, err, constants.MsgInvalidRequestBody)
				return
			}
		}
		table := chi.URLParam(r, "table")
		if err := h.deps.Services.Admin.ClearTable(r.Context(), table, req.Cascade, auth.GetSessionUser(r.Context())); err != nil {
			respondServiceError(w, initTime, err, "Failed to clear table")
			return
		}
		common.RespondSuccess(w, initTime, "Table cleared", nil)
	}
}

// DropTable handles DELETE /api/admin/tables/{table}?cascade=
func (h *Handlers) DropTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		table := chi.URLParam(r, "table")
		if err := h.deps.Services.Admin.DropTable(r.Context(), table, queryBool(r, "cascade"), auth.GetSessionUser(r.Context())); err != nil {
			respondServiceError(w, initTime, err, "Failed to drop table")
			return
		}
		common.RespondSuccess(w, initTime, "Table dropped", nil)
	}
}

// CreateTable handles POST /api/admin/tables
func (h *Handlers) CreateTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		var req dtos.CreateTableRequest
		if err := decodeJSON(r, h.deps.Validator, &req); err != nil {
			respondServiceError(w, initTime, err, constants.MsgInvalidRequestBody)
			return
		}
		if err := h.deps.Services.Admin.CreateTable(r.Context(), req, auth.GetSessionUser(r.Context())); err != nil {
			respondServiceError(w, initTime, err, "Failed to create table")
			return
		}
		common.RespondSuccess(w, initTime, "Table created", nil, http.StatusCreated)
	}
}

// ExecuteSQL handles POST /api/admin/sql
func (h *Handlers) ExecuteSQL() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		var req dtos.SQLRequest
		if err := decodeJSON(r, h.deps.Validator, &req); err != nil {
			respondServiceError(w, initTime, err, constants.MsgInvalidRequestBody)
			return
		}
		result, err := h.deps.Services.Admin.ExecuteSQL(r.Context(), req, auth.GetSessionUser(r.Context()))
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to execute statement")
			return
		}
		common.RespondSuccess(w, initTime, "Statement executed", result)
	}
}
