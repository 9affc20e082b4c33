package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"trainingorg/quizdesk/internal/auth"
	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/constants"
	"trainingorg/quizdesk/internal/logging"
	"trainingorg/quizdesk/internal/middleware"
	"trainingorg/quizdesk/internal/models/dtos"
	"trainingorg/quizdesk/internal/services"
)

const maxCSVUploadBytes = 10 << 20

// ImportMembersHandler handles POST /api/members/import
//
// Body: {"members": [MemberRecord...], "strict_lookups": bool?}. Responds with
// the flat import shape rather than the usual envelope.
func ImportMembersHandler(importer services.MemberImporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.ImportMembersRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Members) == 0 {
			writeInvalidImport(w)
			return
		}
		runImport(w, r, importer, req.Members, req.StrictLookups)
	}
}

// ImportMembersCSVHandler handles POST /api/members/import/csv
//
// Multipart upload with the CSV in field "file". The header row names the
// member record fields. ?strict_lookups=true overrides the lookup policy.
func ImportMembersCSVHandler(importer services.MemberImporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxCSVUploadBytes)
		file, _, err := r.FormFile("file")
		if err != nil {
			writeInvalidImport(w)
			return
		}
		defer file.Close()

		records, err := services.ParseMemberCSV(file)
		if err != nil {
			logging.Debug("CSV import rejected", "error", err)
			common.WriteJSON(w, http.StatusBadRequest, dtos.APIResponse{
				Success: false,
				Message: constants.MsgInvalidMembersData,
				Error:   err.Error(),
			})
			return
		}

		var strict *bool
		if raw := r.URL.Query().Get("strict_lookups"); raw != "" {
			v := queryBool(r, "strict_lookups")
			strict = &v
		}
		runImport(w, r, importer, records, strict)
	}
}

func runImport(w http.ResponseWriter, r *http.Request, importer services.MemberImporter, records []dtos.MemberRecord, strict *bool) {
	importedBy, userID := "", ""
	if user := auth.GetSessionUser(r.Context()); user != nil {
		importedBy = user.Username
		userID = strconv.FormatUint(uint64(user.ID), 10)
	}

	result, err := importer.ImportMembers(r.Context(), services.ImportRequest{
		Records:       records,
		ImportedBy:    importedBy,
		StrictLookups: strict,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidImportInput) {
			writeInvalidImport(w)
			return
		}
		logging.WithRequest(middleware.GetRequestID(r.Context()), userID, r.URL.Path).
			Warnw("member import rolled back", "records", len(records), "error", err)
		resp := dtos.APIResponse{
			Success: false,
			Message: constants.MsgImportFailed,
			Error:   err.Error(),
		}
		if result != nil && len(result.Errors) > 0 {
			resp.Data = map[string]any{"errors": result.Errors}
		}
		common.WriteJSON(w, http.StatusInternalServerError, resp)
		return
	}

	common.WriteJSON(w, http.StatusOK, services.FormatImportResponse(result))
}

func writeInvalidImport(w http.ResponseWriter) {
	common.WriteJSON(w, http.StatusBadRequest, dtos.APIResponse{
		Success: false,
		Message: constants.MsgInvalidMembersData,
	})
}

func (h *Handlers) ImportMembers() http.HandlerFunc {
	return ImportMembersHandler(h.deps.Services.Import)
}

func (h *Handlers) ImportMembersCSV() http.HandlerFunc {
	return ImportMembersCSVHandler(h.deps.Services.Import)
}
