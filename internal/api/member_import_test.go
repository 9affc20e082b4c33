package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingorg/quizdesk/internal/auth"
	"trainingorg/quizdesk/internal/constants"
	"trainingorg/quizdesk/internal/models/dtos"
	"trainingorg/quizdesk/internal/services"
)

type mockImporter struct {
	importFunc func(ctx context.Context, req services.ImportRequest) (*services.ImportResult, error)
	lastReq    services.ImportRequest
	calls      int
}

func (m *mockImporter) ImportMembers(ctx context.Context, req services.ImportRequest) (*services.ImportResult, error) {
	m.calls++
	m.lastReq = req
	return m.importFunc(ctx, req)
}

func postImport(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/members/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(auth.SetSessionUser(req.Context(), &auth.SessionUser{ID: 7, Username: "coach1", Role: constants.RoleCoach}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeMap(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body
}

func TestImportMembersHandler_Success(t *testing.T) {
	importer := &mockImporter{importFunc: func(_ context.Context, req services.ImportRequest) (*services.ImportResult, error) {
		return &services.ImportResult{
			SuccessCount: 1,
			ErrorCount:   1,
			Errors:       []string{"Unknown member: Missing required fields for member: {}"},
		}, nil
	}}

	rr := postImport(t, ImportMembersHandler(importer),
		`{"members":[{"member_id":"SH1","name":"Alice","level_code":"B1"},{"member_id":"SH2","name":""}]}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp dtos.ImportResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Successfully imported 1 members", resp.Message)
	assert.Equal(t, 1, resp.SuccessCount)
	assert.Equal(t, 1, resp.ErrorCount)
	assert.Len(t, resp.Errors, 1)

	assert.Len(t, importer.lastReq.Records, 2)
	assert.Equal(t, "coach1", importer.lastReq.ImportedBy)
	assert.Nil(t, importer.lastReq.StrictLookups)
}

func TestImportMembersHandler_OmitsEmptyErrors(t *testing.T) {
	importer := &mockImporter{importFunc: func(context.Context, services.ImportRequest) (*services.ImportResult, error) {
		return &services.ImportResult{SuccessCount: 2}, nil
	}}

	rr := postImport(t, ImportMembersHandler(importer), `{"members":[{"member_id":"A","name":"a"},{"member_id":"B","name":"b"}]}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeMap(t, rr)
	_, hasErrors := body["errors"]
	assert.False(t, hasErrors)
	assert.Equal(t, float64(0), body["errorCount"])
}

func TestImportMembersHandler_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty array", `{"members":[]}`},
		{"missing members", `{}`},
		{"not an array", `{"members":"SH1,Alice"}`},
		{"malformed json", `{"members":[`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			importer := &mockImporter{}
			rr := postImport(t, ImportMembersHandler(importer), tt.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			body := decodeMap(t, rr)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, "Invalid or empty members data", body["message"])
			assert.Zero(t, importer.calls)
		})
	}
}

func TestImportMembersHandler_BadCellReachesImporter(t *testing.T) {
	importer := &mockImporter{importFunc: func(_ context.Context, req services.ImportRequest) (*services.ImportResult, error) {
		return &services.ImportResult{
			SuccessCount: 1,
			ErrorCount:   1,
			Errors:       []string{"Bob: classes_count must be a string or a number, got true"},
		}, nil
	}}

	rr := postImport(t, ImportMembersHandler(importer),
		`{"members":[{"member_id":"A","name":"Ann"},{"member_id":"B","name":"Bob","classes_count":true}]}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, 1, importer.calls)
	require.Len(t, importer.lastReq.Records, 2)
	assert.Equal(t, "Ann", importer.lastReq.Records[0].Name.String())
	field, err := importer.lastReq.Records[1].InvalidField()
	assert.Error(t, err)
	assert.Equal(t, "classes_count", field)
}

func TestImportMembersHandler_NothingImported(t *testing.T) {
	importer := &mockImporter{importFunc: func(context.Context, services.ImportRequest) (*services.ImportResult, error) {
		return &services.ImportResult{ErrorCount: 1, Errors: []string{"Unknown member: Missing required fields for member: {}"}},
			services.ErrNoRowsImported
	}}

	rr := postImport(t, ImportMembersHandler(importer), `{"members":[{"member_id":"","name":""}]}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeMap(t, rr)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Failed to import members", body["message"])
	assert.Equal(t, "No members were imported successfully", body["error"])
}

func TestImportMembersHandler_UnexpectedError(t *testing.T) {
	importer := &mockImporter{importFunc: func(context.Context, services.ImportRequest) (*services.ImportResult, error) {
		return nil, errors.New("failed to commit import: connection reset")
	}}

	rr := postImport(t, ImportMembersHandler(importer), `{"members":[{"member_id":"A","name":"a"}]}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeMap(t, rr)
	assert.Contains(t, body["error"], "connection reset")
}

func TestImportMembersHandler_StrictOverride(t *testing.T) {
	importer := &mockImporter{importFunc: func(context.Context, services.ImportRequest) (*services.ImportResult, error) {
		return &services.ImportResult{SuccessCount: 1}, nil
	}}

	postImport(t, ImportMembersHandler(importer), `{"members":[{"member_id":"A","name":"a"}],"strict_lookups":true}`)

	require.NotNil(t, importer.lastReq.StrictLookups)
	assert.True(t, *importer.lastReq.StrictLookups)
}

func csvUpload(t *testing.T, url, content string) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "members.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImportMembersCSVHandler(t *testing.T) {
	importer := &mockImporter{importFunc: func(_ context.Context, req services.ImportRequest) (*services.ImportResult, error) {
		return &services.ImportResult{SuccessCount: len(req.Records)}, nil
	}}

	req := csvUpload(t, "/api/members/import/csv?strict_lookups=true",
		"Member ID,Name,Level Code\nSH1,Alice,B1\n\nSH2,Bob,\n")
	rr := httptest.NewRecorder()
	ImportMembersCSVHandler(importer).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, importer.lastReq.Records, 2)
	assert.Equal(t, "SH1", importer.lastReq.Records[0].MemberID.String())
	require.NotNil(t, importer.lastReq.StrictLookups)
	assert.True(t, *importer.lastReq.StrictLookups)
}

func TestImportMembersCSVHandler_Rejects(t *testing.T) {
	importer := &mockImporter{}

	rr := httptest.NewRecorder()
	ImportMembersCSVHandler(importer).ServeHTTP(rr, csvUpload(t, "/api/members/import/csv", "member_id,level_code\nSH1,B1\n"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/members/import/csv", strings.NewReader("no form"))
	ImportMembersCSVHandler(importer).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	assert.Zero(t, importer.calls)
}
