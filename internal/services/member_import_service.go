package services

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gorm.io/gorm"

	"trainingorg/quizdesk/internal/constants"
	"trainingorg/quizdesk/internal/logging"
	"trainingorg/quizdesk/internal/metrics"
	"trainingorg/quizdesk/internal/models/dtos"
	gormModels "trainingorg/quizdesk/internal/models/gorm"
)

const rowSavepoint = "import_row"

// MemberImporter is what the HTTP layer needs from the import coordinator.
type MemberImporter interface {
	ImportMembers(ctx context.Context, req ImportRequest) (*ImportResult, error)
}

type ImportRequest struct {
	Records    []dtos.MemberRecord
	ImportedBy string
	// StrictLookups overrides the configured policy when set.
	StrictLookups *bool
}

// ImportResult always satisfies SuccessCount+ErrorCount == len(Records).
type ImportResult struct {
	SuccessCount int
	ErrorCount   int
	Errors       []string
}

type MemberImportService struct {
	db            *gorm.DB
	strictLookups bool
	metrics       *metrics.MetricsRegistry
}

func NewMemberImportService(db *gorm.DB, strictLookups bool, metricsReg *metrics.MetricsRegistry) *MemberImportService {
	return &MemberImportService{
		db:            db,
		strictLookups: strictLookups,
		metrics:       metricsReg,
	}
}

var _ MemberImporter = (*MemberImportService)(nil)

// ImportMembers inserts every valid record inside one transaction. Rows are
// handled in input order; a failing row is recorded and skipped. The batch is
// committed when at least one row was inserted and rolled back otherwise.
func (s *MemberImportService) ImportMembers(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	if len(req.Records) == 0 {
		return nil, ErrInvalidImportInput
	}

	strict := s.strictLookups
	if req.StrictLookups != nil {
		strict = *req.StrictLookups
	}

	start := time.Now()
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin import transaction: %w", tx.Error)
	}

	result := &ImportResult{Errors: []string{}}
	for i, record := range req.Records {
		if err := ctx.Err(); err != nil {
			tx.Rollback()
			s.metrics.ObserveImport(0, 0, false, time.Since(start).Seconds())
			logging.Warn("Member import cancelled",
				"imported_by", req.ImportedBy,
				"processed", i,
				"rows", len(req.Records),
			)
			return nil, fmt.Errorf("member import cancelled: %w", err)
		}

		if err := s.importRow(tx, record, strict); err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", record.DisplayName(), err.Error()))
			continue
		}
		result.SuccessCount++
	}

	if result.SuccessCount == 0 {
		if err := tx.Rollback().Error; err != nil && !errors.Is(err, gorm.ErrInvalidTransaction) {
			logging.Error("Failed to roll back member import", "error", err)
		}
		s.finish(req, result, false, start)
		return result, ErrNoRowsImported
	}

	if err := tx.Commit().Error; err != nil {
		rbErr := tx.Rollback().Error
		if rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) && !errors.Is(rbErr, gorm.ErrInvalidTransaction) {
			logging.Error("Rollback after failed commit also failed", "error", rbErr)
		}
		s.finish(req, result, false, start)
		return nil, fmt.Errorf("failed to commit member import: %w", err)
	}

	s.finish(req, result, true, start)
	return result, nil
}

// importRow validates one record and inserts it under a savepoint, so a failed
// statement does not abort the surrounding transaction.
func (s *MemberImportService) importRow(tx *gorm.DB, record dtos.MemberRecord, strict bool) error {
	memberID := record.MemberID.Trimmed()
	name := record.Name.Trimmed()
	if memberID == "" || name == "" {
		return &MissingFieldError{Record: record.JSON()}
	}
	if field, err := record.InvalidField(); err != nil {
		return &RowValueError{Field: field, Reason: err.Error()}
	}

	classes, err := record.ClassesCount.Int()
	if err != nil {
		return &RowValueError{Field: "classes_count", Reason: fmt.Sprintf("%q is not a whole number", record.ClassesCount.String())}
	}
	if classes < 0 {
		return &RowValueError{Field: "classes_count", Reason: "must not be negative"}
	}

	if err := tx.SavePoint(rowSavepoint).Error; err != nil {
		return fmt.Errorf("failed to create savepoint: %w", err)
	}

	if err := insertMemberRow(tx, memberID, name, classes, record, strict); err != nil {
		if rbErr := tx.RollbackTo(rowSavepoint).Error; rbErr != nil {
			logging.Error("Failed to roll back import row", "member_id", memberID, "error", rbErr)
		}
		return err
	}

	return tx.Exec("RELEASE SAVEPOINT " + rowSavepoint).Error
}

func insertMemberRow(tx *gorm.DB, memberID, name string, classes int, record dtos.MemberRecord, strict bool) error {
	member := gormModels.Member{
		MemberID:     memberID,
		Name:         name,
		ClassesCount: classes,
	}

	if code := record.LevelCode.Trimmed(); code != "" {
		var level gormModels.QuizLevel
		res := tx.Select("id").Where("code = ?", code).Order("id").Limit(1).Find(&level)
		if res.Error != nil {
			return fmt.Errorf("level lookup failed: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			member.LevelID = &level.ID
		} else if strict {
			return &UnresolvedReferenceError{Field: "level_code", Value: code}
		}
	}

	if username := record.CoachUsername.Trimmed(); username != "" {
		var coach gormModels.User
		res := tx.Select("id").
			Where("username = ? AND role IN ?", username, constants.CoachRoles).
			Order("id").Limit(1).Find(&coach)
		if res.Error != nil {
			return fmt.Errorf("coach lookup failed: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			member.CoachID = &coach.ID
		} else if strict {
			return &UnresolvedReferenceError{Field: "coach_username", Value: username}
		}
	}

	return tx.Create(&member).Error
}

func (s *MemberImportService) finish(req ImportRequest, result *ImportResult, committed bool, start time.Time) {
	elapsed := time.Since(start)
	s.metrics.ObserveImport(result.SuccessCount, result.ErrorCount, committed, elapsed.Seconds())
	logging.Info("Member import finished",
		"imported_by", req.ImportedBy,
		"rows", len(req.Records),
		"success_count", result.SuccessCount,
		"error_count", result.ErrorCount,
		"committed", committed,
		"duration_ms", elapsed.Milliseconds(),
	)
}

// FormatImportResponse renders a completed import for the client. A batch with
// some failed rows is still reported as a success.
func FormatImportResponse(result *ImportResult) dtos.ImportResponse {
	resp := dtos.ImportResponse{
		Success:      true,
		Message:      fmt.Sprintf("Successfully imported %d members", result.SuccessCount),
		SuccessCount: result.SuccessCount,
		ErrorCount:   result.ErrorCount,
	}
	if len(result.Errors) > 0 {
		resp.Errors = result.Errors
	}
	return resp
}

var csvColumns = map[string]bool{
	"member_id":      true,
	"name":           true,
	"level_code":     true,
	"classes_count":  true,
	"coach_username": true,
}

// ParseMemberCSV reads a header row naming MemberRecord fields followed by one
// member per line. Unknown columns are ignored and blank lines skipped.
func ParseMemberCSV(r io.Reader) ([]dtos.MemberRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: CSV file is empty", ErrInvalidImportInput)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidImportInput, err)
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeCSVHeader(h)
		if csvColumns[key] {
			colIdx[key] = i
		}
	}
	for _, required := range []string{"member_id", "name"} {
		if _, ok := colIdx[required]; !ok {
			return nil, fmt.Errorf("%w: CSV missing required column %s", ErrInvalidImportInput, required)
		}
	}

	getCol := func(row []string, col string) string {
		i, ok := colIdx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []dtos.MemberRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidImportInput, err)
		}
		if isBlankRow(row) {
			continue
		}
		records = append(records, dtos.MemberRecord{
			MemberID:      dtos.FlexString(getCol(row, "member_id")),
			Name:          dtos.FlexString(getCol(row, "name")),
			LevelCode:     dtos.FlexString(getCol(row, "level_code")),
			ClassesCount:  dtos.FlexInt(getCol(row, "classes_count")),
			CoachUsername: dtos.FlexString(getCol(row, "coach_username")),
		})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: CSV has no data rows", ErrInvalidImportInput)
	}
	return records, nil
}

func normalizeCSVHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
