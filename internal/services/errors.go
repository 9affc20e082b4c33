package services

import (
	"errors"
	"fmt"

	"trainingorg/quizdesk/internal/constants"
)

var (
	// ErrInvalidImportInput means the batch was empty or unreadable; no transaction was opened.
	ErrInvalidImportInput = errors.New(constants.MsgInvalidMembersData)
	// ErrNoRowsImported means every row failed and the transaction was rolled back.
	ErrNoRowsImported = errors.New(constants.MsgNoMembersImported)

	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("already exists")
	ErrForbidden            = errors.New(constants.MsgPermissionDenied)
	ErrInvalidCredentials   = errors.New(constants.MsgInvalidCredentials)
	ErrEvaluationNotPending = errors.New(constants.MsgEvaluationNotPending)
	ErrQuizHasAttempts      = errors.New("quiz questions cannot be replaced once attempts exist")
	ErrRawSQLDisabled       = errors.New(constants.MsgRawSQLDisabled)
	ErrProtectedTable       = errors.New("table is protected")
)

// MissingFieldError reports a record without member_id or name.
type MissingFieldError struct {
	Record string
}

func (e *MissingFieldError) Error() string {
	return constants.MsgMissingMemberFields + ": " + e.Record
}

// UnresolvedReferenceError reports a level_code or coach_username with no
// matching row while strict lookups are on.
type UnresolvedReferenceError struct {
	Field string
	Value string
}

func (e *UnresolvedReferenceError) Error() string {
	switch e.Field {
	case "coach_username":
		return fmt.Sprintf("coach_username %q does not match any coach", e.Value)
	default:
		return fmt.Sprintf("%s %q does not match any quiz level", e.Field, e.Value)
	}
}

// RowValueError reports a present but unusable field value.
type RowValueError struct {
	Field  string
	Reason string
}

func (e *RowValueError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}
