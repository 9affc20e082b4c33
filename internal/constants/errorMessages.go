package constants

const (
	MsgInvalidMembersData   = "Invalid or empty members data"
	MsgImportFailed         = "Failed to import members"
	MsgNoMembersImported    = "No members were imported successfully"
	MsgMissingMemberFields  = "Missing required fields for member"
	MsgAuthRequired         = "Authentication required"
	MsgInvalidCredentials   = "Invalid username or password"
	MsgPermissionDenied     = "You do not have permission to perform this action"
	MsgInvalidRequestBody   = "Invalid request body"
	MsgInvalidID            = "Invalid id"
	MsgTooManyRequests      = "Too many requests"
	MsgRawSQLDisabled       = "Raw SQL execution is disabled"
	MsgEvaluationNotPending = "Evaluation has already been reviewed"
	MsgReviewCommentNeeded  = "A comment is required to disapprove an evaluation"
)
