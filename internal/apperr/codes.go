package apperr

// Error codes grouped by flow.
const (
	// Registration and login
	CodeRegisterFailed Code = "REGISTER_FAILED"
	CodeInvalidUser    Code = "INVALID_USER"
	CodeUnauthorized   Code = "UNAUTHORIZED"
	CodeForbidden      Code = "FORBIDDEN"

	// Password reset
	CodeUserNotFound   Code = "USER_NOT_FOUND"
	CodeTokenInvalid   Code = "RESET_TOKEN_INVALID"
	CodeTokenExpired   Code = "RESET_TOKEN_EXPIRED"
	CodePasswordReused Code = "PASSWORD_REUSED"

	// Role management
	CodeDocumentsMissing Code = "DOCUMENTS_MISSING"

	// Listing and pruning
	CodeListFailed  Code = "LIST_USERS_FAILED"
	CodePruneFailed Code = "PRUNE_FAILED"

	// Validation and system
	CodeValidationFailed Code = "VALIDATION_FAILED"
	CodeInternal         Code = "INTERNAL_ERROR"
)
