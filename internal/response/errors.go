package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenRevoked       ErrCode = "TOKEN_REVOKED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation ErrCode = "VALIDATION_ERROR"
	ErrInvalidID  ErrCode = "INVALID_ID"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrReferenceMissing ErrCode = "REFERENCE_MISSING"

	// ─── Question papers ───────────────────────────────────────────────
	ErrPaperValidation    ErrCode = "PAPER_VALIDATION_FAILED"
	ErrInvalidPaperState  ErrCode = "INVALID_PAPER_STATE"
	ErrNotPaperOwner      ErrCode = "NOT_PAPER_OWNER"
	ErrPaperConflict      ErrCode = "PAPER_CONFLICT"
	ErrQuestionSlotTaken  ErrCode = "QUESTION_SLOT_TAKEN"
	ErrDocumentWrite      ErrCode = "DOCUMENT_WRITE_FAILED"
	ErrNoDocument         ErrCode = "NO_DOCUMENT"
	ErrCourseMismatch     ErrCode = "COURSE_REGULATION_MISMATCH"
	ErrAssignmentMismatch ErrCode = "ASSIGNMENT_MISMATCH"
	ErrAssignmentHasPaper ErrCode = "ASSIGNMENT_HAS_PAPER"
	ErrDeadlineInPast     ErrCode = "DEADLINE_IN_PAST"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid or expired."
	case ErrTokenRevoked:
		return "This session has been logged out. Please sign in again."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrPermissionDenied:
		return "Permission denied."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrReferenceMissing:
		return "A referenced course, regulation, account or assignment does not exist."

	// ─── Question papers ───────────────────────────────────────────────
	case ErrPaperValidation:
		return "The question paper does not satisfy the paper pattern."
	case ErrInvalidPaperState:
		return "This action is not allowed in the paper's current status."
	case ErrNotPaperOwner:
		return "This question paper belongs to another faculty member."
	case ErrPaperConflict:
		return "The paper was changed by another request. Reload and try again."
	case ErrQuestionSlotTaken:
		return "Another question already occupies this position."
	case ErrDocumentWrite:
		return "The question paper document could not be generated. Please try again."
	case ErrNoDocument:
		return "No document has been generated for this paper yet."
	case ErrCourseMismatch:
		return "The course does not belong to the selected regulation."
	case ErrAssignmentMismatch:
		return "The assignment belongs to another faculty member or course."
	case ErrAssignmentHasPaper:
		return "A question paper already exists for this assignment."
	case ErrDeadlineInPast:
		return "The deadline must be in the future."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
