package errors

// ErrorCode is a stable, machine-readable identifier for a failure category.
// Codes are grouped by domain prefix so that monitoring dashboards can slice
// error rates per subsystem without parsing messages.
type ErrorCode string

// Common codes shared by every layer.
const (
	ErrCodeInternal        ErrorCode = "COMMON_001"
	ErrCodeBadRequest      ErrorCode = "COMMON_002"
	ErrCodeNotFound        ErrorCode = "COMMON_003"
	ErrCodeConflict        ErrorCode = "COMMON_004"
	ErrCodeTooManyRequests ErrorCode = "COMMON_005"
	ErrCodeTimeout         ErrorCode = "COMMON_006"
	ErrCodeValidation      ErrorCode = "COMMON_007"
	ErrCodeSerialization   ErrorCode = "COMMON_008"
	ErrCodeDatabaseError   ErrorCode = "COMMON_009"
	ErrCodeCacheError      ErrorCode = "COMMON_010"
	ErrCodeNotImplemented  ErrorCode = "COMMON_011"
)

// Reference-catalog codes.
const (
	ErrCodeCatalogLoadFailed   ErrorCode = "CAT_001"
	ErrCodeCatalogInvalid      ErrorCode = "CAT_002"
	ErrCodeCatalogDrugNotFound ErrorCode = "CAT_003"
	ErrCodeCatalogBatchNotFound ErrorCode = "CAT_004"
)

// Complaint codes.
const (
	ErrCodeComplaintInvalidSeverity ErrorCode = "CMP_001"
	ErrCodeComplaintArchiveFailed   ErrorCode = "CMP_002"
)

// Risk-scoring codes.  The scoring engine itself is fail-open and returns
// well-formed results for missing data; these codes cover the surrounding
// plumbing (bad request payloads, unknown strategy names, event publishing).
const (
	ErrCodeRiskInvalidPrice    ErrorCode = "RISK_001"
	ErrCodeRiskUnknownStrategy ErrorCode = "RISK_002"
	ErrCodeRiskEventPublish    ErrorCode = "RISK_003"
)

// String returns the code's string form.
func (c ErrorCode) String() string { return string(c) }
