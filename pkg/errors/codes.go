package errors

import (
	"net/http"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeStorageError       ErrorCode = "COMMON_017"
	ErrCodeMessagingError     ErrorCode = "COMMON_018"
)

// Synthetic accessibility error codes
const (
	ErrCodeMoleculeParseFailed ErrorCode = "SA_001"
	ErrCodeFingerprintFailed   ErrorCode = "SA_002"
	ErrCodeModelNotLoaded      ErrorCode = "SA_003"
	ErrCodeModelNotFound       ErrorCode = "SA_004"
	ErrCodeModelCorrupt        ErrorCode = "SA_005"
	ErrCodeModelDegenerate     ErrorCode = "SA_006"
	ErrCodeEmptyCorpus         ErrorCode = "SA_007"
)

// Short aliases used at call sites.
const (
	CodeOK      = ErrorCode("OK")
	CodeUnknown = ErrorCode("UNKNOWN")

	CodeInternal           = ErrCodeInternal
	CodeInvalidParam       = ErrCodeBadRequest
	CodeNotFound           = ErrCodeNotFound
	CodeConflict           = ErrCodeConflict
	CodeServiceUnavailable = ErrCodeServiceUnavailable
	CodeValidation         = ErrCodeValidation
	CodeSerialization      = ErrCodeSerialization
	CodeDatabaseError      = ErrCodeDatabaseError
	CodeCacheError         = ErrCodeCacheError
	CodeStorageError       = ErrCodeStorageError
	CodeMessagingError     = ErrCodeMessagingError

	CodeMoleculeParseFailed = ErrCodeMoleculeParseFailed
	CodeFingerprintFailed   = ErrCodeFingerprintFailed
	CodeModelNotLoaded      = ErrCodeModelNotLoaded
	CodeModelNotFound       = ErrCodeModelNotFound
	CodeModelCorrupt        = ErrCodeModelCorrupt
	CodeModelDegenerate     = ErrCodeModelDegenerate
	CodeEmptyCorpus         = ErrCodeEmptyCorpus
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeStorageError:       http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,

	ErrCodeMoleculeParseFailed: http.StatusBadRequest,
	ErrCodeFingerprintFailed:   http.StatusUnprocessableEntity,
	ErrCodeModelNotLoaded:      http.StatusServiceUnavailable,
	ErrCodeModelNotFound:       http.StatusNotFound,
	ErrCodeModelCorrupt:        http.StatusInternalServerError,
	ErrCodeModelDegenerate:     http.StatusUnprocessableEntity,
	ErrCodeEmptyCorpus:         http.StatusBadRequest,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeStorageError:       "storage error",
	ErrCodeMessagingError:     "messaging error",

	ErrCodeMoleculeParseFailed: "failed to parse molecule",
	ErrCodeFingerprintFailed:   "failed to compute fingerprint",
	ErrCodeModelNotLoaded:      "no contribution model loaded",
	ErrCodeModelNotFound:       "contribution model not found",
	ErrCodeModelCorrupt:        "contribution model snapshot is corrupt",
	ErrCodeModelDegenerate:     "contribution model is degenerate",
	ErrCodeEmptyCorpus:         "corpus contains no usable molecules",
}

// HTTPStatus returns the HTTP status for the code, defaulting to 500.
func (c ErrorCode) HTTPStatus() int {
	if s, ok := ErrorCodeHTTPStatus[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// DefaultMessage returns the default message for the code.
func (c ErrorCode) DefaultMessage() string {
	if m, ok := ErrorCodeMessage[c]; ok {
		return m
	}
	return "unknown error"
}

//Personal.AI order the ending
