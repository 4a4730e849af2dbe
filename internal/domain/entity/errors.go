package entity

import (
	"fmt"
	"net/http"
)

// ErrorCode categorizes failures of the signature service.
type ErrorCode string

const (
	ErrCodeUnsupportedFormat        ErrorCode = "unsupported_format"
	ErrCodeUnsupportedSignatureType ErrorCode = "unsupported_signature_type"
	ErrCodeEmptySignatureSet        ErrorCode = "empty_signature_set"
	ErrCodeMetadataCorruptOrMissing ErrorCode = "metadata_corrupt_or_missing"
	ErrCodeAssetIOFailure           ErrorCode = "asset_io_failure"
	ErrCodeEngineFailure            ErrorCode = "engine_failure"
	ErrCodeBadRequest               ErrorCode = "bad_request"
)

func (c ErrorCode) String() string {
	return string(c)
}

// HTTPStatus returns the HTTP status code for this error code.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case ErrCodeUnsupportedFormat, ErrCodeUnsupportedSignatureType, ErrCodeEmptySignatureSet, ErrCodeBadRequest:
		return http.StatusBadRequest
	case ErrCodeMetadataCorruptOrMissing:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// AppError is a categorized failure with the operation and path it affected.
type AppError struct {
	Code    ErrorCode
	Message string
	Op      string
	Path    string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any AppError carrying the same code, so the sentinels below can
// be used with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is
var (
	ErrUnsupportedFormat        = &AppError{Code: ErrCodeUnsupportedFormat, Message: "unsupported document format"}
	ErrUnsupportedSignatureType = &AppError{Code: ErrCodeUnsupportedSignatureType, Message: "unsupported signature type"}
	ErrEmptySignatureSet        = &AppError{Code: ErrCodeEmptySignatureSet, Message: "sign data is empty"}
	ErrMetadataCorruptOrMissing = &AppError{Code: ErrCodeMetadataCorruptOrMissing, Message: "signature metadata is corrupt or missing"}
	ErrAssetIOFailure           = &AppError{Code: ErrCodeAssetIOFailure, Message: "signature asset i/o failure"}
	ErrEngineFailure            = &AppError{Code: ErrCodeEngineFailure, Message: "signing engine failure"}
	ErrBadRequest               = &AppError{Code: ErrCodeBadRequest, Message: "bad request"}
)

// UnsupportedFormatError reports a document format the signature kind cannot
// be applied to.
func UnsupportedFormatError(kind SignatureType, format DocumentFormat) *AppError {
	return &AppError{
		Code:    ErrCodeUnsupportedFormat,
		Message: fmt.Sprintf("file format %s is not supported for %s signatures", format, kind),
		Op:      "sign",
	}
}

// UnsupportedSignatureTypeError reports an unknown placement type.
func UnsupportedSignatureTypeError(kind SignatureType) *AppError {
	return &AppError{
		Code:    ErrCodeUnsupportedSignatureType,
		Message: fmt.Sprintf("signature type %q is wrong", kind),
		Op:      "sign",
	}
}

// EmptySignatureSetError reports a batch without any live placement.
func EmptySignatureSetError() *AppError {
	return &AppError{Code: ErrCodeEmptySignatureSet, Message: "sign data is empty", Op: "sign"}
}

// MetadataError reports a metadata record that cannot be read.
func MetadataError(op, path string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeMetadataCorruptOrMissing,
		Message: fmt.Sprintf("failed to %s metadata record %s", op, path),
		Op:      op,
		Path:    path,
		Cause:   cause,
	}
}

// AssetIOError reports a filesystem failure on a signature asset or document.
func AssetIOError(op, path string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeAssetIOFailure,
		Message: fmt.Sprintf("failed to %s %s", op, path),
		Op:      op,
		Path:    path,
		Cause:   cause,
	}
}

// EngineError reports a failure of the signing engine.
func EngineError(op, path string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeEngineFailure,
		Message: fmt.Sprintf("signing engine failed to %s %s", op, path),
		Op:      op,
		Path:    path,
		Cause:   cause,
	}
}

// BadRequestError reports an invalid request.
func BadRequestError(message string) *AppError {
	return &AppError{Code: ErrCodeBadRequest, Message: message}
}
