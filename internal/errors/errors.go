// Package errors provides custom error types for the Arbor API.
// All service-layer errors should use AppError so that responses stay
// consistent and never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Area errors.
var (
	ErrAreaNotFound = &AppError{Code: "AREA_NOT_FOUND", Message: "Area not found", StatusCode: http.StatusNotFound}
	ErrAreaInUse    = &AppError{Code: "AREA_IN_USE", Message: "Area still has categories", StatusCode: http.StatusConflict}
)

// Category errors.
var (
	ErrCategoryNotFound    = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrCategoryHasChildren = &AppError{Code: "CATEGORY_HAS_CHILDREN", Message: "Category has child categories", StatusCode: http.StatusConflict}
	ErrSelfParentCategory  = &AppError{Code: "SELF_PARENT_CATEGORY", Message: "A category cannot be its own parent", StatusCode: http.StatusBadRequest}
	ErrCategoryCycle       = &AppError{Code: "CATEGORY_CYCLE", Message: "Reparenting would create a cycle", StatusCode: http.StatusBadRequest}
	ErrNotLeafCategory     = &AppError{Code: "NOT_LEAF_CATEGORY", Message: "Events can only be logged against leaf categories", StatusCode: http.StatusBadRequest}
)

// Attribute errors.
var (
	ErrAttributeNotFound  = &AppError{Code: "ATTRIBUTE_NOT_FOUND", Message: "Attribute definition not found", StatusCode: http.StatusNotFound}
	ErrAttributeRequired  = &AppError{Code: "ATTRIBUTE_REQUIRED", Message: "A required attribute is missing", StatusCode: http.StatusBadRequest}
	ErrInvalidAttribute   = &AppError{Code: "INVALID_ATTRIBUTE_VALUE", Message: "Attribute value does not match its definition", StatusCode: http.StatusBadRequest}
	ErrInvalidEnumOption  = &AppError{Code: "INVALID_ENUM_OPTION", Message: "Value is not one of the allowed options", StatusCode: http.StatusBadRequest}
	ErrDuplicateAttribute = &AppError{Code: "DUPLICATE_ATTRIBUTE", Message: "Attribute value supplied more than once", StatusCode: http.StatusBadRequest}
)

// Event errors.
var (
	ErrEventNotFound = &AppError{Code: "EVENT_NOT_FOUND", Message: "Event not found", StatusCode: http.StatusNotFound}
)

// Preset errors.
var (
	ErrPresetNotFound = &AppError{Code: "PRESET_NOT_FOUND", Message: "Activity preset not found", StatusCode: http.StatusNotFound}
)
