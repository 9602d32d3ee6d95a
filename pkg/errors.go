package pkg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/LerianStudio/datafeed/pkg/constant"
)

// EntityNotFoundError records an error indicating an entity was not found in any case that caused it.
// You can use it to representing a Database not found, cache not found or any other repository.
type EntityNotFoundError struct {
	EntityType string
	Title      string
	Message    string
	Code       string
	Err        error
}

// Error implements the error interface.
func (e EntityNotFoundError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		if strings.TrimSpace(e.EntityType) != "" {
			return fmt.Sprintf("Entity %s not found", e.EntityType)
		}

		if e.Err != nil && strings.TrimSpace(e.Message) == "" {
			return e.Err.Error()
		}

		return "entity not found"
	}

	return e.Message
}

// Unwrap implements the error interface introduced in Go 1.13 to unwrap the internal error.
func (e EntityNotFoundError) Unwrap() error {
	return e.Err
}

// ValidationError records an error indicating that an input value failed a
// business validation rule.
type ValidationError struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string
	Message    string
	Code       string
	Err        error `json:"err,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if strings.TrimSpace(e.Code) != "" {
		return fmt.Sprintf("%s - %s", e.Code, e.Message)
	}

	return e.Message
}

// Unwrap implements the error interface introduced in Go 1.13 to unwrap the internal error.
func (e ValidationError) Unwrap() error {
	return e.Err
}

// EntityConflictError records an error indicating an entity already exists in some repository
// You can use it to representing a Database conflict, cache or any other repository.
type EntityConflictError struct {
	EntityType string
	Title      string
	Message    string
	Code       string
	Err        error
}

// Error implements the error interface.
func (e EntityConflictError) Error() string {
	if e.Err != nil && strings.TrimSpace(e.Message) == "" {
		return e.Err.Error()
	}

	return e.Message
}

// Unwrap implements the error interface introduced in Go 1.13 to unwrap the internal error.
func (e EntityConflictError) Unwrap() error {
	return e.Err
}

// UnauthorizedError indicates an operation that couldn't be performant because there's no user authenticated.
type UnauthorizedError struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string `json:"title,omitempty"`
	Message    string `json:"message,omitempty"`
	Code       string `json:"code,omitempty"`
	Err        error  `json:"err,omitempty"`
}

func (e UnauthorizedError) Error() string {
	return e.Message
}

// ForbiddenError indicates an operation that couldn't be performant because the authenticated user has no sufficient privileges.
type ForbiddenError struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string `json:"title,omitempty"`
	Message    string `json:"message,omitempty"`
	Code       string `json:"code,omitempty"`
	Err        error  `json:"err,omitempty"`
}

func (e ForbiddenError) Error() string {
	return e.Message
}

// UnprocessableOperationError indicates an operation that couldn't be performant because it's invalid.
type UnprocessableOperationError struct {
	EntityType string
	Title      string
	Message    string
	Code       string
	Err        error
}

func (e UnprocessableOperationError) Error() string {
	return e.Message
}

// HTTPError indicates a http error raised in a http client.
type HTTPError struct {
	EntityType string
	Title      string
	Message    string
	Code       string
	Err        error
}

func (e HTTPError) Error() string {
	return e.Message
}

// FailedPreconditionError indicates a precondition failed during an operation.
type FailedPreconditionError struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string `json:"title,omitempty"`
	Message    string `json:"message,omitempty"`
	Code       string `json:"code,omitempty"`
	Err        error  `json:"err,omitempty"`
}

func (e FailedPreconditionError) Error() string {
	return e.Message
}

// InternalServerError indicates an unexpected failure the caller cannot act on.
type InternalServerError struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string `json:"title,omitempty"`
	Message    string `json:"message,omitempty"`
	Code       string `json:"code,omitempty"`
	Err        error  `json:"err,omitempty"`
}

func (e InternalServerError) Error() string {
	return e.Message
}

// ResponseError is a struct used to return errors to the client.
type ResponseError struct {
	Code    int    `json:"code,omitempty"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
}

// Error returns the message of the ResponseError.
//
// No parameters.
// Returns a string.
func (r ResponseError) Error() string {
	return r.Message
}

// ValidationKnownFieldsError records an error that occurred during a validation of known fields.
type ValidationKnownFieldsError struct {
	EntityType string           `json:"entityType,omitempty"`
	Title      string           `json:"title,omitempty"`
	Code       string           `json:"code,omitempty"`
	Message    string           `json:"message,omitempty"`
	Fields     FieldValidations `json:"fields,omitempty"`
}

// Error returns the error message for a ValidationKnownFieldsError.
//
// No parameters.
// Returns a string.
func (r ValidationKnownFieldsError) Error() string {
	return r.Message
}

// FieldValidations is a map of known fields and their validation errors.
type FieldValidations map[string]string

// ValidationUnknownFieldsError records an error that occurred during a validation of known fields.
type ValidationUnknownFieldsError struct {
	EntityType string        `json:"entityType,omitempty"`
	Title      string        `json:"title,omitempty"`
	Code       string        `json:"code,omitempty"`
	Message    string        `json:"message,omitempty"`
	Fields     UnknownFields `json:"fields,omitempty"`
}

// Error returns the error message for a ValidationUnknownFieldsError.
//
// No parameters.
// Returns a string.
func (r ValidationUnknownFieldsError) Error() string {
	return r.Message
}

// UnknownFields is a map of unknown fields and their error messages.
type UnknownFields map[string]any

// Methods to create errors for different scenarios:

// ValidateInternalError validates the error and returns an appropriate InternalServerError.
//
// Parameters:
// - err: The error to be validated.
// - entityType: The type of the entity associated with the error.
//
// Returns:
// - An InternalServerError with the appropriate code, title, message.
func ValidateInternalError(err error, entityType string) error {
	return InternalServerError{
		EntityType: entityType,
		Code:       constant.ErrInternalServer.Error(),
		Title:      "Internal Server Error",
		Message:    "The server encountered an unexpected error. Please try again later or contact support.",
		Err:        err,
	}
}

// ValidateBadRequestFieldsError validates the error and returns the appropriate bad request error code, title, message, and the invalid fields.
//
// Parameters:
// - requiredFields: A map of missing required fields and their error messages.
// - knownInvalidFields: A map of known invalid fields and their validation errors.
// - entityType: The type of the entity associated with the error.
// - unknownFields: A map of unknown fields and their error messages.
//
// Returns:
// - An error indicating the validation result, which could be a ValidationUnknownFieldsError or a ValidationKnownFieldsError.
func ValidateBadRequestFieldsError(requiredFields, knownInvalidFields map[string]string, entityType string, unknownFields map[string]any) error {
	if len(unknownFields) == 0 && len(knownInvalidFields) == 0 && len(requiredFields) == 0 {
		return errors.New("expected knownInvalidFields, unknownFields and requiredFields to be non-empty")
	}

	if len(unknownFields) > 0 {
		return ValidationUnknownFieldsError{
			EntityType: entityType,
			Code:       constant.ErrUnexpectedFieldsInTheRequest.Error(),
			Title:      "Unexpected Fields in the Request",
			Message:    "The request body contains more fields than expected. Please send only the allowed fields as per the documentation. The unexpected fields are listed in the fields object.",
			Fields:     unknownFields,
		}
	}

	if len(requiredFields) > 0 {
		return ValidationKnownFieldsError{
			EntityType: entityType,
			Code:       constant.ErrMissingFieldsInRequest.Error(),
			Title:      "Missing Fields in Request",
			Message:    "Your request is missing one or more required fields. Please refer to the documentation to ensure all necessary fields are included in your request.",
			Fields:     requiredFields,
		}
	}

	return ValidationKnownFieldsError{
		EntityType: entityType,
		Code:       constant.ErrBadRequest.Error(),
		Title:      "Bad Request",
		Message:    "The server could not understand the request due to malformed syntax. Please check the listed fields and try again.",
		Fields:     knownInvalidFields,
	}
}

// ValidateBusinessError validates the error and returns the appropriate business error code, title, and message.
// error: The appropriate business error with code, title, and message.
func ValidateBusinessError(err error, entityType string, args ...any) error {
	errorMap := map[error]error{
		constant.ErrMissingRequiredFields: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrMissingRequiredFields.Error(),
			Title:      "Missing Required Fields",
			Message:    "One or more required fields are missing or empty. Please fill in all required fields and try again.",
		},
		constant.ErrInvalidHeaderParameter: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrInvalidHeaderParameter.Error(),
			Title:      "Invalid Header Parameter",
			Message:    fmt.Sprintf("The header '%v' is in an incorrect format. Please check the header value and try again.", args),
		},
		constant.ErrInvalidPathParameter: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrInvalidPathParameter.Error(),
			Title:      "Invalid Path Parameter",
			Message:    fmt.Sprintf("One or more path parameters are in an incorrect format. Please check the following parameters '%v' and ensure they meet the required format before trying again.", args),
		},
		constant.ErrInvalidQueryParameter: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrInvalidQueryParameter.Error(),
			Title:      "Invalid Query Parameter",
			Message:    fmt.Sprintf("One or more query parameters are in an incorrect format. Please check the following parameters '%v' and ensure they meet the required format before trying again.", args),
		},
		constant.ErrEntityNotFound: EntityNotFoundError{
			EntityType: entityType,
			Code:       constant.ErrEntityNotFound.Error(),
			Title:      "Entity Not Found",
			Message:    "No entity was found for the given ID. Please make sure to use the correct ID for the entity you are trying to manage.",
		},
		constant.ErrDuplicateFeedName: EntityConflictError{
			EntityType: entityType,
			Code:       constant.ErrDuplicateFeedName.Error(),
			Title:      "Duplicate Feed Name",
			Message:    fmt.Sprintf("A feed named '%v' already exists. Please choose a different name and try again.", args...),
		},
		constant.ErrInvalidSourceURL: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrInvalidSourceURL.Error(),
			Title:      "Invalid Source URL",
			Message:    "The source URL must be a valid absolute http or https URL. Please verify the address and try again.",
		},
		constant.ErrBadRequest: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrBadRequest.Error(),
			Title:      "Bad Request",
			Message:    "The server could not understand the request due to malformed syntax. Please check the request and try again.",
		},
		constant.ErrInvalidFeedID: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrInvalidFeedID.Error(),
			Title:      "Invalid Feed ID",
			Message:    "The provided feed ID is not a valid UUID. Please verify the ID and try again.",
		},
		constant.ErrPaginationLimitExceeded: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrPaginationLimitExceeded.Error(),
			Title:      "Pagination Limit Exceeded",
			Message:    fmt.Sprintf("The pagination limit exceeds the maximum allowed of %v items per page. Please verify the limit and try again.", args...),
		},
		constant.ErrInvalidSortOrder: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrInvalidSortOrder.Error(),
			Title:      "Invalid Sort Order",
			Message:    "The 'sort_order' field must be 'asc' or 'desc'. Please provide a valid sort order and try again.",
		},
		constant.ErrMetadataKeyLengthExceeded: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrMetadataKeyLengthExceeded.Error(),
			Title:      "Metadata Key Length Exceeded",
			Message:    fmt.Sprintf("The metadata key %v exceeds the maximum allowed length of %v characters. Please use a shorter key.", args...),
		},
		constant.ErrMetadataValueLengthExceeded: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrMetadataValueLengthExceeded.Error(),
			Title:      "Metadata Value Length Exceeded",
			Message:    fmt.Sprintf("The metadata value %v exceeds the maximum allowed length of %v characters. Please use a shorter value.", args...),
		},
		constant.ErrInvalidMetadataNesting: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrInvalidMetadataNesting.Error(),
			Title:      "Invalid Metadata Nesting",
			Message:    fmt.Sprintf("The metadata object cannot contain nested values. Please ensure that the value %v is not nested and try again.", args...),
		},
		constant.ErrFeedStatusNotSynced: UnprocessableOperationError{
			EntityType: entityType,
			Code:       constant.ErrFeedStatusNotSynced.Error(),
			Title:      "Feed Not Synced",
			Message:    "The feed has not completed a successful synchronization yet. Please trigger a sync and try again once it finishes.",
		},
		constant.ErrInvalidEntryAmount: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrInvalidEntryAmount.Error(),
			Title:      "Invalid Entry Amount",
			Message:    fmt.Sprintf("The entry amount '%v' is not a valid decimal number. Please check the upstream source data.", args...),
		},
		constant.ErrInvalidEntryTimestamp: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrInvalidEntryTimestamp.Error(),
			Title:      "Invalid Entry Timestamp",
			Message:    fmt.Sprintf("The entry timestamp '%v' is not a valid RFC 3339 date-time. Please check the upstream source data.", args...),
		},
		constant.ErrSyncAlreadyRunning: EntityConflictError{
			EntityType: entityType,
			Code:       constant.ErrSyncAlreadyRunning.Error(),
			Title:      "Sync Already Running",
			Message:    "A synchronization is already in progress for this feed. Please wait for it to finish before triggering another one.",
		},
		constant.ErrNilItems: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrNilItems.Error(),
			Title:      "Nil Items",
			Message:    "The items sequence of a page must not be nil. Provide an empty list for a page with no results.",
		},
		constant.ErrInvalidPageCursor: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrInvalidPageCursor.Error(),
			Title:      "Invalid Page Cursor",
			Message:    "The provided page cursor is malformed or expired. Please restart pagination from the first page.",
		},
		constant.ErrPageWalkLimitExceeded: UnprocessableOperationError{
			EntityType: entityType,
			Code:       constant.ErrPageWalkLimitExceeded.Error(),
			Title:      "Page Walk Limit Exceeded",
			Message:    fmt.Sprintf("The aggregation walk exceeded the maximum of %v pages. The upstream pager may be returning a cycle.", args...),
		},
		constant.ErrSourcePageFetch: FailedPreconditionError{
			EntityType: entityType,
			Code:       constant.ErrSourcePageFetch.Error(),
			Title:      "Source Page Fetch Failed",
			Message:    fmt.Sprintf("The upstream source could not serve the requested page: %v. Please check the source availability and try again.", args...),
		},
	}

	if mappedError, found := errorMap[err]; found {
		return mappedError
	}

	return err
}

// IsBusinessError reports whether err is one of the typed domain errors
// produced by ValidateBusinessError. Business errors describe a request that
// can never succeed as-is, so callers treat them differently from
// infrastructure failures: no retries, no error-level span status.
func IsBusinessError(err error) bool {
	if err == nil {
		return false
	}

	var (
		validationErr    ValidationError
		notFoundErr      EntityNotFoundError
		conflictErr      EntityConflictError
		knownFieldsErr   ValidationKnownFieldsError
		unknownFieldsErr ValidationUnknownFieldsError
		unprocessableErr UnprocessableOperationError
		forbiddenErr     ForbiddenError
		unauthorizedErr  UnauthorizedError
		preconditionErr  FailedPreconditionError
	)

	return errors.As(err, &validationErr) ||
		errors.As(err, &notFoundErr) ||
		errors.As(err, &conflictErr) ||
		errors.As(err, &knownFieldsErr) ||
		errors.As(err, &unknownFieldsErr) ||
		errors.As(err, &unprocessableErr) ||
		errors.As(err, &forbiddenErr) ||
		errors.As(err, &unauthorizedErr) ||
		errors.As(err, &preconditionErr)
}
