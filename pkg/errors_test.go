// Copyright (c) 2025 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package pkg

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/LerianStudio/datafeed/pkg/constant"
	"github.com/stretchr/testify/assert"
)

func TestEntityNotFoundError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      EntityNotFoundError
		expected string
	}{
		{
			name: "With message",
			err: EntityNotFoundError{
				Message: "custom message",
			},
			expected: "custom message",
		},
		{
			name: "With entity type, no message",
			err: EntityNotFoundError{
				EntityType: "Feed",
			},
			expected: "Entity Feed not found",
		},
		{
			name: "With wrapped error, no message",
			err: EntityNotFoundError{
				Err: errors.New("underlying error"),
			},
			expected: "underlying error",
		},
		{
			name:     "Empty - default message",
			err:      EntityNotFoundError{},
			expected: "entity not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestEntityNotFoundError_Unwrap(t *testing.T) {
	wrappedErr := errors.New("wrapped error")
	err := EntityNotFoundError{
		Err: wrappedErr,
	}

	assert.Equal(t, wrappedErr, err.Unwrap())
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      ValidationError
		expected string
	}{
		{
			name: "With code and message",
			err: ValidationError{
				Code:    "ERR001",
				Message: "validation failed",
			},
			expected: "ERR001 - validation failed",
		},
		{
			name: "Message only",
			err: ValidationError{
				Message: "validation failed",
			},
			expected: "validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestValidationError_Unwrap(t *testing.T) {
	wrappedErr := errors.New("wrapped error")
	err := ValidationError{
		Err: wrappedErr,
	}

	assert.Equal(t, wrappedErr, err.Unwrap())
}

func TestEntityConflictError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      EntityConflictError
		expected string
	}{
		{
			name: "With message",
			err: EntityConflictError{
				Message: "conflict detected",
			},
			expected: "conflict detected",
		},
		{
			name: "With wrapped error, no message",
			err: EntityConflictError{
				Err: errors.New("db conflict"),
			},
			expected: "db conflict",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestEntityConflictError_Unwrap(t *testing.T) {
	wrappedErr := errors.New("wrapped error")
	err := EntityConflictError{
		Err: wrappedErr,
	}

	assert.Equal(t, wrappedErr, err.Unwrap())
}

func TestUnauthorizedError_Error(t *testing.T) {
	err := UnauthorizedError{
		Message: "unauthorized access",
	}
	assert.Equal(t, "unauthorized access", err.Error())
}

func TestForbiddenError_Error(t *testing.T) {
	err := ForbiddenError{
		Message: "forbidden action",
	}
	assert.Equal(t, "forbidden action", err.Error())
}

func TestUnprocessableOperationError_Error(t *testing.T) {
	err := UnprocessableOperationError{
		Message: "cannot process",
	}
	assert.Equal(t, "cannot process", err.Error())
}

func TestHTTPError_Error(t *testing.T) {
	err := HTTPError{
		Message: "http error",
	}
	assert.Equal(t, "http error", err.Error())
}

func TestFailedPreconditionError_Error(t *testing.T) {
	err := FailedPreconditionError{
		Message: "precondition failed",
	}
	assert.Equal(t, "precondition failed", err.Error())
}

func TestInternalServerError_Error(t *testing.T) {
	err := InternalServerError{
		Message: "internal error",
	}
	assert.Equal(t, "internal error", err.Error())
}

func TestResponseError_Error(t *testing.T) {
	err := ResponseError{
		Code:    500,
		Title:   "Internal Error",
		Message: "something went wrong",
	}
	assert.Equal(t, "something went wrong", err.Error())
}

func TestValidationKnownFieldsError_Error(t *testing.T) {
	err := ValidationKnownFieldsError{
		Message: "field validation error",
		Fields: FieldValidations{
			"name": "required",
		},
	}
	assert.Equal(t, "field validation error", err.Error())
}

func TestValidationUnknownFieldsError_Error(t *testing.T) {
	err := ValidationUnknownFieldsError{
		Message: "unknown fields error",
		Fields: UnknownFields{
			"extra_field": "not allowed",
		},
	}
	assert.Equal(t, "unknown fields error", err.Error())
}

func TestValidateInternalError(t *testing.T) {
	originalErr := errors.New("database connection failed")
	err := ValidateInternalError(originalErr, "feed")

	internalErr, ok := err.(InternalServerError)
	assert.True(t, ok)
	assert.Equal(t, "feed", internalErr.EntityType)
	assert.Equal(t, constant.ErrInternalServer.Error(), internalErr.Code)
	assert.Equal(t, "Internal Server Error", internalErr.Title)
	assert.Contains(t, internalErr.Message, "unexpected error")
}

func TestValidateBadRequestFieldsError(t *testing.T) {
	tests := []struct {
		name               string
		requiredFields     map[string]string
		knownInvalidFields map[string]string
		entityType         string
		unknownFields      map[string]any
		expectedType       string
	}{
		{
			name:               "Unknown fields error",
			requiredFields:     nil,
			knownInvalidFields: nil,
			entityType:         "feed",
			unknownFields:      map[string]any{"extra": "value"},
			expectedType:       "ValidationUnknownFieldsError",
		},
		{
			name:               "Required fields error",
			requiredFields:     map[string]string{"name": "required"},
			knownInvalidFields: nil,
			entityType:         "feed",
			unknownFields:      nil,
			expectedType:       "ValidationKnownFieldsError",
		},
		{
			name:               "Known invalid fields error",
			requiredFields:     nil,
			knownInvalidFields: map[string]string{"sourceUrl": "invalid"},
			entityType:         "feed",
			unknownFields:      nil,
			expectedType:       "ValidationKnownFieldsError",
		},
		{
			name:               "All empty - returns error",
			requiredFields:     nil,
			knownInvalidFields: nil,
			entityType:         "feed",
			unknownFields:      nil,
			expectedType:       "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBadRequestFieldsError(tt.requiredFields, tt.knownInvalidFields, tt.entityType, tt.unknownFields)
			assert.NotNil(t, err)

			switch tt.expectedType {
			case "ValidationUnknownFieldsError":
				_, ok := err.(ValidationUnknownFieldsError)
				assert.True(t, ok)
			case "ValidationKnownFieldsError":
				_, ok := err.(ValidationKnownFieldsError)
				assert.True(t, ok)
			case "error":
				assert.Contains(t, err.Error(), "expected")
			}
		})
	}
}

func TestValidateBusinessError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		entityType   string
		args         []any
		expectedType string
	}{
		{
			name:         "Entity not found",
			err:          constant.ErrEntityNotFound,
			entityType:   "feed",
			args:         []any{"feed"},
			expectedType: "EntityNotFoundError",
		},
		{
			name:         "Invalid query parameter",
			err:          constant.ErrInvalidQueryParameter,
			entityType:   "entry",
			args:         []any{"limit"},
			expectedType: "ValidationError",
		},
		{
			name:         "Missing required fields",
			err:          constant.ErrMissingRequiredFields,
			entityType:   "feed",
			args:         nil,
			expectedType: "ValidationError",
		},
		{
			name:         "Duplicate feed name",
			err:          constant.ErrDuplicateFeedName,
			entityType:   "feed",
			args:         []any{"settlements"},
			expectedType: "EntityConflictError",
		},
		{
			name:         "Sync already running",
			err:          constant.ErrSyncAlreadyRunning,
			entityType:   "feed",
			args:         nil,
			expectedType: "EntityConflictError",
		},
		{
			name:         "Nil items",
			err:          constant.ErrNilItems,
			entityType:   "PagedCollection",
			args:         nil,
			expectedType: "ValidationError",
		},
		{
			name:         "Invalid page cursor",
			err:          constant.ErrInvalidPageCursor,
			entityType:   "entry",
			args:         nil,
			expectedType: "ValidationError",
		},
		{
			name:         "Page walk limit exceeded",
			err:          constant.ErrPageWalkLimitExceeded,
			entityType:   "feed",
			args:         []any{10000},
			expectedType: "UnprocessableOperationError",
		},
		{
			name:         "Source page fetch failed",
			err:          constant.ErrSourcePageFetch,
			entityType:   "feed",
			args:         []any{"status 502"},
			expectedType: "FailedPreconditionError",
		},
		{
			name:         "Unknown error - returns original",
			err:          errors.New("unknown error"),
			entityType:   "feed",
			args:         nil,
			expectedType: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateBusinessError(tt.err, tt.entityType, tt.args...)
			assert.NotNil(t, result)

			switch tt.expectedType {
			case "EntityNotFoundError":
				_, ok := result.(EntityNotFoundError)
				assert.True(t, ok)
			case "EntityConflictError":
				_, ok := result.(EntityConflictError)
				assert.True(t, ok)
			case "ValidationError":
				_, ok := result.(ValidationError)
				assert.True(t, ok)
			case "UnprocessableOperationError":
				_, ok := result.(UnprocessableOperationError)
				assert.True(t, ok)
			case "FailedPreconditionError":
				_, ok := result.(FailedPreconditionError)
				assert.True(t, ok)
			case "error":
				assert.Equal(t, tt.err, result)
			}
		})
	}
}

func TestValidateBusinessError_AllMappedErrors(t *testing.T) {
	// Test all mapped errors to ensure they return correct types
	mappedErrors := []error{
		constant.ErrMissingRequiredFields,
		constant.ErrInvalidHeaderParameter,
		constant.ErrInvalidPathParameter,
		constant.ErrInvalidQueryParameter,
		constant.ErrEntityNotFound,
		constant.ErrDuplicateFeedName,
		constant.ErrInvalidSourceURL,
		constant.ErrBadRequest,
		constant.ErrInvalidFeedID,
		constant.ErrPaginationLimitExceeded,
		constant.ErrInvalidSortOrder,
		constant.ErrMetadataKeyLengthExceeded,
		constant.ErrMetadataValueLengthExceeded,
		constant.ErrInvalidMetadataNesting,
		constant.ErrFeedStatusNotSynced,
		constant.ErrSyncAlreadyRunning,
		constant.ErrNilItems,
		constant.ErrInvalidPageCursor,
		constant.ErrPageWalkLimitExceeded,
		constant.ErrSourcePageFetch,
	}

	for _, err := range mappedErrors {
		t.Run(err.Error(), func(t *testing.T) {
			result := ValidateBusinessError(err, "test", "arg1", "arg2")
			assert.NotNil(t, result)
			// All mapped errors should return a different type than the original
			assert.NotEqual(t, err, result)
		})
	}
}

func TestIsBusinessError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "validation error",
			err:  ValidationError{Code: "DTF-0009", Title: "Bad Request", Message: "invalid payload"},
			want: true,
		},
		{
			name: "entity not found error",
			err:  EntityNotFoundError{Code: "DTF-0007", Title: "Entity Not Found"},
			want: true,
		},
		{
			name: "entity conflict error",
			err:  EntityConflictError{Code: "DTF-0002", Title: "Duplicate Feed Name"},
			want: true,
		},
		{
			name: "validation known fields error",
			err:  ValidationKnownFieldsError{Code: "DTF-0009", Fields: FieldValidations{"name": "required"}},
			want: true,
		},
		{
			name: "validation unknown fields error",
			err:  ValidationUnknownFieldsError{Code: "DTF-0009", Fields: UnknownFields{"bogus": "x"}},
			want: true,
		},
		{
			name: "unprocessable operation error",
			err:  UnprocessableOperationError{Code: "DTF-0016", Title: "Feed Not Synced"},
			want: true,
		},
		{
			name: "forbidden error",
			err:  ForbiddenError{Code: "DTF-0100", Title: "Forbidden"},
			want: true,
		},
		{
			name: "unauthorized error",
			err:  UnauthorizedError{Code: "DTF-0101", Title: "Unauthorized"},
			want: true,
		},
		{
			name: "failed precondition error",
			err:  FailedPreconditionError{Code: "DTF-0017", Title: "Sync Already Running"},
			want: true,
		},
		{
			name: "wrapped business error",
			err:  fmt.Errorf("handling message: %w", ValidateBusinessError(constant.ErrSyncAlreadyRunning, "feed")),
			want: true,
		},
		{
			name: "plain technical error",
			err:  errors.New("connection refused"),
			want: false,
		},
		{
			name: "wrapped technical error",
			err:  fmt.Errorf("fetching page: %w", errors.New("dial tcp: i/o timeout")),
			want: false,
		},
		{
			name: "context cancellation",
			err:  context.Canceled,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBusinessError(tt.err))
		})
	}
}
