// Copyright (c) 2025 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package http

import (
	"github.com/LerianStudio/datafeed/pkg"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

// WithError translates a typed business error into its HTTP response.
// Targets are matched through errors.As, so services may annotate errors
// with fmt.Errorf("...: %w", err) without changing the status the client
// sees. Anything that is not a typed business error becomes a 500 with the
// generic internal-error body.
func WithError(c *fiber.Ctx, err error) error {
	var (
		notFound      pkg.EntityNotFoundError
		conflict      pkg.EntityConflictError
		validation    pkg.ValidationError
		knownFields   pkg.ValidationKnownFieldsError
		unknownFields pkg.ValidationUnknownFieldsError
		unprocessable pkg.UnprocessableOperationError
		precondition  pkg.FailedPreconditionError
		unauthorized  pkg.UnauthorizedError
		forbidden     pkg.ForbiddenError
		response      pkg.ResponseError
	)

	switch {
	case errors.As(err, &notFound):
		return NotFound(c, notFound.Code, notFound.Title, notFound.Message)
	case errors.As(err, &conflict):
		return Conflict(c, conflict.Code, conflict.Title, conflict.Message)
	case errors.As(err, &knownFields):
		return BadRequest(c, knownFields)
	case errors.As(err, &unknownFields):
		return BadRequest(c, unknownFields)
	case errors.As(err, &validation):
		return BadRequest(c, pkg.ValidationKnownFieldsError{
			Code:    validation.Code,
			Title:   validation.Title,
			Message: validation.Message,
		})
	case errors.As(err, &unprocessable):
		return UnprocessableEntity(c, unprocessable.Code, unprocessable.Title, unprocessable.Message)
	case errors.As(err, &precondition):
		return UnprocessableEntity(c, precondition.Code, precondition.Title, precondition.Message)
	case errors.As(err, &unauthorized):
		return Unauthorized(c, unauthorized.Code, unauthorized.Title, unauthorized.Message)
	case errors.As(err, &forbidden):
		return Forbidden(c, forbidden.Code, forbidden.Title, forbidden.Message)
	case errors.As(err, &response):
		return JSONResponseError(c, response)
	default:
		var internal pkg.InternalServerError

		_ = errors.As(pkg.ValidateInternalError(err, ""), &internal)

		return InternalServerError(c, internal.Code, internal.Title, internal.Message)
	}
}
