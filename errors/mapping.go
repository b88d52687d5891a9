package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MapToGRPCError converts a domain error into a gRPC status error.
// Errors that already carry a status are returned unchanged.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(grpcCode(err), err.Error())
}

func grpcCode(err error) codes.Code {
	switch {
	case Is(err, ErrValidation):
		return codes.InvalidArgument
	case Is(err, ErrAuthorization):
		return codes.PermissionDenied
	case Is(err, ErrRateLimit):
		return codes.ResourceExhausted
	case Is(err, ErrPersistence):
		return codes.Unavailable
	case Is(err, ErrNotFound):
		return codes.NotFound
	case Is(err, ErrUnauthorized):
		return codes.Unauthenticated
	default:
		return codes.Internal
	}
}

// HTTPStatus is the gateway counterpart of MapToGRPCError.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case Is(err, ErrValidation):
		return http.StatusBadRequest
	case Is(err, ErrAuthorization):
		return http.StatusForbidden
	case Is(err, ErrRateLimit):
		return http.StatusTooManyRequests
	case Is(err, ErrPersistence):
		return http.StatusServiceUnavailable
	case Is(err, ErrNotFound):
		return http.StatusNotFound
	case Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
