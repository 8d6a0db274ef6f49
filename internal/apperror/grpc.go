package apperror

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToGRPC converts an error to a gRPC status error.
// Anything that is not an *Error is reported as Internal without leaking detail.
func ToGRPC(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if !errors.As(err, &appErr) {
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(GRPCCode(appErr.Code), appErr.Message)
}

func GRPCCode(c Code) codes.Code {
	switch c {
	case CodeInvalidArgument:
		return codes.InvalidArgument
	case CodeNotFound:
		return codes.NotFound
	case CodeInvariantViolation:
		return codes.FailedPrecondition
	case CodeConflict:
		return codes.Aborted
	case CodeUnavailable:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}
