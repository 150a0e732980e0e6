package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/recoveryvault/internal/common"
	"github.com/dmitrijs2005/recoveryvault/internal/journal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// statusFor maps a service error to a gRPC status. Sentinel errors keep
// their text so the client can map them back.
func (s *GRPCServer) statusFor(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, common.ErrorNotFound.Error())
	case errors.Is(err, common.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, common.ErrAlreadyExists.Error())
	case errors.Is(err, common.ErrConfirmationMismatch):
		return status.Error(codes.InvalidArgument, common.ErrConfirmationMismatch.Error())
	case errors.Is(err, common.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrInvalidPin):
		return status.Error(codes.Unauthenticated, common.ErrInvalidPin.Error())
	case errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, common.ErrorUnauthorized.Error())
	case errors.Is(err, common.ErrTooManyAttempts):
		return status.Error(codes.ResourceExhausted, common.ErrTooManyAttempts.Error())
	}

	s.logger.Error(ctx, "request failed", "error", err)

	var pe *journal.PurgeError
	if errors.As(err, &pe) {
		return status.Error(codes.Internal, pe.Error())
	}
	return status.Error(codes.Internal, "internal error")
}
