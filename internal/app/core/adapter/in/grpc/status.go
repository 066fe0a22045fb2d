package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/JoeShih716/go-ledger/internal/app/core/domain"
)

// statusError 帶著原始錯誤的 gRPC status，攔截器仍可用 errors.Is / domain.KindOf 判斷
type statusError struct {
	cause error
	st    *status.Status
}

func (e *statusError) Error() string { return e.st.Err().Error() }

func (e *statusError) GRPCStatus() *status.Status { return e.st }

func (e *statusError) Unwrap() error { return e.cause }

// toStatus 將 usecase 錯誤轉為 gRPC status
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return &statusError{cause: err, st: status.New(codeOf(err), err.Error())}
}

func codeOf(err error) codes.Code {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return codes.NotFound
	case errors.Is(err, domain.ErrAccountAlreadyExists):
		return codes.AlreadyExists
	case errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrUnknownCurrency),
		errors.Is(err, domain.ErrInvalidScale):
		return codes.InvalidArgument
	case errors.Is(err, domain.ErrConcurrentUpdate):
		return codes.Aborted
	case errors.Is(err, domain.ErrConcurrentInsert),
		errors.Is(err, domain.ErrAccountDisappeared):
		return codes.Internal
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	default:
		return codes.Internal
	}
}
