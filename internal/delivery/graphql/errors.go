package graphql

import (
	"context"
	"log/slog"
	"net/http"

	deliverycontext "identity/internal/delivery/context"
	domainerrors "identity/internal/domain/errors"
	"identity/internal/errors"
)

// resolverError is what resolvers hand back to graphql-go. It implements
// gqlerrors.ExtendedError so the machine code lands in errors[].extensions.code.
type resolverError struct {
	code    string
	message string
}

func (e *resolverError) Error() string {
	return e.message
}

// Extensions implements gqlerrors.ExtendedError.
func (e *resolverError) Extensions() map[string]any {
	return map[string]any{"code": e.code}
}

// fail converts a use case error into a client-safe resolver error.
// Server-side failures are logged and reported without their cause.
func (r *resolver) fail(ctx context.Context, operation string, err error) error {
	logger := deliverycontext.GetLoggerOrDefault(ctx, r.logger)

	var appErr domainerrors.AppError
	if !errors.As(err, &appErr) {
		logger.Error("Unhandled resolver error", slog.String("operation", operation), slog.Any("error", err))

		return &resolverError{
			code:    domainerrors.ErrInternalError.ErrorCode(),
			message: domainerrors.ErrInternalError.Message(),
		}
	}

	if appErr.HTTPCode() >= http.StatusInternalServerError {
		logger.Error("Resolver failed", slog.String("operation", operation), slog.Any("error", err))

		return &resolverError{code: appErr.ErrorCode(), message: appErr.Message()}
	}

	message := appErr.Message()
	if details := appErr.Details(); details != "" {
		message += ": " + details
	}

	return &resolverError{code: appErr.ErrorCode(), message: message}
}
