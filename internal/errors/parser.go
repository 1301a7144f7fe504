package errors

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"go.mongodb.org/mongo-driver/mongo"
)

type ErrorInfo struct {
	Code    string
	Message string
}

// FromDomain maps an error from the service layer to an HTTP status and error code.
// Storage failures never leak their text to the client.
func FromDomain(err error) (int, ErrorInfo) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, ErrorInfo{InternalServerError, "internal server error"}
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, ErrorInfo{ResourceNotFound, notFoundMessage(err)}
	case errors.Is(err, repository.ErrEmptyCart):
		return http.StatusUnprocessableEntity, ErrorInfo{CartEmpty, repository.ErrEmptyCart.Error()}
	case errors.Is(err, repository.ErrInvalidState):
		return http.StatusConflict, ErrorInfo{OrderInvalidState, repository.ErrInvalidState.Error()}
	case errors.Is(err, repository.ErrInsufficientStock):
		return http.StatusConflict, ErrorInfo{OrderInsufficientStock, err.Error()}
	case errors.Is(err, repository.ErrUnsupported):
		return http.StatusNotImplemented, ErrorInfo{ReportUnsupported, repository.ErrUnsupported.Error()}
	case errors.Is(err, repository.ErrInvalidQuantity):
		return http.StatusBadRequest, ErrorInfo{ValidationInvalidQty, repository.ErrInvalidQuantity.Error()}
	case errors.Is(err, repository.ErrInvalidPaymentStatus):
		return http.StatusBadRequest, ErrorInfo{ValidationInvalidPayment, repository.ErrInvalidPaymentStatus.Error()}
	}
	return parseStorageError(err)
}

// notFoundMessage keeps the entity prefix ("order not found") but drops wrapping context.
func notFoundMessage(err error) string {
	for _, known := range []error{repository.ErrUserNotFound, repository.ErrProductNotFound, repository.ErrOrderNotFound} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return repository.ErrNotFound.Error()
}

func parseStorageError(err error) (int, ErrorInfo) {
	if mongo.IsDuplicateKeyError(err) {
		return http.StatusConflict, ErrorInfo{ResourceAlreadyExists, "resource already exists"}
	}
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return http.StatusServiceUnavailable, ErrorInfo{InternalUnavailable, "storage is unavailable, try again later"}
	}

	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "duplicate key") || strings.Contains(lower, "unique constraint"):
		return http.StatusConflict, ErrorInfo{ResourceAlreadyExists, "resource already exists"}
	case strings.Contains(lower, "connection refused") || strings.Contains(lower, "no such host"):
		return http.StatusServiceUnavailable, ErrorInfo{InternalUnavailable, "storage is unavailable, try again later"}
	case strings.Contains(lower, "sql") || strings.Contains(lower, "constraint"):
		return http.StatusInternalServerError, ErrorInfo{InternalDatabaseError, "database error"}
	}
	return http.StatusInternalServerError, ErrorInfo{InternalServerError, "internal server error"}
}
