package core

import (
	"context"
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	RelayErrorConfigInvalid       = "RELAY_CONFIG_INVALID"
	RelayErrorBadInput            = "RELAY_BAD_INPUT"
	RelayErrorValidationFailed    = "RELAY_VALIDATION_FAILED"
	RelayErrorAdapterNotFound     = "RELAY_ADAPTER_NOT_FOUND"
	RelayErrorTokenExchangeFailed = "RELAY_TOKEN_EXCHANGE_FAILED"
	RelayErrorSessionInvalid      = "RELAY_SESSION_INVALID"
	RelayErrorAuthExpired         = "RELAY_AUTH_EXPIRED"
	RelayErrorDeliveryFailed      = "RELAY_DELIVERY_FAILED"
	RelayErrorRevocationFailed    = "RELAY_REVOCATION_FAILED"
	RelayErrorNetworkFailure      = "RELAY_NETWORK_FAILURE"
	RelayErrorTimeout             = "RELAY_TIMEOUT"
	RelayErrorInternal            = "RELAY_INTERNAL_ERROR"
)

func NewConfigError(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(RelayErrorConfigInvalid)
}

func WrapConfigError(source error, message string) *goerrors.Error {
	if source == nil {
		return NewConfigError(message)
	}
	return goerrors.Wrap(source, goerrors.CategoryBadInput, message).
		WithCode(http.StatusBadRequest).
		WithTextCode(RelayErrorConfigInvalid)
}

func NewBadInputError(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(RelayErrorBadInput)
}

func NewValidationError(field string, message string) *goerrors.Error {
	return goerrors.NewValidation("core: validation failed", goerrors.FieldError{
		Field:   field,
		Message: message,
	}).
		WithCode(http.StatusBadRequest).
		WithTextCode(RelayErrorValidationFailed)
}

func NewAdapterNotFoundError(adapterID string) *goerrors.Error {
	return goerrors.New("core: adapter is not registered: "+strings.TrimSpace(adapterID), goerrors.CategoryNotFound).
		WithCode(http.StatusNotFound).
		WithTextCode(RelayErrorAdapterNotFound)
}

// NewTokenExchangeError surfaces a rejected authorization code. The remote
// status and body travel in metadata so hosts can decide retry versus
// restart without parsing message text.
func NewTokenExchangeError(message string, remoteStatus int, remoteBody string) *goerrors.Error {
	err := goerrors.New(message, goerrors.CategoryExternal).
		WithCode(http.StatusBadGateway).
		WithTextCode(RelayErrorTokenExchangeFailed)
	err.WithMetadata(remoteMetadata(remoteStatus, remoteBody))
	return err
}

func NewSessionInvalidError(cause error) *goerrors.Error {
	message := "core: session is not usable"
	if cause != nil {
		message = cause.Error()
	}
	return goerrors.New(message, goerrors.CategoryAuth).
		WithCode(http.StatusUnauthorized).
		WithTextCode(RelayErrorSessionInvalid)
}

func NewAuthExpiredError(remoteStatus int, remoteBody string) *goerrors.Error {
	err := goerrors.New("core: access token rejected by remote server", goerrors.CategoryAuth).
		WithCode(http.StatusUnauthorized).
		WithTextCode(RelayErrorAuthExpired)
	err.WithMetadata(remoteMetadata(remoteStatus, remoteBody))
	return err
}

func NewDeliveryError(message string, remoteStatus int, remoteBody string) *goerrors.Error {
	err := goerrors.New(message, goerrors.CategoryExternal).
		WithCode(http.StatusBadGateway).
		WithTextCode(RelayErrorDeliveryFailed)
	err.WithMetadata(remoteMetadata(remoteStatus, remoteBody))
	return err
}

func NewRevocationError(message string, remoteStatus int, remoteBody string) *goerrors.Error {
	err := goerrors.New(message, goerrors.CategoryExternal).
		WithCode(http.StatusBadGateway).
		WithTextCode(RelayErrorRevocationFailed)
	err.WithMetadata(remoteMetadata(remoteStatus, remoteBody))
	return err
}

func WrapNetworkError(source error, message string) *goerrors.Error {
	category := goerrors.CategoryExternal
	textCode := RelayErrorNetworkFailure
	if errors.Is(source, context.DeadlineExceeded) {
		textCode = RelayErrorTimeout
	}
	if source == nil {
		return goerrors.New(message, category).
			WithCode(http.StatusBadGateway).
			WithTextCode(textCode)
	}
	return goerrors.Wrap(source, category, message).
		WithCode(http.StatusBadGateway).
		WithTextCode(textCode)
}

func remoteMetadata(status int, body string) map[string]any {
	metadata := map[string]any{}
	if status > 0 {
		metadata["remote_status"] = status
	}
	if trimmed := strings.TrimSpace(body); trimmed != "" {
		metadata["remote_body"] = trimmed
	}
	return metadata
}

// TextCode extracts the relay error kind from any error, mapping foreign
// errors through the default envelope first.
func TextCode(err error) string {
	if err == nil {
		return ""
	}
	mapped := MapError(err)
	if mapped == nil {
		return ""
	}
	return mapped.TextCode
}

// MapError normalizes any error into the relay error envelope.
func MapError(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureRelayErrorEnvelope(richErr)
	}

	if errors.Is(err, ErrSessionRevoked) || errors.Is(err, ErrSessionUnauthenticated) {
		return NewSessionInvalidError(err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ensureRelayErrorEnvelope(
			goerrors.Wrap(err, goerrors.CategoryExternal, "core: request deadline exceeded").
				WithTextCode(RelayErrorTimeout),
		)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "adapter") && strings.Contains(msg, "not registered"):
		return newRelayError(err.Error(), goerrors.CategoryNotFound, RelayErrorAdapterNotFound)
	case strings.Contains(msg, "credentials") || strings.Contains(msg, "config"):
		return newRelayError(err.Error(), goerrors.CategoryBadInput, RelayErrorConfigInvalid)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "empty"):
		return newRelayError(err.Error(), goerrors.CategoryBadInput, RelayErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureRelayErrorEnvelope(mapped)
}

func newRelayError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureRelayErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureRelayErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = relayHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultRelayTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultRelayTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput:
		return RelayErrorBadInput
	case goerrors.CategoryValidation:
		return RelayErrorValidationFailed
	case goerrors.CategoryNotFound:
		return RelayErrorAdapterNotFound
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return RelayErrorSessionInvalid
	case goerrors.CategoryExternal:
		return RelayErrorNetworkFailure
	default:
		return RelayErrorInternal
	}
}

func relayHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
