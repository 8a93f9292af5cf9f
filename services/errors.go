package services

import "net/http"

type ErrorKind string

const (
	KindInvalidInput      ErrorKind = "invalid_input"
	KindNotFound          ErrorKind = "not_found"
	KindUnauthorized      ErrorKind = "unauthorized"
	KindPaymentIncomplete ErrorKind = "payment_incomplete"
	KindNoChange          ErrorKind = "no_change"
	KindGateway           ErrorKind = "gateway_error"
	KindServer            ErrorKind = "server_error"
)

// ServiceError represents a typed error with an HTTP status code.
// Details carries provider or driver text for 5xx responses.
type ServiceError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Details    string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func InvalidInput(msg string) *ServiceError {
	return &ServiceError{Kind: KindInvalidInput, StatusCode: http.StatusBadRequest, Message: msg}
}

func NotFound(msg string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, StatusCode: http.StatusNotFound, Message: msg}
}

func Unauthorized(msg string) *ServiceError {
	return &ServiceError{Kind: KindUnauthorized, StatusCode: http.StatusUnauthorized, Message: msg}
}

func PaymentIncomplete() *ServiceError {
	return &ServiceError{Kind: KindPaymentIncomplete, StatusCode: http.StatusBadRequest, Message: "Payment not completed"}
}

func NoChange() *ServiceError {
	return &ServiceError{Kind: KindNoChange, StatusCode: http.StatusBadRequest, Message: "No changes made"}
}

func GatewayError(msg string, err error) *ServiceError {
	se := &ServiceError{Kind: KindGateway, StatusCode: http.StatusInternalServerError, Message: msg, Err: err}
	if err != nil {
		se.Details = err.Error()
	}
	return se
}

func ServerError(msg string, err error) *ServiceError {
	se := &ServiceError{Kind: KindServer, StatusCode: http.StatusInternalServerError, Message: msg, Err: err}
	if err != nil {
		se.Details = err.Error()
	}
	return se
}
