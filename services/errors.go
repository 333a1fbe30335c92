package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yashrajoria/storefront/clients"
	"github.com/yashrajoria/storefront/repository"
)

// ServiceError represents a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Unauthenticated reports whether the caller must sign in first.
func (e *ServiceError) Unauthenticated() bool {
	return e != nil && e.StatusCode == http.StatusUnauthorized
}

// operationFailed collapses err into "<op> failed: <message>". Remote status codes
// below 500 are kept so a rejected request is not reported as a server fault.
func operationFailed(op string, err error) *ServiceError {
	status := http.StatusBadGateway
	var remote *clients.RemoteError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.As(err, &remote) && remote.Status < 500:
		status = remote.Status
	}
	return &ServiceError{StatusCode: status, Message: fmt.Sprintf("%s failed: %s", op, err.Error())}
}
