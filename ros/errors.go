package ros

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrClientClosed is returned by operations on a client that has been closed or has lost its
// connection.
var ErrClientClosed = errors.New("rosbridge client is closed")

// ServiceError is returned when rosbridge reports a failed service call.
type ServiceError struct {
	Service string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service %s failed: %s", e.Service, e.Message)
}

// NewServiceError returns a ServiceError for the given service.
func NewServiceError(service, message string) error {
	return &ServiceError{Service: service, Message: message}
}

// NewTimeoutError is returned when a call does not complete before its deadline.
func NewTimeoutError(what string, err error) error {
	return errors.Wrapf(err, "timed out waiting for %s", what)
}
