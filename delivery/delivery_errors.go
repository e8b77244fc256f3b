package delivery

import (
	"errors"
	"fmt"
)

var (
	PartnerNotFoundErr  = errors.New("partner not found")
	CustomerNotFoundErr = errors.New("customer not found")
	OrderNotFoundErr    = errors.New("order not found")
)

// StatusError is returned for any non-2xx backend response. Callers that
// care which rejection they got (the location reporter's suppression policy,
// screens distinguishing client errors) match on Code.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Body)
}

// StatusCode exposes the HTTP status without importing this package's
// concrete type; see location.Reporter's suppression check.
func (e *StatusError) StatusCode() int {
	return e.Code
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
