package httpwrap

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

// HTTPError is a non-2xx response, kept with its body for diagnostics.
type HTTPError struct {
	Status     string
	StatusCode int
	Body       []byte
	Err        error
}

func (e HTTPError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
}

func (e HTTPError) Unwrap() error {
	return e.Err
}

func (e HTTPError) Log() {
	logrus.WithFields(logrus.Fields{
		"status":  e.Status,
		"content": string(e.Body),
	}).Error("Unexpected response status")
}

// IsUnauthorized reports whether err is an HTTPError with status 401.
func IsUnauthorized(err error) bool {
	var httpErr HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusUnauthorized
}

// StatusOf returns the status code and body of an HTTPError in err's chain,
// or 0 and nil when err did not come from a response.
func StatusOf(err error) (int, []byte) {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode, httpErr.Body
	}
	return 0, nil
}
