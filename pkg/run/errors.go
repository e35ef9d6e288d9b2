package run

import "strings"

// Errors collects multiple failures into one error value.
type Errors []error

// Error implements error.
func (e Errors) Error() string {
	msg := make([]string, len(e))
	for n, err := range e {
		msg[n] = err.Error()
	}
	return strings.Join(msg, "; ")
}

// Append adds non-nil errors to the collection.
func (e Errors) Append(errs ...error) Errors {
	for _, err := range errs {
		if err != nil {
			e = append(e, err)
		}
	}
	return e
}

// Err returns nil when nothing was collected.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
