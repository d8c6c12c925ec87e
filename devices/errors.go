package devices

import "strings"

// ErrorSet defines a list of one or more errors and is itself an error.
type ErrorSet []error

// Len returns the number of errors in the set.
func (e ErrorSet) Len() int {
	return len(e)
}

// Append adds the non-nil errors in args to the set.
func (e *ErrorSet) Append(args ...error) {
	for _, err := range args {
		if err != nil {
			*e = append(*e, err)
		}
	}
}

// Err returns the set as an error, or nil if it is empty.
func (e ErrorSet) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Unwrap exposes the members of the set to errors.Is and errors.As.
func (e ErrorSet) Unwrap() []error {
	return e
}

func (e ErrorSet) Error() string {
	var sb strings.Builder
	for i, err := range e {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}
