package errors

import (
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If given errors contain a multi error instance, it is flattened so that the
// result is never a nested multi error.
func Append(errs ...error) error {
	var res multiError
	for _, e := range errs {
		switch e := e.(type) {
		case nil:
			continue
		case multiError:
			res = append(res, e...)
		default:
			if !isNilErr(e) {
				res = append(res, e)
			}
		}
	}

	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

type multiError []error

var _ error = (multiError)(nil)
var _ unpacker = (multiError)(nil)

func (e multiError) Error() string {
	switch len(e) {
	case 0:
		return "<nil>"
	case 1:
		return e[0].Error()
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Code returns the code of the first contained error, consistent with the
// fail fast approach of guard evaluation.
func (e multiError) Code() uint32 {
	if len(e) == 0 {
		return 0
	}
	return Code(e[0])
}

// Cause returns the cause of the first contained error, consistent with Code.
func (e multiError) Cause() error {
	if len(e) == 0 {
		return nil
	}
	if c, ok := e[0].(causer); ok {
		return c.Cause()
	}
	return e[0]
}

// Unpack returns all errors this instance is clubbing together.
func (e multiError) Unpack() []error {
	return e
}

// unpacker is implemented by errors that represent a collection of errors.
type unpacker interface {
	Unpack() []error
}
